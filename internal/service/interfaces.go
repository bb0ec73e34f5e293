package service

import (
	"context"

	"github.com/mtlprog/taskdesk/internal/domain"
)

// TaskStore reads and writes tasks.
type TaskStore interface {
	GetByID(ctx context.Context, taskID string) (*domain.Task, error)
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	Search(ctx context.Context, criteria domain.SearchCriteria, page domain.PageRequest) (*domain.Page[domain.SearchResultRow], error)
}

// UserFinder resolves users.
type UserFinder interface {
	GetByID(ctx context.Context, userID string) (*domain.User, error)
}

// AssignmentStore reads and writes task delegates.
type AssignmentStore interface {
	Create(ctx context.Context, assignment *domain.Assignment) error
	GetByID(ctx context.Context, assignmentID string) (*domain.Assignment, error)
	Delete(ctx context.Context, assignmentID string) error
	ListByTask(ctx context.Context, taskID string) ([]*domain.Assignment, error)
}

// CommentStore writes task comments.
type CommentStore interface {
	Create(ctx context.Context, comment *domain.Comment) error
}

// AuditWriter records the outcome of a sensitive operation. It never fails.
type AuditWriter interface {
	Write(
		ctx context.Context,
		action domain.AuditAction,
		status domain.AuditStatus,
		requesterID *string,
		targetID *string,
		message string,
		payload string,
	)
}

// PayloadSerializer encodes audit context fields. It never fails.
type PayloadSerializer interface {
	Serialize(fields map[string]any) string
}

// AuditReader lists recorded audit entries.
type AuditReader interface {
	List(ctx context.Context, filter domain.AuditFilter, page domain.PageRequest) (*domain.Page[*domain.AuditEntry], error)
	Summary(ctx context.Context) ([]domain.AuditSummaryRow, error)
}
