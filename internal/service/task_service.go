package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mtlprog/taskdesk/internal/domain"
	"github.com/mtlprog/taskdesk/internal/logger"
	"github.com/mtlprog/taskdesk/internal/txn"
)

// TaskService handles task creation, comments and search.
type TaskService struct {
	uow         txn.UnitOfWork
	tasks       TaskStore
	comments    CommentStore
	maxPageSize int
}

// NewTaskService creates a new TaskService. Search page sizes above
// maxPageSize are clamped; maxPageSize <= 0 disables clamping.
func NewTaskService(uow txn.UnitOfWork, tasks TaskStore, comments CommentStore, maxPageSize int) *TaskService {
	return &TaskService{
		uow:         uow,
		tasks:       tasks,
		comments:    comments,
		maxPageSize: maxPageSize,
	}
}

// CreateTask creates a task owned by the requester.
func (s *TaskService) CreateTask(
	ctx context.Context,
	requester domain.Identity,
	title string,
	contents string,
	weather string,
) (*domain.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, domain.ErrEmptyTitle
	}

	ownerID := requester.UserID
	task, err := txn.DoResult(ctx, s.uow, func(ctx context.Context) (*domain.Task, error) {
		return s.tasks.Create(ctx, &domain.Task{
			Title:    title,
			Contents: contents,
			Weather:  strings.TrimSpace(weather),
			OwnerID:  &ownerID,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	logger.FromContext(ctx).Info("task created",
		"task_id", task.ID,
		"owner_id", ownerID,
	)

	return task, nil
}

// AddComment adds a comment by the requester to an existing task.
func (s *TaskService) AddComment(
	ctx context.Context,
	requester domain.Identity,
	taskID string,
	contents string,
) (*domain.Comment, error) {
	if strings.TrimSpace(contents) == "" {
		return nil, domain.ErrEmptyComment
	}

	return txn.DoResult(ctx, s.uow, func(ctx context.Context) (*domain.Comment, error) {
		task, err := s.tasks.GetByID(ctx, taskID)
		if err != nil {
			return nil, err
		}

		comment := &domain.Comment{TaskID: task.ID, UserID: requester.UserID, Contents: contents}
		if err := s.comments.Create(ctx, comment); err != nil {
			return nil, err
		}

		logger.FromContext(ctx).Info("comment added",
			"task_id", task.ID,
			"comment_id", comment.ID,
			"user_id", requester.UserID,
		)
		return comment, nil
	})
}

// Search returns one page of aggregated task rows, newest first. An inverted
// date range is treated as the same range in order.
func (s *TaskService) Search(
	ctx context.Context,
	criteria domain.SearchCriteria,
	page domain.PageRequest,
) (*domain.Page[domain.SearchResultRow], error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}
	// The returned page carries the clamped request.
	if s.maxPageSize > 0 && page.Size > s.maxPageSize {
		page.Size = s.maxPageSize
	}

	start := time.Now()
	defer func() { searchDuration.Observe(time.Since(start).Seconds()) }()

	result, err := s.tasks.Search(ctx, criteria.Normalize(), page)
	if err != nil {
		return nil, fmt.Errorf("search tasks: %w", err)
	}
	return result, nil
}
