package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mtlprog/taskdesk/internal/domain"
	"github.com/mtlprog/taskdesk/internal/txn"
)

// CommentRepository handles database operations for task comments.
type CommentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository creates a new CommentRepository.
func NewCommentRepository(pool *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{pool: pool}
}

// Create inserts a comment and fills in ID and CreatedAt.
func (r *CommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	if !validID(comment.TaskID) {
		return domain.ErrTaskNotFound
	}
	if !validID(comment.UserID) {
		return domain.ErrUserNotFound
	}

	query, args, err := psql.
		Insert("comments").
		Columns("task_id", "user_id", "contents").
		Values(comment.TaskID, comment.UserID, comment.Contents).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	err = txn.Conn(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&comment.ID, &comment.CreatedAt)
	if err != nil {
		if fkErr := foreignKeyError(err); fkErr != nil {
			return fkErr
		}
		return fmt.Errorf("create comment: %w", err)
	}

	return nil
}
