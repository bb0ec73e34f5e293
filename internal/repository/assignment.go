package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mtlprog/taskdesk/internal/domain"
	"github.com/mtlprog/taskdesk/internal/txn"
)

// AssignmentRepository handles database operations for task delegates.
type AssignmentRepository struct {
	pool *pgxpool.Pool
}

// NewAssignmentRepository creates a new AssignmentRepository.
func NewAssignmentRepository(pool *pgxpool.Pool) *AssignmentRepository {
	return &AssignmentRepository{pool: pool}
}

// Create inserts an assignment and fills in ID and CreatedAt.
// The same user may be assigned to a task more than once.
func (r *AssignmentRepository) Create(ctx context.Context, assignment *domain.Assignment) error {
	query, args, err := psql.
		Insert("assignments").
		Columns("task_id", "user_id").
		Values(assignment.TaskID, assignment.UserID).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	err = txn.Conn(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&assignment.ID, &assignment.CreatedAt)
	if err != nil {
		if fkErr := foreignKeyError(err); fkErr != nil {
			return fkErr
		}
		return fmt.Errorf("create assignment: %w", err)
	}

	return nil
}

// GetByID retrieves an assignment by ID.
func (r *AssignmentRepository) GetByID(ctx context.Context, assignmentID string) (*domain.Assignment, error) {
	if !validID(assignmentID) {
		return nil, domain.ErrAssignmentNotFound
	}

	query, args, err := psql.
		Select("id", "task_id", "user_id", "created_at").
		From("assignments").
		Where(sq.Eq{"id": assignmentID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var a domain.Assignment
	err = txn.Conn(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&a.ID, &a.TaskID, &a.UserID, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("query assignment: %w", err)
	}

	return &a, nil
}

// Delete removes an assignment.
// Returns ErrAssignmentNotFound if no row was deleted.
func (r *AssignmentRepository) Delete(ctx context.Context, assignmentID string) error {
	if !validID(assignmentID) {
		return domain.ErrAssignmentNotFound
	}

	query, args, err := psql.
		Delete("assignments").
		Where(sq.Eq{"id": assignmentID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	tag, err := txn.Conn(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAssignmentNotFound
	}

	return nil
}

// ListByTask retrieves a task's assignments with their delegate users,
// oldest first.
func (r *AssignmentRepository) ListByTask(ctx context.Context, taskID string) ([]*domain.Assignment, error) {
	if !validID(taskID) {
		return []*domain.Assignment{}, nil
	}

	query, args, err := psql.
		Select(
			"a.id", "a.task_id", "a.user_id", "a.created_at",
			"u.id", "u.email", "u.nickname", "u.created_at",
		).
		From("assignments a").
		Join("users u ON u.id = a.user_id").
		Where(sq.Eq{"a.task_id": taskID}).
		OrderBy("a.created_at ASC", "a.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := txn.Conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query assignments: %w", err)
	}
	defer rows.Close()

	assignments := []*domain.Assignment{}
	for rows.Next() {
		var a domain.Assignment
		var u domain.User
		if err := rows.Scan(
			&a.ID, &a.TaskID, &a.UserID, &a.CreatedAt,
			&u.ID, &u.Email, &u.Nickname, &u.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		a.Delegate = &u
		assignments = append(assignments, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return assignments, nil
}
