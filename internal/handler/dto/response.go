package dto

import (
	"time"

	"github.com/mtlprog/taskdesk/internal/domain"
)

// UserResponse is the public view of a user.
type UserResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
}

// ManagerResponse is one delegate of a task.
type ManagerResponse struct {
	ID   string       `json:"id"`
	User UserResponse `json:"user"`
}

// TaskResponse represents a created task.
type TaskResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Contents  string    `json:"contents"`
	Weather   string    `json:"weather"`
	OwnerID   *string   `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CommentResponse represents a created comment.
type CommentResponse struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"task_id"`
	UserID    string    `json:"user_id"`
	Contents  string    `json:"contents"`
	CreatedAt time.Time `json:"created_at"`
}

// TaskSearchRow represents one aggregated task in search results.
type TaskSearchRow struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	ManagerCount int64     `json:"manager_count"`
	CommentCount int64     `json:"comment_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// PageInfo describes the position of a page in the full result set.
type PageInfo struct {
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"total_elements"`
	TotalPages    int   `json:"total_pages"`
	HasNext       bool  `json:"has_next"`
}

// PageResponse is a page of items.
type PageResponse[T any] struct {
	Content []T      `json:"content"`
	Page    PageInfo `json:"page"`
}

// AuditLogResponse represents one audit entry.
type AuditLogResponse struct {
	ID          string    `json:"id"`
	Action      string    `json:"action"`
	Status      string    `json:"status"`
	RequesterID *string   `json:"requester_id"`
	TargetID    *string   `json:"target_id"`
	Message     string    `json:"message"`
	Payload     string    `json:"payload"`
	CreatedAt   time.Time `json:"created_at"`
}

// AuditSummaryResponse counts audit entries per action and status.
type AuditSummaryResponse struct {
	Action string `json:"action"`
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// NewUserResponse converts a user summary.
func NewUserResponse(u domain.UserSummary) UserResponse {
	return UserResponse{ID: u.ID, Email: u.Email, Nickname: u.Nickname}
}

// NewTaskResponse converts a task.
func NewTaskResponse(t *domain.Task) TaskResponse {
	return TaskResponse{
		ID:        t.ID,
		Title:     t.Title,
		Contents:  t.Contents,
		Weather:   t.Weather,
		OwnerID:   t.OwnerID,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// NewCommentResponse converts a comment.
func NewCommentResponse(c *domain.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		TaskID:    c.TaskID,
		UserID:    c.UserID,
		Contents:  c.Contents,
		CreatedAt: c.CreatedAt,
	}
}

// NewPageResponse converts a domain page, mapping every item with convert.
func NewPageResponse[T, R any](p *domain.Page[T], convert func(T) R) PageResponse[R] {
	content := make([]R, 0, len(p.Content))
	for _, item := range p.Content {
		content = append(content, convert(item))
	}
	return PageResponse[R]{
		Content: content,
		Page: PageInfo{
			Page:          p.Request.Page,
			Size:          p.Request.Size,
			TotalElements: p.Total,
			TotalPages:    p.TotalPages(),
			HasNext:       p.HasNext(),
		},
	}
}

// NewTaskSearchRow converts a search row.
func NewTaskSearchRow(r domain.SearchResultRow) TaskSearchRow {
	return TaskSearchRow{
		ID:           r.TaskID,
		Title:        r.Title,
		ManagerCount: r.ManagerCount,
		CommentCount: r.CommentCount,
		CreatedAt:    r.CreatedAt,
	}
}

// NewAuditLogResponse converts an audit entry.
func NewAuditLogResponse(e *domain.AuditEntry) AuditLogResponse {
	return AuditLogResponse{
		ID:          e.ID,
		Action:      string(e.Action),
		Status:      string(e.Status),
		RequesterID: e.RequesterID,
		TargetID:    e.TargetID,
		Message:     e.Message,
		Payload:     e.Payload,
		CreatedAt:   e.CreatedAt,
	}
}
