package dto

// CreateTaskRequest represents the request body for POST /tasks.
type CreateTaskRequest struct {
	Title    string `json:"title" validate:"required,max=255"`
	Contents string `json:"contents"`
	Weather  string `json:"weather,omitempty" validate:"max=100"`
}

// CommentTaskRequest represents the request body for POST /tasks/:taskId/comments.
type CommentTaskRequest struct {
	Contents string `json:"contents" validate:"required"`
}

// AssignManagerRequest represents the request body for POST /tasks/:taskId/managers.
type AssignManagerRequest struct {
	ManagerUserID string `json:"manager_user_id" validate:"required,uuid"`
}

// SearchTasksQuery represents query parameters for GET /tasks/search.
type SearchTasksQuery struct {
	Title    string `form:"title" validate:"max=255"`
	Nickname string `form:"nickname" validate:"max=100"`
	Weather  string `form:"weather" validate:"max=100"`
	Start    string `form:"start" validate:"omitempty,datetime=2006-01-02"` // calendar date
	End      string `form:"end" validate:"omitempty,datetime=2006-01-02"`   // calendar date
	Page     *int   `form:"page" validate:"omitempty,min=0"`
	Size     *int   `form:"size" validate:"omitempty,min=1"`
}

// AuditLogsQuery represents query parameters for GET /audit-logs.
type AuditLogsQuery struct {
	Action      string `form:"action" validate:"omitempty,oneof=ASSIGN UNASSIGN"`
	Status      string `form:"status" validate:"omitempty,oneof=SUCCESS FAIL"`
	RequesterID string `form:"requester_id" validate:"omitempty,uuid"`
	Page        *int   `form:"page" validate:"omitempty,min=0"`
	Size        *int   `form:"size" validate:"omitempty,min=1"`
}
