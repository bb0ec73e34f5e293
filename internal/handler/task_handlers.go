package handler

import (
	"net/http"
	"time"

	"github.com/mtlprog/taskdesk/internal/domain"
	"github.com/mtlprog/taskdesk/internal/handler/dto"
	"github.com/mtlprog/taskdesk/internal/middleware"
)

// handleCreateTask creates a new task owned by the caller.
// @Summary Create a new task
// @Tags tasks
// @Accept json
// @Produce json
// @Param request body dto.CreateTaskRequest true "Task creation request"
// @Success 201 {object} dto.TaskResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tasks [post]
func (h *Handler) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, err := middleware.GetIdentityFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}

	var req dto.CreateTaskRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	task, err := h.tasks.CreateTask(ctx, identity, req.Title, req.Contents, req.Weather)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.NewTaskResponse(task))
}

// handleCommentTask adds a comment to a task.
// @Summary Comment on a task
// @Tags tasks
// @Accept json
// @Produce json
// @Param taskId path string true "Task UUID"
// @Param request body dto.CommentTaskRequest true "Comment"
// @Success 201 {object} dto.CommentResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tasks/{taskId}/comments [post]
func (h *Handler) handleCommentTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, err := middleware.GetIdentityFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}

	taskID, ok := extractUUID(w, r, "taskId")
	if !ok {
		return
	}

	var req dto.CommentTaskRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	comment, err := h.tasks.AddComment(ctx, identity, taskID, req.Contents)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.NewCommentResponse(comment))
}

// handleSearchTasks returns a page of tasks with delegate and comment counts.
// @Summary Search tasks
// @Description Filters are optional and combined with AND. An inverted date range is accepted.
// @Tags tasks
// @Produce json
// @Param title query string false "Case-insensitive title substring"
// @Param nickname query string false "Case-insensitive delegate nickname substring"
// @Param weather query string false "Weather, case-insensitive"
// @Param start query string false "First creation date (YYYY-MM-DD)"
// @Param end query string false "Last creation date (YYYY-MM-DD)"
// @Param page query int false "Zero-based page"
// @Param size query int false "Page size"
// @Success 200 {object} dto.PageResponse[dto.TaskSearchRow]
// @Failure 422 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tasks/search [get]
func (h *Handler) handleSearchTasks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var q dto.SearchTasksQuery
	if !h.decodeQuery(w, r, &q) {
		return
	}

	criteria := domain.SearchCriteria{
		Title:    q.Title,
		Nickname: q.Nickname,
		Weather:  q.Weather,
		Start:    parseDate(q.Start),
		End:      parseDate(q.End),
	}
	page, size := h.pageOrDefault(q.Page, q.Size)

	result, err := h.tasks.Search(ctx, criteria, domain.PageRequest{Page: page, Size: size})
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewPageResponse(result, dto.NewTaskSearchRow))
}

// parseDate parses a calendar date that has already passed validation.
func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}
