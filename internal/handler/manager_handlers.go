package handler

import (
	"net/http"

	"github.com/mtlprog/taskdesk/internal/handler/dto"
	"github.com/mtlprog/taskdesk/internal/middleware"
)

// handleAssignManager makes a user a delegate of the caller's task.
// @Summary Assign a delegate
// @Description Only the task owner may assign, and never to themselves. Every attempt is audited.
// @Tags managers
// @Accept json
// @Produce json
// @Param taskId path string true "Task UUID"
// @Param request body dto.AssignManagerRequest true "Delegate"
// @Success 201 {object} dto.ManagerResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tasks/{taskId}/managers [post]
func (h *Handler) handleAssignManager(w http.ResponseWriter, r *http.Request) {
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

	var req dto.AssignManagerRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	result, err := h.assignments.Assign(ctx, identity, taskID, req.ManagerUserID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.ManagerResponse{
		ID:   result.AssignmentID,
		User: dto.NewUserResponse(result.Delegate),
	})
}

// handleListManagers lists the delegates of a task.
// @Summary List delegates
// @Tags managers
// @Produce json
// @Param taskId path string true "Task UUID"
// @Success 200 {array} dto.ManagerResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tasks/{taskId}/managers [get]
func (h *Handler) handleListManagers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	taskID, ok := extractUUID(w, r, "taskId")
	if !ok {
		return
	}

	views, err := h.assignments.ListAssignments(ctx, taskID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	resp := make([]dto.ManagerResponse, 0, len(views))
	for _, v := range views {
		resp = append(resp, dto.ManagerResponse{ID: v.ID, User: dto.NewUserResponse(v.Delegate)})
	}

	respondJSON(w, http.StatusOK, resp)
}

// handleRemoveManager removes a delegate from the caller's task.
// @Summary Remove a delegate
// @Description Only the task owner may remove, and only an assignment of this task. Every attempt is audited.
// @Tags managers
// @Param taskId path string true "Task UUID"
// @Param managerId path string true "Assignment UUID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tasks/{taskId}/managers/{managerId} [delete]
func (h *Handler) handleRemoveManager(w http.ResponseWriter, r *http.Request) {
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
	assignmentID, ok := extractUUID(w, r, "managerId")
	if !ok {
		return
	}

	if err := h.assignments.Remove(ctx, identity, taskID, assignmentID); err != nil {
		respondDomainError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
