package handler

import (
	"net/http"

	"github.com/mtlprog/taskdesk/internal/domain"
	"github.com/mtlprog/taskdesk/internal/handler/dto"
)

// handleListAuditLogs returns audit entries, newest first.
// @Summary List audit entries
// @Tags audit
// @Produce json
// @Param action query string false "ASSIGN or UNASSIGN"
// @Param status query string false "SUCCESS or FAIL"
// @Param requester_id query string false "Requester UUID"
// @Param page query int false "Zero-based page"
// @Param size query int false "Page size"
// @Success 200 {object} dto.PageResponse[dto.AuditLogResponse]
// @Failure 422 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /audit-logs [get]
func (h *Handler) handleListAuditLogs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var q dto.AuditLogsQuery
	if !h.decodeQuery(w, r, &q) {
		return
	}

	var filter domain.AuditFilter
	if q.Action != "" {
		action := domain.AuditAction(q.Action)
		filter.Action = &action
	}
	if q.Status != "" {
		status := domain.AuditStatus(q.Status)
		filter.Status = &status
	}
	if q.RequesterID != "" {
		filter.RequesterID = &q.RequesterID
	}
	page, size := h.pageOrDefault(q.Page, q.Size)

	result, err := h.audit.List(ctx, filter, domain.PageRequest{Page: page, Size: size})
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewPageResponse(result, dto.NewAuditLogResponse))
}

// handleAuditSummary counts audit entries per action and status.
// @Summary Audit summary
// @Tags audit
// @Produce json
// @Success 200 {array} dto.AuditSummaryResponse
// @Security BearerAuth
// @Router /audit-logs/summary [get]
func (h *Handler) handleAuditSummary(w http.ResponseWriter, r *http.Request) {
	rows, err := h.audit.Summary(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	resp := make([]dto.AuditSummaryResponse, 0, len(rows))
	for _, row := range rows {
		resp = append(resp, dto.AuditSummaryResponse{
			Action: string(row.Action),
			Status: string(row.Status),
			Count:  row.Count,
		})
	}

	respondJSON(w, http.StatusOK, resp)
}
