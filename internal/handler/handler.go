package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/form"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mtlprog/taskdesk/internal/audit"
	"github.com/mtlprog/taskdesk/internal/auth"
	"github.com/mtlprog/taskdesk/internal/config"
	"github.com/mtlprog/taskdesk/internal/handler/dto"
	"github.com/mtlprog/taskdesk/internal/logger"
	"github.com/mtlprog/taskdesk/internal/middleware"
	"github.com/mtlprog/taskdesk/internal/repository"
	"github.com/mtlprog/taskdesk/internal/service"
	"github.com/mtlprog/taskdesk/internal/txn"
)

// Pinger reports database reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators of a Handler.
type Deps struct {
	DB              Pinger
	Assignments     *service.AssignmentService
	Tasks           *service.TaskService
	Audit           *service.AuditService
	Tokens          middleware.TokenParser
	DefaultPageSize int
	MetricsPath     string // empty disables the metrics endpoint
}

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	db              Pinger
	assignments     *service.AssignmentService
	tasks           *service.TaskService
	audit           *service.AuditService
	authMiddleware  *middleware.AuthMiddleware
	validate        *validator.Validate
	queryDecoder    *form.Decoder
	defaultPageSize int
	metricsPath     string
}

// New creates a new Handler instance with all dependencies.
func New(pool *pgxpool.Pool, cfg *config.Config) *Handler {
	// Create repositories
	taskRepo := repository.NewTaskRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	assignmentRepo := repository.NewAssignmentRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)
	auditRepo := repository.NewAuditLogRepository(pool)

	// Business steps join the caller's transaction; audit entries always commit on their own.
	business := txn.JoinAmbient(pool)
	auditWriter := audit.NewWriter(auditRepo, txn.RequiresNew(pool), cfg.Audit.WriteTimeout)

	// Create services
	assignmentService := service.NewAssignmentService(
		business, taskRepo, userRepo, assignmentRepo, auditWriter, audit.NewJSONSerializer(),
	)
	taskService := service.NewTaskService(business, taskRepo, commentRepo, cfg.Search.MaxPageSize)
	auditService := service.NewAuditService(auditRepo, cfg.Search.MaxPageSize)

	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}

	return NewWithDeps(Deps{
		DB:              pool,
		Assignments:     assignmentService,
		Tasks:           taskService,
		Audit:           auditService,
		Tokens:          auth.NewTokens(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL),
		DefaultPageSize: cfg.Search.DefaultPageSize,
		MetricsPath:     metricsPath,
	})
}

// NewWithDeps creates a Handler from prebuilt collaborators.
func NewWithDeps(deps Deps) *Handler {
	defaultPageSize := deps.DefaultPageSize
	if defaultPageSize <= 0 {
		defaultPageSize = 10
	}

	return &Handler{
		db:              deps.DB,
		assignments:     deps.Assignments,
		tasks:           deps.Tasks,
		audit:           deps.Audit,
		authMiddleware:  middleware.NewAuthMiddleware(deps.Tokens),
		validate:        validator.New(validator.WithRequiredStructEnabled()),
		queryDecoder:    form.NewDecoder(),
		defaultPageSize: defaultPageSize,
		metricsPath:     deps.MetricsPath,
	}
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Health check
	mux.HandleFunc("GET /healthz", h.handleHealthz)

	// Prometheus metrics
	if h.metricsPath != "" {
		mux.Handle("GET "+h.metricsPath, promhttp.Handler())
	}

	// API v1 routes with authentication
	mux.Handle("POST /api/v1/tasks", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleCreateTask)))
	mux.Handle("GET /api/v1/tasks/search", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleSearchTasks)))
	mux.Handle("POST /api/v1/tasks/{taskId}/comments", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleCommentTask)))
	mux.Handle("POST /api/v1/tasks/{taskId}/managers", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleAssignManager)))
	mux.Handle("GET /api/v1/tasks/{taskId}/managers", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleListManagers)))
	mux.Handle("DELETE /api/v1/tasks/{taskId}/managers/{managerId}", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleRemoveManager)))
	mux.Handle("GET /api/v1/audit-logs", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleListAuditLogs)))
	mux.Handle("GET /api/v1/audit-logs/summary", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleAuditSummary)))
}

// handleHealthz returns 200 OK if the database is reachable.
func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.db.Ping(ctx); err != nil {
		logger.FromContext(ctx).Error("database health check failed", "error", err)
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// respondError writes a standard error response.
func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, dto.NewErrorResponse(code, message))
}

// respondDomainError maps a service error to a response.
func respondDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status, code, message := dto.MapDomainError(err)
	if status == http.StatusInternalServerError {
		logger.FromContext(r.Context()).Error("request failed", "error", err)
	}
	respondError(w, status, code, message)
}

// decodeBody decodes and validates a JSON request body.
// Returns false if the body is invalid (error already sent to client).
func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return false
	}
	return h.validateRequest(w, dst)
}

// decodeQuery decodes and validates URL query parameters.
// Returns false if they are invalid (error already sent to client).
func (h *Handler) decodeQuery(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := h.queryDecoder.Decode(dst, r.URL.Query()); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid query parameters")
		return false
	}
	return h.validateRequest(w, dst)
}

func (h *Handler) validateRequest(w http.ResponseWriter, dst any) bool {
	if err := h.validate.Struct(dst); err != nil {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			slog.Error("request validation misconfigured", "error", err)
			respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
			return false
		}
		respondJSON(w, http.StatusUnprocessableEntity, dto.NewValidationErrorResponse(err))
		return false
	}
	return true
}

// extractUUID extracts and validates a UUID path parameter.
// Returns (id, true) if valid, ("", false) if invalid (error already sent to client).
func extractUUID(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	id := r.PathValue(name)
	if id == "" {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", name+" is required")
		return "", false
	}

	if _, err := uuid.Parse(id); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", name+" must be a valid UUID")
		return "", false
	}

	return id, true
}

// pageOrDefault builds a page request from optional query values.
func (h *Handler) pageOrDefault(page, size *int) (int, int) {
	p, s := 0, h.defaultPageSize
	if page != nil {
		p = *page
	}
	if size != nil {
		s = *size
	}
	return p, s
}
