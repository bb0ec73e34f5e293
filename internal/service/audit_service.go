package service

import (
	"context"
	"fmt"

	"github.com/mtlprog/taskdesk/internal/domain"
)

// AuditService exposes recorded audit entries.
type AuditService struct {
	reader      AuditReader
	maxPageSize int
}

// NewAuditService creates a new AuditService.
func NewAuditService(reader AuditReader, maxPageSize int) *AuditService {
	return &AuditService{reader: reader, maxPageSize: maxPageSize}
}

// List returns audit entries matching filter, newest first.
func (s *AuditService) List(
	ctx context.Context,
	filter domain.AuditFilter,
	page domain.PageRequest,
) (*domain.Page[*domain.AuditEntry], error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}
	if filter.Action != nil && !filter.Action.IsValid() {
		return nil, fmt.Errorf("%w: unknown audit action %q", domain.ErrValidation, *filter.Action)
	}
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, fmt.Errorf("%w: unknown audit status %q", domain.ErrValidation, *filter.Status)
	}
	if s.maxPageSize > 0 && page.Size > s.maxPageSize {
		page.Size = s.maxPageSize
	}

	result, err := s.reader.List(ctx, filter, page)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	return result, nil
}

// Summary counts audit entries per action and status.
func (s *AuditService) Summary(ctx context.Context) ([]domain.AuditSummaryRow, error) {
	rows, err := s.reader.Summary(ctx)
	if err != nil {
		return nil, fmt.Errorf("audit summary: %w", err)
	}
	return rows, nil
}
