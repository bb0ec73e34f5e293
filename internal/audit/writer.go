// Package audit records the outcome of sensitive operations. Entries are
// committed in their own transaction so they survive a rollback of the
// business operation they describe, and a failure to record one is never
// reported to the caller.
package audit

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/mtlprog/taskdesk/internal/domain"
	"github.com/mtlprog/taskdesk/internal/logger"
	"github.com/mtlprog/taskdesk/internal/txn"
)

// DefaultWriteTimeout bounds a single audit insert.
const DefaultWriteTimeout = 5 * time.Second

// Store appends audit entries, filling in ID and CreatedAt.
type Store interface {
	Append(ctx context.Context, entry *domain.AuditEntry) error
}

// Writer persists audit entries in an independent unit of work.
type Writer struct {
	store   Store
	uow     txn.UnitOfWork
	timeout time.Duration
}

// NewWriter creates a Writer. uow should be txn.RequiresNew so entries
// commit independently of the caller's transaction.
func NewWriter(store Store, uow txn.UnitOfWork, timeout time.Duration) *Writer {
	if timeout <= 0 {
		timeout = DefaultWriteTimeout
	}
	return &Writer{store: store, uow: uow, timeout: timeout}
}

// writeResult is the internal outcome of one write.
type writeResult struct {
	entry *domain.AuditEntry
	err   error
}

// Write records one audit entry. It returns nothing: the entry is either
// committed before Write returns or the failure is logged and dropped.
// Request cancellation does not abort the write.
func (w *Writer) Write(
	ctx context.Context,
	action domain.AuditAction,
	status domain.AuditStatus,
	requesterID *string,
	targetID *string,
	message string,
	payload string,
) {
	entry := &domain.AuditEntry{
		Action:      action,
		Status:      status,
		RequesterID: requesterID,
		TargetID:    targetID,
		Message:     truncate(message, domain.MaxAuditMessageLength),
		Payload:     payload,
	}

	res := w.write(ctx, entry)
	if res.err != nil {
		auditWrites.WithLabelValues(string(action), string(status), "error").Inc()
		logger.FromContext(ctx).Warn("audit: failed to persist entry",
			"action", action,
			"status", status,
			"error", res.err,
		)
		return
	}

	auditWrites.WithLabelValues(string(action), string(status), "ok").Inc()
	logger.FromContext(ctx).Debug("audit entry recorded",
		"audit_id", res.entry.ID,
		"action", action,
		"status", status,
	)
}

func (w *Writer) write(ctx context.Context, entry *domain.AuditEntry) (res writeResult) {
	defer func() {
		if r := recover(); r != nil {
			res = writeResult{err: fmt.Errorf("panic: %v", r)}
		}
	}()

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), w.timeout)
	defer cancel()

	err := w.uow.Do(ctx, func(ctx context.Context) error {
		return w.store.Append(ctx, entry)
	})
	if err != nil {
		return writeResult{err: err}
	}
	return writeResult{entry: entry}
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
