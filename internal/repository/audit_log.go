package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mtlprog/taskdesk/internal/domain"
	"github.com/mtlprog/taskdesk/internal/txn"
)

// AuditLogRepository handles database operations for audit entries.
// Entries are only ever inserted and read.
type AuditLogRepository struct {
	pool *pgxpool.Pool
}

// NewAuditLogRepository creates a new AuditLogRepository.
func NewAuditLogRepository(pool *pgxpool.Pool) *AuditLogRepository {
	return &AuditLogRepository{pool: pool}
}

// Append inserts an audit entry and fills in ID and CreatedAt.
func (r *AuditLogRepository) Append(ctx context.Context, entry *domain.AuditEntry) error {
	query, args, err := psql.
		Insert("audit_logs").
		Columns("action", "status", "requester_id", "target_id", "message", "payload").
		Values(entry.Action, entry.Status, entry.RequesterID, entry.TargetID, entry.Message, entry.Payload).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	err = txn.Conn(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}

	return nil
}

func auditFilterWhere(qb sq.SelectBuilder, filter domain.AuditFilter) sq.SelectBuilder {
	if filter.Action != nil {
		qb = qb.Where(sq.Eq{"action": *filter.Action})
	}
	if filter.Status != nil {
		qb = qb.Where(sq.Eq{"status": *filter.Status})
	}
	if filter.RequesterID != nil {
		qb = qb.Where(sq.Eq{"requester_id": *filter.RequesterID})
	}
	return qb
}

// List retrieves audit entries matching filter, newest first.
func (r *AuditLogRepository) List(
	ctx context.Context,
	filter domain.AuditFilter,
	page domain.PageRequest,
) (*domain.Page[*domain.AuditEntry], error) {
	conn := txn.Conn(ctx, r.pool)

	qb := psql.
		Select("id", "action", "status", "requester_id", "target_id", "message", "payload", "created_at").
		From("audit_logs")
	query, args, err := auditFilterWhere(qb, filter).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(page.Size)).
		Offset(uint64(page.Offset())).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build List query: %w", err)
	}

	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query audit entries: %w", err)
	}
	defer rows.Close()

	var entries []*domain.AuditEntry
	for rows.Next() {
		var e domain.AuditEntry
		if err := rows.Scan(
			&e.ID,
			&e.Action,
			&e.Status,
			&e.RequesterID,
			&e.TargetID,
			&e.Message,
			&e.Payload,
			&e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return domain.NewPage(entries, page, func() (int64, error) {
		countQuery, countArgs, err := auditFilterWhere(psql.Select("COUNT(*)").From("audit_logs"), filter).ToSql()
		if err != nil {
			return 0, fmt.Errorf("build count query: %w", err)
		}

		var total int64
		if err := conn.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
			return 0, fmt.Errorf("count audit entries: %w", err)
		}
		return total, nil
	})
}

// Summary counts audit entries per action and status.
func (r *AuditLogRepository) Summary(ctx context.Context) ([]domain.AuditSummaryRow, error) {
	query, args, err := psql.
		Select("action", "status", "COUNT(*)").
		From("audit_logs").
		GroupBy("action", "status").
		OrderBy("action", "status").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build Summary query: %w", err)
	}

	rows, err := txn.Conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query audit summary: %w", err)
	}
	defer rows.Close()

	results := []domain.AuditSummaryRow{}
	for rows.Next() {
		var row domain.AuditSummaryRow
		if err := rows.Scan(&row.Action, &row.Status, &row.Count); err != nil {
			return nil, fmt.Errorf("scan audit summary: %w", err)
		}
		results = append(results, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit summary rows: %w", err)
	}

	return results, nil
}
