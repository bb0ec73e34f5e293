package repository

import (
	"context"
	"fmt"

	"github.com/mtlprog/taskdesk/internal/domain"
	"github.com/mtlprog/taskdesk/internal/search"
	"github.com/mtlprog/taskdesk/internal/txn"
)

// Search returns one page of aggregated task rows matching criteria, newest
// first. The content and count queries share the same predicate; the count
// query runs only when the total cannot be derived from the page itself.
func (r *TaskRepository) Search(
	ctx context.Context,
	criteria domain.SearchCriteria,
	page domain.PageRequest,
) (*domain.Page[domain.SearchResultRow], error) {
	pred := search.Build(criteria)
	conn := txn.Conn(ctx, r.pool)

	query, args, err := search.ContentQuery(pred, page).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build Search content query: %w", err)
	}

	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query search content: %w", err)
	}
	defer rows.Close()

	var content []domain.SearchResultRow
	for rows.Next() {
		var row domain.SearchResultRow
		if err := rows.Scan(
			&row.TaskID,
			&row.Title,
			&row.ManagerCount,
			&row.CommentCount,
			&row.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan search row: %w", err)
		}
		content = append(content, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return domain.NewPage(content, page, func() (int64, error) {
		countQuery, countArgs, err := search.CountQuery(pred).ToSql()
		if err != nil {
			return 0, fmt.Errorf("build Search count query: %w", err)
		}

		var total int64
		if err := conn.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
			return 0, fmt.Errorf("count search results: %w", err)
		}
		return total, nil
	})
}
