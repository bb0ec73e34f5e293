// Package search turns task search criteria into a shared predicate and
// builds the two queries of a paginated aggregate search from it: a grouped
// content query and a lighter count query.
package search

import (
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/mtlprog/taskdesk/internal/domain"
)

// psql is the Squirrel statement builder configured for PostgreSQL dollar placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const (
	joinAssignments  = "assignments a ON a.task_id = t.id"
	joinComments     = "comments c ON c.task_id = t.id"
	joinDelegateUser = "users u ON u.id = a.user_id"
)

// Predicate is the filter of a search: conditions combined with AND, plus
// the joins those conditions need.
type Predicate struct {
	Conditions []sq.Sqlizer

	// JoinDelegateUser is set when a condition references the delegate's
	// user row (alias u, reached through assignments a).
	JoinDelegateUser bool
}

// IsEmpty reports whether the predicate filters nothing.
func (p Predicate) IsEmpty() bool {
	return len(p.Conditions) == 0
}

// apply adds the predicate's WHERE clause; an empty predicate adds none.
func (p Predicate) apply(qb sq.SelectBuilder) sq.SelectBuilder {
	if p.IsEmpty() {
		return qb
	}
	return qb.Where(sq.And(p.Conditions))
}

// Build translates criteria into a Predicate. Blank filters contribute
// nothing, and an inverted date range is swapped rather than rejected.
func Build(criteria domain.SearchCriteria) Predicate {
	c := criteria.Normalize()
	var p Predicate

	if c.HasTitle() {
		p.Conditions = append(p.Conditions, sq.ILike{"t.title": containsPattern(c.Title)})
	}

	if c.HasNickname() {
		p.JoinDelegateUser = true
		p.Conditions = append(p.Conditions, sq.ILike{"u.nickname": containsPattern(c.Nickname)})
	}

	if c.HasWeather() {
		p.Conditions = append(p.Conditions, sq.Expr("LOWER(t.weather) = LOWER(?)", strings.TrimSpace(c.Weather)))
	}

	if c.Start != nil {
		p.Conditions = append(p.Conditions, sq.GtOrEq{"t.created_at": domain.StartOfDay(*c.Start)})
	}
	if c.End != nil {
		// Exclusive bound at the next midnight keeps the whole end day.
		p.Conditions = append(p.Conditions, sq.Lt{"t.created_at": domain.StartOfDay(*c.End).AddDate(0, 0, 1)})
	}

	return p
}

// ContentQuery selects one aggregated row per task for the requested page,
// newest first. Delegates and comments are counted distinctly so the two
// one-to-many joins do not inflate each other.
func ContentQuery(p Predicate, page domain.PageRequest) sq.SelectBuilder {
	qb := psql.
		Select(
			"t.id",
			"t.title",
			"COUNT(DISTINCT a.id) AS manager_count",
			"COUNT(DISTINCT c.id) AS comment_count",
			"t.created_at",
		).
		From("tasks t").
		LeftJoin(joinAssignments).
		LeftJoin(joinComments)

	if p.JoinDelegateUser {
		qb = qb.LeftJoin(joinDelegateUser)
	}

	return p.apply(qb).
		GroupBy("t.id").
		OrderBy("t.created_at DESC", "t.id DESC").
		Limit(uint64(page.Size)).
		Offset(uint64(page.Offset()))
}

// CountQuery counts distinct matching tasks. It joins only what the
// predicate references and never the comments relation.
func CountQuery(p Predicate) sq.SelectBuilder {
	qb := psql.
		Select("COUNT(DISTINCT t.id)").
		From("tasks t")

	if p.JoinDelegateUser {
		qb = qb.
			LeftJoin(joinAssignments).
			LeftJoin(joinDelegateUser)
	}

	return p.apply(qb)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE substring pattern, escaping LIKE
// metacharacters in the user's input.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.TrimSpace(s)) + "%"
}
