package search_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtlprog/taskdesk/internal/domain"
	"github.com/mtlprog/taskdesk/internal/search"
)

func date(s string) *time.Time {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestBuild_EmptyCriteriaHasNoConditions(t *testing.T) {
	p := search.Build(domain.SearchCriteria{Title: "   "})

	assert.True(t, p.IsEmpty())
	assert.False(t, p.JoinDelegateUser)

	query, args, err := search.ContentQuery(p, domain.PageRequest{Page: 0, Size: 10}).ToSql()
	require.NoError(t, err)
	assert.NotContains(t, query, "WHERE")
	assert.Empty(t, args)

	countQuery, _, err := search.CountQuery(p).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(DISTINCT t.id) FROM tasks t", countQuery)
}

func TestBuild_TitleIsCaseInsensitiveSubstring(t *testing.T) {
	p := search.Build(domain.SearchCriteria{Title: " plan "})

	query, args, err := search.ContentQuery(p, domain.PageRequest{Page: 0, Size: 10}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, query, "t.title ILIKE $1")
	assert.Equal(t, []any{"%plan%"}, args)
	assert.False(t, p.JoinDelegateUser)
}

func TestBuild_EscapesLikeMetacharacters(t *testing.T) {
	p := search.Build(domain.SearchCriteria{Title: `50%_off\`})

	_, args, err := search.CountQuery(p).ToSql()
	require.NoError(t, err)
	assert.Equal(t, []any{`%50\%\_off\\%`}, args)
}

func TestBuild_WithoutNicknameNeverJoinsDelegateUser(t *testing.T) {
	p := search.Build(domain.SearchCriteria{Title: "plan", Weather: "Sunny", Start: date("2024-01-01")})

	content, _, err := search.ContentQuery(p, domain.PageRequest{Page: 0, Size: 10}).ToSql()
	require.NoError(t, err)
	count, _, err := search.CountQuery(p).ToSql()
	require.NoError(t, err)

	assert.NotContains(t, content, "users u")
	assert.NotContains(t, count, "users u")
	assert.NotContains(t, count, "assignments a")
}

func TestBuild_NicknameAddsDelegateUserJoin(t *testing.T) {
	p := search.Build(domain.SearchCriteria{Nickname: "Kim"})
	require.True(t, p.JoinDelegateUser)

	content, args, err := search.ContentQuery(p, domain.PageRequest{Page: 0, Size: 10}).ToSql()
	require.NoError(t, err)
	assert.Contains(t, content, "LEFT JOIN users u ON u.id = a.user_id")
	assert.Contains(t, content, "u.nickname ILIKE $1")
	assert.Equal(t, []any{"%Kim%"}, args)

	count, countArgs, err := search.CountQuery(p).ToSql()
	require.NoError(t, err)
	assert.Contains(t, count, "LEFT JOIN assignments a ON a.task_id = t.id")
	assert.Contains(t, count, "LEFT JOIN users u ON u.id = a.user_id")
	assert.Equal(t, args, countArgs)
}

func TestCountQuery_NeverJoinsComments(t *testing.T) {
	p := search.Build(domain.SearchCriteria{Title: "plan", Nickname: "kim"})

	count, _, err := search.CountQuery(p).ToSql()
	require.NoError(t, err)
	assert.NotContains(t, count, "comments")
	assert.NotContains(t, count, "GROUP BY")
	assert.Contains(t, count, "COUNT(DISTINCT t.id)")
}

func TestContentQuery_GroupsOrdersAndPaginates(t *testing.T) {
	query, _, err := search.ContentQuery(search.Predicate{}, domain.PageRequest{Page: 2, Size: 10}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, query, "COUNT(DISTINCT a.id) AS manager_count")
	assert.Contains(t, query, "COUNT(DISTINCT c.id) AS comment_count")
	assert.Contains(t, query, "LEFT JOIN assignments a ON a.task_id = t.id")
	assert.Contains(t, query, "LEFT JOIN comments c ON c.task_id = t.id")
	assert.Contains(t, query, "GROUP BY t.id")
	assert.Contains(t, query, "ORDER BY t.created_at DESC, t.id DESC")
	assert.Contains(t, query, "LIMIT 10")
	assert.Contains(t, query, "OFFSET 20")
}

func TestBuild_DateRangeCoversWholeEndDay(t *testing.T) {
	p := search.Build(domain.SearchCriteria{Start: date("2024-01-01"), End: date("2024-03-10")})

	query, args, err := search.CountQuery(p).ToSql()
	require.NoError(t, err)

	assert.Contains(t, query, "t.created_at >= $1")
	assert.Contains(t, query, "t.created_at < $2")
	require.Len(t, args, 2)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), args[0])
	assert.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), args[1])
}

func TestBuild_InvertedRangeEqualsOrderedRange(t *testing.T) {
	inverted := search.Build(domain.SearchCriteria{Start: date("2024-03-10"), End: date("2024-01-01")})
	ordered := search.Build(domain.SearchCriteria{Start: date("2024-01-01"), End: date("2024-03-10")})

	page := domain.PageRequest{Page: 0, Size: 10}
	q1, a1, err := search.ContentQuery(inverted, page).ToSql()
	require.NoError(t, err)
	q2, a2, err := search.ContentQuery(ordered, page).ToSql()
	require.NoError(t, err)

	assert.Equal(t, q2, q1)
	assert.Equal(t, a2, a1)
}

func TestBuild_StartTimeOfDayIsIgnored(t *testing.T) {
	start := time.Date(2024, 5, 5, 17, 30, 0, 0, time.UTC)
	p := search.Build(domain.SearchCriteria{Start: &start})

	_, args, err := search.CountQuery(p).ToSql()
	require.NoError(t, err)
	assert.Equal(t, []any{time.Date(2024, 5, 5, 0, 0, 0, 0, time.UTC)}, args)
}

func TestBuild_WeatherIsCaseInsensitiveEquality(t *testing.T) {
	p := search.Build(domain.SearchCriteria{Weather: "sunny"})

	query, args, err := search.CountQuery(p).ToSql()
	require.NoError(t, err)
	assert.Contains(t, query, "LOWER(t.weather) = LOWER($1)")
	assert.Equal(t, []any{"sunny"}, args)
}
