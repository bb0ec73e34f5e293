package service_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"

	"github.com/mtlprog/taskdesk/internal/audit"
	"github.com/mtlprog/taskdesk/internal/database"
	"github.com/mtlprog/taskdesk/internal/domain"
	"github.com/mtlprog/taskdesk/internal/repository"
	"github.com/mtlprog/taskdesk/internal/service"
	"github.com/mtlprog/taskdesk/internal/txn"
)

// IntegrationTestSuite runs the services against PostgreSQL.
type IntegrationTestSuite struct {
	suite.Suite
	pool *pgxpool.Pool

	taskRepo       *repository.TaskRepository
	userRepo       *repository.UserRepository
	assignmentRepo *repository.AssignmentRepository
	commentRepo    *repository.CommentRepository
	auditRepo      *repository.AuditLogRepository

	assignments *service.AssignmentService
	tasks       *service.TaskService

	// Test fixtures
	ownerID    string
	delegateID string
}

// SetupSuite runs once before all tests.
func (s *IntegrationTestSuite) SetupSuite() {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		s.T().Skip("DATABASE_URL not set")
	}

	ctx := context.Background()

	db, err := database.New(ctx, databaseURL, database.Options{})
	s.Require().NoError(err, "failed to connect to database")
	s.pool = db.Pool()

	err = database.RunMigrations(ctx, s.pool)
	s.Require().NoError(err, "failed to run migrations")

	s.taskRepo = repository.NewTaskRepository(s.pool)
	s.userRepo = repository.NewUserRepository(s.pool)
	s.assignmentRepo = repository.NewAssignmentRepository(s.pool)
	s.commentRepo = repository.NewCommentRepository(s.pool)
	s.auditRepo = repository.NewAuditLogRepository(s.pool)

	writer := audit.NewWriter(s.auditRepo, txn.RequiresNew(s.pool), time.Second)
	s.assignments = service.NewAssignmentService(
		txn.JoinAmbient(s.pool),
		s.taskRepo,
		s.userRepo,
		s.assignmentRepo,
		writer,
		audit.NewJSONSerializer(),
	)
	s.tasks = service.NewTaskService(txn.JoinAmbient(s.pool), s.taskRepo, s.commentRepo, 100)
}

// SetupTest runs before each test.
func (s *IntegrationTestSuite) SetupTest() {
	ctx := context.Background()

	_, err := s.pool.Exec(ctx, "TRUNCATE audit_logs, comments, assignments, tasks, users CASCADE")
	s.Require().NoError(err, "failed to truncate tables")

	s.ownerID = s.createUser(ctx, "owner@example.com", "owner")
	s.delegateID = s.createUser(ctx, "delegate@example.com", "kim")
}

// TearDownSuite runs once after all tests.
func (s *IntegrationTestSuite) TearDownSuite() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *IntegrationTestSuite) createUser(ctx context.Context, email, nickname string) string {
	user := &domain.User{Email: email, Nickname: nickname}
	s.Require().NoError(s.userRepo.Create(ctx, user))
	return user.ID
}

func (s *IntegrationTestSuite) createTaskAt(ctx context.Context, title string, createdAt time.Time) string {
	var id string
	err := s.pool.QueryRow(ctx, `
		INSERT INTO tasks (title, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		RETURNING id
	`, title, s.ownerID, createdAt).Scan(&id)
	s.Require().NoError(err, "failed to create task")
	return id
}

func (s *IntegrationTestSuite) auditEntries(ctx context.Context) []*domain.AuditEntry {
	page, err := s.auditRepo.List(ctx, domain.AuditFilter{}, domain.PageRequest{Page: 0, Size: 100})
	s.Require().NoError(err)
	return page.Content
}

// TestAssign_AuditSurvivesAmbientRollback checks the audit entry commits
// independently of the caller's transaction.
func (s *IntegrationTestSuite) TestAssign_AuditSurvivesAmbientRollback() {
	ctx := context.Background()
	taskID := s.createTaskAt(ctx, "plan release", time.Now())

	tx, err := s.pool.Begin(ctx)
	s.Require().NoError(err)

	result, err := s.assignments.Assign(txn.WithTx(ctx, tx), domain.Identity{UserID: s.ownerID}, taskID, s.delegateID)
	s.Require().NoError(err)
	s.Require().NoError(tx.Rollback(ctx))

	_, err = s.assignmentRepo.GetByID(ctx, result.AssignmentID)
	s.ErrorIs(err, domain.ErrAssignmentNotFound, "assignment rolled back with the caller")

	entries := s.auditEntries(ctx)
	s.Require().Len(entries, 1)
	s.Equal(domain.AuditActionAssign, entries[0].Action)
	s.Equal(domain.AuditStatusSuccess, entries[0].Status)
	s.Require().NotNil(entries[0].TargetID)
	s.Equal(result.AssignmentID, *entries[0].TargetID)
}

// TestAssignAndRemove_Scenario walks through the assign, reject and remove flow.
func (s *IntegrationTestSuite) TestAssignAndRemove_Scenario() {
	ctx := context.Background()
	t1 := s.createTaskAt(ctx, "plan release", time.Now())
	t2 := s.createTaskAt(ctx, "write docs", time.Now())

	result, err := s.assignments.Assign(ctx, domain.Identity{UserID: s.ownerID}, t1, s.delegateID)
	s.Require().NoError(err)

	_, err = s.assignments.Assign(ctx, domain.Identity{UserID: s.delegateID}, t1, s.ownerID)
	s.ErrorIs(err, domain.ErrNotTaskOwner)

	err = s.assignments.Remove(ctx, domain.Identity{UserID: s.ownerID}, t2, result.AssignmentID)
	s.ErrorIs(err, domain.ErrAssignmentTaskMismatch)

	err = s.assignments.Remove(ctx, domain.Identity{UserID: s.ownerID}, t1, result.AssignmentID)
	s.Require().NoError(err)

	summary, err := s.auditRepo.Summary(ctx)
	s.Require().NoError(err)
	s.ElementsMatch([]domain.AuditSummaryRow{
		{Action: domain.AuditActionAssign, Status: domain.AuditStatusFail, Count: 1},
		{Action: domain.AuditActionAssign, Status: domain.AuditStatusSuccess, Count: 1},
		{Action: domain.AuditActionUnassign, Status: domain.AuditStatusFail, Count: 1},
		{Action: domain.AuditActionUnassign, Status: domain.AuditStatusSuccess, Count: 1},
	}, summary)

	entries := s.auditEntries(ctx)
	s.Require().Len(entries, 4)
	for _, e := range entries {
		if e.Action == domain.AuditActionAssign && e.Status == domain.AuditStatusFail {
			s.Nil(e.TargetID)
			s.Equal("requester is not the task owner", e.Message)
		}
		if e.Action == domain.AuditActionUnassign && e.Status == domain.AuditStatusFail {
			s.Equal(result.AssignmentID, *e.TargetID)
		}
	}
}

// TestMalformedIDs_RecordSingleFailEntry checks ids that are not UUIDs
// report not found and still leave exactly one audit entry per call.
func (s *IntegrationTestSuite) TestMalformedIDs_RecordSingleFailEntry() {
	ctx := context.Background()
	taskID := s.createTaskAt(ctx, "plan release", time.Now())
	owner := domain.Identity{UserID: s.ownerID}

	err := s.assignments.Remove(ctx, owner, taskID, "not-a-uuid")
	s.ErrorIs(err, domain.ErrAssignmentNotFound)

	entries := s.auditEntries(ctx)
	s.Require().Len(entries, 1)
	s.Equal(domain.AuditActionUnassign, entries[0].Action)
	s.Equal(domain.AuditStatusFail, entries[0].Status)
	s.Require().NotNil(entries[0].TargetID)
	s.Equal("not-a-uuid", *entries[0].TargetID)

	_, err = s.assignments.Assign(ctx, owner, "not-a-uuid", s.delegateID)
	s.ErrorIs(err, domain.ErrTaskNotFound)

	_, err = s.assignments.Assign(ctx, owner, taskID, "not-a-uuid")
	s.ErrorIs(err, domain.ErrUserNotFound)

	_, err = s.assignments.Assign(ctx, domain.Identity{UserID: "not-a-uuid"}, taskID, s.delegateID)
	s.ErrorIs(err, domain.ErrNotTaskOwner)

	summary, err := s.auditRepo.Summary(ctx)
	s.Require().NoError(err)
	s.ElementsMatch([]domain.AuditSummaryRow{
		{Action: domain.AuditActionAssign, Status: domain.AuditStatusFail, Count: 3},
		{Action: domain.AuditActionUnassign, Status: domain.AuditStatusFail, Count: 1},
	}, summary)
}

// TestSearch_TitleNewestFirst checks filtering, ordering and totals.
func (s *IntegrationTestSuite) TestSearch_TitleNewestFirst() {
	ctx := context.Background()
	base := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)
	oldest := s.createTaskAt(ctx, "Plan sprint", base)
	middle := s.createTaskAt(ctx, "release PLAN", base.Add(time.Hour))
	newest := s.createTaskAt(ctx, "planning poker", base.Add(2*time.Hour))
	s.createTaskAt(ctx, "write docs", base.Add(3*time.Hour))

	page, err := s.tasks.Search(ctx, domain.SearchCriteria{Title: "plan"}, domain.PageRequest{Page: 0, Size: 10})
	s.Require().NoError(err)
	s.Require().Len(page.Content, 3)
	s.Equal(newest, page.Content[0].TaskID)
	s.Equal(middle, page.Content[1].TaskID)
	s.Equal(oldest, page.Content[2].TaskID)
	s.Equal(int64(3), page.Total)

	for _, size := range []int{1, 2} {
		page, err := s.tasks.Search(ctx, domain.SearchCriteria{Title: "plan"}, domain.PageRequest{Page: 0, Size: size})
		s.Require().NoError(err)
		s.Len(page.Content, size)
		s.Equal(int64(3), page.Total, "total independent of page size %d", size)
	}
}

// TestSearch_DistinctCounts checks the aggregation joins do not inflate counts.
func (s *IntegrationTestSuite) TestSearch_DistinctCounts() {
	ctx := context.Background()
	taskID := s.createTaskAt(ctx, "busy task", time.Now())

	for _, nick := range []string{"d1", "d2", "d3"} {
		userID := s.createUser(ctx, nick+"@example.com", nick)
		s.Require().NoError(s.assignmentRepo.Create(ctx, &domain.Assignment{TaskID: taskID, UserID: userID}))
	}
	for i := 0; i < 5; i++ {
		_, err := s.tasks.AddComment(ctx, domain.Identity{UserID: s.ownerID}, taskID, "comment")
		s.Require().NoError(err)
	}

	page, err := s.tasks.Search(ctx, domain.SearchCriteria{}, domain.PageRequest{Page: 0, Size: 10})
	s.Require().NoError(err)
	s.Require().Len(page.Content, 1)
	s.Equal(int64(3), page.Content[0].ManagerCount)
	s.Equal(int64(5), page.Content[0].CommentCount)
	s.Equal(int64(1), page.Total)

	page, err = s.tasks.Search(ctx, domain.SearchCriteria{Nickname: "D"}, domain.PageRequest{Page: 0, Size: 1})
	s.Require().NoError(err)
	s.Require().Len(page.Content, 1)
	s.Equal(int64(1), page.Total, "one task even though three delegates match")
}

// TestSearch_InvertedRange checks an inverted range matches the ordered one.
func (s *IntegrationTestSuite) TestSearch_InvertedRange() {
	ctx := context.Background()
	s.createTaskAt(ctx, "before", time.Date(2023, 12, 31, 23, 0, 0, 0, time.UTC))
	s.createTaskAt(ctx, "first day", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	s.createTaskAt(ctx, "last day", time.Date(2024, 3, 10, 23, 59, 0, 0, time.UTC))
	s.createTaskAt(ctx, "after", time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC))

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	req := domain.PageRequest{Page: 0, Size: 1}

	ordered, err := s.tasks.Search(ctx, domain.SearchCriteria{Start: &start, End: &end}, req)
	s.Require().NoError(err)
	inverted, err := s.tasks.Search(ctx, domain.SearchCriteria{Start: &end, End: &start}, req)
	s.Require().NoError(err)

	s.Equal(int64(2), ordered.Total)
	s.Equal(ordered.Total, inverted.Total)
	s.Equal(ordered.Content, inverted.Content)
}

// TestIntegrationTestSuite runs the integration test suite.
func TestIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(IntegrationTestSuite))
}
