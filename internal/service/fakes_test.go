package service_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/mtlprog/taskdesk/internal/domain"
)

// passThroughUoW runs fn directly, optionally failing after fn succeeded as
// a commit would.
type passThroughUoW struct {
	calls     int
	commitErr error
}

func (u *passThroughUoW) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	u.calls++
	if err := fn(ctx); err != nil {
		return err
	}
	return u.commitErr
}

type fakeTasks struct {
	tasks      map[string]*domain.Task
	created    []*domain.Task
	searchErr  error
	lastSearch domain.SearchCriteria
	lastPage   domain.PageRequest
}

func newFakeTasks(tasks ...*domain.Task) *fakeTasks {
	f := &fakeTasks{tasks: map[string]*domain.Task{}}
	for _, t := range tasks {
		f.tasks[t.ID] = t
	}
	return f
}

func (f *fakeTasks) GetByID(_ context.Context, taskID string) (*domain.Task, error) {
	t, ok := f.tasks[taskID]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return t, nil
}

func (f *fakeTasks) Create(_ context.Context, task *domain.Task) (*domain.Task, error) {
	task.ID = fmt.Sprintf("task-%d", len(f.created)+1)
	f.created = append(f.created, task)
	f.tasks[task.ID] = task
	return task, nil
}

func (f *fakeTasks) Search(
	_ context.Context,
	criteria domain.SearchCriteria,
	page domain.PageRequest,
) (*domain.Page[domain.SearchResultRow], error) {
	f.lastSearch = criteria
	f.lastPage = page
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return &domain.Page[domain.SearchResultRow]{Content: []domain.SearchResultRow{}, Request: page}, nil
}

type fakeUsers map[string]*domain.User

func (f fakeUsers) GetByID(_ context.Context, userID string) (*domain.User, error) {
	u, ok := f[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

type fakeAssignments struct {
	byID      map[string]*domain.Assignment
	seq       int
	createErr error
	deleted   []string
}

func newFakeAssignments(existing ...*domain.Assignment) *fakeAssignments {
	f := &fakeAssignments{byID: map[string]*domain.Assignment{}}
	for _, a := range existing {
		f.byID[a.ID] = a
	}
	return f
}

func (f *fakeAssignments) Create(_ context.Context, a *domain.Assignment) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.seq++
	a.ID = fmt.Sprintf("assignment-%d", f.seq)
	f.byID[a.ID] = a
	return nil
}

func (f *fakeAssignments) GetByID(_ context.Context, id string) (*domain.Assignment, error) {
	a, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrAssignmentNotFound
	}
	return a, nil
}

func (f *fakeAssignments) Delete(_ context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrAssignmentNotFound
	}
	delete(f.byID, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeAssignments) ListByTask(_ context.Context, taskID string) ([]*domain.Assignment, error) {
	var out []*domain.Assignment
	for _, a := range f.byID {
		if a.TaskID == taskID {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeComments struct {
	created []*domain.Comment
}

func (f *fakeComments) Create(_ context.Context, c *domain.Comment) error {
	c.ID = fmt.Sprintf("comment-%d", len(f.created)+1)
	f.created = append(f.created, c)
	return nil
}

// recordingAudit captures audit writes. It mimics the real writer's
// contract of never failing.
type recordingAudit struct {
	entries []domain.AuditEntry
}

func (r *recordingAudit) Write(
	_ context.Context,
	action domain.AuditAction,
	status domain.AuditStatus,
	requesterID *string,
	targetID *string,
	message string,
	payload string,
) {
	r.entries = append(r.entries, domain.AuditEntry{
		Action:      action,
		Status:      status,
		RequesterID: requesterID,
		TargetID:    targetID,
		Message:     message,
		Payload:     payload,
	})
}

type failingAuditStore struct {
	calls int
}

func (s *failingAuditStore) Append(context.Context, *domain.AuditEntry) error {
	s.calls++
	return errors.New("audit_logs: relation does not exist")
}

type fakeAuditReader struct {
	lastFilter domain.AuditFilter
	lastPage   domain.PageRequest
	summary    []domain.AuditSummaryRow
}

func (f *fakeAuditReader) List(
	_ context.Context,
	filter domain.AuditFilter,
	page domain.PageRequest,
) (*domain.Page[*domain.AuditEntry], error) {
	f.lastFilter = filter
	f.lastPage = page
	return &domain.Page[*domain.AuditEntry]{Content: []*domain.AuditEntry{}, Request: page}, nil
}

func (f *fakeAuditReader) Summary(context.Context) ([]domain.AuditSummaryRow, error) {
	return f.summary, nil
}
