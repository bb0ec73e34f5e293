package service

import (
	"context"

	"github.com/mtlprog/taskdesk/internal/domain"
	"github.com/mtlprog/taskdesk/internal/logger"
	"github.com/mtlprog/taskdesk/internal/txn"
)

const (
	messageDelegateAssigned = "delegate assigned"
	messageDelegateRemoved  = "delegate removed"
)

// AssignResult is the outcome of a successful Assign.
type AssignResult struct {
	AssignmentID string
	Delegate     domain.UserSummary
}

// AssignmentView is one delegate of a task.
type AssignmentView struct {
	ID       string
	Delegate domain.UserSummary
}

// AssignmentService assigns and removes task delegates. Every Assign and
// Remove call records exactly one audit entry describing its outcome.
type AssignmentService struct {
	uow         txn.UnitOfWork
	tasks       TaskStore
	users       UserFinder
	assignments AssignmentStore
	audit       AuditWriter
	serializer  PayloadSerializer
}

// NewAssignmentService creates a new AssignmentService. uow scopes the
// business steps and should join the caller's transaction when there is one.
func NewAssignmentService(
	uow txn.UnitOfWork,
	tasks TaskStore,
	users UserFinder,
	assignments AssignmentStore,
	audit AuditWriter,
	serializer PayloadSerializer,
) *AssignmentService {
	return &AssignmentService{
		uow:         uow,
		tasks:       tasks,
		users:       users,
		assignments: assignments,
		audit:       audit,
		serializer:  serializer,
	}
}

// Assign makes candidateUserID a delegate of the task. Only the task owner
// may assign, and never to themselves.
func (s *AssignmentService) Assign(
	ctx context.Context,
	requester domain.Identity,
	taskID string,
	candidateUserID string,
) (*AssignResult, error) {
	requesterID := optional(requester.UserID)
	payload := s.serializer.Serialize(map[string]any{
		"taskId":          taskID,
		"candidateUserId": candidateUserID,
		"requesterId":     requester.UserID,
	})

	result, err := txn.DoResult(ctx, s.uow, func(ctx context.Context) (*AssignResult, error) {
		task, err := s.tasks.GetByID(ctx, taskID)
		if err != nil {
			return nil, err
		}

		if err := CanManageDelegates(task, requester.UserID); err != nil {
			return nil, err
		}

		candidate, err := s.users.GetByID(ctx, candidateUserID)
		if err != nil {
			return nil, err
		}

		if err := CanAssign(requester.UserID, candidate); err != nil {
			return nil, err
		}

		assignment := &domain.Assignment{TaskID: task.ID, UserID: candidate.ID}
		if err := s.assignments.Create(ctx, assignment); err != nil {
			return nil, err
		}

		return &AssignResult{AssignmentID: assignment.ID, Delegate: candidate.Summary()}, nil
	})
	if err != nil {
		s.audit.Write(ctx, domain.AuditActionAssign, domain.AuditStatusFail, requesterID, nil, err.Error(), payload)
		workflowOutcomes.WithLabelValues("assign", "fail").Inc()
		logger.FromContext(ctx).Info("delegate assignment rejected",
			"task_id", taskID,
			"candidate_user_id", candidateUserID,
			"requester_id", requester.UserID,
			"error", err,
		)
		return nil, err
	}

	s.audit.Write(ctx, domain.AuditActionAssign, domain.AuditStatusSuccess,
		requesterID, &result.AssignmentID, messageDelegateAssigned, payload)
	workflowOutcomes.WithLabelValues("assign", "success").Inc()
	logger.FromContext(ctx).Info("delegate assigned",
		"task_id", taskID,
		"assignment_id", result.AssignmentID,
		"delegate_id", result.Delegate.ID,
		"requester_id", requester.UserID,
	)

	return result, nil
}

// Remove deletes an assignment from the task. Only the task owner may remove,
// and only an assignment that belongs to the task.
func (s *AssignmentService) Remove(
	ctx context.Context,
	requester domain.Identity,
	taskID string,
	assignmentID string,
) error {
	requesterID := optional(requester.UserID)
	targetID := optional(assignmentID)
	payload := s.serializer.Serialize(map[string]any{
		"taskId":       taskID,
		"assignmentId": assignmentID,
		"requesterId":  requester.UserID,
	})

	err := s.uow.Do(ctx, func(ctx context.Context) error {
		task, err := s.tasks.GetByID(ctx, taskID)
		if err != nil {
			return err
		}

		if err := CanManageDelegates(task, requester.UserID); err != nil {
			return err
		}

		assignment, err := s.assignments.GetByID(ctx, assignmentID)
		if err != nil {
			return err
		}

		if err := CanRemove(task, assignment); err != nil {
			return err
		}

		return s.assignments.Delete(ctx, assignment.ID)
	})
	if err != nil {
		s.audit.Write(ctx, domain.AuditActionUnassign, domain.AuditStatusFail, requesterID, targetID, err.Error(), payload)
		workflowOutcomes.WithLabelValues("remove", "fail").Inc()
		logger.FromContext(ctx).Info("delegate removal rejected",
			"task_id", taskID,
			"assignment_id", assignmentID,
			"requester_id", requester.UserID,
			"error", err,
		)
		return err
	}

	s.audit.Write(ctx, domain.AuditActionUnassign, domain.AuditStatusSuccess,
		requesterID, targetID, messageDelegateRemoved, payload)
	workflowOutcomes.WithLabelValues("remove", "success").Inc()
	logger.FromContext(ctx).Info("delegate removed",
		"task_id", taskID,
		"assignment_id", assignmentID,
		"requester_id", requester.UserID,
	)

	return nil
}

// ListAssignments returns the delegates of a task, oldest first.
func (s *AssignmentService) ListAssignments(ctx context.Context, taskID string) ([]AssignmentView, error) {
	return txn.DoResult(ctx, s.uow, func(ctx context.Context) ([]AssignmentView, error) {
		if _, err := s.tasks.GetByID(ctx, taskID); err != nil {
			return nil, err
		}

		assignments, err := s.assignments.ListByTask(ctx, taskID)
		if err != nil {
			return nil, err
		}

		views := make([]AssignmentView, 0, len(assignments))
		for _, a := range assignments {
			view := AssignmentView{ID: a.ID}
			if a.Delegate != nil {
				view.Delegate = a.Delegate.Summary()
			}
			views = append(views, view)
		}
		return views, nil
	})
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
