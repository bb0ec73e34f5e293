package service

import (
	"github.com/mtlprog/taskdesk/internal/domain"
)

// CanManageDelegates validates that the requester owns the task.
// A task without an owner cannot have its delegates changed by anyone.
func CanManageDelegates(task *domain.Task, requesterID string) error {
	if !task.IsOwnedBy(requesterID) {
		return domain.ErrNotTaskOwner
	}
	return nil
}

// CanAssign validates that the owner is not assigning themselves.
func CanAssign(requesterID string, candidate *domain.User) error {
	if candidate.ID == requesterID {
		return domain.ErrSelfAssignment
	}
	return nil
}

// CanRemove validates that the assignment is bound to the task it is being
// removed from.
func CanRemove(task *domain.Task, assignment *domain.Assignment) error {
	if !assignment.BelongsTo(task.ID) {
		return domain.ErrAssignmentTaskMismatch
	}
	return nil
}
