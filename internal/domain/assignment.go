package domain

import "time"

// Assignment binds a delegate user to a task.
type Assignment struct {
	ID        string
	TaskID    string
	UserID    string
	CreatedAt time.Time

	// Delegate is populated by queries that join the user.
	Delegate *User
}

// BelongsTo checks if the assignment is bound to the given task.
func (a *Assignment) BelongsTo(taskID string) bool {
	return a.TaskID == taskID
}
