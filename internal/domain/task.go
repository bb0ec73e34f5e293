package domain

import "time"

// Task represents a unit of work owned by a user.
type Task struct {
	ID        string
	Title     string
	Contents  string
	Weather   string
	OwnerID   *string // nil when the owner account no longer exists
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasOwner reports whether the task is bound to an owner.
func (t *Task) HasOwner() bool {
	return t.OwnerID != nil && *t.OwnerID != ""
}

// IsOwnedBy checks if the task belongs to the given user.
func (t *Task) IsOwnedBy(userID string) bool {
	return t.HasOwner() && *t.OwnerID == userID
}

// Comment is a note left on a task.
type Comment struct {
	ID        string
	TaskID    string
	UserID    string
	Contents  string
	CreatedAt time.Time
}
