package domain

import "time"

// User is a registered account that can own tasks or act as a delegate.
type User struct {
	ID        string
	Email     string
	Nickname  string
	CreatedAt time.Time
}

// Summary returns the minimal public representation of the user.
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Email: u.Email, Nickname: u.Nickname}
}

// UserSummary is the minimal representation of a user exposed to callers.
type UserSummary struct {
	ID       string
	Email    string
	Nickname string
}

// Identity is the authenticated caller, resolved from the bearer token.
type Identity struct {
	UserID   string
	Email    string
	Nickname string
}
