package domain

import "time"

// User represents a catalog member who can like films and befriend others.
type User struct {
	ID       int64
	Email    string
	Login    string
	Name     string
	Birthday *time.Time
}

// DisplayName falls back to the login when no name was given.
func (u User) DisplayName() string {
	if u.Name == "" {
		return u.Login
	}
	return u.Name
}

// Like records that a user endorsed a film. A pair exists at most once.
type Like struct {
	UserID int64
	FilmID int64
}
