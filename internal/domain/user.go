package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID            uuid.UUID   `json:"id"`
	Email         string      `json:"email"`
	Username      string      `json:"username"`
	PasswordHash  string      `json:"-"`
	FirstName     string      `json:"firstName"`
	LastName      string      `json:"lastName"`
	ProfileURL    string      `json:"profileUrl"`
	BackgroundURL string      `json:"backgroundUrl"`
	PortfolioURL  string      `json:"portfolioUrl"`
	Blurb         string      `json:"blurb"`
	IsAdmin       bool        `json:"isAdmin"`
	IsVerified    bool        `json:"isVerified"`
	Posts         []uuid.UUID `json:"posts"`
	NumPosts      int         `json:"numPosts"`
	CreatedAt     time.Time   `json:"accountCreated"`
	// Derived, filled by Sanitized
	FullName string `json:"fullName"`
}

// SetPosts replaces the post list and recomputes NumPosts in the same step.
func (u *User) SetPosts(ids []uuid.UUID) {
	u.Posts = ids
	if u.Posts == nil {
		u.Posts = []uuid.UUID{}
	}
	u.NumPosts = len(u.Posts)
}

// AddPost appends id unless the user already references it.
func (u *User) AddPost(id uuid.UUID) {
	if u.HasPost(id) {
		return
	}
	u.SetPosts(append(CloneIDs(u.Posts), id))
}

// RemovePost drops every occurrence of id and reports whether anything was removed.
func (u *User) RemovePost(id uuid.UUID) bool {
	kept, removed := without(u.Posts, id)
	u.SetPosts(kept)
	return removed
}

func (u *User) HasPost(id uuid.UUID) bool {
	return containsID(u.Posts, id)
}

// Sanitized returns a copy that is safe to serialize: no password hash and
// derived fields filled.
func (u *User) Sanitized() *User {
	if u == nil {
		return nil
	}
	c := u.Clone()
	c.PasswordHash = ""
	c.FullName = u.FirstName + " " + u.LastName
	if c.Posts == nil {
		c.Posts = []uuid.UUID{}
	}
	return c
}

// Clone is a deep copy; stores hand out clones so callers never share slices.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.Posts = CloneIDs(u.Posts)
	return &c
}

// SanitizeUsers sanitizes every element of users.
func SanitizeUsers(users []User) []User {
	out := make([]User, 0, len(users))
	for i := range users {
		out = append(out, *users[i].Sanitized())
	}
	return out
}
