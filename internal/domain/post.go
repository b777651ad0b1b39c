package domain

import (
	"time"

	"github.com/google/uuid"
)

type Post struct {
	ID       uuid.UUID   `json:"id"`
	Content  string      `json:"content"`
	OwnerID  uuid.UUID   `json:"ownerId"`
	Likes    []uuid.UUID `json:"likes"`
	NumLikes int         `json:"numLikes"`
	PostDate time.Time   `json:"postDate"`
	// Joined field, always sanitized
	Owner *User `json:"owner,omitempty"`
}

// SetLikes replaces the like set and recomputes NumLikes in the same step.
// Duplicate ids are collapsed.
func (p *Post) SetLikes(ids []uuid.UUID) {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	likes := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		likes = append(likes, id)
	}
	p.Likes = likes
	p.NumLikes = len(likes)
}

func (p *Post) LikedBy(userID uuid.UUID) bool {
	return containsID(p.Likes, userID)
}

// ToggleLike flips userID's membership in Likes and reports whether the post
// is liked by userID afterwards.
func (p *Post) ToggleLike(userID uuid.UUID) bool {
	if p.LikedBy(userID) {
		kept, _ := without(p.Likes, userID)
		p.SetLikes(kept)
		return false
	}
	p.SetLikes(append(CloneIDs(p.Likes), userID))
	return true
}

func (p *Post) Clone() *Post {
	if p == nil {
		return nil
	}
	c := *p
	c.Likes = CloneIDs(p.Likes)
	c.Owner = p.Owner.Clone()
	return &c
}

// WithOwner returns a copy carrying the sanitized owner.
func (p *Post) WithOwner(owner *User) *Post {
	c := p.Clone()
	c.Owner = owner.Sanitized()
	if c.Likes == nil {
		c.Likes = []uuid.UUID{}
	}
	return c
}

// PostIDs collects the ids of posts in order.
func PostIDs(posts []Post) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	return ids
}
