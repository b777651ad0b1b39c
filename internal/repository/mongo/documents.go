// Package mongo stores users and posts as MongoDB documents. Ids are kept as
// canonical uuid strings in _id so they compare equal across every store.
package mongo

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vedran77/postboard/internal/domain"
)

const (
	UsersCollection = "users"
	PostsCollection = "posts"
)

type userDocument struct {
	ID            string    `bson:"_id"`
	Email         string    `bson:"email"`
	Username      string    `bson:"username"`
	Password      string    `bson:"password"`
	FirstName     string    `bson:"firstName"`
	LastName      string    `bson:"lastName"`
	ProfileURL    string    `bson:"profileUrl"`
	BackgroundURL string    `bson:"backgroundUrl"`
	PortfolioURL  string    `bson:"portfolioUrl"`
	Blurb         string    `bson:"blurb"`
	IsAdmin       bool      `bson:"isAdmin"`
	IsVerified    bool      `bson:"isVerified"`
	Posts         []string  `bson:"posts"`
	NumPosts      int       `bson:"numPosts"`
	CreatedAt     time.Time `bson:"accountCreated"`
}

type postDocument struct {
	ID       string    `bson:"_id"`
	Content  string    `bson:"content"`
	Owner    string    `bson:"owner"`
	Likes    []string  `bson:"likes"`
	NumLikes int       `bson:"numLikes"`
	PostDate time.Time `bson:"postDate"`
}

func newUserDocument(u *domain.User) userDocument {
	return userDocument{
		ID:            u.ID.String(),
		Email:         u.Email,
		Username:      u.Username,
		Password:      u.PasswordHash,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		ProfileURL:    u.ProfileURL,
		BackgroundURL: u.BackgroundURL,
		PortfolioURL:  u.PortfolioURL,
		Blurb:         u.Blurb,
		IsAdmin:       u.IsAdmin,
		IsVerified:    u.IsVerified,
		Posts:         domain.IDStrings(u.Posts),
		NumPosts:      len(u.Posts),
		CreatedAt:     u.CreatedAt,
	}
}

func (d userDocument) toDomain() (*domain.User, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("decoding user id %q: %w", d.ID, err)
	}
	posts, err := domain.ParseIDStrings(d.Posts)
	if err != nil {
		return nil, fmt.Errorf("decoding posts of user %s: %w", d.ID, err)
	}
	u := &domain.User{
		ID:            id,
		Email:         d.Email,
		Username:      d.Username,
		PasswordHash:  d.Password,
		FirstName:     d.FirstName,
		LastName:      d.LastName,
		ProfileURL:    d.ProfileURL,
		BackgroundURL: d.BackgroundURL,
		PortfolioURL:  d.PortfolioURL,
		Blurb:         d.Blurb,
		IsAdmin:       d.IsAdmin,
		IsVerified:    d.IsVerified,
		CreatedAt:     d.CreatedAt,
	}
	u.SetPosts(posts)
	return u, nil
}

func newPostDocument(p *domain.Post) postDocument {
	return postDocument{
		ID:       p.ID.String(),
		Content:  p.Content,
		Owner:    p.OwnerID.String(),
		Likes:    domain.IDStrings(p.Likes),
		NumLikes: len(p.Likes),
		PostDate: p.PostDate,
	}
}

func (d postDocument) toDomain() (*domain.Post, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("decoding post id %q: %w", d.ID, err)
	}
	owner, err := uuid.Parse(d.Owner)
	if err != nil {
		return nil, fmt.Errorf("decoding owner of post %s: %w", d.ID, err)
	}
	likes, err := domain.ParseIDStrings(d.Likes)
	if err != nil {
		return nil, fmt.Errorf("decoding likes of post %s: %w", d.ID, err)
	}
	p := &domain.Post{ID: id, Content: d.Content, OwnerID: owner, PostDate: d.PostDate}
	p.SetLikes(likes)
	return p, nil
}
