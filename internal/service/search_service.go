package service

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/vedran77/postboard/internal/domain"
	"github.com/vedran77/postboard/internal/repository"
)

const (
	defaultPage       = 1
	defaultNumPerPage = 5
	// userPostPreview is how many post ids each user search hit keeps.
	userPostPreview = 2
)

type SearchService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
}

func NewSearchService(postRepo repository.PostRepository, userRepo repository.UserRepository) *SearchService {
	return &SearchService{
		postRepo: postRepo,
		userRepo: userRepo,
	}
}

// SearchParams is the raw query string input of both search routes.
type SearchParams struct {
	Query      string
	Field      string
	Sort       string
	Page       string
	NumPerPage string
}

type PostSearchResult struct {
	Results    []domain.Post `json:"results"`
	ResultIDs  []uuid.UUID   `json:"resultIds"`
	NumResults int           `json:"numResults"`
}

type UserSearchResult struct {
	Results     []domain.User `json:"results"`
	ResultIDs   []uuid.UUID   `json:"resultIds"`
	PostResults []domain.Post `json:"postResults"`
	NumResults  int           `json:"numResults"`
}

// ParsePagination turns page and numPerPage strings into a store page.
// Anything absent, non-numeric or below 1 falls back to the default.
func ParsePagination(page, numPerPage string) repository.Page {
	p := positiveOr(page, defaultPage)
	n := positiveOr(numPerPage, defaultNumPerPage)
	// A page whose offset would overflow is treated like any other bad page.
	if p-1 > math.MaxInt/n {
		p = defaultPage
	}
	return repository.Page{Skip: (p - 1) * n, Limit: n}
}

func positiveOr(raw string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

// ascending reads the sort flag: "a" is ascending, anything else descending.
func ascending(flag string) bool {
	return strings.EqualFold(strings.TrimSpace(flag), "a")
}

func (s *SearchService) SearchPosts(ctx context.Context, params SearchParams) (*PostSearchResult, error) {
	sortBy := repository.SortByDate
	if strings.EqualFold(params.Field, "likes") {
		sortBy = repository.SortByLikes
	}

	posts, err := s.postRepo.Search(ctx, repository.PostQuery{
		Text:      params.Query,
		SortBy:    sortBy,
		Ascending: ascending(params.Sort),
		Page:      ParsePagination(params.Page, params.NumPerPage),
	})
	if err != nil {
		return nil, fmt.Errorf("searching posts: %w", err)
	}

	populated, err := populate(ctx, s.userRepo, posts)
	if err != nil {
		return nil, err
	}
	return &PostSearchResult{
		Results:    populated,
		ResultIDs:  domain.PostIDs(populated),
		NumResults: len(populated),
	}, nil
}

// SearchUsers trims every hit's posts to a short preview, then loads those
// posts in full. numPosts keeps the untrimmed count.
func (s *SearchService) SearchUsers(ctx context.Context, params SearchParams) (*UserSearchResult, error) {
	users, err := s.userRepo.Search(ctx, repository.UserQuery{
		Text:      params.Query,
		Ascending: ascending(params.Sort),
		Page:      ParsePagination(params.Page, params.NumPerPage),
	})
	if err != nil {
		return nil, fmt.Errorf("searching users: %w", err)
	}

	results := make([]domain.User, 0, len(users))
	preview := []uuid.UUID{}
	for i := range users {
		u := users[i].Sanitized()
		if len(u.Posts) > userPostPreview {
			u.Posts = u.Posts[:userPostPreview]
		}
		preview = append(preview, u.Posts...)
		results = append(results, *u)
	}

	posts, err := s.postRepo.Search(ctx, repository.PostQuery{
		IDs:    preview,
		SortBy: repository.SortByDate,
	})
	if err != nil {
		return nil, fmt.Errorf("loading preview posts: %w", err)
	}
	populated, err := populate(ctx, s.userRepo, posts)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(results))
	for _, u := range results {
		ids = append(ids, u.ID)
	}

	return &UserSearchResult{
		Results:     results,
		ResultIDs:   ids,
		PostResults: populated,
		NumResults:  len(results),
	}, nil
}
