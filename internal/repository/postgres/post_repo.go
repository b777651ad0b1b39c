package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/vedran77/postboard/internal/domain"
	"github.com/vedran77/postboard/internal/repository"
)

const postColumns = `id, content, owner_id, likes::text[], num_likes, post_date`

type PostRepo struct {
	db DB
}

func NewPostRepo(db DB) *PostRepo {
	return &PostRepo{db: db}
}

func (r *PostRepo) Create(ctx context.Context, post *domain.Post) error {
	query := `
		INSERT INTO posts (id, content, owner_id, likes, num_likes, post_date)
		VALUES ($1, $2, $3, $4::uuid[], $5, $6)`
	_, err := r.db.Exec(ctx, query,
		post.ID, post.Content, post.OwnerID, domain.IDStrings(post.Likes), len(post.Likes), post.PostDate,
	)
	return err
}

func (r *PostRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	p, err := scanPostRow(r.db.QueryRow(ctx, "SELECT "+postColumns+" FROM posts WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

func (r *PostRepo) List(ctx context.Context) ([]domain.Post, error) {
	return r.queryPosts(ctx, "SELECT "+postColumns+" FROM posts ORDER BY post_date, id")
}

func (r *PostRepo) Search(ctx context.Context, q repository.PostQuery) ([]domain.Post, error) {
	column := "post_date"
	if q.SortBy == repository.SortByLikes {
		column = "num_likes"
	}

	var ids any
	if q.IDs != nil {
		ids = domain.IDStrings(q.IDs)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM posts
		WHERE ($1 = '' OR strpos(lower(content), lower($1)) > 0)
			AND ($2::uuid[] IS NULL OR id = ANY($2::uuid[]))
		ORDER BY %s %s, id
		OFFSET $3 LIMIT $4`, postColumns, column, direction(q.Ascending))

	return r.queryPosts(ctx, query, q.Text, ids, q.Page.Skip, limitArg(q.Page))
}

func (r *PostRepo) Update(ctx context.Context, post *domain.Post) (bool, error) {
	query := `UPDATE posts SET content = $2, likes = $3::uuid[], num_likes = $4 WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, post.ID, post.Content, domain.IDStrings(post.Likes), len(post.Likes))
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PostRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PostRepo) queryPosts(ctx context.Context, query string, args ...any) ([]domain.Post, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []domain.Post{}
	for rows.Next() {
		p, err := scanPostRow(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

func scanPostRow(row pgx.Row) (*domain.Post, error) {
	var p domain.Post
	var likes []string
	if err := row.Scan(&p.ID, &p.Content, &p.OwnerID, &likes, &p.NumLikes, &p.PostDate); err != nil {
		return nil, err
	}
	ids, err := domain.ParseIDStrings(likes)
	if err != nil {
		return nil, fmt.Errorf("decoding likes of post %s: %w", p.ID, err)
	}
	p.SetLikes(ids)
	return &p, nil
}
