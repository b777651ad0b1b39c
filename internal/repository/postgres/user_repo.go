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

const userColumns = `id, email, username, password_hash, first_name, last_name,
	profile_url, background_url, portfolio_url, blurb, is_admin, is_verified,
	posts::text[], num_posts, created_at`

// Same as userColumns with the hash replaced by an empty literal, so search
// results never carry it.
const publicUserColumns = `id, email, username, '' AS password_hash, first_name, last_name,
	profile_url, background_url, portfolio_url, blurb, is_admin, is_verified,
	posts::text[], num_posts, created_at`

type UserRepo struct {
	db DB
}

func NewUserRepo(db DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, email, username, password_hash, first_name, last_name,
			profile_url, background_url, portfolio_url, blurb, is_admin, is_verified,
			posts, num_posts, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13::uuid[], $14, $15)`

	_, err := r.db.Exec(ctx, query,
		user.ID, user.Email, user.Username, user.PasswordHash, user.FirstName, user.LastName,
		user.ProfileURL, user.BackgroundURL, user.PortfolioURL, user.Blurb, user.IsAdmin, user.IsVerified,
		domain.IDStrings(user.Posts), len(user.Posts), user.CreatedAt,
	)
	return mapUniqueViolation(err)
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.scanUser(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.scanUser(ctx, "SELECT "+userColumns+" FROM users WHERE email = $1", email)
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.scanUser(ctx, "SELECT "+userColumns+" FROM users WHERE username = $1", username)
}

func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	return r.queryUsers(ctx, "SELECT "+userColumns+" FROM users ORDER BY created_at, id")
}

func (r *UserRepo) Search(ctx context.Context, q repository.UserQuery) ([]domain.User, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM users
		WHERE $1 = ''
			OR strpos(lower(username), lower($1)) > 0
			OR strpos(lower(first_name), lower($1)) > 0
			OR strpos(lower(last_name), lower($1)) > 0
			OR strpos(lower(blurb), lower($1)) > 0
		ORDER BY first_name %s, id
		OFFSET $2 LIMIT $3`, publicUserColumns, direction(q.Ascending))

	return r.queryUsers(ctx, query, q.Text, q.Page.Skip, limitArg(q.Page))
}

func (r *UserRepo) Update(ctx context.Context, user *domain.User) (bool, error) {
	query := `
		UPDATE users SET email = $2, username = $3, password_hash = $4, first_name = $5,
			last_name = $6, profile_url = $7, background_url = $8, portfolio_url = $9,
			blurb = $10, is_admin = $11, is_verified = $12, posts = $13::uuid[], num_posts = $14
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		user.ID, user.Email, user.Username, user.PasswordHash, user.FirstName,
		user.LastName, user.ProfileURL, user.BackgroundURL, user.PortfolioURL,
		user.Blurb, user.IsAdmin, user.IsVerified, domain.IDStrings(user.Posts), len(user.Posts),
	)
	if err != nil {
		return false, mapUniqueViolation(err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *UserRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *UserRepo) scanUser(ctx context.Context, query string, arg any) (*domain.User, error) {
	u, err := scanUserRow(r.db.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

func (r *UserRepo) queryUsers(ctx context.Context, query string, args ...any) ([]domain.User, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		u, err := scanUserRow(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func scanUserRow(row pgx.Row) (*domain.User, error) {
	var u domain.User
	var posts []string
	err := row.Scan(
		&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.FirstName, &u.LastName,
		&u.ProfileURL, &u.BackgroundURL, &u.PortfolioURL, &u.Blurb, &u.IsAdmin, &u.IsVerified,
		&posts, &u.NumPosts, &u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	ids, err := domain.ParseIDStrings(posts)
	if err != nil {
		return nil, fmt.Errorf("decoding posts of user %s: %w", u.ID, err)
	}
	u.SetPosts(ids)
	return &u, nil
}
