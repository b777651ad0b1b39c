package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vedran77/postboard/internal/domain"
	"github.com/vedran77/postboard/internal/repository"
	"github.com/vedran77/postboard/pkg/validator"
)

type AuthService struct {
	userRepo repository.UserRepository
	creds    *Credentials
}

func NewAuthService(userRepo repository.UserRepository, creds *Credentials) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		creds:    creds,
	}
}

type SignupInput struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type SigninInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*AuthResponse, error) {
	if p := validator.ValidateSignup(input.Email, input.Username, input.Password, input.FirstName, input.LastName); p != nil {
		return nil, problemError(p)
	}

	email := validator.Normalize(input.Email)
	username := validator.Normalize(input.Username)

	if err := checkUnique(ctx, s.userRepo, uuid.Nil, email, username); err != nil {
		return nil, err
	}

	hash, err := s.creds.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		CreatedAt:    time.Now().UTC(),
	}
	user.SetPosts(nil)

	if err := s.userRepo.Create(ctx, user); err != nil {
		if conflict := uniqueConflict(err, email, username); conflict != nil {
			return nil, conflict
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	return s.TokenFor(user)
}

// CheckCredentials resolves the signin identifier and verifies the password.
// Missing fields are reported identifier first, then password.
func (s *AuthService) CheckCredentials(ctx context.Context, input SigninInput) (*domain.User, error) {
	field, ident := "username", input.Username
	if ident == "" && input.Email != "" {
		field, ident = "email", input.Email
	}
	if ident == "" {
		return nil, &MissingFieldError{Field: "username"}
	}
	if input.Password == "" {
		return nil, &MissingFieldError{Field: "password"}
	}

	var (
		user *domain.User
		err  error
	)
	if field == "email" {
		user, err = s.userRepo.GetByEmail(ctx, validator.Normalize(ident))
	} else {
		user, err = s.userRepo.GetByUsername(ctx, validator.Normalize(ident))
	}
	if err != nil {
		return nil, fmt.Errorf("looking up %s: %w", field, err)
	}
	if user == nil {
		if field == "email" {
			return nil, &UnauthenticatedError{Message: "Email address not associated with a user"}
		}
		return nil, &UnauthenticatedError{Message: "Username not associated with a user"}
	}

	ok, err := s.creds.Verify(input.Password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verifying password: %w", err)
	}
	if !ok {
		return nil, &UnauthenticatedError{Message: "Incorrect password"}
	}
	return user, nil
}

// Authenticate resolves a bearer token to the user it was issued for.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, &UnauthenticatedError{}
	}
	id, err := s.creds.VerifyToken(token)
	if err != nil {
		return nil, &UnauthenticatedError{}
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading token subject: %w", err)
	}
	if user == nil {
		return nil, &UnauthenticatedError{}
	}
	return user, nil
}

// TokenFor issues a token for user and pairs it with the sanitized user.
func (s *AuthService) TokenFor(user *domain.User) (*AuthResponse, error) {
	token, err := s.creds.IssueToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("generating token: %w", err)
	}
	return &AuthResponse{Token: token, User: user.Sanitized()}, nil
}

// checkUnique checks email then username against users other than self.
// Empty values are skipped.
func checkUnique(ctx context.Context, repo repository.UserRepository, self uuid.UUID, email, username string) error {
	if email != "" {
		existing, err := repo.GetByEmail(ctx, email)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != self {
			return &UniqueConflictError{Field: "email", Value: email}
		}
	}
	if username != "" {
		existing, err := repo.GetByUsername(ctx, username)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != self {
			return &UniqueConflictError{Field: "username", Value: username}
		}
	}
	return nil
}

// uniqueConflict turns a store-level duplicate into the API conflict error.
// Two signups can pass the pre-check together; the index catches the loser.
func uniqueConflict(err error, email, username string) error {
	var dup *repository.DuplicateError
	if !errors.As(err, &dup) {
		return nil
	}
	if dup.Field == "username" {
		return &UniqueConflictError{Field: "username", Value: username}
	}
	return &UniqueConflictError{Field: "email", Value: email}
}

func problemError(p *validator.Problem) error {
	if p.Missing {
		return &MissingFieldError{Field: p.Field}
	}
	return &InvalidFieldError{Field: p.Field, Info: p.Info}
}
