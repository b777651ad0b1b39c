package service

import (
	"context"
	"fmt"

	"github.com/vedran77/postboard/internal/domain"
	"github.com/vedran77/postboard/internal/repository"
	"github.com/vedran77/postboard/pkg/validator"
)

type UserService struct {
	userRepo repository.UserRepository
	creds    *Credentials
}

func NewUserService(userRepo repository.UserRepository, creds *Credentials) *UserService {
	return &UserService{
		userRepo: userRepo,
		creds:    creds,
	}
}

// UpdateUserInput is applied field by field. Zero values mean "leave as is",
// so a blurb cannot be cleared and a flag cannot be switched off here.
type UpdateUserInput struct {
	Email         string `json:"email"`
	Username      string `json:"username"`
	Password      string `json:"password"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	ProfileURL    string `json:"profileUrl"`
	BackgroundURL string `json:"backgroundUrl"`
	PortfolioURL  string `json:"portfolioUrl"`
	Blurb         string `json:"blurb"`
	IsAdmin       bool   `json:"isAdmin"`
	IsVerified    bool   `json:"isVerified"`
	AuthPassword  string `json:"authPassword"`
}

func (s *UserService) Get(ctx context.Context, rawID string) (*domain.User, error) {
	user, err := loadUser(ctx, s.userRepo, rawID, "")
	if err != nil {
		return nil, err
	}
	return user.Sanitized(), nil
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return domain.SanitizeUsers(users), nil
}

// Update patches the user. A password change must be confirmed with the
// current password; if that check fails nothing is written. The admin flags
// are only honored when asAdmin is set.
func (s *UserService) Update(ctx context.Context, rawID string, input UpdateUserInput, asAdmin bool) (*domain.User, error) {
	user, err := loadUser(ctx, s.userRepo, rawID, "")
	if err != nil {
		return nil, err
	}

	if input.Password != "" {
		ok, err := s.creds.Verify(input.AuthPassword, user.PasswordHash)
		if err != nil {
			return nil, fmt.Errorf("verifying password: %w", err)
		}
		if !ok {
			return nil, &BadCredentialsError{Message: "Passed credentials don't match stored credentials"}
		}
	}

	email := validator.Normalize(input.Email)
	username := validator.Normalize(input.Username)
	if email != "" && !validator.IsEmail(email) {
		return nil, &InvalidFieldError{Field: "email", Info: "invalid email address"}
	}
	if email == user.Email {
		email = ""
	}
	if username == user.Username {
		username = ""
	}
	if err := checkUnique(ctx, s.userRepo, user.ID, email, username); err != nil {
		return nil, err
	}

	if input.Password != "" {
		hash, err := s.creds.Hash(input.Password)
		if err != nil {
			return nil, fmt.Errorf("hashing password: %w", err)
		}
		user.PasswordHash = hash
	}

	setIf(&user.Email, email)
	setIf(&user.Username, username)
	setIf(&user.FirstName, input.FirstName)
	setIf(&user.LastName, input.LastName)
	setIf(&user.ProfileURL, input.ProfileURL)
	setIf(&user.BackgroundURL, input.BackgroundURL)
	setIf(&user.PortfolioURL, input.PortfolioURL)
	setIf(&user.Blurb, input.Blurb)
	if asAdmin {
		if input.IsAdmin {
			user.IsAdmin = true
		}
		if input.IsVerified {
			user.IsVerified = true
		}
	}

	found, err := s.userRepo.Update(ctx, user)
	if err != nil {
		if conflict := uniqueConflict(err, email, username); conflict != nil {
			return nil, conflict
		}
		return nil, fmt.Errorf("updating user: %w", err)
	}
	if !found {
		return nil, &NotFoundError{ID: rawID}
	}
	return user.Sanitized(), nil
}

// Delete removes the user record only. Their posts stay in place.
func (s *UserService) Delete(ctx context.Context, rawID string) (string, error) {
	id, ok := domain.ParseID(rawID)
	if !ok {
		return "", &NotFoundError{ID: rawID}
	}
	deleted, err := s.userRepo.Delete(ctx, id)
	if err != nil {
		return "", fmt.Errorf("deleting user: %w", err)
	}
	if !deleted {
		return "", &NotFoundError{ID: rawID}
	}
	return fmt.Sprintf("User with id: %s was successfully deleted", rawID), nil
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
