// Package auth registers and authenticates users and issues bearer tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/mail"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/garnizeh/hersafety/internal/apperr"
	"github.com/garnizeh/hersafety/pkg/models"
	"github.com/garnizeh/hersafety/pkg/repository"
)

const invalidCredentials = "Invalid credentials"

// unknownUserHash is compared against when the email is not registered so
// both login failures cost one bcrypt comparison.
var unknownUserHash = sync.OnceValue(func() []byte {
	h, err := bcrypt.GenerateFromPassword([]byte("hersafety-unknown-user"), bcrypt.DefaultCost)
	if err != nil {
		panic(fmt.Sprintf("auth: dummy hash: %v", err))
	}
	return h
})

// Registration is the input of Register.
type Registration struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Address  string
}

type Service struct {
	users         repository.UserRepo
	jwtSecret     string
	tokenDuration time.Duration
	logger        *slog.Logger
	compare       func(hash, password []byte) error
}

func NewService(users repository.UserRepo, jwtSecret string, tokenDuration time.Duration, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &Service{
		users:         users,
		jwtSecret:     jwtSecret,
		tokenDuration: tokenDuration,
		logger:        logger,
		compare:       bcrypt.CompareHashAndPassword,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register stores a new user with a bcrypt password hash and returns its id.
func (s *Service) Register(ctx context.Context, reg Registration) (int64, error) {
	reg.Name = strings.TrimSpace(reg.Name)
	reg.Email = normalizeEmail(reg.Email)

	var errs []apperr.FieldError
	if reg.Name == "" {
		errs = append(errs, apperr.FieldError{Field: "name", Message: "Name is required"})
	}
	if reg.Email == "" {
		errs = append(errs, apperr.FieldError{Field: "email", Message: "Email is required"})
	} else if addr, err := mail.ParseAddress(reg.Email); err != nil || addr.Address != reg.Email {
		errs = append(errs, apperr.FieldError{Field: "email", Message: "Email is not valid"})
	}
	if reg.Password == "" {
		errs = append(errs, apperr.FieldError{Field: "password", Message: "Password is required"})
	}
	if len(errs) > 0 {
		return 0, apperr.Validation(errs...)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return 0, apperr.Server("Error hashing password", err)
	}

	u := models.User{
		Name:         reg.Name,
		Email:        reg.Email,
		PasswordHash: string(hash),
		Phone:        strings.TrimSpace(reg.Phone),
		Role:         models.RoleUser,
	}
	if a := strings.TrimSpace(reg.Address); a != "" {
		u.Address = &a
	}

	id, err := s.users.CreateUser(ctx, &u)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return 0, apperr.Conflict("User already exists")
		}
		return 0, apperr.Server("Error registering user", fmt.Errorf("create user: %w", err))
	}

	s.logger.Info("user registered", "user_id", id)
	return id, nil
}

// Login checks the credentials and returns the user with a fresh token. An
// unknown email and a wrong password fail the same way.
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	u, err := s.users.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, "", apperr.Server("Error logging in", fmt.Errorf("get user: %w", err))
	}
	if u == nil {
		_ = s.compare(unknownUserHash(), []byte(password))
		return nil, "", apperr.Auth(invalidCredentials)
	}
	if s.compare([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, "", apperr.Auth(invalidCredentials)
	}

	token, err := IssueToken(u, s.jwtSecret, s.tokenDuration)
	if err != nil {
		return nil, "", apperr.Server("Error signing token", err)
	}

	return u, token, nil
}

// ParseToken validates a bearer token issued by this service.
func (s *Service) ParseToken(token string) (*Claims, error) {
	return ParseToken(token, s.jwtSecret)
}

// Me returns the user behind an authenticated request.
func (s *Service) Me(ctx context.Context, userID int64) (*models.User, error) {
	u, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, apperr.Server("Error fetching user", fmt.Errorf("get user %d: %w", userID, err))
	}
	if u == nil {
		return nil, apperr.NotFound("User not found")
	}
	return u, nil
}

// EnsureAdmin creates the configured administrator, or promotes the existing
// account with that email.
func (s *Service) EnsureAdmin(ctx context.Context, name, email, password string) error {
	email = normalizeEmail(email)
	if email == "" {
		return nil
	}

	u, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("lookup admin: %w", err)
	}
	if u != nil {
		if u.Role == models.RoleAdmin {
			return nil
		}
		if err := s.users.UpdateUserRole(ctx, u.ID, models.RoleAdmin); err != nil {
			return fmt.Errorf("promote admin: %w", err)
		}
		s.logger.Info("user promoted to admin", "user_id", u.ID)
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	id, err := s.users.CreateUser(ctx, &models.User{Name: name, Email: email, PasswordHash: string(hash), Role: models.RoleAdmin})
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	s.logger.Info("admin account created", "user_id", id)
	return nil
}
