package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fueltracker/backend/libs/auth"
	"fueltracker/backend/services/auth-service/internal/models"
	"fueltracker/backend/services/auth-service/internal/password"
	"fueltracker/backend/services/auth-service/internal/repository"
	"fueltracker/backend/services/auth-service/internal/session"
)

var (
	// ErrEmailInUse is returned when attempting to register duplicate email.
	ErrEmailInUse = errors.New("auth: email already registered")
	// ErrInvalidCredentials represents login failure.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	// ErrMissingFields is returned when a required input is blank.
	ErrMissingFields = errors.New("auth: missing required fields")
	// ErrNotAuthenticated is returned for requests without a live session.
	ErrNotAuthenticated = errors.New("auth: not authenticated")
)

// UserRepository defines storage contract used by the service.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// SessionStore keeps the logged-in user behind a session id.
type SessionStore interface {
	Create(ctx context.Context, user models.PublicUser) (string, error)
	Get(ctx context.Context, sid string) (*models.PublicUser, error)
	Delete(ctx context.Context, sid string) error
}

// Registration holds sign-up input.
type Registration struct {
	Name     string
	Email    string
	Password string
	IsAdmin  bool
}

// Result is returned by Register and Login.
type Result struct {
	User      models.PublicUser
	Token     string
	SessionID string
}

// AuthService contains registration/login logic.
type AuthService struct {
	repo      UserRepository
	sessions  SessionStore
	hasher    password.Hasher
	tokenizer *auth.TokenService
	logger    *zap.Logger
	newID     func() string
}

// NewAuthService builds AuthService.
func NewAuthService(repo UserRepository, sessions SessionStore, hasher password.Hasher, tokenizer *auth.TokenService, logger *zap.Logger) *AuthService {
	return &AuthService{
		repo:      repo,
		sessions:  sessions,
		hasher:    hasher,
		tokenizer: tokenizer,
		logger:    logger,
		newID:     uuid.NewString,
	}
}

// Register creates an account and logs it in.
func (s *AuthService) Register(ctx context.Context, in Registration) (*Result, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, ErrMissingFields
	}

	if _, err := s.repo.GetByEmail(ctx, in.Email); err == nil {
		return nil, ErrEmailInUse
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           s.newID(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		IsAdmin:      in.IsAdmin,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailInUse
		}
		return nil, err
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID), zap.String("email", user.Email), zap.Bool("is_admin", user.IsAdmin))
	return s.startSession(ctx, user)
}

// Login authenticates a user. When isAdmin is set it must match the account's role.
func (s *AuthService) Login(ctx context.Context, email, pass string, isAdmin *bool) (*Result, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || pass == "" {
		return nil, ErrMissingFields
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := s.hasher.Compare(user.PasswordHash, pass); err != nil {
		return nil, ErrInvalidCredentials
	}
	if isAdmin != nil && *isAdmin != user.IsAdmin {
		s.logger.Info("login role mismatch", zap.String("user_id", user.ID), zap.Bool("requested_admin", *isAdmin))
		return nil, ErrInvalidCredentials
	}

	return s.startSession(ctx, user)
}

// Me returns the user bound to the session.
func (s *AuthService) Me(ctx context.Context, sid string) (*models.PublicUser, error) {
	user, err := s.sessions.Get(ctx, sid)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, ErrNotAuthenticated
		}
		return nil, err
	}
	return user, nil
}

// Logout destroys the session.
func (s *AuthService) Logout(ctx context.Context, sid string) error {
	return s.sessions.Delete(ctx, sid)
}

func (s *AuthService) startSession(ctx context.Context, user *models.User) (*Result, error) {
	token, err := s.tokenizer.GenerateToken(user.ID, user.IsAdmin)
	if err != nil {
		return nil, err
	}
	public := user.Public()
	sid, err := s.sessions.Create(ctx, public)
	if err != nil {
		return nil, err
	}
	return &Result{User: public, Token: token, SessionID: sid}, nil
}
