package application

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"imageshare/internal/domain/entity"
	"imageshare/internal/domain/repository"
	"imageshare/pkg/helpers"
)

var (
	ErrMissingFields      = errors.New("name, email and password are required")
	ErrMissingCredentials = errors.New("email and password are required")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// emailPattern accepts the simple local@domain.tld shape; anything
// fancier is the mail server's problem.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// AuthService handles registration and login. Tokens it issues are
// independent of each other; logging in again neither rotates nor
// revokes earlier tokens.
type AuthService struct {
	Repo       repository.UserRepository
	JWT        *helpers.JWTManager
	BcryptCost int
	Logger     *logrus.Logger
}

func NewAuthService(repo repository.UserRepository, jwt *helpers.JWTManager, bcryptCost int, logger *logrus.Logger) *AuthService {
	return &AuthService{Repo: repo, JWT: jwt, BcryptCost: bcryptCost, Logger: logger}
}

// RegisterResult is what a successful registration returns to the client.
type RegisterResult struct {
	Email string
	Token string
}

// NormalizeEmail lower-cases and trims an email for uniqueness
// comparison and storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, name, email, password string) (*RegisterResult, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		return nil, ErrMissingFields
	}
	if !emailPattern.MatchString(email) {
		return nil, ErrInvalidEmail
	}
	if len(password) < 6 {
		return nil, ErrPasswordTooShort
	}

	normalized := NormalizeEmail(email)
	if _, err := s.Repo.GetByEmail(ctx, normalized); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := helpers.HashPassword(password, s.BcryptCost)
	if err != nil {
		return nil, err
	}

	u := &entity.User{Name: name, Email: normalized, Password: hash}
	if err := s.Repo.Create(ctx, u); err != nil {
		// The unique index closes the window between the existence
		// check and the insert.
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	token, _, err := s.JWT.Generate(u.ID, u.Email)
	if err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.WithField("user_id", u.ID).Info("user registered")
	}
	return &RegisterResult{Email: u.Email, Token: token}, nil
}

// Login returns a fresh token. Unknown email and wrong password yield
// the same error so callers cannot probe which addresses exist.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		return "", ErrMissingCredentials
	}

	u, err := s.Repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return "", ErrInvalidCredentials
	}

	token, _, err := s.JWT.Generate(u.ID, u.Email)
	if err != nil {
		return "", err
	}
	return token, nil
}
