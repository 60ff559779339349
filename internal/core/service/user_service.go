package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/recipeapp/recipe-api/internal/core/domain"
	"github.com/recipeapp/recipe-api/internal/core/ports"
	"github.com/recipeapp/recipe-api/internal/infrastructure/metrics"
)

// MinPasswordLength is the shortest password accepted for an account.
const MinPasswordLength = 5

// LoginThrottle abstracts the failed-login limiter (Redis). Only failures
// are counted, so a correct password never spends the budget.
type LoginThrottle interface {
	Blocked(ctx context.Context, key string) (bool, error)
	Fail(ctx context.Context, key string) error
}

// UserService implements account creation and token authentication.
type UserService struct {
	repo      ports.UserRepository
	throttle  LoginThrottle
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
}

// NewUserService returns a UserService. throttle may be nil, in which case
// token requests are never limited.
func NewUserService(repo ports.UserRepository, throttle LoginThrottle, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *UserService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &UserService{
		repo:      repo,
		throttle:  throttle,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		log:       log,
	}
}

// CreateUser creates a regular active account.
func (s *UserService) CreateUser(ctx context.Context, email, password, name string) (*domain.User, error) {
	return s.create(ctx, email, password, name, false)
}

// CreateSuperuser creates an account with staff and superuser rights.
func (s *UserService) CreateSuperuser(ctx context.Context, email, password string) (*domain.User, error) {
	return s.create(ctx, email, password, "", true)
}

func (s *UserService) create(ctx context.Context, email, password, name string, super bool) (*domain.User, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return nil, domain.ErrEmailRequired
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created, err := s.repo.Create(ctx, &domain.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		IsActive:     true,
		IsStaff:      super,
		IsSuperuser:  super,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	kind := "user"
	if super {
		kind = "superuser"
	}
	metrics.UsersCreatedTotal.WithLabelValues(kind).Inc()
	s.log.Info().Str("user_id", created.ID).Str("kind", kind).Msg("user created")

	return created, nil
}

// IssueToken verifies the credentials of an active user and returns a signed
// token for subsequent requests.
func (s *UserService) IssueToken(ctx context.Context, email, password string) (string, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		metrics.TokensIssuedTotal.WithLabelValues("rejected").Inc()
		return "", domain.ErrInvalidCredentials
	}

	if s.throttle != nil {
		blocked, err := s.throttle.Blocked(ctx, email)
		if err != nil {
			s.log.Warn().Err(err).Msg("login throttle check failed, allowing request")
		} else if blocked {
			metrics.TokensIssuedTotal.WithLabelValues("throttled").Inc()
			return "", domain.ErrThrottled
		}
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", s.rejectLogin(ctx, email)
		}
		return "", fmt.Errorf("issue token: %w", err)
	}

	if !user.IsActive || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", s.rejectLogin(ctx, email)
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}

	metrics.TokensIssuedTotal.WithLabelValues("issued").Inc()
	return token, nil
}

// rejectLogin counts a failed attempt against email and returns the
// credentials error.
func (s *UserService) rejectLogin(ctx context.Context, email string) error {
	metrics.TokensIssuedTotal.WithLabelValues("rejected").Inc()
	if s.throttle != nil {
		if err := s.throttle.Fail(ctx, email); err != nil {
			s.log.Warn().Err(err).Msg("failed to record login failure")
		}
	}
	return domain.ErrInvalidCredentials
}

// Authenticate resolves a token to the active user it was issued for.
func (s *UserService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.jwtSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return nil, domain.ErrUnauthenticated
	}

	user, err := s.repo.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	if !user.IsActive {
		return nil, domain.ErrUnauthenticated
	}
	return user, nil
}

// UpdateSelf applies a partial update to the caller's own account.
func (s *UserService) UpdateSelf(ctx context.Context, userID string, in ports.UpdateUserInput) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	if in.Name != nil {
		user.Name = *in.Name
	}
	if in.Password != nil {
		if len(*in.Password) < MinPasswordLength {
			return nil, domain.NewValidationError("password", fmt.Sprintf("must be at least %d characters", MinPasswordLength))
		}
		hash, err := hashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// ListUsers returns every account.
func (s *UserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *UserService) generateToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   user.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

func hashPassword(password string) (string, error) {
	if password == "" {
		return "", domain.NewValidationError("password", "is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", domain.NewValidationError("password", "is too long")
		}
		return "", err
	}
	return string(hash), nil
}
