package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/recipeapp/recipe-api/internal/core/domain"
	"github.com/recipeapp/recipe-api/internal/core/ports"
)

type stubUserRepo struct {
	users  map[string]*domain.User // keyed by ID
	nextID int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.nextID++
	copy := cloneUser(user)
	copy.ID = fmt.Sprintf("u%d", r.nextID)
	r.users[copy.ID] = cloneUser(copy)
	return cloneUser(copy), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

type stubThrottle struct {
	blocked bool
	err     error
	checked []string
	failed  []string
}

func (t *stubThrottle) Blocked(_ context.Context, key string) (bool, error) {
	t.checked = append(t.checked, key)
	return t.blocked, t.err
}

func (t *stubThrottle) Fail(_ context.Context, key string) error {
	t.failed = append(t.failed, key)
	return t.err
}

func newTestUserService(repo ports.UserRepository, throttle LoginThrottle) *UserService {
	return NewUserService(repo, throttle, "secret", time.Hour, zerolog.Nop())
}

func TestUserService_CreateUser_Success(t *testing.T) {
	svc := newTestUserService(newStubUserRepo(), nil)

	user, err := svc.CreateUser(context.Background(), "test@londonappdev.com", "Testpass123", "Test")
	if err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}
	if user.Email != "test@londonappdev.com" {
		t.Fatalf("unexpected email: %s", user.Email)
	}
	if user.PasswordHash == "Testpass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("Testpass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if !user.IsActive || user.IsStaff || user.IsSuperuser {
		t.Fatalf("unexpected flags: %+v", user)
	}
}

func TestUserService_CreateUser_NormalizesEmail(t *testing.T) {
	svc := newTestUserService(newStubUserRepo(), nil)

	user, err := svc.CreateUser(context.Background(), "test@GMAIL.com", "test123", "")
	if err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}
	if user.Email != "test@gmail.com" {
		t.Fatalf("expected normalized email, got %s", user.Email)
	}
}

func TestUserService_CreateUser_EmailRequired(t *testing.T) {
	svc := newTestUserService(newStubUserRepo(), nil)

	for _, email := range []string{"", "   "} {
		if _, err := svc.CreateUser(context.Background(), email, "123", ""); !errors.Is(err, domain.ErrEmailRequired) {
			t.Fatalf("expected ErrEmailRequired for %q, got %v", email, err)
		}
	}
}

func TestUserService_CreateUser_PasswordRequired(t *testing.T) {
	svc := newTestUserService(newStubUserRepo(), nil)

	_, err := svc.CreateUser(context.Background(), "a@b.com", "", "")
	if ve, ok := domain.IsValidation(err); !ok || ve.Fields["password"] == "" {
		t.Fatalf("expected password validation error, got %v", err)
	}
}

func TestUserService_CreateUser_Duplicate(t *testing.T) {
	svc := newTestUserService(newStubUserRepo(), nil)

	_, _ = svc.CreateUser(context.Background(), "bob@example.com", "pass1", "")
	if _, err := svc.CreateUser(context.Background(), "bob@EXAMPLE.com", "pass2", ""); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestUserService_CreateSuperuser(t *testing.T) {
	svc := newTestUserService(newStubUserRepo(), nil)

	user, err := svc.CreateSuperuser(context.Background(), "test@gmail.com", "test123")
	if err != nil {
		t.Fatalf("CreateSuperuser returned error: %v", err)
	}
	if !user.IsStaff || !user.IsSuperuser {
		t.Fatalf("expected staff and superuser flags, got %+v", user)
	}
}

func TestUserService_IssueToken_Success(t *testing.T) {
	svc := newTestUserService(newStubUserRepo(), nil)

	created, err := svc.CreateUser(context.Background(), "carol@example.com", "s3cret", "Carol")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	token, err := svc.IssueToken(context.Background(), "carol@EXAMPLE.com", "s3cret")
	if err != nil {
		t.Fatalf("issue token failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token, got empty")
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims.Subject != created.ID {
		t.Fatalf("expected subject %s, got %s", created.ID, claims.Subject)
	}
}

func TestUserService_IssueToken_Rejections(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestUserService(repo, nil)

	_, _ = svc.CreateUser(context.Background(), "dave@example.com", "goodpass", "")
	inactive, _ := svc.CreateUser(context.Background(), "eve@example.com", "goodpass", "")
	repo.users[inactive.ID].IsActive = false

	cases := []struct {
		name, email, password string
	}{
		{"wrong password", "dave@example.com", "badpass"},
		{"unknown user", "ghost@example.com", "goodpass"},
		{"missing password", "dave@example.com", ""},
		{"missing email", "", "goodpass"},
		{"inactive user", "eve@example.com", "goodpass"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			token, err := svc.IssueToken(context.Background(), tc.email, tc.password)
			if !errors.Is(err, domain.ErrInvalidCredentials) {
				t.Fatalf("expected ErrInvalidCredentials, got %v", err)
			}
			if token != "" {
				t.Fatalf("expected no token, got %q", token)
			}
		})
	}
}

func TestUserService_IssueToken_Throttled(t *testing.T) {
	throttle := &stubThrottle{blocked: true}
	svc := newTestUserService(newStubUserRepo(), throttle)

	_, _ = svc.CreateUser(context.Background(), "frank@example.com", "goodpass", "")
	if _, err := svc.IssueToken(context.Background(), "frank@example.com", "goodpass"); !errors.Is(err, domain.ErrThrottled) {
		t.Fatalf("expected ErrThrottled, got %v", err)
	}
	if len(throttle.checked) != 1 || throttle.checked[0] != "frank@example.com" {
		t.Fatalf("unexpected throttle keys: %v", throttle.checked)
	}
}

func TestUserService_IssueToken_CountsOnlyFailures(t *testing.T) {
	throttle := &stubThrottle{}
	svc := newTestUserService(newStubUserRepo(), throttle)
	ctx := context.Background()

	_, _ = svc.CreateUser(ctx, "hank@example.com", "goodpass", "")
	for i := 0; i < 3; i++ {
		if _, err := svc.IssueToken(ctx, "Hank@EXAMPLE.com", "goodpass"); err != nil {
			t.Fatalf("IssueToken: %v", err)
		}
	}
	if len(throttle.failed) != 0 {
		t.Fatalf("successful logins were counted: %v", throttle.failed)
	}

	_, _ = svc.IssueToken(ctx, "hank@example.com", "badpass")
	_, _ = svc.IssueToken(ctx, "nobody@example.com", "goodpass")
	want := []string{"hank@example.com", "nobody@example.com"}
	if fmt.Sprint(throttle.failed) != fmt.Sprint(want) {
		t.Fatalf("failed = %v, want %v", throttle.failed, want)
	}
}

func TestUserService_IssueToken_ThrottleErrorFailsOpen(t *testing.T) {
	throttle := &stubThrottle{err: errors.New("redis down")}
	svc := newTestUserService(newStubUserRepo(), throttle)

	_, _ = svc.CreateUser(context.Background(), "gina@example.com", "goodpass", "")
	if _, err := svc.IssueToken(context.Background(), "gina@example.com", "goodpass"); err != nil {
		t.Fatalf("expected token despite throttle error, got %v", err)
	}
	if _, err := svc.IssueToken(context.Background(), "gina@example.com", "badpass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials despite throttle error, got %v", err)
	}
}

func TestUserService_Authenticate(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestUserService(repo, nil)

	created, _ := svc.CreateUser(context.Background(), "hal@example.com", "goodpass", "")
	token, err := svc.IssueToken(context.Background(), "hal@example.com", "goodpass")
	if err != nil {
		t.Fatalf("issue token failed: %v", err)
	}

	user, err := svc.Authenticate(context.Background(), token)
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if user.ID != created.ID {
		t.Fatalf("expected user %s, got %s", created.ID, user.ID)
	}

	if _, err := svc.Authenticate(context.Background(), "not-a-token"); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated for garbage, got %v", err)
	}

	other := NewUserService(repo, nil, "other-secret", time.Hour, zerolog.Nop())
	if _, err := other.Authenticate(context.Background(), token); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated for foreign signature, got %v", err)
	}

	repo.users[created.ID].IsActive = false
	if _, err := svc.Authenticate(context.Background(), token); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated for inactive user, got %v", err)
	}

	delete(repo.users, created.ID)
	if _, err := svc.Authenticate(context.Background(), token); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated for deleted user, got %v", err)
	}
}

func TestUserService_UpdateSelf(t *testing.T) {
	svc := newTestUserService(newStubUserRepo(), nil)

	created, _ := svc.CreateUser(context.Background(), "ivy@example.com", "oldpass", "Ivy")

	name, password := "Ivy Updated", "newpass"
	user, err := svc.UpdateSelf(context.Background(), created.ID, ports.UpdateUserInput{Name: &name, Password: &password})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if user.Name != name {
		t.Fatalf("expected name %q, got %q", name, user.Name)
	}
	if _, err := svc.IssueToken(context.Background(), "ivy@example.com", "newpass"); err != nil {
		t.Fatalf("expected new password to work: %v", err)
	}

	short := "pw"
	if _, err := svc.UpdateSelf(context.Background(), created.ID, ports.UpdateUserInput{Password: &short}); err == nil {
		t.Fatalf("expected validation error for short password")
	} else if _, ok := domain.IsValidation(err); !ok {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}
