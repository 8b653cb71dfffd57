package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/nayeem/foodjudge/internal/apperror"
	"github.com/nayeem/foodjudge/internal/auth"
	"github.com/nayeem/foodjudge/internal/model"
)

// fakeUserRepo is an in-memory repository.UserRepository. A hand-written
// fake keeps the tests readable — what it does is exactly what you see.
type fakeUserRepo struct {
	users map[string]*model.User // keyed by email
	// set to non-nil to simulate store failures
	createErr error
	getErr    error
	updateErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.users[user.Email]; ok {
		return apperror.Conflict("User already exists")
	}
	user.ID = "user-" + user.Email
	copied := *user
	f.users[user.Email] = &copied
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.users[email]
	if !ok {
		return nil, apperror.NotFound("User not found")
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) UpdatePersona(ctx context.Context, email, persona string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	u, ok := f.users[email]
	if !ok {
		return apperror.NotFound("User not found")
	}
	u.Persona = persona
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestTokens(t *testing.T) *auth.TokenService {
	t.Helper()
	ts, err := auth.NewTokenService("test-secret-at-least-16-chars!!")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return ts
}

func newTestAuthService(t *testing.T, repo *fakeUserRepo) *AuthService {
	t.Helper()
	return NewAuthService(repo, newTestTokens(t), auth.NewPasswordServiceForTest(bcrypt.MinCost), testLogger())
}

func TestSignup_FreshEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)
	tokens := newTestTokens(t)

	result, err := svc.Signup(context.Background(), "a@x.com", "pw1")
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	if result.User.Email != "a@x.com" {
		t.Errorf("User.Email = %q", result.User.Email)
	}
	if result.User.Persona != "" {
		t.Errorf("new account Persona = %q, want empty", result.User.Persona)
	}
	if result.User.PasswordHash == "pw1" || result.User.PasswordHash == "" {
		t.Error("password must be stored as a hash")
	}

	// The issued token must resolve back to the identifier.
	email, err := tokens.Validate(result.Token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if email != "a@x.com" {
		t.Errorf("token subject = %q, want %q", email, "a@x.com")
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)

	if _, err := svc.Signup(context.Background(), "a@x.com", "pw1"); err != nil {
		t.Fatalf("first Signup() error = %v", err)
	}

	_, err := svc.Signup(context.Background(), "a@x.com", "pw2")
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("second Signup() err = %v, want ErrConflict", err)
	}

	if len(repo.users) != 1 {
		t.Errorf("user count = %d, want 1 (no second record)", len(repo.users))
	}
}

func TestSignup_MissingFields(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)

	for _, tc := range []struct{ email, password string }{
		{"", "pw1"},
		{"a@x.com", ""},
		{"", ""},
	} {
		_, err := svc.Signup(context.Background(), tc.email, tc.password)
		if !errors.Is(err, apperror.ErrValidation) {
			t.Errorf("Signup(%q, %q) err = %v, want ErrValidation", tc.email, tc.password, err)
		}
	}
	if len(repo.users) != 0 {
		t.Error("no records should be created on validation failure")
	}
}

func TestLogin_Success(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)
	tokens := newTestTokens(t)

	if _, err := svc.Signup(context.Background(), "a@x.com", "pw1"); err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	result, err := svc.Login(context.Background(), "a@x.com", "pw1")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	email, err := tokens.Validate(result.Token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if email != "a@x.com" {
		t.Errorf("token subject = %q", email)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)

	if _, err := svc.Signup(context.Background(), "a@x.com", "pw1"); err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	// Close guesses fail exactly like distant ones.
	for _, guess := range []string{"wrong", "pw2", "pw1 ", "Pw1"} {
		_, err := svc.Login(context.Background(), "a@x.com", guess)
		if !errors.Is(err, apperror.ErrValidation) {
			t.Errorf("Login with %q err = %v, want ErrValidation", guess, err)
		}
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)

	_, err := svc.Login(context.Background(), "missing@x.com", "pw1")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("Login() err = %v, want ErrNotFound", err)
	}
}

func TestLogin_MissingFields(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)

	_, err := svc.Login(context.Background(), "", "")
	if !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("Login() err = %v, want ErrValidation", err)
	}
}

func TestSignup_StoreError(t *testing.T) {
	repo := newFakeUserRepo()
	repo.getErr = errors.New("database is on fire")
	svc := newTestAuthService(t, repo)

	if _, err := svc.Signup(context.Background(), "a@x.com", "pw1"); err == nil {
		t.Fatal("Signup() should propagate store errors")
	}
}
