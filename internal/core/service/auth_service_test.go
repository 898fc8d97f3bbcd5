package service

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/gatherly/events-api/internal/core/domain"
)

type stubAuthRepo struct {
	users  map[string]*domain.User // keyed by email
	nextID int
}

func newStubAuthRepo() *stubAuthRepo {
	return &stubAuthRepo{users: make(map[string]*domain.User), nextID: 1}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubAuthRepo) CreateUser(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.users[user.Email]; exists {
		return nil, domain.ErrEmailTaken
	}
	for _, u := range r.users {
		if u.Username == user.Username {
			return nil, domain.ErrUsernameTaken
		}
	}
	created := cloneUser(user)
	created.ID = strconv.Itoa(r.nextID)
	r.nextID++
	r.users[created.Email] = cloneUser(created)
	return created, nil
}

func (r *stubAuthRepo) FindUserByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := r.users[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func TestSignup_HashesPassword(t *testing.T) {
	svc := NewAuthService(newStubAuthRepo(), "secret", time.Hour)

	token, user, err := svc.Signup(context.Background(), "alice", "a@x.com", "pw")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if token == "" {
		t.Fatalf("expected a token")
	}
	if user.PasswordHash == "pw" || user.PasswordHash == "" {
		t.Fatalf("password stored without hashing: %q", user.PasswordHash)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pw")) != nil {
		t.Fatalf("hash does not verify against original password")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("other")) == nil {
		t.Fatalf("hash verifies against a different password")
	}
}

func TestSignup_MissingFields(t *testing.T) {
	svc := NewAuthService(newStubAuthRepo(), "secret", time.Hour)

	cases := []struct{ username, email, password string }{
		{"", "a@x.com", "pw"},
		{"alice", "", "pw"},
		{"alice", "a@x.com", ""},
	}
	for _, tc := range cases {
		if _, _, err := svc.Signup(context.Background(), tc.username, tc.email, tc.password); !errors.Is(err, domain.ErrMissingFields) {
			t.Fatalf("signup(%q,%q,%q): expected ErrMissingFields, got %v", tc.username, tc.email, tc.password, err)
		}
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	svc := NewAuthService(newStubAuthRepo(), "secret", time.Hour)

	if _, _, err := svc.Signup(context.Background(), "alice", "a@x.com", "pw"); err != nil {
		t.Fatalf("first signup: %v", err)
	}
	if _, _, err := svc.Signup(context.Background(), "bob", "a@x.com", "pw"); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if _, _, err := svc.Signup(context.Background(), "alice", "a2@x.com", "pw"); !errors.Is(err, domain.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestLogin_Success(t *testing.T) {
	svc := NewAuthService(newStubAuthRepo(), "secret", time.Hour)
	if _, _, err := svc.Signup(context.Background(), "alice", "a@x.com", "pw"); err != nil {
		t.Fatalf("signup: %v", err)
	}

	token, user, err := svc.Login(context.Background(), "a@x.com", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.Email != "a@x.com" {
		t.Fatalf("unexpected user: %+v", user)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token does not verify: %v", err)
	}
	if claims["sub"] != user.ID {
		t.Fatalf("token sub = %v, want %s", claims["sub"], user.ID)
	}
	if claims["email"] != "a@x.com" {
		t.Fatalf("token email = %v", claims["email"])
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc := NewAuthService(newStubAuthRepo(), "secret", time.Hour)
	if _, _, err := svc.Signup(context.Background(), "alice", "a@x.com", "pw"); err != nil {
		t.Fatalf("signup: %v", err)
	}

	// Wrong password and unknown email must be indistinguishable.
	if _, _, err := svc.Login(context.Background(), "a@x.com", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "nobody@x.com", "pw"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestToken_ExpiryIsTTLBound(t *testing.T) {
	svc := NewAuthService(newStubAuthRepo(), "secret", time.Hour)
	// Force issuance of an already-expired token.
	svc.tokenTTL = -time.Minute

	token, _, err := svc.Signup(context.Background(), "alice", "a@x.com", "pw")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	_, err = jwt.Parse(token, func(*jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if !errors.Is(err, jwt.ErrTokenExpired) {
		t.Fatalf("expected expired token, got %v", err)
	}
}

func TestToken_RejectedWithWrongSecret(t *testing.T) {
	svc := NewAuthService(newStubAuthRepo(), "secret", time.Hour)
	token, _, err := svc.Signup(context.Background(), "alice", "a@x.com", "pw")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	parsed, err := jwt.Parse(token, func(*jwt.Token) (interface{}, error) {
		return []byte("another-secret"), nil
	})
	if err == nil && parsed.Valid {
		t.Fatalf("token signed with one secret verified with another")
	}
}
