package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"fueltracker/backend/libs/auth"
	"fueltracker/backend/services/auth-service/internal/models"
	"fueltracker/backend/services/auth-service/internal/password"
	"fueltracker/backend/services/auth-service/internal/repository"
	"fueltracker/backend/services/auth-service/internal/session"
)

type fakeRepo struct {
	users map[string]*models.User
}

func (f *fakeRepo) Create(_ context.Context, user *models.User) error {
	if _, ok := f.users[user.Email]; ok {
		return repository.ErrDuplicateEmail
	}
	copied := *user
	f.users[user.Email] = &copied
	return nil
}

func (f *fakeRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := f.users[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

type fakeSessions struct {
	seq      int
	sessions map[string]models.PublicUser
}

func (f *fakeSessions) Create(_ context.Context, user models.PublicUser) (string, error) {
	f.seq++
	sid := fmt.Sprintf("sid-%d", f.seq)
	f.sessions[sid] = user
	return sid, nil
}

func (f *fakeSessions) Get(_ context.Context, sid string) (*models.PublicUser, error) {
	user, ok := f.sessions[sid]
	if !ok {
		return nil, session.ErrNotFound
	}
	return &user, nil
}

func (f *fakeSessions) Delete(_ context.Context, sid string) error {
	delete(f.sessions, sid)
	return nil
}

func newService() (*AuthService, *fakeRepo, *fakeSessions, *auth.TokenService) {
	repo := &fakeRepo{users: map[string]*models.User{}}
	sessions := &fakeSessions{sessions: map[string]models.PublicUser{}}
	tokens := auth.NewTokenService("secret", time.Hour)
	svc := NewAuthService(repo, sessions, password.NewBcryptHasher(bcrypt.MinCost), tokens, zap.NewNop())
	return svc, repo, sessions, tokens
}

func boolPtr(v bool) *bool { return &v }

func TestRegisterStartsSession(t *testing.T) {
	svc, repo, sessions, tokens := newService()

	res, err := svc.Register(context.Background(), Registration{Name: "Asha", Email: " Asha@Example.com", Password: "pw", IsAdmin: true})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if res.User.Email != "asha@example.com" || !res.User.IsAdmin || res.User.ID == "" {
		t.Fatalf("unexpected user %+v", res.User)
	}
	stored := repo.users["asha@example.com"]
	if stored == nil || stored.PasswordHash == "pw" {
		t.Fatalf("expected hashed password stored, got %+v", stored)
	}
	if _, ok := sessions.sessions[res.SessionID]; !ok {
		t.Fatalf("expected session %q stored", res.SessionID)
	}
	claims, err := tokens.ValidateToken(res.Token)
	if err != nil || claims.UserID != res.User.ID || !claims.IsAdmin {
		t.Fatalf("unexpected token claims %+v err %v", claims, err)
	}
}

func TestRegisterRejectsDuplicateAndMissing(t *testing.T) {
	svc, _, _, _ := newService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, Registration{Name: "A", Email: "a@x.io", Password: "pw"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register(ctx, Registration{Name: "B", Email: "A@x.io", Password: "pw"}); !errors.Is(err, ErrEmailInUse) {
		t.Fatalf("expected ErrEmailInUse, got %v", err)
	}
	if _, err := svc.Register(ctx, Registration{Email: "c@x.io", Password: "pw"}); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	svc, _, _, _ := newService()
	ctx := context.Background()
	if _, err := svc.Register(ctx, Registration{Name: "A", Email: "a@x.io", Password: "pw"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	cases := []struct {
		name    string
		email   string
		pass    string
		isAdmin *bool
		want    error
	}{
		{"ok", "a@x.io", "pw", nil, nil},
		{"ok with matching role", "a@x.io", "pw", boolPtr(false), nil},
		{"role mismatch", "a@x.io", "pw", boolPtr(true), ErrInvalidCredentials},
		{"wrong password", "a@x.io", "nope", nil, ErrInvalidCredentials},
		{"unknown email", "b@x.io", "pw", nil, ErrInvalidCredentials},
		{"missing password", "a@x.io", "", nil, ErrMissingFields},
	}
	for _, tc := range cases {
		res, err := svc.Login(ctx, tc.email, tc.pass, tc.isAdmin)
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
		if tc.want == nil && (res == nil || res.Token == "" || res.SessionID == "") {
			t.Fatalf("%s: expected token and session, got %+v", tc.name, res)
		}
	}
}

func TestMeAndLogout(t *testing.T) {
	svc, _, _, _ := newService()
	ctx := context.Background()

	if _, err := svc.Me(ctx, ""); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}

	res, err := svc.Register(ctx, Registration{Name: "A", Email: "a@x.io", Password: "pw"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	user, err := svc.Me(ctx, res.SessionID)
	if err != nil || user.Name != "A" {
		t.Fatalf("unexpected me %+v err %v", user, err)
	}

	if err := svc.Logout(ctx, res.SessionID); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := svc.Me(ctx, res.SessionID); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected session gone, got %v", err)
	}
}
