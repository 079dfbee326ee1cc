package httpapi

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"aquamanager/backend/internal/domain"
)

type userStoreStub struct {
	mu      sync.Mutex
	users   map[string]domain.UserAccount
	updates int
}

func (s *userStoreStub) ListUsers(_ context.Context) ([]domain.UserAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.UserAccount, 0, len(s.users))
	for _, user := range s.users {
		out = append(out, user)
	}
	return out, nil
}

func (s *userStoreStub) UpdateUserPassword(_ context.Context, email string, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user := s.users[email]
	user.Password = password
	s.users[email] = user
	s.updates++
	return nil
}

func TestAuthManagerUpgradesLegacyPlainPassword(t *testing.T) {
	stub := &userStoreStub{
		users: map[string]domain.UserAccount{
			"admin@aquamanager.dev": {
				Email:     "admin@aquamanager.dev",
				Password:  "admin123",
				Role:      domain.RoleAdmin,
				Active:    true,
				CreatedAt: time.Now().UTC(),
			},
		},
	}

	manager := NewAuthManager("test-secret", time.Hour, "123456", stub)
	_, err := manager.Login(domain.LoginRequest{
		Email:    "admin@aquamanager.dev",
		Password: "admin123",
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	users, err := stub.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("list users failed: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("expected 1 user, got %d", len(users))
	}
	if users[0].Password == "admin123" {
		t.Fatalf("expected password to be upgraded from plain-text")
	}
	if !strings.HasPrefix(users[0].Password, "$2") {
		t.Fatalf("expected bcrypt password hash, got %s", users[0].Password)
	}
}

func TestTokenCarriesClientID(t *testing.T) {
	stub := &userStoreStub{
		users: map[string]domain.UserAccount{
			"maria@exemplo.com": {
				Email:     "maria@exemplo.com",
				Password:  "client123",
				Role:      domain.RoleClient,
				ClientID:  "cli-maria",
				Active:    true,
				CreatedAt: time.Now().UTC(),
			},
		},
	}

	manager := NewAuthManager("test-secret", time.Hour, "123456", stub)
	resp, err := manager.Login(domain.LoginRequest{
		Email:    "maria@exemplo.com",
		Password: "client123",
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if resp.ClientID != "cli-maria" {
		t.Fatalf("expected client id in login response, got %q", resp.ClientID)
	}

	actor, err := manager.ParseToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if actor.Email != "maria@exemplo.com" || actor.Role != domain.RoleClient || actor.ClientID != "cli-maria" {
		t.Fatalf("unexpected actor from token: %+v", actor)
	}
}

func TestInactiveAccountCannotLogin(t *testing.T) {
	stub := &userStoreStub{
		users: map[string]domain.UserAccount{
			"maria@exemplo.com": {
				Email:     "maria@exemplo.com",
				Password:  "client123",
				Role:      domain.RoleClient,
				Active:    false,
				CreatedAt: time.Now().UTC(),
			},
		},
	}

	manager := NewAuthManager("test-secret", time.Hour, "123456", stub)
	_, err := manager.Login(domain.LoginRequest{
		Email:    "maria@exemplo.com",
		Password: "client123",
	})
	if err == nil {
		t.Fatalf("expected inactive account login to fail")
	}
}

func TestManagerPINIsHashedAndStillValidates(t *testing.T) {
	stub := &userStoreStub{users: map[string]domain.UserAccount{}}
	manager := NewAuthManager("test-secret", time.Hour, "654321", stub)

	if manager.managerPIN == "654321" {
		t.Fatalf("expected manager pin to be stored as hash, got plain-text")
	}

	if !manager.ValidateManagerPIN("654321") {
		t.Fatalf("expected manager pin validation to succeed")
	}

	if manager.ValidateManagerPIN("111111") {
		t.Fatalf("expected wrong manager pin to fail")
	}
}
