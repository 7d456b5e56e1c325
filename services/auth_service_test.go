package services

import (
	"errors"
	"testing"

	"nfc-event-system/models"

	"golang.org/x/crypto/bcrypt"
)

func seedStaffUser(t *testing.T, service *AuthService, username, password string) *models.StaffUser {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &models.StaffUser{Username: username, PasswordHash: string(hash)}
	if err := service.DB.Create(user).Error; err != nil {
		t.Fatalf("create staff user: %v", err)
	}
	return user
}

func TestAuthService_Login(t *testing.T) {
	db := openTestDB(t)
	service := NewAuthService(db)
	seedStaffUser(t, service, "admin", "admin123")

	t.Run("issues a token", func(t *testing.T) {
		token, err := service.Login("admin", "admin123")
		if err != nil {
			t.Fatalf("Login: %v", err)
		}
		if token.Token == "" {
			t.Fatal("empty token")
		}
		if token.StaffUser.Username != "admin" {
			t.Errorf("unexpected username %q", token.StaffUser.Username)
		}
	})

	t.Run("repeat login returns the same token", func(t *testing.T) {
		first, err := service.Login("admin", "admin123")
		if err != nil {
			t.Fatalf("Login: %v", err)
		}
		second, err := service.Login("admin", "admin123")
		if err != nil {
			t.Fatalf("Login: %v", err)
		}
		if first.Token != second.Token {
			t.Error("expected a stable token per user")
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		if _, err := service.Login("admin", "nope"); !errors.Is(err, ErrBadCredentials) {
			t.Fatalf("expected ErrBadCredentials, got %v", err)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		if _, err := service.Login("ghost", "admin123"); !errors.Is(err, ErrBadCredentials) {
			t.Fatalf("expected ErrBadCredentials, got %v", err)
		}
	})
}

func TestAuthService_EnsureSeedUsers(t *testing.T) {
	db := openTestDB(t)
	service := NewAuthService(db)

	t.Setenv("ADMIN_USERNAME", "admin")
	t.Setenv("ADMIN_PASSWORD", "admin123")
	t.Setenv("COUNTER_USERNAME", "counter1")
	t.Setenv("COUNTER_PASSWORD", "")

	if err := service.EnsureSeedUsers(); err != nil {
		t.Fatalf("EnsureSeedUsers: %v", err)
	}

	var admins int64
	if err := db.Model(&models.StaffUser{}).Where("username = ? AND is_admin = ?", "admin", true).
		Count(&admins).Error; err != nil {
		t.Fatalf("count admins: %v", err)
	}
	if admins != 1 {
		t.Fatalf("expected the admin to be seeded, found %d", admins)
	}

	// Counter account skipped: no password configured.
	var counters int64
	if err := db.Model(&models.StaffUser{}).Where("username = ?", "counter1").
		Count(&counters).Error; err != nil {
		t.Fatalf("count counters: %v", err)
	}
	if counters != 0 {
		t.Error("counter user must not be seeded without a password")
	}

	// Idempotent: a second run neither fails nor duplicates.
	if err := service.EnsureSeedUsers(); err != nil {
		t.Fatalf("second EnsureSeedUsers: %v", err)
	}
	var total int64
	if err := db.Model(&models.StaffUser{}).Count(&total).Error; err != nil {
		t.Fatalf("count users: %v", err)
	}
	if total != 1 {
		t.Errorf("expected 1 user after reseed, got %d", total)
	}

	if _, err := service.Login("admin", "admin123"); err != nil {
		t.Errorf("seeded admin cannot log in: %v", err)
	}
}
