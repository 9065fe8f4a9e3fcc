package services

import (
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/straypaws/straymap/internal/config"
	"github.com/straypaws/straymap/internal/dto"
	"github.com/straypaws/straymap/internal/models"
)

func newAuthService(db *gorm.DB) *AuthService {
	cfg := &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: time.Hour,
	}
	return NewAuthService(db, cfg)
}

func TestRefreshRotatesTokenPair(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "user", "owner@example.com")
	svc := newAuthService(db)

	pair, err := svc.Login(&dto.LoginRequest{Email: "owner@example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	rotated, err := svc.Refresh(&dto.RefreshRequest{RefreshToken: pair.RefreshToken})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if rotated.RefreshToken == pair.RefreshToken {
		t.Fatal("refresh token was not rotated")
	}

	if _, err := svc.Refresh(&dto.RefreshRequest{RefreshToken: pair.RefreshToken}); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("reused token: err = %v, want ErrInvalidToken", err)
	}
	if _, err := svc.Refresh(&dto.RefreshRequest{RefreshToken: rotated.RefreshToken}); err != nil {
		t.Fatalf("rotated token rejected: %v", err)
	}
}

func TestRefreshKeepsOldTokenWhenIssuanceFails(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "user", "owner@example.com")
	svc := newAuthService(db)

	pair, err := svc.Login(&dto.LoginRequest{Email: "owner@example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	mustExec(t, db, `CREATE TRIGGER refresh_block BEFORE INSERT ON refresh_tokens
		BEGIN SELECT RAISE(ABORT, 'token store unavailable'); END`)

	if _, err := svc.Refresh(&dto.RefreshRequest{RefreshToken: pair.RefreshToken}); err == nil {
		t.Fatal("expected refresh to fail while issuance is blocked")
	}

	var stored models.RefreshToken
	if err := db.First(&stored, "revoked = false").Error; err != nil {
		t.Fatalf("presented token was revoked despite the failed rotation: %v", err)
	}

	mustExec(t, db, `DROP TRIGGER refresh_block`)

	if _, err := svc.Refresh(&dto.RefreshRequest{RefreshToken: pair.RefreshToken}); err != nil {
		t.Fatalf("old token should have survived the failed rotation: %v", err)
	}
}
