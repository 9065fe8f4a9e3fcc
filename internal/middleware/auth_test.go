package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/straypaws/straymap/internal/config"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, sub string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub": sub,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return raw
}

func TestOptionalJWTWithoutToken(t *testing.T) {
	cfg := &config.Config{JWTSecret: testSecret}
	app := fiber.New()

	app.Get("/", OptionalJWT(cfg), func(c *fiber.Ctx) error {
		if _, err := UserID(c); err == nil {
			return c.SendString("user")
		}
		return c.SendString("anonymous")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 without token, got %d", resp.StatusCode)
	}
}

func TestOptionalJWTWithValidToken(t *testing.T) {
	cfg := &config.Config{JWTSecret: testSecret}
	app := fiber.New()
	userID := uuid.New()

	app.Get("/", OptionalJWT(cfg), func(c *fiber.Ctx) error {
		id, err := UserID(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).SendString("anonymous")
		}
		return c.SendString(id.String())
	})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, userID.String()))

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 with valid token, got %d", resp.StatusCode)
	}
}

func TestOptionalJWTWithBadTokenFallsBackToAnonymous(t *testing.T) {
	cfg := &config.Config{JWTSecret: testSecret}
	app := fiber.New()

	app.Get("/", OptionalJWT(cfg), func(c *fiber.Ctx) error {
		if _, err := UserID(c); err == nil {
			return c.SendString("user")
		}
		return c.SendString("anonymous")
	})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "wrong-secret", uuid.New().String()))

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected request to pass through, got %d", resp.StatusCode)
	}
}

func TestJWTProtectedRejectsMissingToken(t *testing.T) {
	cfg := &config.Config{JWTSecret: testSecret}
	app := fiber.New()
	app.Get("/", JWTProtected(cfg), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.StatusCode)
	}
}
