package services

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/straypaws/straymap/internal/models"
)

// The service tests run against sqlite with a hand-written schema. The
// production column defaults (gen_random_uuid, jsonb) are Postgres-only, so
// AutoMigrate is not usable here; ids are always set by the services anyway.
var testSchema = []string{
	`CREATE TABLE users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL,
		password TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'user',
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	)`,
	`CREATE TABLE refresh_tokens (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		token_hash TEXT NOT NULL UNIQUE,
		expires_at DATETIME NOT NULL,
		revoked BOOLEAN NOT NULL DEFAULT FALSE,
		created_at DATETIME
	)`,
	`CREATE TABLE sightings (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		latitude REAL NOT NULL,
		longitude REAL NOT NULL,
		note TEXT NOT NULL,
		visibility TEXT NOT NULL DEFAULT 'public',
		photo_urls TEXT,
		created_at DATETIME
	)`,
	`CREATE TABLE sanctuaries (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT,
		latitude REAL NOT NULL,
		longitude REAL NOT NULL,
		area_mode TEXT NOT NULL,
		radius_km REAL,
		boundary TEXT,
		approved BOOLEAN NOT NULL DEFAULT FALSE,
		address TEXT,
		logo_url TEXT,
		opening_hours TEXT,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE caregiver_assignments (
		id TEXT PRIMARY KEY,
		sanctuary_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		created_at DATETIME,
		UNIQUE (sanctuary_id, user_id)
	)`,
	`CREATE TABLE deletion_log (
		id TEXT PRIMARY KEY,
		sighting_id TEXT NOT NULL,
		owner_id TEXT NOT NULL,
		reason TEXT NOT NULL,
		latitude REAL NOT NULL,
		longitude REAL NOT NULL,
		visibility TEXT NOT NULL,
		created_at DATETIME
	)`,
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "straymap_test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	for _, stmt := range testSchema {
		mustExec(t, db, stmt)
	}
	return db
}

func mustExec(t *testing.T, db *gorm.DB, sql string) {
	t.Helper()
	if err := db.Exec(sql).Error; err != nil {
		t.Fatalf("exec %q: %v", sql, err)
	}
}

func seedUser(t *testing.T, db *gorm.DB, role, email string) models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := models.User{
		ID:       uuid.New(),
		Email:    email,
		Password: string(hash),
		Role:     role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}
