package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/EdProwise/orbitconnect-social-learning-platform-sub000/src/core/database"
	"github.com/EdProwise/orbitconnect-social-learning-platform-sub000/src/core/models"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenTestDB opens a fresh SQLite database under t.TempDir() with the full
// schema migrated. A file, not :memory:, because the pool would hand each
// connection its own empty in-memory database. TranslateError is on, same as
// the production connection, so the duplicate-key paths behave identically
// under test.
func OpenTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// OpenPostgresTestDB connects to the database named by TEST_POSTGRES_DSN,
// migrates the full schema and empties every table. Tests that need real row
// locks or genuinely concurrent sessions use this; they skip when the
// variable is unset so the suite stays runnable on SQLite alone.
func OpenPostgresTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set; skipping Postgres-backed test")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open postgres test db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate postgres test db: %v", err)
	}

	// Children before parents, so the deletes never trip a foreign key.
	tables := []string{
		"event_registrations", "events", "knowledge_point_awards",
		"connections", "reactions", "comments", "posts", "users",
	}
	for _, table := range tables {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			t.Fatalf("reset table %s: %v", table, err)
		}
	}

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// SeedUser inserts a user with generated identifiers and returns its id.
func SeedUser(t *testing.T, db *gorm.DB) uuid.UUID {
	t.Helper()

	id := uuid.New()
	user := models.User{
		ID:        id,
		FirstName: "Test",
		LastName:  "User",
		Username:  "user-" + id.String()[:8],
		Email:     id.String()[:8] + "@example.com",
		Password:  "hashed",
		Role:      models.RoleStudent,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return id
}

// SeedPost inserts a post owned by userID and returns its id.
func SeedPost(t *testing.T, db *gorm.DB, userID uuid.UUID) uuid.UUID {
	t.Helper()

	post := models.Post{UserID: userID, Content: "seeded post"}
	if err := db.Create(&post).Error; err != nil {
		t.Fatalf("seed post: %v", err)
	}
	return post.ID
}

// SeedComment inserts a comment by userID on postID and returns its id.
func SeedComment(t *testing.T, db *gorm.DB, postID, userID uuid.UUID) uuid.UUID {
	t.Helper()

	comment := models.Comment{PostID: postID, UserID: userID, Content: "seeded comment"}
	if err := db.Create(&comment).Error; err != nil {
		t.Fatalf("seed comment: %v", err)
	}
	return comment.ID
}
