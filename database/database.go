package database

import (
	"fmt"
	"log/slog"
	"time"

	"board-api/config"
	"board-api/models"

	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Initialize(cfg config.DatabaseConfig, debug bool) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	logLevel := logger.Warn
	if debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.New(slog.NewLogLogger(slog.Default().Handler(), slog.LevelWarn), logger.Config{
			SlowThreshold: 200 * time.Millisecond,
			LogLevel:      logLevel,
			// Missing rows are an expected outcome of lookups and are mapped to 404s.
			IgnoreRecordNotFoundError: true,
		}),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	if cfg.Driver == "sqlite" {
		// One writer at a time; also keeps in-memory databases on a single connection.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
	}

	return db, nil
}

func dialectorFor(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "mysql":
		return mysql.Open(cfg.URL), nil
	case "postgres":
		return postgres.Open(cfg.URL), nil
	case "sqlite":
		return sqlite.Open(cfg.URL), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.Like{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	if err := addCustomIndexes(db); err != nil {
		return fmt.Errorf("failed to add custom indexes: %w", err)
	}

	return nil
}

func addCustomIndexes(db *gorm.DB) error {
	// Listing pages sort newest first; comment pages sort oldest first within a post.
	indexes := []struct {
		table string
		name  string
		ddl   string
	}{
		{"posts", "idx_posts_created_id", "CREATE INDEX idx_posts_created_id ON posts(created_at DESC, id DESC)"},
		{"comments", "idx_comments_post_created", "CREATE INDEX idx_comments_post_created ON comments(post_id, created_at)"},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.table, idx.name) {
			continue
		}
		if err := db.Exec(idx.ddl).Error; err != nil {
			slog.Warn("could not create index", "index", idx.name, "err", err)
		}
	}

	return nil
}

// SeedData populates an empty database with two demo accounts and a welcome post.
func SeedData(db *gorm.DB) error {
	var userCount int64
	if err := db.Model(&models.User{}).Count(&userCount).Error; err != nil {
		return err
	}

	if userCount > 0 {
		slog.Info("database already has data, skipping seed")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("SecurePass123!"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		testUsers := []models.User{
			{Email: "john@example.com", Username: "john_doe", Password: string(hash)},
			{Email: "jane@example.com", Username: "jane_smith", Password: string(hash)},
		}
		if err := tx.Create(&testUsers).Error; err != nil {
			return fmt.Errorf("failed to create seed users: %w", err)
		}

		welcome := models.Post{
			Title:    "Welcome to the board",
			Content:  "Say hello in the comments.",
			AuthorID: testUsers[0].ID,
		}
		if err := tx.Create(&welcome).Error; err != nil {
			return fmt.Errorf("failed to create seed post: %w", err)
		}

		slog.Info("database seeded with test data", "users", len(testUsers))
		return nil
	})
}
