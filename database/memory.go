package database

import (
	"board-api/config"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OpenInMemory opens a private, migrated sqlite database that lives as long as the returned
// handle. Used by tests and by DB_DRIVER=sqlite quick starts without a file.
func OpenInMemory() (*gorm.DB, error) {
	db, err := Initialize(config.DatabaseConfig{
		Driver: "sqlite",
		URL:    "file:" + uuid.NewString() + "?mode=memory&cache=shared&_pragma=foreign_keys(1)",
	}, false)
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}
