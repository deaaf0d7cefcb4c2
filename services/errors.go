package services

import (
	"errors"

	"board-api/utils"

	"gorm.io/gorm"
)

// translateDBError maps a repository error to an AppError: a missing row becomes NotFound
// with the given message, anything else a database error.
func translateDBError(err error, notFound string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.NewNotFoundError(notFound)
	}
	return utils.NewDatabaseError("database operation failed", err)
}
