package utils

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 50

	// MaxOffset bounds (page-1)*limit so the row offset can never overflow.
	MaxOffset = math.MaxInt32
)

// ParsePagination reads page and limit query parameters. Absent values fall back to 1 and 10,
// limit is clamped to MaxLimit, and non-numeric or non-positive values are rejected, as is any
// page whose row offset would exceed MaxOffset.
func ParsePagination(c *gin.Context) (page, limit int, fields []ValidationError) {
	page, ok := parsePositive(c.Query("page"), DefaultPage)
	if !ok {
		fields = append(fields, ValidationError{Field: "page", Message: "must be a positive integer"})
	}

	limit, ok = parsePositive(c.Query("limit"), DefaultLimit)
	if !ok {
		fields = append(fields, ValidationError{Field: "limit", Message: "must be a positive integer"})
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if page-1 > MaxOffset/limit {
		fields = append(fields, ValidationError{Field: "page", Message: "is out of range"})
	}

	return page, limit, fields
}

// PageOffset returns the row offset of a 1-based page, capped at MaxOffset.
func PageOffset(page, limit int) int {
	if page <= 1 || limit <= 0 {
		return 0
	}
	if page-1 > MaxOffset/limit {
		return MaxOffset
	}
	return (page - 1) * limit
}

func parsePositive(raw string, defaultValue int) (int, bool) {
	if raw == "" {
		return defaultValue, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return defaultValue, false
	}
	return n, true
}

// ParseID parses a positive numeric path parameter.
func ParseID(c *gin.Context, name string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || n == 0 {
		SendValidationErrors(c, []ValidationError{{Field: name, Message: "must be a positive integer"}})
		return 0, false
	}
	return uint(n), true
}
