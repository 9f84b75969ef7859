package repository

import (
	"strings"
	"time"

	"github.com/sangkips/cafe-pos/internal/domain/enum"
	"gorm.io/gorm"
)

// TimeRange returns a GORM scope that keeps rows with from <= column < to.
// A zero bound is open. Bounds are compared in UTC, which is how timestamps
// are stored.
func TimeRange(column string, from, to time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if !from.IsZero() {
			db = db.Where(column+" >= ?", from.UTC())
		}
		if !to.IsZero() {
			db = db.Where(column+" < ?", to.UTC())
		}
		return db
	}
}

// Completed keeps completed orders only
func Completed(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", enum.OrderStatusCompleted)
}

// ContainsFold matches any of the columns case-insensitively. It works on
// both postgres and sqlite, unlike ILIKE.
func ContainsFold(search string, columns ...string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if search == "" || len(columns) == 0 {
			return db
		}
		pattern := "%" + strings.ToLower(search) + "%"
		clauses := make([]string, len(columns))
		args := make([]interface{}, len(columns))
		for i, c := range columns {
			clauses[i] = "LOWER(" + c + ") LIKE ?"
			args[i] = pattern
		}
		return db.Where(strings.Join(clauses, " OR "), args...)
	}
}
