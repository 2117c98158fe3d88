package utils

import "gorm.io/gorm"

// Paging returns a gorm scope that applies page/limit windowing. Page
// defaults to 1; limit defaults to 10 and is capped at 100.
func Paging(page, limit int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if page <= 0 {
			page = 1
		}
		if limit <= 0 {
			limit = 10
		} else if limit > 100 {
			limit = 100
		}
		offset := (page - 1) * limit
		return db.Offset(offset).Limit(limit)
	}
}
