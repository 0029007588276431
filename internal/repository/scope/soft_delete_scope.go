package scope

import "gorm.io/gorm"

// ExcludeSoftDeleted is needed on raw Table() queries, which skip GORM's
// automatic soft delete filter.
func ExcludeSoftDeleted(table string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(table + ".deleted_at IS NULL")
	}
}
