package scope

import "gorm.io/gorm"

func OrderByUploadedDesc(db *gorm.DB) *gorm.DB {
	return db.Order("uploaded_at DESC")
}

func OrderByChunkIndex(db *gorm.DB) *gorm.DB {
	return db.Order("source ASC, chunk_index ASC")
}
