package model

import "time"

// IndexStatus is a plain key-value row. The vector index marker lives here so
// it stays out of the entity_embeddings table and the similarity-search path.
type IndexStatus struct {
	Key       string    `gorm:"type:varchar(100);primaryKey"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (IndexStatus) TableName() string {
	return "index_statuses"
}
