package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CodeLike matches asset codes by case-insensitive pattern.
type CodeLike struct {
	Pattern string
}

func (s CodeLike) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("code ILIKE ?", "%"+s.Pattern+"%")
}

// NameLike matches by case-insensitive name pattern.
type NameLike struct {
	Pattern string
}

func (s NameLike) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("name ILIKE ?", "%"+s.Pattern+"%")
}

// ByRoomIDs scopes assets to a set of rooms.
type ByRoomIDs struct {
	RoomIDs []uuid.UUID
}

func (s ByRoomIDs) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("room_id IN ?", s.RoomIDs)
}

// ByYear filters by acquisition year.
type ByYear struct {
	Year int
}

func (s ByYear) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("year = ?", s.Year)
}

// MissingOnly keeps records with a positive shortage count.
type MissingOnly struct{}

func (s MissingOnly) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("missing_quantity > 0")
}
