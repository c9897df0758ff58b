package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Asset struct {
	Id              uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Code            string         `gorm:"type:varchar(100);not null;uniqueIndex"`
	Name            string         `gorm:"type:text;not null"`
	Specifications  string         `gorm:"type:text"`
	Year            int            `gorm:"index"`
	Quantity        int            `gorm:"default:0"`
	MissingQuantity int            `gorm:"default:0"`
	UnitPrice       float64        `gorm:"type:numeric(18,2)"`
	OriginPrice     float64        `gorm:"type:numeric(18,2)"`
	RemainingValue  float64        `gorm:"type:numeric(18,2);index"`
	RoomId          *uuid.UUID     `gorm:"type:uuid;index"`
	ResponsibleId   *uuid.UUID     `gorm:"type:uuid;index"`
	CreatedAt       time.Time      `gorm:"autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime"`
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}

func (Asset) TableName() string {
	return "assets"
}
