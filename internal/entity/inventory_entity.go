package entity

import (
	"time"

	"github.com/google/uuid"
)

// Asset is the read model over the inventory CRUD collaborator's asset table.
type Asset struct {
	Id              uuid.UUID
	Code            string
	Name            string
	Specifications  string
	Year            int
	Quantity        int
	MissingQuantity int
	UnitPrice       float64
	OriginPrice     float64
	RemainingValue  float64
	RoomId          *uuid.UUID
	ResponsibleId   *uuid.UUID
	CreatedAt       time.Time
	UpdatedAt       *time.Time
}

type Room struct {
	Id          uuid.UUID
	Name        string
	Building    string
	Description string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// User carries only what retrieval needs; account management is external.
type User struct {
	Id       uuid.UUID
	FullName string
	Email    string
	Role     string
}
