package contract

import (
	"context"

	"inventory-assistant-be/internal/entity"
	"inventory-assistant-be/internal/repository/specification"
)

// AssetRepository is read-only here; asset CRUD belongs to the inventory
// collaborator service.
type AssetRepository interface {
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Asset, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Asset, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

type RoomRepository interface {
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Room, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Room, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

type UserRepository interface {
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
