package mapper

import (
	"time"

	"inventory-assistant-be/internal/entity"
	"inventory-assistant-be/internal/model"
)

type InventoryMapper struct{}

func NewInventoryMapper() *InventoryMapper {
	return &InventoryMapper{}
}

func (m *InventoryMapper) AssetToEntity(a *model.Asset) *entity.Asset {
	if a == nil {
		return nil
	}

	var updatedAt *time.Time
	if !a.UpdatedAt.IsZero() {
		t := a.UpdatedAt
		updatedAt = &t
	}

	return &entity.Asset{
		Id:              a.Id,
		Code:            a.Code,
		Name:            a.Name,
		Specifications:  a.Specifications,
		Year:            a.Year,
		Quantity:        a.Quantity,
		MissingQuantity: a.MissingQuantity,
		UnitPrice:       a.UnitPrice,
		OriginPrice:     a.OriginPrice,
		RemainingValue:  a.RemainingValue,
		RoomId:          a.RoomId,
		ResponsibleId:   a.ResponsibleId,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       updatedAt,
	}
}

func (m *InventoryMapper) RoomToEntity(r *model.Room) *entity.Room {
	if r == nil {
		return nil
	}

	var updatedAt *time.Time
	if !r.UpdatedAt.IsZero() {
		t := r.UpdatedAt
		updatedAt = &t
	}

	return &entity.Room{
		Id:          r.Id,
		Name:        r.Name,
		Building:    r.Building,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}

func (m *InventoryMapper) UserToEntity(u *model.User) *entity.User {
	if u == nil {
		return nil
	}

	return &entity.User{
		Id:       u.Id,
		FullName: u.FullName,
		Email:    u.Email,
		Role:     u.Role,
	}
}
