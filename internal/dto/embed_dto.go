package dto

import "github.com/google/uuid"

// PublishEmbedEntityMessage is the payload of the entity-changed topic. CRUD
// collaborators publish it whenever an indexed entity is created or updated.
type PublishEmbedEntityMessage struct {
	EntityType string    `json:"entity_type"`
	EntityId   uuid.UUID `json:"entity_id"`
	Deleted    bool      `json:"deleted,omitempty"`
}

// EmbedEntityRequest is the HTTP form of an entity-changed notification,
// posted by the CRUD collaborator after it mutates an asset or room.
type EmbedEntityRequest struct {
	EntityType string    `json:"entity_type" validate:"required,oneof=asset room"`
	EntityId   uuid.UUID `json:"entity_id" validate:"required"`
	Deleted    bool      `json:"deleted"`
}
