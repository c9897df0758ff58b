package controller

import (
	"encoding/json"

	"inventory-assistant-be/internal/dto"
	"inventory-assistant-be/internal/pkg/serverutils"
	"inventory-assistant-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IIndexController interface {
	RegisterRoutes(r fiber.Router)
	EmbedEntity(ctx *fiber.Ctx) error
}

// indexController accepts entity-changed notifications from the CRUD
// collaborator and forwards them onto the embed topic. The consumer picks
// them up and refreshes the embedding index asynchronously.
type indexController struct {
	publisherService service.IPublisherService
}

func NewIndexController(publisherService service.IPublisherService) IIndexController {
	return &indexController{
		publisherService: publisherService,
	}
}

func (c *indexController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/index/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("entity", c.EmbedEntity)
}

func (c *indexController) EmbedEntity(ctx *fiber.Ctx) error {
	if _, err := userIdFromCtx(ctx); err != nil {
		return err
	}

	var req dto.EmbedEntityRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	payload, err := json.Marshal(dto.PublishEmbedEntityMessage{
		EntityType: req.EntityType,
		EntityId:   req.EntityId,
		Deleted:    req.Deleted,
	})
	if err != nil {
		return err
	}

	if err := c.publisherService.Publish(ctx.Context(), payload); err != nil {
		return err
	}

	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse[any]("Entity queued for reindex", nil))
}
