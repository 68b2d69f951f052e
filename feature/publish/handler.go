package publish

import (
	"route-publisher/core/httperr"
	"route-publisher/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for publishing.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the publish routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Post("/pages", h.HandleCreatePage)
	app.Post("/publish/:slug", h.HandlePublish)
}

type createPageRequest struct {
	Slug    string   `json:"slug"`
	Domains []string `json:"domains"`
}

// HandleCreatePage registers a draft page. Existing pages answer 200.
func (h *Handler) HandleCreatePage(c *fiber.Ctx) error {
	var req createPageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	page, created, err := h.service.CreatePage(c.Context(), req.Slug, req.Domains)
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Page creation failed", zap.String("slug", req.Slug), zap.Error(err))
		return httperr.Respond(c, err)
	}
	if created {
		return c.Status(fiber.StatusCreated).JSON(page)
	}
	return c.JSON(page)
}

// HandlePublish publishes the raw request body as the new version of :slug.
func (h *Handler) HandlePublish(c *fiber.Ctx) error {
	slug := c.Params("slug")
	l := logger.WithRayID(h.service.logger, c).With(zap.String("slug", slug))

	// The body buffer is reused by fiber after the handler returns.
	body := append([]byte(nil), c.Body()...)

	result, err := h.service.Publish(c.Context(), slug, body)
	if err != nil {
		l.Error("Publish failed", zap.Error(err))
		return httperr.Respond(c, err)
	}

	return c.JSON(result)
}
