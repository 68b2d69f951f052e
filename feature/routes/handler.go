package routes

import (
	"route-publisher/core/httperr"
	"route-publisher/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for route consistency.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the routes endpoints.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/routes")
	group.Get("/consistency", h.HandleConsistencyQuery)
	group.Post("/consistency", h.HandleConsistencyCommand)
	group.Get("/reconcile", h.HandleReconcile)
}

type consistencyRequest struct {
	Slug   string `json:"slug"`
	Action string `json:"action"`
}

// HandleConsistencyQuery runs ?slug=&action=check|fix.
func (h *Handler) HandleConsistencyQuery(c *fiber.Ctx) error {
	return h.run(c, consistencyRequest{Slug: c.Query("slug"), Action: c.Query("action")})
}

// HandleConsistencyCommand runs a JSON {slug, action} body.
func (h *Handler) HandleConsistencyCommand(c *fiber.Ctx) error {
	var req consistencyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	return h.run(c, req)
}

func (h *Handler) run(c *fiber.Ctx, req consistencyRequest) error {
	l := logger.WithRayID(h.service.logger, c).With(zap.String("slug", req.Slug), zap.String("action", req.Action))

	result, err := h.service.Run(c.Context(), req.Slug, req.Action)
	if err != nil {
		l.Error("Route consistency action failed", zap.Error(err))
		return httperr.Respond(c, err)
	}

	return c.JSON(result)
}

// HandleReconcile checks every published page; ?fix=true also repairs them.
func (h *Handler) HandleReconcile(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	fix := c.Query("fix") == "true"
	l.Info("Starting route reconciliation", zap.Bool("fix", fix))

	report, err := h.service.Reconcile(c.Context(), fix)
	if report == nil {
		l.Error("Route reconciliation failed", zap.Error(err))
		return httperr.Respond(c, err)
	}
	if err != nil {
		l.Warn("Some repairs failed", zap.Error(err))
		return c.Status(fiber.StatusMultiStatus).JSON(report)
	}

	l.Info("Route reconciliation completed",
		zap.Int("routes", report.Plan.Summary.Routes),
		zap.Int("matched", report.Plan.Summary.Matched),
		zap.Int("repairs", report.Plan.Summary.RepairActions))

	return c.JSON(report)
}
