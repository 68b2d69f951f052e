package integrity

import (
	"route-publisher/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity")
	group.Get("/", h.HandleIntegrityCheck)
	group.Get("/server", h.HandleServerCheck)
	group.Get("/storage", h.HandleStorageCheck)
	group.Get("/cache", h.HandleCacheCheck)
}

// HandleIntegrityCheck runs every check and reports each one separately.
// A failing check never hides the others.
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering all integrity checks")

	ctx := c.Context()
	report := fiber.Map{}

	if srvReport, err := h.service.CheckServer(); err != nil {
		report["server"] = fiber.Map{"status": "error", "error": err.Error()}
	} else {
		report["server"] = srvReport
	}

	if stReport, err := h.service.CheckStorage(ctx); err != nil {
		report["storage"] = fiber.Map{"status": "error", "error": err.Error()}
	} else {
		report["storage"] = stReport
	}

	report["cache"] = h.service.CheckCache(ctx)

	return c.JSON(report)
}

// HandleServerCheck checks the page table schema.
func (h *Handler) HandleServerCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Starting server schema check")

	report, err := h.service.CheckServer()
	if err != nil {
		l.Error("Server schema check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(report)
}

// HandleStorageCheck checks and optionally creates the artifact bucket.
func (h *Handler) HandleStorageCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	fix := c.Query("fix") == "true"

	check := h.service.CheckStorage
	if fix {
		check = h.service.FixStorage
	}

	report, err := check(c.Context())
	if err != nil {
		l.Error("Storage check failed", zap.Bool("fix", fix), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if !report.Exists {
		l.Warn("Artifact bucket missing", zap.String("bucket", report.Bucket))
	}

	return c.JSON(report)
}

// HandleCacheCheck pings the route store. An unreachable store answers 503.
func (h *Handler) HandleCacheCheck(c *fiber.Ctx) error {
	report := h.service.CheckCache(c.Context())
	if !report.Reachable {
		logger.WithRayID(h.service.logger, c).Warn("Route store unreachable", zap.String("error", report.Error))
		return c.Status(fiber.StatusServiceUnavailable).JSON(report)
	}
	return c.JSON(report)
}
