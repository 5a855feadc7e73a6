package integrity

import (
	"natsumin/core/logger"

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
	group.Get("/schema", h.HandleSchemaCheck)
	group.Get("/storage", h.HandleStorageCheck)
	group.Get("/data", h.HandleDataCheck)
}

// HandleIntegrityCheck runs every check.
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering all integrity checks")

	report := h.service.RunAll(c.Context())
	return c.JSON(fiber.Map{
		"healthy": report.Healthy(),
		"report":  report,
	})
}

// HandleSchemaCheck compares the models with the database and migrates
// when ?fix=true.
func (h *Handler) HandleSchemaCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.CheckSchema()
	if err != nil {
		l.Error("Schema check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if c.QueryBool("fix") && !report.Matched {
		if err := h.service.FixSchema(); err != nil {
			l.Error("Schema fix failed", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"status": "fixed", "drifts": report.Drifts})
	}

	return c.JSON(report)
}

// HandleStorageCheck inspects the snapshot bucket and creates it when
// ?fix=true.
func (h *Handler) HandleStorageCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	ctx := c.Context()

	report, err := h.service.CheckStorage(ctx)
	if err != nil {
		l.Error("Storage check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if c.QueryBool("fix") && report.Enabled && !report.Exists {
		if err := h.service.FixStorage(ctx); err != nil {
			l.Error("Storage fix failed", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"status": "fixed", "bucket": report.Bucket})
	}

	return c.JSON(report)
}

// HandleDataCheck scans the season tables.
func (h *Handler) HandleDataCheck(c *fiber.Ctx) error {
	report, err := h.service.CheckData(c.Context())
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Data check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(report)
}
