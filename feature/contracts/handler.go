package contracts

import (
	"errors"

	"natsumin/core/logger"
	"natsumin/feature/sheets"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler exposes the sync engine and contract queries over HTTP.
type Handler struct {
	engine  *Engine
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(engine *Engine, service *Service, logger *zap.Logger) *Handler {
	return &Handler{engine: engine, service: service, logger: logger}
}

// RegisterRoutes registers the sync and contract routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	runs := app.Group("/sync")
	runs.Get("/status", h.HandleStatus)
	runs.Post("/:season", h.HandleSync)

	seasons := app.Group("/seasons")
	seasons.Get("/", h.HandleListSeasons)
	seasons.Get("/:season/summary", h.HandleSeasonSummary)

	users := app.Group("/users")
	users.Get("/:username/resolve", h.HandleResolve)
	users.Get("/:username/contracts", h.HandleUserContracts)
}

// HandleSync runs one sync pass for the season and returns its result.
// A pass already in flight yields 409.
func (h *Handler) HandleSync(c *fiber.Ctx) error {
	season := c.Params("season")
	l := logger.WithRayID(h.logger, c)

	result, err := h.engine.Run(c.UserContext(), season)
	if err != nil {
		l.Error("Manual sync failed", zap.String("season", season), zap.Error(err))
		return errorResponse(c, err)
	}
	return c.JSON(result)
}

// HandleStatus returns the orchestrator state and the last outcome.
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	return c.JSON(h.engine.Status())
}

func (h *Handler) HandleListSeasons(c *fiber.Ctx) error {
	seasons, err := h.service.Seasons(c.UserContext())
	if err != nil {
		logger.WithRayID(h.logger, c).Error("Listing seasons failed", zap.Error(err))
		return errorResponse(c, err)
	}
	active, err := h.service.ActiveSeason(c.UserContext())
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"active": active, "seasons": seasons})
}

func (h *Handler) HandleSeasonSummary(c *fiber.Ctx) error {
	summary, err := h.service.Summary(c.UserContext(), c.Params("season"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(summary)
}

// HandleResolve shows how a username resolves.
func (h *Handler) HandleResolve(c *fiber.Ctx) error {
	id, err := h.service.Resolve(c.UserContext(), c.Params("username"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(id)
}

// HandleUserContracts lists a user's contracts grouped for display. The
// season query parameter defaults to the active season.
func (h *Handler) HandleUserContracts(c *fiber.Ctx) error {
	season := c.Query("season")
	if season == "" {
		active, err := h.service.ActiveSeason(c.UserContext())
		if err != nil {
			return errorResponse(c, err)
		}
		season = active
	}

	contracts, err := h.service.UserContracts(c.UserContext(), season, c.Params("username"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(contracts)
}

func errorResponse(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	var fetchErr *sheets.FetchError
	switch {
	case errors.Is(err, ErrSyncInProgress):
		status = fiber.StatusConflict
	case errors.Is(err, ErrUnknownSeason), errors.Is(err, ErrUserNotFound):
		status = fiber.StatusNotFound
	case errors.As(err, &fetchErr):
		status = fiber.StatusBadGateway
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
