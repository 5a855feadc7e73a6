package badges

import (
	"errors"

	"natsumin/core/logger"
	"natsumin/feature/contracts/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler exposes the badge catalog over HTTP.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers the badge routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	g := app.Group("/badges")
	g.Get("/", h.HandleList)
	g.Post("/", h.HandleCreate)
	g.Get("/users/:username", h.HandleOwned)
	g.Delete("/:id", h.HandleDelete)
	g.Post("/:id/owners/:username", h.HandleAward)
	g.Delete("/:id/owners/:username", h.HandleRevoke)
}

func (h *Handler) HandleList(c *fiber.Ctx) error {
	badges, err := h.service.List(c.UserContext(), Filter{Name: c.Query("name"), Type: c.Query("type")})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(badges)
}

func (h *Handler) HandleCreate(c *fiber.Ctx) error {
	var badge models.Badge
	if err := c.BodyParser(&badge); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	badge.ID = 0
	if err := h.service.Create(c.UserContext(), &badge); err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(badge)
}

func (h *Handler) HandleDelete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid badge id"})
	}
	if err := h.service.Delete(c.UserContext(), uint(id)); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleAward awards a badge. Awarding a badge the user already owns
// answers 200 instead of 201.
func (h *Handler) HandleAward(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid badge id"})
	}
	user, awarded, err := h.service.Award(c.UserContext(), uint(id), c.Params("username"))
	if err != nil {
		return h.fail(c, err)
	}
	status := fiber.StatusOK
	if awarded {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(fiber.Map{"user": user, "awarded": awarded})
}

func (h *Handler) HandleRevoke(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid badge id"})
	}
	revoked, err := h.service.Revoke(c.UserContext(), uint(id), c.Params("username"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"revoked": revoked})
}

func (h *Handler) HandleOwned(c *fiber.Ctx) error {
	owned, err := h.service.Owned(c.UserContext(), c.Params("username"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(owned)
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, ErrBadgeNotFound), errors.Is(err, ErrUserNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, ErrInvalidBadge):
		status = fiber.StatusBadRequest
	default:
		logger.WithRayID(h.logger, c).Error("Badge request failed", zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
