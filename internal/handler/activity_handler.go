package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/widya-labs/pustaka-api/internal/service"
	"github.com/widya-labs/pustaka-api/internal/utils"
)

// ActivityHandler serves the activity catalogue.
type ActivityHandler struct {
	service   service.ActivityService
	seedToken string
	logger    zerolog.Logger
}

// NewActivityHandler builds an activity handler instance. When seedToken is
// non-empty the seeding route additionally requires a matching X-Seed-Token
// header.
func NewActivityHandler(service service.ActivityService, seedToken string, logger zerolog.Logger) *ActivityHandler {
	return &ActivityHandler{
		service:   service,
		seedToken: seedToken,
		logger:    logger.With().Str("component", "activity_handler").Logger(),
	}
}

// Register attaches the listing route to the provided router group.
func (h *ActivityHandler) Register(router fiber.Router) {
	router.Get("", h.list)
}

// RegisterPrivileged attaches the librarian seeding route.
func (h *ActivityHandler) RegisterPrivileged(router fiber.Router) {
	router.Post("/seed", h.seed)
}

func (h *ActivityHandler) list(c *fiber.Ctx) error {
	activities, err := h.service.ListActive(c.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list activities")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return utils.SendSuccess(c, "activities retrieved", activities)
}

func (h *ActivityHandler) seed(c *fiber.Ctx) error {
	if h.seedToken != "" && c.Get("X-Seed-Token") != h.seedToken {
		return utils.SendError(c, fiber.StatusForbidden, "invalid seed token")
	}

	created, err := h.service.SeedDefaults(c.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to seed activities")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return utils.SendSuccess(c, "activities seeded", fiber.Map{"created": created})
}
