package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/widya-labs/pustaka-api/internal/service"
	"github.com/widya-labs/pustaka-api/internal/utils"
)

// LeaderboardHandler serves the reading leaderboard.
type LeaderboardHandler struct {
	service service.LeaderboardService
	logger  zerolog.Logger
}

// NewLeaderboardHandler builds a leaderboard handler instance.
func NewLeaderboardHandler(service service.LeaderboardService, logger zerolog.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{
		service: service,
		logger:  logger.With().Str("component", "leaderboard_handler").Logger(),
	}
}

// Register attaches leaderboard routes to the provided router group.
func (h *LeaderboardHandler) Register(router fiber.Router) {
	router.Get("", h.get)
	router.Get("/ambassadors", h.ambassadors)
}

// RegisterPrivileged attaches librarian-only leaderboard routes.
func (h *LeaderboardHandler) RegisterPrivileged(router fiber.Router) {
	router.Post("/recalculate", h.recalculate)
}

func (h *LeaderboardHandler) get(c *fiber.Ctx) error {
	scope := c.Query("scope")
	scopeValue := c.Query("class")

	board, err := h.service.Get(c.Context(), scope, scopeValue)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to load leaderboard")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return utils.SendSuccess(c, "leaderboard retrieved", board)
}

func (h *LeaderboardHandler) ambassadors(c *fiber.Ctx) error {
	entries, err := h.service.Ambassadors(c.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to load ambassadors")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return utils.SendSuccess(c, "reading ambassadors retrieved", entries)
}

func (h *LeaderboardHandler) recalculate(c *fiber.Ctx) error {
	processed, err := h.service.Recalculate(c.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to recalculate leaderboard")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return utils.SendSuccess(c, "leaderboard recalculated", fiber.Map{"students_processed": processed})
}
