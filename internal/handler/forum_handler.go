package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/widya-labs/pustaka-api/internal/dto"
	"github.com/widya-labs/pustaka-api/internal/service"
	"github.com/widya-labs/pustaka-api/internal/utils"
)

// ForumHandler manages the reading discussion forum endpoints.
type ForumHandler struct {
	service service.ForumService
	logger  zerolog.Logger
}

// NewForumHandler builds a forum handler instance.
func NewForumHandler(service service.ForumService, logger zerolog.Logger) *ForumHandler {
	return &ForumHandler{
		service: service,
		logger:  logger.With().Str("component", "forum_handler").Logger(),
	}
}

// Register attaches the forum routes open to any authenticated user.
func (h *ForumHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Delete("/:id", h.delete)
	router.Post("/:id/comments", h.comment)
	router.Post("/:id/like", h.toggleLike)
}

// RegisterStudent attaches post creation, which is reserved for students.
func (h *ForumHandler) RegisterStudent(router fiber.Router) {
	router.Post("", h.create)
}

func (h *ForumHandler) list(c *fiber.Ctx) error {
	var filter dto.PostFilterRequest
	if err := c.QueryParser(&filter); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid query")
	}

	posts, err := h.service.ListPosts(c.Context(), filter)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "posts retrieved", posts)
}

func (h *ForumHandler) create(c *fiber.Ctx) error {
	studentID := userIDFromContext(c)
	if studentID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	var payload dto.PostCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	post, err := h.service.CreatePost(c.Context(), studentID, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "post published", post)
}

func (h *ForumHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid post id")
	}

	post, err := h.service.GetPost(c.Context(), id, userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "post retrieved", post)
}

func (h *ForumHandler) delete(c *fiber.Ctx) error {
	requesterID := userIDFromContext(c)
	if requesterID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid post id")
	}

	if err := h.service.DeletePost(c.Context(), id, requesterID); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "post deleted", nil)
}

func (h *ForumHandler) comment(c *fiber.Ctx) error {
	studentID := userIDFromContext(c)
	if studentID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	postID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid post id")
	}

	var payload dto.CommentCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	comment, err := h.service.AddComment(c.Context(), postID, studentID, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "comment added", comment)
}

func (h *ForumHandler) toggleLike(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	postID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid post id")
	}

	result, err := h.service.ToggleLike(c.Context(), postID, userID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "like toggled", result)
}

func (h *ForumHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrPostNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "post not found")
	case errors.Is(err, service.ErrNotPostOwner):
		return utils.SendError(c, fiber.StatusForbidden, "you can only delete your own posts")
	case errors.Is(err, service.ErrReviewNotLinkable):
		return utils.SendError(c, fiber.StatusBadRequest, "linked review must be one of your verified reviews")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
