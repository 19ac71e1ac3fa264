package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/widya-labs/pustaka-api/internal/models"
	"github.com/widya-labs/pustaka-api/internal/utils"
)

// RequireRole gates a route group to the listed roster roles
// (models.RoleStudent, models.RoleTeacher, models.RoleLibrarian).
// Unknown role names are dropped rather than silently allowed.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		if normalized := normalizeRole(role); isKnownRole(normalized) {
			allowed[normalized] = struct{}{}
		}
	}

	return func(c *fiber.Ctx) error {
		role := normalizeRole(roleFromLocals(c))
		if _, ok := allowed[role]; !ok {
			return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
		}
		return c.Next()
	}
}

func roleFromLocals(c *fiber.Ctx) string {
	value := c.Locals("user_role")
	if value == nil {
		return ""
	}
	if role, ok := value.(string); ok {
		return role
	}
	return fmt.Sprintf("%v", value)
}

func normalizeRole(role string) string {
	return strings.ToLower(strings.TrimSpace(role))
}

func isKnownRole(role string) bool {
	switch role {
	case models.RoleStudent, models.RoleTeacher, models.RoleLibrarian:
		return true
	}
	return false
}
