package middleware

import (
	"errors"
	"strings"

	"deen-quest-system/models"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// UserContextMiddleware extracts the user identity and roles that the Gateway
// resolved from the bearer credential. The gateway knows users by the identity
// the profile service issued; the engine keys its rows by local id. The
// resolution happens here, once, so every service downstream works on users.id
// and an unresolved id never reaches them.
func UserContextMiddleware(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		gatewayID := c.Get("X-User-ID")
		rolesStr := c.Get("X-User-Roles")

		if gatewayID == "" {
			log.Warnf("❌ [USER_CTX] X-User-ID missing on secured route: %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing X-User-ID — request must come through gateway with auth context",
			})
		}

		var user models.User
		err := db.Select("id").
			Where("external_user_id = ? OR id = ?", gatewayID, gatewayID).
			First(&user).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				log.Warnf("❌ [USER_CTX] Unknown user %s on %s", gatewayID, c.Path())
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": "user not found",
				})
			}
			log.Errorf("💥 [USER_CTX] User lookup failed for %s: %v", gatewayID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "internal error",
			})
		}

		var roles []string
		if rolesStr != "" {
			for _, r := range strings.Split(rolesStr, ",") {
				r = strings.TrimSpace(r)
				if r != "" {
					roles = append(roles, r)
				}
			}
		}

		c.Locals("user_id", user.ID)
		c.Locals("user_roles", roles)

		return c.Next()
	}
}

// RequireAdmin rejects requests whose gateway-resolved roles lack "admin".
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		roles, _ := c.Locals("user_roles").([]string)
		for _, r := range roles {
			if r == "admin" {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "admin role required",
		})
	}
}
