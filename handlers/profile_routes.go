package handlers

import (
	"deen-quest-system/middleware"
	"deen-quest-system/models"
	"deen-quest-system/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupProfileRoutes(app *fiber.App, db *gorm.DB, ledger *services.LedgerService, badgeService *services.BadgeService, azkarService *services.AzkarService) {
	app.Get("/azkar/groups", func(c *fiber.Ctx) error {
		groups, err := azkarService.GetGroups()
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(groups)
	})

	app.Get("/azkar/:id", func(c *fiber.Ctx) error {
		azkar, err := azkarService.GetAzkarByID(c.Params("id"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(azkar)
	})

	secured := app.Group("/user", middleware.UserContextMiddleware(db))

	secured.Get("/profile", func(c *fiber.Ctx) error {
		userID := currentUserID(c)
		user, err := ledger.Snapshot(userID)
		if err != nil {
			return fail(c, err)
		}

		var equipped []models.UserItem
		if err := db.Preload("Item").
			Where("user_id = ? AND equipped = ?", userID, true).
			Find(&equipped).Error; err != nil {
			return fail(c, err)
		}

		return c.JSON(fiber.Map{
			"id":           user.ID,
			"display_name": user.DisplayName,
			"avatar_url":   user.AvatarURL,
			"xp":           user.Xp,
			"coins":        user.Coins,
			"level":        user.Level,
			"xp_progress":  services.ProgressForXP(user.Xp),
			"equipped":     equipped,
		})
	})

	secured.Get("/badges", func(c *fiber.Ctx) error {
		userBadges, err := badgeService.GetUserBadges(currentUserID(c))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(userBadges)
	})
}
