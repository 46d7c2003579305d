package handlers

import (
	"fmt"
	"path/filepath"
	"strconv"

	"deen-quest-system/middleware"
	"deen-quest-system/models"
	"deen-quest-system/services"
	"deen-quest-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gosimple/slug"
	log "github.com/sirupsen/logrus"
)

// SetupAdminRoutes wires creation endpoints for the static catalogs:
// challenges, shop items, badges and azkar. All require the admin role from
// the gateway context.
func SetupAdminRoutes(app *fiber.App, challengeService *services.ChallengeService, shopService *services.ShopService, badgeService *services.BadgeService, azkarService *services.AzkarService, ledger *services.LedgerService) {
	admin := app.Group("/admin", middleware.UserContextMiddleware(challengeService.DB), middleware.RequireAdmin())

	admin.Post("/challenges", func(c *fiber.Ctx) error {
		var req services.NewChallengeInput
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
		challenge, err := challengeService.CreateChallenge(req)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(challenge)
	})

	// multipart form: name, type, price_coins, price_xp, rarity + optional icon file
	admin.Post("/shop/items", func(c *fiber.Ctx) error {
		priceCoins, err := strconv.ParseInt(c.FormValue("price_coins"), 10, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "price_coins is required"})
		}
		priceXp, _ := strconv.ParseInt(c.FormValue("price_xp", "0"), 10, 64)

		item := &models.Item{
			Name:       c.FormValue("name"),
			Type:       models.ItemType(c.FormValue("type")),
			PriceCoins: priceCoins,
			PriceXp:    priceXp,
			Rarity:     models.ItemRarity(c.FormValue("rarity", string(models.RarityCommon))),
		}

		if fileHeader, err := c.FormFile("icon"); err == nil {
			key := fmt.Sprintf("icons/items/%s%s", slug.Make(item.Name), filepath.Ext(fileHeader.Filename))
			if utils.R2Enabled() {
				url, upErr := utils.UploadFileToR2(fileHeader, key)
				if upErr != nil {
					log.Errorf("❌ Icon upload failed: %v", upErr)
					return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "icon upload failed"})
				}
				item.ImageURL = url
			} else {
				dest := utils.GetUploadPath(key)
				if saveErr := utils.SaveFile(fileHeader, dest); saveErr != nil {
					return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "icon save failed"})
				}
				item.ImageURL = "/" + filepath.ToSlash(dest)
			}
		}

		created, err := shopService.CreateItem(item)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	})

	admin.Post("/badges", func(c *fiber.Ctx) error {
		var req struct {
			Name        string `json:"name"`
			Description string `json:"description"`
			IconURL     string `json:"icon_url"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
		badge, err := badgeService.CreateBadge(&models.Badge{
			Name:        req.Name,
			Description: req.Description,
			IconURL:     req.IconURL,
		})
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(badge)
	})

	admin.Post("/azkar/groups", func(c *fiber.Ctx) error {
		var group models.AzkarGroup
		if err := c.BodyParser(&group); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
		created, err := azkarService.CreateGroup(&group)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	})

	admin.Post("/azkar", func(c *fiber.Ctx) error {
		var azkar models.Azkar
		if err := c.BodyParser(&azkar); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
		created, err := azkarService.CreateAzkar(&azkar)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	})

	admin.Post("/xp/grant", func(c *fiber.Ctx) error {
		var req struct {
			UserID string `json:"user_id"`
			Xp     int64  `json:"xp"`
			Coins  int64  `json:"coins"`
		}
		if err := c.BodyParser(&req); err != nil || req.UserID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "user_id is required"})
		}

		result, err := ledger.Credit(req.UserID, req.Xp, req.Coins)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(result)
	})
}
