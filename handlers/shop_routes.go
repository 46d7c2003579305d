package handlers

import (
	"deen-quest-system/middleware"
	"deen-quest-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupShopRoutes(app *fiber.App, shopService *services.ShopService) {
	app.Get("/shop/items", func(c *fiber.Ctx) error {
		items, err := shopService.GetAllItems()
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(items)
	})

	app.Get("/shop/items/:id", func(c *fiber.Ctx) error {
		item, err := shopService.GetItemByID(c.Params("id"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(item)
	})

	secured := app.Group("/", middleware.UserContextMiddleware(shopService.DB))

	secured.Post("/shop/items/:id/buy", func(c *fiber.Ctx) error {
		userItem, err := shopService.BuyItem(currentUserID(c), c.Params("id"))
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(userItem)
	})

	secured.Get("/shop/inventory", func(c *fiber.Ctx) error {
		inventory, err := shopService.GetInventory(currentUserID(c))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(inventory)
	})

	secured.Post("/shop/inventory/:id/equip", func(c *fiber.Ctx) error {
		userItem, err := shopService.EquipItem(currentUserID(c), c.Params("id"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(userItem)
	})

	secured.Post("/shop/inventory/:id/unequip", func(c *fiber.Ctx) error {
		userItem, err := shopService.UnequipItem(currentUserID(c), c.Params("id"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(userItem)
	})
}
