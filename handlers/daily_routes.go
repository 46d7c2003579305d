package handlers

import (
	"strconv"

	"deen-quest-system/middleware"
	"deen-quest-system/models"
	"deen-quest-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupDailyRoutes(app *fiber.App, dailyService *services.DailyService, prayerTimes *services.PrayerTimesService) {
	// 🔓 Public routes — no user context, but still behind gateway auth
	app.Get("/daily/quote", func(c *fiber.Ctx) error {
		quote, date := dailyService.GetQuoteOfTheDay()
		return c.JSON(fiber.Map{"quote": quote, "date": date})
	})

	app.Get("/daily/prayer-times", func(c *fiber.Ctx) error {
		lat, errLat := strconv.ParseFloat(c.Query("latitude"), 64)
		lng, errLng := strconv.ParseFloat(c.Query("longitude"), 64)
		if errLat != nil || errLng != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "latitude and longitude are required"})
		}
		method, _ := strconv.Atoi(c.Query("method", "4"))

		times, err := prayerTimes.GetPrayerTimes(c.Query("date"), lat, lng, method)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(times)
	})

	// 🔐 Secured routes — require user context
	secured := app.Group("/daily", middleware.UserContextMiddleware(dailyService.DB))

	secured.Post("/actions", func(c *fiber.Ctx) error {
		var req struct {
			ActionType    models.DailyActionType `json:"action_type"`
			Discriminator string                 `json:"discriminator"`
			Count         int                    `json:"count"`
			LinkedTaskID  *string                `json:"linked_task_id"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
		if req.ActionType == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "action_type is required"})
		}

		result, err := dailyService.RecordAction(currentUserID(c), req.ActionType, req.Discriminator, req.Count, req.LinkedTaskID)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(result)
	})

	secured.Get("/actions", func(c *fiber.Ctx) error {
		days, _ := strconv.Atoi(c.Query("days", "7"))
		actions, err := dailyService.GetUserActions(currentUserID(c), days)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(actions)
	})

	secured.Get("/actions/today", func(c *fiber.Ctx) error {
		actions, err := dailyService.GetTodayActions(currentUserID(c))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(actions)
	})

	secured.Get("/streak", func(c *fiber.Ctx) error {
		actionType := models.DailyActionType(c.Query("action_type"))
		if actionType == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "action_type is required"})
		}
		streak, err := dailyService.GetStreak(currentUserID(c), actionType)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"action_type": actionType, "streak": streak})
	})

	secured.Post("/prayer", func(c *fiber.Ctx) error {
		var req struct {
			PrayerName models.PrayerName `json:"prayer_name"`
			OnTime     bool              `json:"on_time"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}

		completion, result, err := dailyService.CompletePrayer(currentUserID(c), req.PrayerName, req.OnTime)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"completion": completion, "rewards": result.Rewards, "balance": result.Balance})
	})

	secured.Post("/azkar/complete", func(c *fiber.Ctx) error {
		var req struct {
			AzkarID string `json:"azkar_id"`
		}
		if err := c.BodyParser(&req); err != nil || req.AzkarID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "azkar_id is required"})
		}

		completion, result, err := dailyService.CompleteAzkar(currentUserID(c), req.AzkarID)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"completion": completion, "rewards": result.Rewards, "balance": result.Balance})
	})

	secured.Post("/fasting", func(c *fiber.Ctx) error {
		var req struct {
			FastingType models.FastingType `json:"fasting_type"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}

		completion, result, err := dailyService.CompleteFasting(currentUserID(c), req.FastingType)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"completion": completion, "rewards": result.Rewards, "balance": result.Balance})
	})
}
