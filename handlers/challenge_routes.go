package handlers

import (
	"deen-quest-system/middleware"
	"deen-quest-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupChallengeRoutes(app *fiber.App, challengeService *services.ChallengeService) {
	app.Get("/challenges", func(c *fiber.Ctx) error {
		challenges, err := challengeService.GetAllChallenges()
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(challenges)
	})

	app.Get("/challenges/:id", func(c *fiber.Ctx) error {
		challenge, err := challengeService.GetChallengeByID(c.Params("id"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(challenge)
	})

	secured := app.Group("/", middleware.UserContextMiddleware(challengeService.DB))

	secured.Post("/challenges/:id/join", func(c *fiber.Ctx) error {
		progress, err := challengeService.Join(currentUserID(c), c.Params("id"))
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(progress)
	})

	secured.Post("/challenges/:id/progress", func(c *fiber.Ctx) error {
		var req struct {
			TaskID    string `json:"task_id"`
			Increment int    `json:"increment"`
		}
		if err := c.BodyParser(&req); err != nil || req.TaskID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "task_id is required"})
		}
		if req.Increment == 0 {
			req.Increment = 1
		}

		progress, err := challengeService.Advance(currentUserID(c), c.Params("id"), req.TaskID, req.Increment)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(progress)
	})

	secured.Get("/challenges/:id/progress", func(c *fiber.Ctx) error {
		progress, err := challengeService.GetUserProgress(currentUserID(c), c.Params("id"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(progress)
	})

	secured.Get("/user/challenges", func(c *fiber.Ctx) error {
		progresses, err := challengeService.GetUserChallenges(currentUserID(c))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(progresses)
	})

	secured.Get("/user/daily-tasks", func(c *fiber.Ctx) error {
		tasks, err := challengeService.GetUserDailyTasks(currentUserID(c))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(tasks)
	})
}
