// handlers/rating_routes.go
package handlers

import (
	"dev-feedback-system/middleware"
	"dev-feedback-system/services"

	"github.com/gofiber/fiber/v2"
)

type ratingRequest struct {
	Stars int `json:"stars"`
}

func SetupRatingRoutes(app *fiber.App, ratingService *services.RatingService) {
	securedGroup := app.Group("/", middleware.UserContextMiddleware())

	securedGroup.Post("/projects/:id/rating", func(c *fiber.Ctx) error {
		projectID, err := paramID(c, "id")
		if err != nil {
			return err
		}
		var req ratingRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}
		summary, serr := ratingService.RateProject(projectID, middleware.UserID(c), req.Stars)
		if serr != nil {
			return fail(c, serr)
		}
		return c.JSON(summary)
	})

	securedGroup.Get("/projects/:id/rating", func(c *fiber.Ctx) error {
		projectID, err := paramID(c, "id")
		if err != nil {
			return err
		}
		summary, serr := ratingService.GetProjectRating(projectID, middleware.UserID(c))
		if serr != nil {
			return fail(c, serr)
		}
		return c.JSON(summary)
	})

	securedGroup.Post("/users/:id/rating", func(c *fiber.Ctx) error {
		ratedUserID, err := paramID(c, "id")
		if err != nil {
			return err
		}
		var req ratingRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}
		summary, serr := ratingService.RateUser(ratedUserID, middleware.UserID(c), req.Stars)
		if serr != nil {
			return fail(c, serr)
		}
		return c.JSON(summary)
	})

	securedGroup.Get("/users/:id/rating", func(c *fiber.Ctx) error {
		ratedUserID, err := paramID(c, "id")
		if err != nil {
			return err
		}
		summary, serr := ratingService.GetUserRating(ratedUserID, middleware.UserID(c))
		if serr != nil {
			return fail(c, serr)
		}
		return c.JSON(summary)
	})
}
