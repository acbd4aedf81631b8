// handlers/karma_routes.go
package handlers

import (
	"dev-feedback-system/middleware"
	"dev-feedback-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupKarmaRoutes(app *fiber.App, karmaService *services.KarmaService) {
	securedGroup := app.Group("/", middleware.UserContextMiddleware())

	// Own karma, with the obligation breakdown shown on the profile page.
	securedGroup.Get("/karma", func(c *fiber.Ctx) error {
		karma, err := karmaService.CalculateTestKarma(middleware.UserID(c))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(karma)
	})

	// Anyone's karma. Same numbers, no special casing.
	securedGroup.Get("/users/:id/karma", func(c *fiber.Ctx) error {
		userID, err := paramID(c, "id")
		if err != nil {
			return err
		}
		karma, kerr := karmaService.CalculateTestKarma(userID)
		if kerr != nil {
			return fail(c, kerr)
		}
		return c.JSON(karma)
	})
}
