// handlers/account_routes.go
package handlers

import (
	"dev-feedback-system/middleware"
	"dev-feedback-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupAccountRoutes(app *fiber.App, accountService *services.AccountService) {
	securedGroup := app.Group("/", middleware.UserContextMiddleware())

	securedGroup.Delete("/account", func(c *fiber.Ctx) error {
		if err := accountService.DeleteAccount(middleware.UserID(c)); err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"message": "account deleted"})
	})
}
