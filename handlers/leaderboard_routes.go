// handlers/leaderboard_routes.go
package handlers

import (
	"log"

	"dev-feedback-system/middleware"
	"dev-feedback-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupLeaderboardRoutes(app *fiber.App, leaderboardService *services.LeaderboardService, offerService *services.OfferService) {
	// Opportunistic sweep: anyone loading the board settles overdue penalties
	// first, so rankings never show stale karma between worker runs.
	sweep := func() {
		if _, err := offerService.SweepOverduePenalties(); err != nil {
			log.Printf("⚠️ Penalty sweep on leaderboard read failed: %v", err)
		}
	}

	app.Get("/leaderboard", middleware.OptionalUserContextMiddleware(), func(c *fiber.Ctx) error {
		sweep()
		entries, err := leaderboardService.GetLeaderboard()
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"leaderboard": entries})
	})

	securedGroup := app.Group("/", middleware.UserContextMiddleware())

	securedGroup.Get("/leaderboard/me", func(c *fiber.Ctx) error {
		sweep()
		stats, err := leaderboardService.GetMyStats(middleware.UserID(c))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(stats)
	})
}
