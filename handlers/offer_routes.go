// handlers/offer_routes.go
package handlers

import (
	"dev-feedback-system/middleware"
	"dev-feedback-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupOfferRoutes(app *fiber.App, offerService *services.OfferService) {
	securedGroup := app.Group("/", middleware.UserContextMiddleware())

	// Browse claimable offers.
	securedGroup.Get("/offers", func(c *fiber.Ctx) error {
		offers, err := offerService.ListOffers()
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(offers)
	})

	securedGroup.Post("/projects/:id/offers", func(c *fiber.Ctx) error {
		projectID, err := paramID(c, "id")
		if err != nil {
			return err
		}
		var in services.OfferInput
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}
		offer, serr := offerService.CreateOffer(middleware.UserID(c), projectID, in)
		if serr != nil {
			return fail(c, serr)
		}
		return c.Status(fiber.StatusCreated).JSON(offer)
	})

	securedGroup.Put("/offers/:id", func(c *fiber.Ctx) error {
		offerID, err := paramID(c, "id")
		if err != nil {
			return err
		}
		var in services.OfferInput
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}
		offer, serr := offerService.UpdateOffer(middleware.UserID(c), offerID, in)
		if serr != nil {
			return fail(c, serr)
		}
		return c.JSON(offer)
	})

	securedGroup.Patch("/offers/:id/toggle", func(c *fiber.Ctx) error {
		offerID, err := paramID(c, "id")
		if err != nil {
			return err
		}
		offer, serr := offerService.ToggleOffer(middleware.UserID(c), offerID)
		if serr != nil {
			return fail(c, serr)
		}
		return c.JSON(offer)
	})

	securedGroup.Delete("/offers/:id", func(c *fiber.Ctx) error {
		offerID, err := paramID(c, "id")
		if err != nil {
			return err
		}
		if serr := offerService.DeleteOffer(middleware.UserID(c), offerID); serr != nil {
			return fail(c, serr)
		}
		return c.JSON(fiber.Map{"message": "offer deleted"})
	})

	// Claim starts the feedback obligation clock.
	securedGroup.Post("/offers/:id/claim", func(c *fiber.Ctx) error {
		offerID, err := paramID(c, "id")
		if err != nil {
			return err
		}
		redemption, serr := offerService.ClaimOffer(middleware.UserID(c), offerID)
		if serr != nil {
			return fail(c, serr)
		}
		return c.Status(fiber.StatusCreated).JSON(redemption)
	})

	securedGroup.Get("/redemptions", func(c *fiber.Ctx) error {
		redemptions, err := offerService.GetUserRedemptions(middleware.UserID(c))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(redemptions)
	})
}
