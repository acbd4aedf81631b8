// handlers/respond.go
package handlers

import (
	"errors"

	"dev-feedback-system/services"

	"github.com/gofiber/fiber/v2"
)

// fail maps service sentinel errors to HTTP statuses. Anything unrecognized is
// a 500 with the cause attached.
func fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidVoteType),
		errors.Is(err, services.ErrInvalidStars),
		errors.Is(err, services.ErrInvalidIssueType),
		errors.Is(err, services.ErrInvalidStatus):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrSelfVote),
		errors.Is(err, services.ErrSelfRate),
		errors.Is(err, services.ErrOwnOffer),
		errors.Is(err, services.ErrKarmaBlocked),
		errors.Is(err, services.ErrNotAuthorized),
		errors.Is(err, services.ErrTesterForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrOfferUnavailable),
		errors.Is(err, services.ErrIssueClosed):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "internal error",
		"cause": err.Error(),
	})
}

// paramID parses a numeric path parameter.
func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid "+name)
	}
	return uint(id), nil
}
