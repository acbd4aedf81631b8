// handlers/vote_routes.go
package handlers

import (
	"dev-feedback-system/middleware"
	"dev-feedback-system/models"
	"dev-feedback-system/services"

	"github.com/gofiber/fiber/v2"
)

type voteRequest struct {
	VoteType models.VoteType `json:"vote_type"`
}

func SetupVoteRoutes(app *fiber.App, voteService *services.VoteService) {
	securedGroup := app.Group("/", middleware.UserContextMiddleware())

	vote := func(cast func(entityID, userID uint, voteType models.VoteType) (*services.VoteResult, error), param string) fiber.Handler {
		return func(c *fiber.Ctx) error {
			entityID, err := paramID(c, param)
			if err != nil {
				return err
			}
			var req voteRequest
			if err := c.BodyParser(&req); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
			}
			result, serr := cast(entityID, middleware.UserID(c), req.VoteType)
			if serr != nil {
				return fail(c, serr)
			}
			return c.JSON(result)
		}
	}

	securedGroup.Post("/issues/:id/vote", vote(voteService.VoteIssue, "id"))
	securedGroup.Post("/responses/:id/vote", vote(voteService.VoteResponse, "id"))
	securedGroup.Post("/posts/:id/vote", vote(voteService.VotePost, "id"))
	securedGroup.Post("/comments/:id/vote", vote(voteService.VoteComment, "id"))
	securedGroup.Post("/messages/:id/vote", vote(voteService.VoteMessage, "id"))
	securedGroup.Post("/replies/:id/vote", vote(voteService.VoteMessageReply, "id"))
}
