// handlers/community_routes.go
package handlers

import (
	"dev-feedback-system/middleware"
	"dev-feedback-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupCommunityRoutes(app *fiber.App, communityService *services.CommunityService) {
	securedGroup := app.Group("/", middleware.UserContextMiddleware())

	securedGroup.Post("/projects/:id/posts", func(c *fiber.Ctx) error {
		projectID, err := paramID(c, "id")
		if err != nil {
			return err
		}
		var req struct {
			Content   string `json:"content"`
			MediaURL  string `json:"media_url"`
			MediaType string `json:"media_type"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}
		post, serr := communityService.CreatePost(projectID, middleware.UserID(c), req.Content, req.MediaURL, req.MediaType)
		if serr != nil {
			return fail(c, serr)
		}
		return c.Status(fiber.StatusCreated).JSON(post)
	})

	securedGroup.Put("/posts/:id", func(c *fiber.Ctx) error {
		postID, err := paramID(c, "id")
		if err != nil {
			return err
		}
		var req struct {
			Content string `json:"content"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}
		post, serr := communityService.EditPost(postID, middleware.UserID(c), req.Content)
		if serr != nil {
			return fail(c, serr)
		}
		return c.JSON(post)
	})

	securedGroup.Delete("/posts/:id", func(c *fiber.Ctx) error {
		postID, err := paramID(c, "id")
		if err != nil {
			return err
		}
		if serr := communityService.DeletePost(postID, middleware.UserID(c)); serr != nil {
			return fail(c, serr)
		}
		return c.JSON(fiber.Map{"message": "post deleted"})
	})

	securedGroup.Post("/posts/:id/comments", func(c *fiber.Ctx) error {
		postID, err := paramID(c, "id")
		if err != nil {
			return err
		}
		var req struct {
			Content string `json:"content"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}
		comment, serr := communityService.CreateComment(postID, middleware.UserID(c), req.Content)
		if serr != nil {
			return fail(c, serr)
		}
		return c.Status(fiber.StatusCreated).JSON(comment)
	})

	securedGroup.Post("/messages", func(c *fiber.Ctx) error {
		var req struct {
			Content string `json:"content"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}
		message, serr := communityService.CreateMessage(middleware.UserID(c), req.Content)
		if serr != nil {
			return fail(c, serr)
		}
		return c.Status(fiber.StatusCreated).JSON(message)
	})

	securedGroup.Post("/messages/:id/replies", func(c *fiber.Ctx) error {
		messageID, err := paramID(c, "id")
		if err != nil {
			return err
		}
		var req struct {
			Content string `json:"content"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}
		reply, serr := communityService.ReplyToMessage(messageID, middleware.UserID(c), req.Content)
		if serr != nil {
			return fail(c, serr)
		}
		return c.Status(fiber.StatusCreated).JSON(reply)
	})

	securedGroup.Delete("/messages/:id", func(c *fiber.Ctx) error {
		messageID, err := paramID(c, "id")
		if err != nil {
			return err
		}
		if serr := communityService.DeleteMessage(messageID, middleware.UserID(c)); serr != nil {
			return fail(c, serr)
		}
		return c.JSON(fiber.Map{"message": "message deleted"})
	})

	securedGroup.Delete("/replies/:id", func(c *fiber.Ctx) error {
		replyID, err := paramID(c, "id")
		if err != nil {
			return err
		}
		if serr := communityService.DeleteReply(replyID, middleware.UserID(c)); serr != nil {
			return fail(c, serr)
		}
		return c.JSON(fiber.Map{"message": "reply deleted"})
	})
}
