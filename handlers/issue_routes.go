// handlers/issue_routes.go
package handlers

import (
	"dev-feedback-system/middleware"
	"dev-feedback-system/models"
	"dev-feedback-system/services"
	"dev-feedback-system/utils"

	"github.com/gofiber/fiber/v2"
)

func SetupIssueRoutes(app *fiber.App, issueService *services.IssueService) {
	securedGroup := app.Group("/", middleware.UserContextMiddleware())

	securedGroup.Get("/projects/:id/issues", func(c *fiber.Ctx) error {
		projectID, err := paramID(c, "id")
		if err != nil {
			return err
		}
		issues, serr := issueService.GetProjectIssues(projectID)
		if serr != nil {
			return fail(c, serr)
		}
		return c.JSON(issues)
	})

	securedGroup.Post("/projects/:id/issues", func(c *fiber.Ctx) error {
		projectID, err := paramID(c, "id")
		if err != nil {
			return err
		}
		var in services.IssueInput
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}
		issue, serr := issueService.CreateIssue(projectID, middleware.UserID(c), in)
		if serr != nil {
			return fail(c, serr)
		}
		return c.Status(fiber.StatusCreated).JSON(issue)
	})

	// Screenshot upload for an issue form, stored in R2 (or on disk locally).
	securedGroup.Post("/issues/screenshot", func(c *fiber.Ctx) error {
		fileHeader, err := c.FormFile("screenshot")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "screenshot file missing"})
		}
		url, uerr := utils.SaveScreenshot(fileHeader)
		if uerr != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "upload failed",
				"cause": uerr.Error(),
			})
		}
		return c.JSON(fiber.Map{"url": url})
	})

	securedGroup.Put("/issues/:id", func(c *fiber.Ctx) error {
		issueID, err := paramID(c, "id")
		if err != nil {
			return err
		}
		var in services.IssueInput
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}
		issue, serr := issueService.EditIssue(issueID, middleware.UserID(c), in)
		if serr != nil {
			return fail(c, serr)
		}
		return c.JSON(issue)
	})

	securedGroup.Patch("/issues/:id/status", func(c *fiber.Ctx) error {
		issueID, err := paramID(c, "id")
		if err != nil {
			return err
		}
		var req struct {
			Status models.IssueStatus `json:"status"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}
		issue, serr := issueService.UpdateStatus(issueID, middleware.UserID(c), req.Status)
		if serr != nil {
			return fail(c, serr)
		}
		return c.JSON(issue)
	})

	securedGroup.Delete("/issues/:id", func(c *fiber.Ctx) error {
		issueID, err := paramID(c, "id")
		if err != nil {
			return err
		}
		if serr := issueService.DeleteIssue(issueID, middleware.UserID(c)); serr != nil {
			return fail(c, serr)
		}
		return c.JSON(fiber.Map{"message": "issue deleted"})
	})

	securedGroup.Post("/issues/:id/responses", func(c *fiber.Ctx) error {
		issueID, err := paramID(c, "id")
		if err != nil {
			return err
		}
		var req struct {
			Content string `json:"content"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}
		response, serr := issueService.RespondToIssue(issueID, middleware.UserID(c), req.Content)
		if serr != nil {
			return fail(c, serr)
		}
		return c.Status(fiber.StatusCreated).JSON(response)
	})

	securedGroup.Post("/responses/:id/solution", func(c *fiber.Ctx) error {
		responseID, err := paramID(c, "id")
		if err != nil {
			return err
		}
		response, serr := issueService.MarkSolution(responseID, middleware.UserID(c))
		if serr != nil {
			return fail(c, serr)
		}
		return c.JSON(response)
	})
}
