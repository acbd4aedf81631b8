// handlers/project_routes.go
package handlers

import (
	"dev-feedback-system/middleware"
	"dev-feedback-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupProjectRoutes(app *fiber.App, projectService *services.ProjectService) {
	app.Get("/projects", func(c *fiber.Ctx) error {
		projects, err := projectService.ListProjects()
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(projects)
	})

	app.Get("/projects/:id", func(c *fiber.Ctx) error {
		projectID, err := paramID(c, "id")
		if err != nil {
			return err
		}
		project, serr := projectService.GetProject(projectID)
		if serr != nil {
			return fail(c, serr)
		}
		return c.JSON(project)
	})

	securedGroup := app.Group("/", middleware.UserContextMiddleware())

	securedGroup.Post("/projects", func(c *fiber.Ctx) error {
		var in services.ProjectInput
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}
		project, serr := projectService.CreateProject(middleware.UserID(c), in)
		if serr != nil {
			return fail(c, serr)
		}
		return c.Status(fiber.StatusCreated).JSON(project)
	})

	securedGroup.Put("/projects/:id", func(c *fiber.Ctx) error {
		projectID, err := paramID(c, "id")
		if err != nil {
			return err
		}
		var in services.ProjectInput
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}
		project, serr := projectService.UpdateProject(projectID, middleware.UserID(c), in)
		if serr != nil {
			return fail(c, serr)
		}
		return c.JSON(project)
	})

	securedGroup.Delete("/projects/:id", func(c *fiber.Ctx) error {
		projectID, err := paramID(c, "id")
		if err != nil {
			return err
		}
		if serr := projectService.DeleteProject(projectID, middleware.UserID(c)); serr != nil {
			return fail(c, serr)
		}
		return c.JSON(fiber.Map{"message": "project deleted"})
	})
}
