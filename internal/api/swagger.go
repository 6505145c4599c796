package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"

	_ "github.com/chynybekuuludastan/conclusion_generator/docs" // registers the OpenAPI document
)

// SetupSwagger mounts the API explorer for the conclusion and snippet endpoints
// under /swagger, with /swagger itself forwarding to the UI page.
func SetupSwagger(app *fiber.App) {
	docs := app.Group("/swagger")
	docs.Get("/*", swagger.New(swagger.Config{
		Title:        "Conclusion Generator API",
		DeepLinking:  true,
		DocExpansion: "list",
	}))
	app.Get("/swagger", func(c *fiber.Ctx) error {
		return c.Redirect("/swagger/index.html")
	})
}
