package documentRoutes

import (
	documentControllers "secureinvestor/controllers/documents"
	"secureinvestor/middleware"
	documentValidators "secureinvestor/validators/document"

	"github.com/gofiber/fiber/v2"
)

func SetupDocumentRoutes(app *fiber.App) {
	documentGroup := app.Group("/documents", middleware.JWTMiddleware)

	documentGroup.Get("/", documentControllers.List)
	documentGroup.Get("/latest", documentControllers.Latest)
	documentGroup.Get("/by-type/:type", documentControllers.ByType)
	documentGroup.Get("/:id", documentControllers.Retrieve)
	documentGroup.Get("/:id/history", documentControllers.History)
	documentGroup.Post("/", documentValidators.Upload(), documentControllers.Upload)
}
