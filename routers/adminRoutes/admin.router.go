package adminRoutes

import (
	auditControllers "secureinvestor/controllers/audit"
	investorControllers "secureinvestor/controllers/investors"
	"secureinvestor/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupAdminRoutes(app *fiber.App) {
	app.Get("/auditlogs", middleware.JWTMiddleware, middleware.StaffOnlyMiddleware, auditControllers.List)
	app.Get("/investors", middleware.JWTMiddleware, middleware.StaffOnlyMiddleware, investorControllers.List)
}
