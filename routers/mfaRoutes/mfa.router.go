package mfaRoutes

import (
	mfaControllers "secureinvestor/controllers/mfa"
	"secureinvestor/middleware"
	mfaValidators "secureinvestor/validators/mfa"

	"github.com/gofiber/fiber/v2"
)

func SetupMFARoutes(app *fiber.App) {
	mfaGroup := app.Group("/mfa")

	mfaGroup.Post("/setup", middleware.JWTMiddleware, mfaControllers.Setup)
	mfaGroup.Post("/verify", mfaValidators.Code(), middleware.JWTMiddleware, mfaControllers.Verify)
	mfaGroup.Post("/disable", mfaValidators.Code(), middleware.JWTMiddleware, mfaControllers.Disable)
}
