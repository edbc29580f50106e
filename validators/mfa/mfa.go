package mfaValidator

import (
	"regexp"

	"secureinvestor/middleware"

	"github.com/gofiber/fiber/v2"
)

var codePattern = regexp.MustCompile(`^\d{6}$`)

// Code validates the TOTP code payload shared by verify and disable
func Code() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Code string `json:"code"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if !codePattern.MatchString(reqData.Code) {
			errors["code"] = "Code must be a 6-digit number!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedMFACode", reqData)
		return c.Next()
	}
}
