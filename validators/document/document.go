package documentValidator

import (
	"strings"

	"secureinvestor/middleware"
	"secureinvestor/models"

	"github.com/gofiber/fiber/v2"
)

// Upload validates the multipart form fields of a document upload. The file
// part itself is checked in the controller.
func Upload() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Name    string
			DocType string
		})
		reqData.Name = strings.TrimSpace(c.FormValue("name"))
		reqData.DocType = c.FormValue("doc_type", models.DocTypeOther)

		errors := make(map[string]string)

		if reqData.Name == "" {
			errors["name"] = "Document name is required!"
		}
		if len(reqData.Name) > 255 {
			errors["name"] = "Document name must be at most 255 characters!"
		}
		if !models.IsValidDocType(reqData.DocType) {
			errors["doc_type"] = "Document type must be one of: id, statement, agreement, other!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedDocument", reqData)
		return c.Next()
	}
}
