package auditController

import (
	"log"
	"strconv"

	"secureinvestor/database"
	"secureinvestor/middleware"
	"secureinvestor/repository"

	"github.com/gofiber/fiber/v2"
)

// List returns the audit trail, newest first, with optional user and action
// filters. Staff-only; the router wires StaffOnlyMiddleware in front.
func List(c *fiber.Ctx) error {
	filter := repository.AuditFilter{
		Action: c.Query("action"),
		Page:   c.QueryInt("page", 1),
		Limit:  c.QueryInt("limit", 20),
	}

	if raw := c.Query("user_id"); raw != "" {
		userID, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user_id filter!", nil)
		}
		filter.UserID = uint(userID)
	}

	logs, total, err := repository.ListAuditLogs(database.Database.Db, filter)
	if err != nil {
		log.Printf("Error listing audit logs: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch audit logs!", nil)
	}

	for i := range logs {
		if logs[i].User != nil {
			logs[i].User.Password = ""
		}
	}

	response := map[string]interface{}{
		"auditLogs": logs,
		"pagination": map[string]interface{}{
			"total": total,
			"page":  filter.Page,
			"limit": filter.Limit,
		},
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Audit Log List.", response)
}
