package investorController

import (
	"log"

	"secureinvestor/database"
	"secureinvestor/middleware"
	"secureinvestor/models"

	"github.com/gofiber/fiber/v2"
)

// List returns all investor profiles with their users. Staff-only.
func List(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var profiles []models.InvestorProfile
	var total int64

	db := database.Database.Db
	db.Model(&models.InvestorProfile{}).Count(&total)

	if err := db.Preload("User").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&profiles).Error; err != nil {
		log.Printf("Error listing investor profiles: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch investors!", nil)
	}

	for i := range profiles {
		profiles[i].User.Password = ""
	}

	response := map[string]interface{}{
		"investors": profiles,
		"pagination": map[string]interface{}{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Investor List.", response)
}
