package mfaController

import (
	"encoding/base64"
	"fmt"
	"log"

	"secureinvestor/config"
	"secureinvestor/database"
	"secureinvestor/middleware"
	"secureinvestor/models"
	"secureinvestor/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"
)

// profileForRequest loads the caller's user and profile, or writes the
// error response and returns ok=false
func profileForRequest(c *fiber.Ctx) (*models.User, *models.InvestorProfile, bool) {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		_ = middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
		return nil, nil, false
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		_ = middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
		return nil, nil, false
	}

	var profile models.InvestorProfile
	if err := db.Where("user_id = ?", user.ID).First(&profile).Error; err != nil {
		_ = middleware.JsonResponse(c, fiber.StatusBadRequest, false, "User must have an investor profile to manage MFA!", nil)
		return nil, nil, false
	}

	return &user, &profile, true
}

// Setup generates a fresh TOTP secret and stores it on the profile. MFA is
// not enabled yet; the secret sits pending until Verify sees a valid code.
// Calling Setup again before verification rotates the pending secret.
func Setup(c *fiber.Ctx) error {
	user, profile, ok := profileForRequest(c)
	if !ok {
		return nil
	}

	if profile.MFAEnabled {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "MFA is already enabled!", nil)
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      config.AppConfig.MFAIssuer,
		AccountName: user.Email,
	})
	if err != nil {
		log.Printf("Error generating TOTP secret: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate MFA secret!", nil)
	}

	profile.MFASecret = key.Secret()
	if err := database.Database.Db.Save(profile).Error; err != nil {
		log.Printf("Error saving MFA secret: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save MFA secret!", nil)
	}

	// Render the provisioning URI as a QR PNG for authenticator apps
	png, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		log.Printf("Error rendering provisioning QR code: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to render QR code!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Scan the QR code with your authenticator app, then verify a code.", fiber.Map{
		"secret":     key.Secret(),
		"otpauthUrl": key.URL(),
		"qrCode":     base64.StdEncoding.EncodeToString(png),
	})
}

// Verify checks a TOTP code against the pending secret and, on the first
// match, flips MFA on
func Verify(c *fiber.Ctx) error {
	user, profile, ok := profileForRequest(c)
	if !ok {
		return nil
	}

	reqData, ok := c.Locals("validatedMFACode").(*struct {
		Code string `json:"code"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if profile.MFASecret == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "MFA setup has not been started!", nil)
	}

	if !totp.Validate(reqData.Code, profile.MFASecret) {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid MFA code!", nil)
	}

	if !profile.MFAEnabled {
		profile.MFAEnabled = true
		if err := database.Database.Db.Save(profile).Error; err != nil {
			log.Printf("Error enabling MFA: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enable MFA!", nil)
		}

		userID := user.ID
		repository.RecordAudit(database.Database.Db, &userID, models.ActionMFAEnabled,
			fmt.Sprintf("MFA enabled for user '%s'", user.Email))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "MFA verified and enabled.", fiber.Map{
		"mfaEnabled": true,
	})
}

// Disable turns MFA off after re-verifying a current code, and erases the
// stored secret so a later setup starts from scratch
func Disable(c *fiber.Ctx) error {
	user, profile, ok := profileForRequest(c)
	if !ok {
		return nil
	}

	reqData, ok := c.Locals("validatedMFACode").(*struct {
		Code string `json:"code"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if !profile.MFAEnabled {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "MFA is not enabled!", nil)
	}

	if !totp.Validate(reqData.Code, profile.MFASecret) {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid MFA code!", nil)
	}

	profile.MFAEnabled = false
	profile.MFASecret = ""
	if err := database.Database.Db.Save(profile).Error; err != nil {
		log.Printf("Error disabling MFA: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to disable MFA!", nil)
	}

	userID := user.ID
	repository.RecordAudit(database.Database.Db, &userID, models.ActionMFADisabled,
		fmt.Sprintf("MFA disabled for user '%s'", user.Email))

	return middleware.JsonResponse(c, fiber.StatusOK, true, "MFA disabled.", fiber.Map{
		"mfaEnabled": false,
	})
}
