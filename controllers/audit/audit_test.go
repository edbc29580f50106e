package auditController_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"secureinvestor/config"
	"secureinvestor/database"
	"secureinvestor/middleware"
	"secureinvestor/models"
	"secureinvestor/repository"
	adminRoutes "secureinvestor/routers/adminRoutes"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type apiResponse struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	config.AppConfig = &config.Config{
		JWTKey:    "test-secret",
		SaltRound: bcrypt.MinCost,
	}

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.InvestorProfile{},
		&models.Document{},
		&models.AuditLog{},
		&models.LoginTracking{},
	))
	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	adminRoutes.SetupAdminRoutes(app)
	return app, db
}

func createUser(t *testing.T, db *gorm.DB, email, role string) (*models.User, string) {
	t.Helper()

	user := models.User{Name: "User", Email: email, Password: "x", Role: role}
	require.NoError(t, db.Create(&user).Error)

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	require.NoError(t, err)
	return &user, token
}

func get(t *testing.T, app *fiber.App, path, token string) (*http.Response, apiResponse) {
	t.Helper()

	req := httptest.NewRequest("GET", path, nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var parsed apiResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	return resp, parsed
}

func TestAuditListStaffOnly(t *testing.T) {
	app, db := setupApp(t)
	_, investorToken := createUser(t, db, "investor@example.com", models.RoleUser)
	_, staffToken := createUser(t, db, "admin@example.com", models.RoleAdmin)

	resp, _ := get(t, app, "/auditlogs", investorToken)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = get(t, app, "/auditlogs", staffToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuditListFilters(t *testing.T) {
	app, db := setupApp(t)
	investor, _ := createUser(t, db, "traced@example.com", models.RoleUser)
	_, staffToken := createUser(t, db, "admin2@example.com", models.RoleAdmin)

	investorID := investor.ID
	repository.RecordAudit(db, &investorID, models.ActionUpload, "upload")
	repository.RecordAudit(db, &investorID, models.ActionDownload, "download")
	repository.RecordAudit(db, nil, models.ActionLogin, "login")

	resp, parsed := get(t, app, fmt.Sprintf("/auditlogs?user_id=%d", investorID), staffToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var data struct {
		AuditLogs  []models.AuditLog `json:"auditLogs"`
		Pagination struct {
			Total int `json:"total"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(parsed.Data, &data))
	require.Equal(t, 2, data.Pagination.Total)

	resp, parsed = get(t, app, "/auditlogs?action=LOGIN", staffToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(parsed.Data, &data))
	require.Equal(t, 1, data.Pagination.Total)
	require.Equal(t, models.ActionLogin, data.AuditLogs[0].Action)
}
