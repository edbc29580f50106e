package documentController

import (
	"fmt"
	"io"
	"log"
	"strconv"
	"time"

	"secureinvestor/database"
	"secureinvestor/middleware"
	"secureinvestor/models"
	"secureinvestor/repository"
	"secureinvestor/storage"
	"secureinvestor/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const defaultContentType = "application/pdf"

// requesterScope resolves the caller's user record and document access scope
func requesterScope(c *fiber.Ctx) (*models.User, repository.AccessScope, bool) {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		_ = middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
		return nil, repository.AccessScope{}, false
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		_ = middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
		return nil, repository.AccessScope{}, false
	}

	return &user, repository.ScopeForUser(db, &user), true
}

// List returns the caller's accessible documents: every version when
// ?all_versions=true, otherwise only the latest of each group
func List(c *fiber.Ctx) error {
	_, scope, ok := requesterScope(c)
	if !ok {
		return nil
	}

	db := database.Database.Db

	var docs []models.Document
	var err error
	if c.Query("all_versions") == "true" {
		docs, err = repository.AllVersions(db, scope, "")
	} else {
		docs, err = repository.LatestPerGroup(db, scope, "")
	}
	if err != nil {
		log.Printf("Error listing documents: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch documents!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Document List.", docs)
}

// Latest is an explicit alias of the default latest-per-group listing
func Latest(c *fiber.Ctx) error {
	_, scope, ok := requesterScope(c)
	if !ok {
		return nil
	}

	docs, err := repository.LatestPerGroup(database.Database.Db, scope, "")
	if err != nil {
		log.Printf("Error listing latest documents: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch documents!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Latest Document List.", docs)
}

// ByType lists latest-per-group documents of a single type, plus a count
func ByType(c *fiber.Ctx) error {
	_, scope, ok := requesterScope(c)
	if !ok {
		return nil
	}

	docType := c.Params("type")
	if !models.IsValidDocType(docType) {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid document type!", nil)
	}

	docs, err := repository.LatestPerGroup(database.Database.Db, scope, docType)
	if err != nil {
		log.Printf("Error listing documents by type: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch documents!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Document List.", fiber.Map{
		"documentType": docType,
		"count":        len(docs),
		"documents":    docs,
	})
}

// Retrieve returns one document's metadata and records a DOWNLOAD audit
// entry. Ids outside the caller's scope come back as 404, not 403, so
// non-owners cannot probe for existence.
func Retrieve(c *fiber.Ctx) error {
	user, scope, ok := requesterScope(c)
	if !ok {
		return nil
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid document id!", nil)
	}

	db := database.Database.Db

	doc, err := repository.FindByID(db, scope, uint(id))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Document not found!", nil)
		}
		log.Printf("Error fetching document %d: %v", id, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch document!", nil)
	}

	userID := user.ID
	repository.RecordAudit(db, &userID, models.ActionDownload,
		fmt.Sprintf("Downloaded/viewed document '%s' (ID: %d, version: %d)", doc.Name, doc.ID, doc.Version))

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Document details.", doc)
}

// History returns every version in the document's group, newest version first
func History(c *fiber.Ctx) error {
	user, scope, ok := requesterScope(c)
	if !ok {
		return nil
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid document id!", nil)
	}

	db := database.Database.Db

	doc, err := repository.FindByID(db, scope, uint(id))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Document not found!", nil)
		}
		log.Printf("Error fetching document %d: %v", id, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch document!", nil)
	}

	versions, err := repository.GroupHistory(db, doc)
	if err != nil {
		log.Printf("Error fetching document history: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch document history!", nil)
	}

	userID := user.ID
	repository.RecordAudit(db, &userID, models.ActionViewHistory,
		fmt.Sprintf("Viewed version history for document '%s'", doc.Name))

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Document history.", fiber.Map{
		"documentName":  doc.Name,
		"documentType":  doc.DocType,
		"totalVersions": len(versions),
		"versions":      versions,
	})
}

// Upload stores the file body first and only then inserts the metadata row,
// so a storage failure never leaves a document record pointing at nothing.
// An orphaned blob after a crash between the two steps is acceptable.
func Upload(c *fiber.Ctx) error {
	user, _, ok := requesterScope(c)
	if !ok {
		return nil
	}

	reqData, ok := c.Locals("validatedDocument").(*struct {
		Name    string
		DocType string
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	// Staff accounts without a profile cannot own documents
	var profile models.InvestorProfile
	if err := db.Where("user_id = ?", user.ID).First(&profile).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "User must have an investor profile to upload documents!", nil)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Document file is required!", nil)
	}

	src, err := fileHeader.Open()
	if err != nil {
		log.Printf("Error opening uploaded file: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to read uploaded file!", nil)
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		log.Printf("Error reading uploaded file: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to read uploaded file!", nil)
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = defaultContentType
	}

	storageKey := utils.GenerateStorageKey(reqData.Name, fileHeader.Filename)

	ctx := c.Context()
	if err := storage.Store.Put(ctx, storageKey, content, contentType); err != nil {
		log.Printf("Error uploading document to object store: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to store document file!", nil)
	}

	// Best-effort post-write verification; a miss is logged, not fatal
	if exists, err := storage.Store.Exists(ctx, storageKey); err != nil {
		log.Printf("Error verifying stored document %s: %v", storageKey, err)
	} else if !exists {
		log.Printf("Stored document %s not found on verification", storageKey)
	}

	doc, err := insertVersion(db, profile.ID, reqData.Name, reqData.DocType, storageKey, contentType, int64(len(content)))
	if err != nil {
		log.Printf("Error saving document record: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save document!", nil)
	}

	userID := user.ID
	repository.RecordAudit(db, &userID, models.ActionUpload,
		fmt.Sprintf("Uploaded document '%s' (ID: %d, version: %d)", doc.Name, doc.ID, doc.Version))

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Document uploaded successfully.", doc)
}

// insertVersion assigns the next version and inserts the record in one
// transaction. If a concurrent upload takes the version first, the unique
// index rejects the insert and one retry recomputes against the new latest.
func insertVersion(db *gorm.DB, profileID uint, name, docType, storageKey, contentType string, size int64) (*models.Document, error) {
	attempt := func() (*models.Document, error) {
		var created models.Document
		err := db.Transaction(func(tx *gorm.DB) error {
			version, prev, err := repository.NextVersion(tx, profileID, name, docType)
			if err != nil {
				return err
			}

			created = models.Document{
				InvestorProfileID: profileID,
				Name:              name,
				DocType:           docType,
				Version:           version,
				StorageKey:        storageKey,
				ContentType:       contentType,
				Size:              size,
				UploadedAt:        time.Now(),
			}
			if prev != nil {
				created.PreviousVersionID = &prev.ID
			}

			return tx.Create(&created).Error
		})
		if err != nil {
			return nil, err
		}
		return &created, nil
	}

	doc, err := attempt()
	if err != nil && repository.IsDuplicateVersion(err) {
		doc, err = attempt()
	}
	return doc, err
}
