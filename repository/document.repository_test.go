package repository

import (
	"fmt"
	"testing"
	"time"

	"secureinvestor/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

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

	return db
}

func createProfile(t *testing.T, db *gorm.DB, email string) *models.InvestorProfile {
	t.Helper()

	user := models.User{Name: "Test User", Email: email, Password: "x"}
	require.NoError(t, db.Create(&user).Error)

	profile := models.InvestorProfile{UserID: user.ID}
	require.NoError(t, db.Create(&profile).Error)
	return &profile
}

// uploadDoc mimics the controller's transaction: resolve next version, insert
func uploadDoc(t *testing.T, db *gorm.DB, profileID uint, name, docType string) *models.Document {
	t.Helper()

	var created models.Document
	err := db.Transaction(func(tx *gorm.DB) error {
		version, prev, err := NextVersion(tx, profileID, name, docType)
		if err != nil {
			return err
		}
		created = models.Document{
			InvestorProfileID: profileID,
			Name:              name,
			DocType:           docType,
			Version:           version,
			StorageKey:        fmt.Sprintf("documents/%s_%d.pdf", name, time.Now().UnixNano()),
			UploadedAt:        time.Now(),
		}
		if prev != nil {
			created.PreviousVersionID = &prev.ID
		}
		return tx.Create(&created).Error
	})
	require.NoError(t, err)
	return &created
}

func TestNextVersionFreshGroup(t *testing.T) {
	db := setupTestDB(t)
	profile := createProfile(t, db, "fresh@example.com")

	version, prev, err := NextVersion(db, profile.ID, "passport.pdf", models.DocTypeID)
	require.NoError(t, err)
	require.Equal(t, 1, version)
	require.Nil(t, prev)
}

func TestVersionChainIncrements(t *testing.T) {
	db := setupTestDB(t)
	profile := createProfile(t, db, "chain@example.com")

	first := uploadDoc(t, db, profile.ID, "passport.pdf", models.DocTypeID)
	require.Equal(t, 1, first.Version)
	require.Nil(t, first.PreviousVersionID)

	second := uploadDoc(t, db, profile.ID, "passport.pdf", models.DocTypeID)
	require.Equal(t, 2, second.Version)
	require.NotNil(t, second.PreviousVersionID)
	require.Equal(t, first.ID, *second.PreviousVersionID)

	third := uploadDoc(t, db, profile.ID, "passport.pdf", models.DocTypeID)
	require.Equal(t, 3, third.Version)
	require.Equal(t, second.ID, *third.PreviousVersionID)

	// Same name under a different type is its own group
	other := uploadDoc(t, db, profile.ID, "passport.pdf", models.DocTypeOther)
	require.Equal(t, 1, other.Version)
	require.Nil(t, other.PreviousVersionID)
}

func TestDuplicateVersionRejected(t *testing.T) {
	db := setupTestDB(t)
	profile := createProfile(t, db, "dup@example.com")

	uploadDoc(t, db, profile.ID, "statement.pdf", models.DocTypeStatement)

	// A second insert of the same version must hit the unique index
	clash := models.Document{
		InvestorProfileID: profile.ID,
		Name:              "statement.pdf",
		DocType:           models.DocTypeStatement,
		Version:           1,
		StorageKey:        "documents/clash.pdf",
		UploadedAt:        time.Now(),
	}
	err := db.Create(&clash).Error
	require.Error(t, err)
	require.True(t, IsDuplicateVersion(err))
}

func TestLatestPerGroupOnePerGroup(t *testing.T) {
	db := setupTestDB(t)
	profile := createProfile(t, db, "latest@example.com")

	uploadDoc(t, db, profile.ID, "passport.pdf", models.DocTypeID)
	v2 := uploadDoc(t, db, profile.ID, "passport.pdf", models.DocTypeID)
	agreement := uploadDoc(t, db, profile.ID, "terms.pdf", models.DocTypeAgreement)

	docs, err := LatestPerGroup(db, OwnerScope(profile.ID), "")
	require.NoError(t, err)
	require.Len(t, docs, 2)

	seen := map[string]int{}
	for _, doc := range docs {
		key := fmt.Sprintf("%d/%s/%s", doc.InvestorProfileID, doc.Name, doc.DocType)
		seen[key]++
		require.Equal(t, 1, seen[key], "latest-per-group returned two documents from group %s", key)
	}

	for _, doc := range docs {
		switch doc.Name {
		case "passport.pdf":
			require.Equal(t, v2.ID, doc.ID)
			require.Equal(t, 2, doc.Version)
		case "terms.pdf":
			require.Equal(t, agreement.ID, doc.ID)
		default:
			t.Fatalf("unexpected document %q", doc.Name)
		}
	}
}

func TestLatestPerGroupByType(t *testing.T) {
	db := setupTestDB(t)
	profile := createProfile(t, db, "bytype@example.com")

	uploadDoc(t, db, profile.ID, "passport.pdf", models.DocTypeID)
	uploadDoc(t, db, profile.ID, "terms.pdf", models.DocTypeAgreement)

	docs, err := LatestPerGroup(db, OwnerScope(profile.ID), models.DocTypeAgreement)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.Equal(t, "terms.pdf", docs[0].Name)
}

func TestOwnerScopeHidesOtherInvestors(t *testing.T) {
	db := setupTestDB(t)
	alice := createProfile(t, db, "alice@example.com")
	bob := createProfile(t, db, "bob@example.com")

	aliceDoc := uploadDoc(t, db, alice.ID, "passport.pdf", models.DocTypeID)
	bobDoc := uploadDoc(t, db, bob.ID, "statement.pdf", models.DocTypeStatement)

	// Owner sees only their own documents
	docs, err := LatestPerGroup(db, OwnerScope(alice.ID), "")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.Equal(t, alice.ID, docs[0].InvestorProfileID)

	all, err := AllVersions(db, OwnerScope(alice.ID), "")
	require.NoError(t, err)
	for _, doc := range all {
		require.Equal(t, alice.ID, doc.InvestorProfileID)
	}

	// Owner cannot fetch another investor's document by id
	_, err = FindByID(db, OwnerScope(alice.ID), bobDoc.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// Staff see everything
	docs, err = LatestPerGroup(db, StaffScope(), "")
	require.NoError(t, err)
	require.Len(t, docs, 2)

	found, err := FindByID(db, StaffScope(), aliceDoc.ID)
	require.NoError(t, err)
	require.Equal(t, aliceDoc.ID, found.ID)
}

func TestGroupHistoryOrder(t *testing.T) {
	db := setupTestDB(t)
	profile := createProfile(t, db, "history@example.com")

	uploadDoc(t, db, profile.ID, "passport.pdf", models.DocTypeID)
	latest := uploadDoc(t, db, profile.ID, "passport.pdf", models.DocTypeID)

	versions, err := GroupHistory(db, latest)
	require.NoError(t, err)
	require.Len(t, versions, 2)
	require.Equal(t, 2, versions[0].Version)
	require.Equal(t, 1, versions[1].Version)
	require.Equal(t, versions[1].ID, *versions[0].PreviousVersionID)
}

func TestScopeForUser(t *testing.T) {
	db := setupTestDB(t)

	staff := models.User{Name: "Admin", Email: "admin@example.com", Password: "x", Role: models.RoleAdmin}
	require.NoError(t, db.Create(&staff).Error)

	profile := createProfile(t, db, "scoped@example.com")
	var owner models.User
	require.NoError(t, db.First(&owner, profile.UserID).Error)

	require.Equal(t, StaffScope(), ScopeForUser(db, &staff))
	require.Equal(t, OwnerScope(profile.ID), ScopeForUser(db, &owner))

	// Non-staff user without a profile matches nothing
	orphan := models.User{Name: "Orphan", Email: "orphan@example.com", Password: "x"}
	require.NoError(t, db.Create(&orphan).Error)
	require.Equal(t, OwnerScope(0), ScopeForUser(db, &orphan))
}
