package services

import (
	"bytes"
	"mime/multipart"
	"testing"

	"advocate_diary/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	// Unique shared memory name isolates tests from each other
	dbName := "mem_" + uuid.New().String()
	testDB, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared&_foreign_keys=on"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := testDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, testDB.AutoMigrate(models.All()...))
	return testDB
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	user := &models.User{Email: email, Password: "x", FullName: "Adv. " + email, IsActive: true}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestCase(t *testing.T, db *gorm.DB, userID, caseNumber, title string) *models.Case {
	caseRecord, err := CreateCase(db, userID, CaseInput{
		CaseNumber: models.Some(caseNumber),
		Title:      models.Some(title),
		CourtName:  models.Some("District Court"),
	})
	require.NoError(t, err)
	return caseRecord
}

func makeFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	return form.File["file"][0]
}

func stringPtr(s string) *string {
	return &s
}
