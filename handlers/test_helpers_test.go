package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"advocate_diary/db"
	"advocate_diary/models"
	"advocate_diary/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// clientCounter gives every test request its own address so the shared auth rate limiter stays out of the way
var clientCounter uint32

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

	// Set globals used by handlers
	previousDB, previousStorage, previousTokens := db.DB, services.Storage, services.Tokens
	db.DB = testDB
	services.Storage = services.NewLocalStorage(t.TempDir())
	services.Tokens = services.NewTokenIssuer("handler-test-secret-0123456789abcdef", 15*time.Minute, time.Hour)
	t.Cleanup(func() {
		db.DB, services.Storage, services.Tokens = previousDB, previousStorage, previousTokens
	})

	return testDB
}

// setupServer builds an echo instance wired like cmd/server
func setupServer(t *testing.T) *echo.Echo {
	t.Helper()
	e := echo.New()
	e.HTTPErrorHandler = HTTPErrorHandler
	e.Pre(echomiddleware.RemoveTrailingSlash())
	RegisterRoutes(e)
	return e
}

func createTestUser(t *testing.T, email string) *models.User {
	user, err := services.Register(db.DB, services.RegisterInput{
		Email:    email,
		Password: "s3cretpass",
		FullName: "Adv. " + email,
	})
	require.NoError(t, err)
	return user
}

func accessToken(t *testing.T, userID string) string {
	token, err := services.Tokens.Issue(userID, services.AccessToken)
	require.NoError(t, err)
	return token
}

func newRequest(method, path string, body io.Reader, token string) *http.Request {
	req := httptest.NewRequest(method, path, body)
	n := atomic.AddUint32(&clientCounter, 1)
	req.RemoteAddr = fmt.Sprintf("10.%d.%d.%d:1234", (n>>16)&0xff, (n>>8)&0xff, n&0xff)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	return req
}

// doJSON sends body (marshalled unless it is already a string) and returns the recorder
func doJSON(t *testing.T, e *echo.Echo, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewBuffer(raw)
	}

	req := newRequest(method, path, reader, token)
	if reader != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func decodeList(t *testing.T, rec *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return fmt.Sprint(decodeBody(t, rec)["error"])
}
