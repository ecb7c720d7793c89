package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"library_system/internal/config"
	dbschema "library_system/internal/db"
	"library_system/internal/domain"
	"library_system/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "handler-test-secret"

// setupTest builds the full router against a throwaway SQLite database
// carrying the production schema, partial unique index included.
func setupTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	gdb, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "library.db")), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	// A single connection fully serializes concurrent transactions, which
	// keeps the parallel borrowing test deterministic on SQLite.
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, dbschema.AutoMigrate(gdb))

	cfg := &config.Config{
		JWTSecret:      testSecret,
		RequestTimeout: 5 * time.Second,
	}
	return NewRouter(gdb, cfg), gdb
}

// createUser persists a user with password "secret123".
func createUser(t *testing.T, gdb *gorm.DB, username, role string) domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	user := domain.User{
		Username: username,
		Email:    username + "@example.com",
		Password: string(hash),
		Role:     role,
	}
	require.NoError(t, gdb.Create(&user).Error)
	return user
}

// tokenFor issues a valid bearer token for the user.
func tokenFor(t *testing.T, user domain.User) string {
	t.Helper()
	token, err := utils.GenerateJWT(user.ID, testSecret)
	require.NoError(t, err)
	return token
}

// createBook persists a book directly, bypassing the API.
func createBook(t *testing.T, gdb *gorm.DB, title, isbn string) domain.Book {
	t.Helper()
	book := domain.Book{
		Title:         title,
		Author:        "Test Author",
		ISBN:          isbn,
		Description:   "A test book",
		PublishedDate: time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, gdb.Create(&book).Error)
	return book
}

// createCategory persists a category directly.
func createCategory(t *testing.T, gdb *gorm.DB, name string) domain.Category {
	t.Helper()
	category := domain.Category{Name: name}
	require.NoError(t, gdb.Create(&category).Error)
	return category
}

// createBorrowing persists an active loan directly.
func createBorrowing(t *testing.T, gdb *gorm.DB, userID, bookID uint) domain.Borrowing {
	t.Helper()
	borrowing := domain.Borrowing{
		UserID:     userID,
		BookID:     bookID,
		BorrowedAt: time.Now().UTC(),
		DueDate:    time.Now().UTC().AddDate(0, 0, 14),
	}
	require.NoError(t, gdb.Create(&borrowing).Error)
	return borrowing
}

// doJSON performs a request against the router and records the response.
func doJSON(r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// decodeBody unmarshals a recorded JSON response.
func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}

// fieldErrors digs the field error map out of a 422 body.
func fieldErrors(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	body := decodeBody(t, w)
	errs, ok := body["errors"].(map[string]any)
	require.True(t, ok, "expected an errors map, got: %s", w.Body.String())
	return errs
}

// hasFieldError reports whether the field carries the given message.
func hasFieldError(errs map[string]any, field, message string) bool {
	msgs, ok := errs[field].([]any)
	if !ok {
		return false
	}
	for _, m := range msgs {
		if m == message {
			return true
		}
	}
	return false
}
