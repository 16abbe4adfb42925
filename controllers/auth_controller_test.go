package controllers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satpal87/danish-reels-news/models"
)

func TestRegisterIssuesToken(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(t, db)

	body := map[string]interface{}{
		"username": "newreader",
		"email":    "New.Reader@Example.com",
		"password": "secret123",
	}
	w := perform(t, r, testRequest{method: http.MethodPost, path: "/api/v1/auth/register", body: body})
	require.Equal(t, http.StatusOK, w.Code)
	_, data := decodeEnvelope(t, w)
	assert.NotEmpty(t, data["token"])

	user := data["user"].(map[string]interface{})
	assert.Equal(t, "newreader", user["username"])
	assert.Equal(t, "new.reader@example.com", user["email"], "email is normalized to lowercase")
	assert.Equal(t, false, user["is_admin"])

	// Password is stored hashed, never verbatim.
	var stored models.User
	require.NoError(t, db.Where("username = ?", "newreader").First(&stored).Error)
	assert.NotEmpty(t, stored.PasswordHash)
	assert.NotEqual(t, "secret123", stored.PasswordHash)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(t, db)
	createTestUser(t, db, "first", "taken@example.com")

	body := map[string]interface{}{
		"username": "second",
		"email":    "taken@example.com",
		"password": "secret123",
	}
	w := perform(t, r, testRequest{method: http.MethodPost, path: "/api/v1/auth/register", body: body})
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestUsernameUniqueAtDatabaseLevel(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Create(&models.User{Username: "dup", Email: "first@example.com"}).Error)

	// The handler checks for conflicts before inserting, but two concurrent
	// registrations can both pass that check; the index is the backstop.
	err := db.Create(&models.User{Username: "dup", Email: "second@example.com"}).Error
	assert.Error(t, err)
}

func TestLoginByEmail(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(t, db)
	createTestUser(t, db, "reader", "reader@example.com")

	w := perform(t, r, testRequest{
		method: http.MethodPost,
		path:   "/api/v1/auth/login",
		body:   map[string]interface{}{"email": "reader@example.com", "password": "password1"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	_, data := decodeEnvelope(t, w)
	assert.NotEmpty(t, data["token"])
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(t, db)
	createTestUser(t, db, "reader", "reader@example.com")

	w := perform(t, r, testRequest{
		method: http.MethodPost,
		path:   "/api/v1/auth/login",
		body:   map[string]interface{}{"email": "reader@example.com", "password": "wrong"},
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid email or password")
}

func TestMeRequiresToken(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(t, db)
	_, token := createTestUser(t, db, "reader", "reader@example.com")

	w := perform(t, r, testRequest{method: http.MethodGet, path: "/api/v1/auth/me"})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = perform(t, r, testRequest{method: http.MethodGet, path: "/api/v1/auth/me", token: token})
	require.Equal(t, http.StatusOK, w.Code)
	_, data := decodeEnvelope(t, w)
	assert.Equal(t, "reader", data["username"])
}

func TestAdminFlagInAuthResponses(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(t, db)
	_, token := createTestUser(t, db, "admin", "admin@example.com")

	w := perform(t, r, testRequest{method: http.MethodGet, path: "/api/v1/auth/me", token: token})
	require.Equal(t, http.StatusOK, w.Code)
	_, data := decodeEnvelope(t, w)
	assert.Equal(t, true, data["is_admin"])
}

func TestLogout(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(t, db)
	_, token := createTestUser(t, db, "reader", "reader@example.com")

	w := perform(t, r, testRequest{method: http.MethodPost, path: "/api/v1/auth/logout", token: token})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "logged out")
}
