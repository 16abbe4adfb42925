package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satpal87/danish-reels-news/models"
)

func TestSaveAndListArticles(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(t, db)
	_, token := createTestUser(t, db, "reader", "reader@example.com")
	article := createTestArticle(t, db, "Keep this one", "culture", models.ArticleStatusPublished, true)

	w := perform(t, r, testRequest{
		method: http.MethodPost,
		path:   fmt.Sprintf("/api/v1/users/me/saved/%d", article.ID),
		token:  token,
	})
	require.Equal(t, http.StatusOK, w.Code)

	// Saving again is a no-op, not an error.
	w = perform(t, r, testRequest{
		method: http.MethodPost,
		path:   fmt.Sprintf("/api/v1/users/me/saved/%d", article.ID),
		token:  token,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = perform(t, r, testRequest{method: http.MethodGet, path: "/api/v1/users/me/saved", token: token})
	require.Equal(t, http.StatusOK, w.Code)
	_, data := decodeEnvelope(t, w)
	items := data["items"].([]interface{})
	require.Len(t, items, 1)
	saved := items[0].(map[string]interface{})
	assert.Equal(t, "Keep this one", saved["article"].(map[string]interface{})["title"])
}

func TestUnsaveArticle(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(t, db)
	user, token := createTestUser(t, db, "reader", "reader@example.com")
	article := createTestArticle(t, db, "Short lived bookmark", "culture", models.ArticleStatusPublished, true)

	require.NoError(t, db.Create(&models.SavedArticle{UserID: user.ID, ArticleID: article.ID}).Error)

	w := perform(t, r, testRequest{
		method: http.MethodDelete,
		path:   fmt.Sprintf("/api/v1/users/me/saved/%d", article.ID),
		token:  token,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.SavedArticle{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestSaveRejectsHiddenArticle(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(t, db)
	_, token := createTestUser(t, db, "reader", "reader@example.com")
	draft := createTestArticle(t, db, "Not yet public", "culture", models.ArticleStatusDraft, true)

	w := perform(t, r, testRequest{
		method: http.MethodPost,
		path:   fmt.Sprintf("/api/v1/users/me/saved/%d", draft.ID),
		token:  token,
	})
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestSavedRoutesRequireAuth(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(t, db)

	w := perform(t, r, testRequest{method: http.MethodGet, path: "/api/v1/users/me/saved"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
