package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satpal87/danish-reels-news/models"
)

func TestListArticlesShowsOnlyPublishedActive(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(t, db)

	createTestArticle(t, db, "Visible story", "politics", models.ArticleStatusPublished, true)
	createTestArticle(t, db, "Draft story", "politics", models.ArticleStatusDraft, true)
	createTestArticle(t, db, "Hidden story", "politics", models.ArticleStatusPublished, false)

	w := perform(t, r, testRequest{method: http.MethodGet, path: "/api/v1/articles"})
	require.Equal(t, http.StatusOK, w.Code)
	_, data := decodeEnvelope(t, w)

	items := data["items"].([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, "Visible story", items[0].(map[string]interface{})["title"])

	pagination := data["pagination"].(map[string]interface{})
	assert.Equal(t, float64(1), pagination["total"])
}

func TestListArticlesCategoryAndSearchFilters(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(t, db)

	createTestArticle(t, db, "Council votes on bike lanes", "local", models.ArticleStatusPublished, true)
	createTestArticle(t, db, "National budget talks", "politics", models.ArticleStatusPublished, true)
	createTestArticle(t, db, "Budget cuts in schools", "politics", models.ArticleStatusPublished, true)

	w := perform(t, r, testRequest{method: http.MethodGet, path: "/api/v1/articles?category=politics"})
	require.Equal(t, http.StatusOK, w.Code)
	_, data := decodeEnvelope(t, w)
	assert.Len(t, data["items"].([]interface{}), 2)

	w = perform(t, r, testRequest{method: http.MethodGet, path: "/api/v1/articles?search=budget"})
	require.Equal(t, http.StatusOK, w.Code)
	_, data = decodeEnvelope(t, w)
	assert.Len(t, data["items"].([]interface{}), 2)

	w = perform(t, r, testRequest{method: http.MethodGet, path: "/api/v1/articles?category=politics&search=schools"})
	require.Equal(t, http.StatusOK, w.Code)
	_, data = decodeEnvelope(t, w)
	items := data["items"].([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, "Budget cuts in schools", items[0].(map[string]interface{})["title"])
}

func TestListArticlesPagination(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(t, db)

	for i := 0; i < 7; i++ {
		createTestArticle(t, db, fmt.Sprintf("Story %d", i), "news", models.ArticleStatusPublished, true)
	}

	w := perform(t, r, testRequest{method: http.MethodGet, path: "/api/v1/articles?page=2&page_size=3"})
	require.Equal(t, http.StatusOK, w.Code)
	_, data := decodeEnvelope(t, w)
	assert.Len(t, data["items"].([]interface{}), 3)

	pagination := data["pagination"].(map[string]interface{})
	assert.Equal(t, float64(7), pagination["total"])
	assert.Equal(t, float64(3), pagination["total_pages"])
	assert.Equal(t, float64(2), pagination["page"])
}

func TestGetArticleHidesDraftsAndInactive(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(t, db)

	draft := createTestArticle(t, db, "Unpublished scoop", "politics", models.ArticleStatusDraft, true)
	inactive := createTestArticle(t, db, "Retracted story", "politics", models.ArticleStatusPublished, false)

	for _, id := range []uint{draft.ID, inactive.ID} {
		w := perform(t, r, testRequest{method: http.MethodGet, path: fmt.Sprintf("/api/v1/articles/%d", id)})
		assert.Equal(t, http.StatusNotFound, w.Code)
	}

	// Neither attempt should have recorded a view.
	var count int64
	require.NoError(t, db.Model(&models.ArticleView{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestListCategories(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(t, db)

	createTestArticle(t, db, "A", "politics", models.ArticleStatusPublished, true)
	createTestArticle(t, db, "B", "politics", models.ArticleStatusPublished, true)
	createTestArticle(t, db, "C", "sport", models.ArticleStatusPublished, true)
	createTestArticle(t, db, "D", "culture", models.ArticleStatusDraft, true)

	w := perform(t, r, testRequest{method: http.MethodGet, path: "/api/v1/articles/categories"})
	require.Equal(t, http.StatusOK, w.Code)
	_, data := decodeEnvelope(t, w)

	categories := data["categories"].([]interface{})
	assert.ElementsMatch(t, []interface{}{"politics", "sport"}, categories)
}

func TestListRelatedSameCategoryExcludesSelf(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(t, db)

	anchor := createTestArticle(t, db, "Anchor story", "sport", models.ArticleStatusPublished, true)
	for i := 0; i < 8; i++ {
		createTestArticle(t, db, fmt.Sprintf("Sport story %d", i), "sport", models.ArticleStatusPublished, true)
	}
	createTestArticle(t, db, "Politics story", "politics", models.ArticleStatusPublished, true)

	w := perform(t, r, testRequest{method: http.MethodGet, path: fmt.Sprintf("/api/v1/articles/%d/related", anchor.ID)})
	require.Equal(t, http.StatusOK, w.Code)
	_, data := decodeEnvelope(t, w)

	items := data["items"].([]interface{})
	require.Len(t, items, 6)
	for _, it := range items {
		m := it.(map[string]interface{})
		assert.Equal(t, "sport", m["category"])
		assert.NotEqual(t, float64(anchor.ID), m["id"])
	}
}

func TestGetAppConfig(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(t, db)

	w := perform(t, r, testRequest{method: http.MethodGet, path: "/api/v1/config/app"})
	require.Equal(t, http.StatusOK, w.Code)
	_, data := decodeEnvelope(t, w)
	assert.Equal(t, float64(5), data["daily_view_limit"])
	assert.Equal(t, "anonymous_session_id", data["session_cookie_name"])
}
