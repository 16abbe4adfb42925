package models

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func openViewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Article{}, &ArticleView{}))
	return db
}

func TestArticleViewRequiresExactlyOneIdentity(t *testing.T) {
	db := openViewTestDB(t)

	userID := uint(1)
	sessionID := "11111111-2222-3333-4444-555555555555"

	err := db.Create(&ArticleView{ArticleID: 1}).Error
	assert.ErrorIs(t, err, ErrViewIdentity, "a view with no identity must be rejected")

	err = db.Create(&ArticleView{ArticleID: 1, UserID: &userID, SessionID: &sessionID}).Error
	assert.ErrorIs(t, err, ErrViewIdentity, "a view with both identities must be rejected")

	require.NoError(t, db.Create(&ArticleView{ArticleID: 1, UserID: &userID}).Error)
	require.NoError(t, db.Create(&ArticleView{ArticleID: 1, SessionID: &sessionID}).Error)
}

func TestArticleViewDefaultsViewedAt(t *testing.T) {
	db := openViewTestDB(t)

	sessionID := "11111111-2222-3333-4444-555555555555"
	view := ArticleView{ArticleID: 1, SessionID: &sessionID}
	require.NoError(t, db.Create(&view).Error)
	assert.WithinDuration(t, time.Now(), view.ViewedAt, 5*time.Second)

	explicit := time.Date(2026, 1, 2, 15, 4, 5, 0, time.Local)
	view2 := ArticleView{ArticleID: 1, SessionID: &sessionID, ViewedAt: explicit}
	require.NoError(t, db.Create(&view2).Error)
	assert.True(t, view2.ViewedAt.Equal(explicit))
}

func TestEncodeDecodeSources(t *testing.T) {
	assert.Equal(t, "[]", EncodeSources(nil))
	encoded := EncodeSources([]string{"https://a.dk", "https://b.dk"})
	assert.Equal(t, []string{"https://a.dk", "https://b.dk"}, DecodeSources(encoded))
	assert.Empty(t, DecodeSources(""))
	assert.Empty(t, DecodeSources("not json"))
}

func TestArticleCreateKeepsExplicitInactive(t *testing.T) {
	db := openViewTestDB(t)

	article := Article{Title: "Hidden story", Status: ArticleStatusPublished, Active: false}
	require.NoError(t, db.Create(&article).Error)

	var got Article
	require.NoError(t, db.First(&got, article.ID).Error)
	assert.False(t, got.Active, "an article created inactive must stay inactive")
}

func TestArticleDefaultsImportedDate(t *testing.T) {
	db := openViewTestDB(t)

	article := Article{Title: "Imported story", Status: ArticleStatusDraft}
	require.NoError(t, db.Create(&article).Error)
	assert.False(t, article.ImportedDate.IsZero())
}
