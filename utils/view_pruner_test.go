package utils

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

	"github.com/satpal87/danish-reels-news/models"
)

func openPrunerTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.ArticleView{}))
	return db
}

func TestPruneOnceRemovesOnlyExpiredAnonymousViews(t *testing.T) {
	db := openPrunerTestDB(t)

	userID := uint(7)
	oldSession := "old-session"
	freshSession := "fresh-session"
	old := time.Now().Add(-40 * 24 * time.Hour)

	require.NoError(t, db.Create(&models.ArticleView{ArticleID: 1, SessionID: &oldSession, ViewedAt: old}).Error)
	require.NoError(t, db.Create(&models.ArticleView{ArticleID: 1, SessionID: &freshSession, ViewedAt: time.Now()}).Error)
	// Views tied to a user survive regardless of age; they back reading history.
	require.NoError(t, db.Create(&models.ArticleView{ArticleID: 1, UserID: &userID, ViewedAt: old}).Error)

	p := StartViewPruner(db, time.Hour, 30)
	defer p.Stop()

	removed := p.PruneOnce()
	assert.Equal(t, int64(1), removed)

	var remaining int64
	require.NoError(t, db.Model(&models.ArticleView{}).Count(&remaining).Error)
	assert.Equal(t, int64(2), remaining)
}

func TestPrunerStopIsIdempotent(t *testing.T) {
	db := openPrunerTestDB(t)
	p := StartViewPruner(db, time.Millisecond, 30)
	time.Sleep(5 * time.Millisecond)
	p.Stop()
	p.Stop() // a repeated Stop must not panic
	// After Stop the goroutine has exited; a PruneOnce by hand is still safe.
	assert.Equal(t, int64(0), p.PruneOnce())
}
