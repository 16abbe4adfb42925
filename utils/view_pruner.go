package utils

import (
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/satpal87/danish-reels-news/models"
)

// ViewPruner periodically deletes anonymous view rows older than the
// retention window. Views tied to a registered user are kept since they back
// the reading history feature.
type ViewPruner struct {
	db        *gorm.DB
	interval  time.Duration
	retention time.Duration
	ticker    *time.Ticker
	done      chan struct{}
	stopOnce  sync.Once
}

// StartViewPruner launches a background pruner and returns a handle whose
// Stop method halts it. It is best-effort and logs failures.
func StartViewPruner(db *gorm.DB, interval time.Duration, retentionDays int) *ViewPruner {
	if interval <= 0 {
		interval = time.Hour
	}
	if retentionDays <= 0 {
		retentionDays = 30
	}
	p := &ViewPruner{
		db:        db,
		interval:  interval,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		ticker:    time.NewTicker(interval),
		done:      make(chan struct{}),
	}
	go p.run()
	return p
}

// Stop halts the pruner. Safe to call more than once.
func (p *ViewPruner) Stop() {
	p.stopOnce.Do(func() {
		p.ticker.Stop()
		close(p.done)
	})
}

func (p *ViewPruner) run() {
	for {
		select {
		case <-p.done:
			return
		case <-p.ticker.C:
			p.PruneOnce()
		}
	}
}

// PruneOnce deletes one batch of expired anonymous views and returns the
// number of rows removed.
func (p *ViewPruner) PruneOnce() int64 {
	if p.db == nil {
		return 0
	}
	cutoff := time.Now().Add(-p.retention)
	res := p.db.Where("user_id IS NULL AND viewed_at < ?", cutoff).
		Delete(&models.ArticleView{})
	if res.Error != nil {
		if Sugar != nil {
			Sugar.Warnf("view pruner delete failed: %v", res.Error)
		}
		return 0
	}
	if res.RowsAffected > 0 && Sugar != nil {
		Sugar.Infof("view pruner removed %d expired anonymous views", res.RowsAffected)
	}
	return res.RowsAffected
}
