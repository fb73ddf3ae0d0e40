package hexagondb

import (
	"time"

	"github.com/hdt3213/godis/lib/logger"
)

// sweepBatchSize bounds how many expired entries one pass removes
// while holding the keyspace lock. The sweeper reacquires the lock for
// every batch so foreground commands are never starved by a long scan.
const sweepBatchSize = 64

// StartSweeper launches the active expiration pass: every interval it
// removes entries whose deadline has elapsed, batch by batch. Lazy
// expiration alone already keeps reads correct; the sweeper exists so
// keys that are set and never touched again do not pile up.
func (db *DB) StartSweeper(interval time.Duration) {
	if db.sweepDone != nil {
		return
	}
	db.sweepDone = make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-db.sweepDone:
				return
			case <-ticker.C:
				var total int
				for {
					n := db.sweepBatch(sweepBatchSize)
					total += n
					if n < sweepBatchSize {
						break
					}
				}
				if total > 0 {
					logger.Debug("expired keys swept:", total)
				}
			}
		}
	}()
}

// StopSweeper stops the background pass. Safe to call when the sweeper
// was never started.
func (db *DB) StopSweeper() {
	if db.sweepDone != nil {
		close(db.sweepDone)
		db.sweepDone = nil
	}
}

// sweepBatch removes up to limit expired entries under the keyspace
// lock and reports how many were removed.
func (db *DB) sweepBatch(limit int) int {
	db.mu.Lock()
	defer db.mu.Unlock()
	now := time.Now()
	var removed int
	for key, ent := range db.items {
		if ent.expired(now) {
			delete(db.items, key)
			db.expiredKeys++
			removed++
			if removed >= limit {
				break
			}
		}
	}
	return removed
}
