package hexagondb

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLazyExpiration(t *testing.T) {
	db := New()
	db.Set("k", []byte("v"), 10*time.Millisecond)
	assert.True(t, db.Exists("k"))

	time.Sleep(30 * time.Millisecond)
	val, err := db.Get("k")
	assert.Nil(t, err)
	assert.Nil(t, val)
	assert.False(t, db.Exists("k"))
	assert.Equal(t, int64(-2), db.TTL("k"))
	assert.Equal(t, uint64(1), db.ExpiredKeys())
}

func TestExpireAtInThePast(t *testing.T) {
	db := New()
	db.Set("k", []byte("v"), 0)
	assert.True(t, db.ExpireAt("k", time.Now().Add(-time.Second)))
	assert.False(t, db.Exists("k"))
}

func TestExpiredKeyInvisibleToKeys(t *testing.T) {
	db := New()
	db.Set("live", []byte("v"), 0)
	db.Set("dead", []byte("v"), time.Millisecond)
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, []string{"live"}, db.Keys("*"))
}

func TestSweeper(t *testing.T) {
	db := New()
	db.Lock()
	for i := 0; i < sweepBatchSize*2; i++ {
		db.Set(fmt.Sprintf("k%03d", i), []byte("v"), time.Millisecond)
	}
	db.Set("keep", []byte("v"), 0)
	db.Unlock()

	db.StartSweeper(10 * time.Millisecond)
	defer db.StopSweeper()

	deadline := time.Now().Add(2 * time.Second)
	for {
		db.Lock()
		size := db.Size()
		db.Unlock()
		if size == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("sweeper did not collect expired keys, %d entries left", size)
		}
		time.Sleep(10 * time.Millisecond)
	}

	db.Lock()
	defer db.Unlock()
	assert.True(t, db.Exists("keep"))
	assert.Equal(t, uint64(sweepBatchSize*2), db.ExpiredKeys())
}

func TestStopSweeperTwice(t *testing.T) {
	db := New()
	db.StartSweeper(time.Millisecond)
	db.StopSweeper()
	db.StopSweeper()
}
