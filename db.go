package hexagondb

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Entry is the unit stored per key: a value variant plus an optional
// expiration instant. A zero ExpireAt means the entry never expires.
// An entry whose deadline has passed is logically absent; every access
// path checks it lazily before touching the value.
type Entry struct {
	Type     DataType
	Value    interface{}
	ExpireAt time.Time
}

func (e *Entry) expired(now time.Time) bool {
	return !e.ExpireAt.IsZero() && !e.ExpireAt.After(now)
}

// DB is the in-memory keyspace. It is one consistency domain guarded
// by a single exclusive lock: the command layer wraps every command in
// Lock/Unlock so a command plus its append-only-file record form one
// critical section, and the background sweeper takes the same lock per
// batch. The per-key methods below therefore do no locking themselves.
type DB struct {
	mu          sync.Mutex
	items       map[string]*Entry
	expiredKeys uint64 // removed by lazy checks or the sweeper

	sweepDone chan struct{}
}

// New creates an empty keyspace.
func New() *DB {
	return &DB{
		items: make(map[string]*Entry),
	}
}

// Lock acquires the exclusive keyspace lock.
func (db *DB) Lock() {
	db.mu.Lock()
}

// Unlock releases the exclusive keyspace lock.
func (db *DB) Unlock() {
	db.mu.Unlock()
}

// entry returns the live entry for key, deleting it first when its
// deadline has passed so an expired key can never be observed again.
func (db *DB) entry(key string) *Entry {
	ent, ok := db.items[key]
	if !ok {
		return nil
	}
	if ent.expired(time.Now()) {
		delete(db.items, key)
		db.expiredKeys++
		return nil
	}
	return ent
}

// typedEntry fetches the entry for key, enforcing the variant. With
// create set an empty container is installed on first write.
func (db *DB) typedEntry(key string, typ DataType, create bool) (*Entry, error) {
	ent := db.entry(key)
	if ent == nil {
		if !create {
			return nil, nil
		}
		ent = &Entry{Type: typ}
		switch typ {
		case List:
			ent.Value = newQuickList()
		case Hash:
			ent.Value = make(hashMap)
		case Set:
			ent.Value = make(hashSet)
		case ZSet:
			ent.Value = newSortedSet()
		}
		db.items[key] = ent
		return ent, nil
	}
	if ent.Type != typ {
		return nil, ErrWrongType
	}
	return ent, nil
}

// removeIfEmpty drops a container entry once its last element is gone,
// so EXISTS and TYPE agree with redis semantics.
func (db *DB) removeIfEmpty(key string, ent *Entry) {
	var n int
	switch ent.Type {
	case List:
		n = ent.Value.(*quickList).size()
	case Hash:
		n = len(ent.Value.(hashMap))
	case Set:
		n = len(ent.Value.(hashSet))
	case ZSet:
		n = ent.Value.(*sortedSet).size()
	default:
		return
	}
	if n == 0 {
		delete(db.items, key)
	}
}

// Get returns the string value of key, nil when absent or expired.
func (db *DB) Get(key string) ([]byte, error) {
	ent := db.entry(key)
	if ent == nil {
		return nil, nil
	}
	if ent.Type != String {
		return nil, ErrWrongType
	}
	return ent.Value.([]byte), nil
}

// Set inserts or replaces key with a string value. A positive ttl sets
// the deadline to now+ttl, otherwise any previous deadline is cleared.
func (db *DB) Set(key string, value []byte, ttl time.Duration) {
	ent := &Entry{Type: String, Value: value}
	if ttl > 0 {
		ent.ExpireAt = time.Now().Add(ttl)
	}
	db.items[key] = ent
}

// Delete removes key, reporting whether a live entry existed.
func (db *DB) Delete(key string) bool {
	if db.entry(key) == nil {
		return false
	}
	delete(db.items, key)
	return true
}

// Exists reports whether key holds a live entry.
func (db *DB) Exists(key string) bool {
	return db.entry(key) != nil
}

// TypeOf returns the variant name of key, "none" when absent.
func (db *DB) TypeOf(key string) string {
	ent := db.entry(key)
	if ent == nil {
		return "none"
	}
	return TypeName(ent.Type)
}

// Expire sets a relative deadline on key. Absent keys are untouched.
func (db *DB) Expire(key string, ttl time.Duration) bool {
	return db.ExpireAt(key, time.Now().Add(ttl))
}

// ExpireAt sets an absolute deadline on key. A deadline in the past is
// applied as-is; the next access removes the entry. This is what makes
// replay reproduce present-time expiration.
func (db *DB) ExpireAt(key string, at time.Time) bool {
	ent := db.entry(key)
	if ent == nil {
		return false
	}
	ent.ExpireAt = at
	return true
}

// Persist clears the deadline of key, reporting whether one was set.
func (db *DB) Persist(key string) bool {
	ent := db.entry(key)
	if ent == nil || ent.ExpireAt.IsZero() {
		return false
	}
	ent.ExpireAt = time.Time{}
	return true
}

// TTL returns the remaining whole seconds of key, -1 when no deadline
// is set and -2 when the key is absent.
func (db *DB) TTL(key string) int64 {
	ent := db.entry(key)
	if ent == nil {
		return -2
	}
	if ent.ExpireAt.IsZero() {
		return -1
	}
	remain := time.Until(ent.ExpireAt)
	secs := int64(remain / time.Second)
	if remain%time.Second > 0 {
		secs++ // 剩余不足一秒向上取整，避免未过期的 key 报 0
	}
	return secs
}

// Keys returns the live keys matching pattern: "*" for all keys or
// "prefix*" for a prefix scan. The result is sorted so listings are
// deterministic. The scan is O(n) under the keyspace lock and is
// therefore atomic with respect to concurrent mutation.
func (db *DB) Keys(pattern string) []string {
	now := time.Now()
	var keys []string
	for key, ent := range db.items {
		if ent.expired(now) {
			delete(db.items, key)
			db.expiredKeys++
			continue
		}
		if matchPattern(key, pattern) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

func matchPattern(key, pattern string) bool {
	if pattern == "*" {
		return true
	}
	if strings.HasSuffix(pattern, "*") {
		return strings.HasPrefix(key, pattern[:len(pattern)-1])
	}
	return key == pattern
}

// Size returns the number of physically present entries. Entries whose
// deadline passed but were not collected yet are still counted; the
// sweeper keeps the difference bounded.
func (db *DB) Size() int {
	return len(db.items)
}

// Flush drops every entry.
func (db *DB) Flush() {
	db.items = make(map[string]*Entry)
}

// ExpiredKeys returns how many entries expiration has removed.
func (db *DB) ExpiredKeys() uint64 {
	return db.expiredKeys
}

// IncrBy parses the string value of key as a base-10 integer (an
// absent key counts as 0), adds delta and writes the decimal
// representation back. The entry's deadline is preserved.
func (db *DB) IncrBy(key string, delta int64) (int64, error) {
	ent, err := db.typedEntry(key, String, false)
	if err != nil {
		return 0, err
	}
	var cur int64
	if ent != nil {
		cur, err = strconv.ParseInt(string(ent.Value.([]byte)), 10, 64)
		if err != nil {
			return 0, ErrNotInteger
		}
	}
	if (delta > 0 && cur > maxInt64-delta) || (delta < 0 && cur < minInt64-delta) {
		return 0, ErrIncrDecrOverflow
	}
	next := cur + delta
	if ent == nil {
		db.items[key] = &Entry{Type: String, Value: []byte(strconv.FormatInt(next, 10))}
	} else {
		ent.Value = []byte(strconv.FormatInt(next, 10))
	}
	return next, nil
}

const (
	maxInt64 = int64(^uint64(0) >> 1)
	minInt64 = -maxInt64 - 1
)

// ---- List ----

func (db *DB) LPush(key string, vals ...[]byte) (int, error) {
	ent, err := db.typedEntry(key, List, true)
	if err != nil {
		return 0, err
	}
	return ent.Value.(*quickList).lpush(vals...), nil
}

func (db *DB) RPush(key string, vals ...[]byte) (int, error) {
	ent, err := db.typedEntry(key, List, true)
	if err != nil {
		return 0, err
	}
	return ent.Value.(*quickList).rpush(vals...), nil
}

func (db *DB) LPop(key string) ([]byte, error) {
	ent, err := db.typedEntry(key, List, false)
	if err != nil || ent == nil {
		return nil, err
	}
	v, ok := ent.Value.(*quickList).lpop()
	if !ok {
		return nil, nil
	}
	db.removeIfEmpty(key, ent)
	return v, nil
}

func (db *DB) RPop(key string) ([]byte, error) {
	ent, err := db.typedEntry(key, List, false)
	if err != nil || ent == nil {
		return nil, err
	}
	v, ok := ent.Value.(*quickList).rpop()
	if !ok {
		return nil, nil
	}
	db.removeIfEmpty(key, ent)
	return v, nil
}

func (db *DB) LLen(key string) (int, error) {
	ent, err := db.typedEntry(key, List, false)
	if err != nil || ent == nil {
		return 0, err
	}
	return ent.Value.(*quickList).size(), nil
}

func (db *DB) LRange(key string, start, stop int64) ([][]byte, error) {
	ent, err := db.typedEntry(key, List, false)
	if err != nil || ent == nil {
		return nil, err
	}
	return ent.Value.(*quickList).lrange(start, stop), nil
}

// ---- Hash ----

// HSet stores field in the hash at key, reporting whether the field is
// new.
func (db *DB) HSet(key, field string, value []byte) (bool, error) {
	ent, err := db.typedEntry(key, Hash, true)
	if err != nil {
		return false, err
	}
	h := ent.Value.(hashMap)
	_, exist := h[field]
	h[field] = value
	return !exist, nil
}

func (db *DB) HGet(key, field string) ([]byte, error) {
	ent, err := db.typedEntry(key, Hash, false)
	if err != nil || ent == nil {
		return nil, err
	}
	return ent.Value.(hashMap)[field], nil
}

func (db *DB) HDel(key string, fields ...string) (int, error) {
	ent, err := db.typedEntry(key, Hash, false)
	if err != nil || ent == nil {
		return 0, err
	}
	h := ent.Value.(hashMap)
	var removed int
	for _, field := range fields {
		if _, exist := h[field]; exist {
			delete(h, field)
			removed++
		}
	}
	if removed > 0 {
		db.removeIfEmpty(key, ent)
	}
	return removed, nil
}

// HGetAll returns the fields of key in lexicographic field order,
// values aligned by index.
func (db *DB) HGetAll(key string) ([]string, [][]byte, error) {
	ent, err := db.typedEntry(key, Hash, false)
	if err != nil || ent == nil {
		return nil, nil, err
	}
	h := ent.Value.(hashMap)
	fields := make([]string, 0, len(h))
	for field := range h {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	vals := make([][]byte, len(fields))
	for i, field := range fields {
		vals[i] = h[field]
	}
	return fields, vals, nil
}

func (db *DB) HLen(key string) (int, error) {
	ent, err := db.typedEntry(key, Hash, false)
	if err != nil || ent == nil {
		return 0, err
	}
	return len(ent.Value.(hashMap)), nil
}

func (db *DB) HExists(key, field string) (bool, error) {
	ent, err := db.typedEntry(key, Hash, false)
	if err != nil || ent == nil {
		return false, err
	}
	_, exist := ent.Value.(hashMap)[field]
	return exist, nil
}

// ---- Set ----

func (db *DB) SAdd(key string, members ...string) (int, error) {
	ent, err := db.typedEntry(key, Set, true)
	if err != nil {
		return 0, err
	}
	s := ent.Value.(hashSet)
	var added int
	for _, m := range members {
		if _, exist := s[m]; !exist {
			s[m] = struct{}{}
			added++
		}
	}
	return added, nil
}

func (db *DB) SRem(key string, members ...string) (int, error) {
	ent, err := db.typedEntry(key, Set, false)
	if err != nil || ent == nil {
		return 0, err
	}
	s := ent.Value.(hashSet)
	var removed int
	for _, m := range members {
		if _, exist := s[m]; exist {
			delete(s, m)
			removed++
		}
	}
	if removed > 0 {
		db.removeIfEmpty(key, ent)
	}
	return removed, nil
}

// SMembers returns the members of key sorted lexicographically.
func (db *DB) SMembers(key string) ([]string, error) {
	ent, err := db.typedEntry(key, Set, false)
	if err != nil || ent == nil {
		return nil, err
	}
	return ent.Value.(hashSet).sortedKeys(), nil
}

func (db *DB) SIsMember(key, member string) (bool, error) {
	ent, err := db.typedEntry(key, Set, false)
	if err != nil || ent == nil {
		return false, err
	}
	_, exist := ent.Value.(hashSet)[member]
	return exist, nil
}

func (db *DB) SCard(key string) (int, error) {
	ent, err := db.typedEntry(key, Set, false)
	if err != nil || ent == nil {
		return 0, err
	}
	return len(ent.Value.(hashSet)), nil
}

// ---- Sorted set ----

// ZAdd inserts or repositions member. created reports a new member,
// updated reports an existing member whose score changed.
func (db *DB) ZAdd(key string, score float64, member string) (created, updated bool, err error) {
	ent, err := db.typedEntry(key, ZSet, true)
	if err != nil {
		return false, false, err
	}
	created, updated = ent.Value.(*sortedSet).add(member, score)
	return created, updated, nil
}

func (db *DB) ZRem(key string, members ...string) (int, error) {
	ent, err := db.typedEntry(key, ZSet, false)
	if err != nil || ent == nil {
		return 0, err
	}
	z := ent.Value.(*sortedSet)
	var removed int
	for _, m := range members {
		if z.remove(m) {
			removed++
		}
	}
	if removed > 0 {
		db.removeIfEmpty(key, ent)
	}
	return removed, nil
}

func (db *DB) ZScore(key, member string) (float64, bool, error) {
	ent, err := db.typedEntry(key, ZSet, false)
	if err != nil || ent == nil {
		return 0, false, err
	}
	score, exist := ent.Value.(*sortedSet).score(member)
	return score, exist, nil
}

// ZRange returns members of key ordered by (score, member) ascending
// within the inclusive rank window [start, stop].
func (db *DB) ZRange(key string, start, stop int64) ([]string, error) {
	ent, err := db.typedEntry(key, ZSet, false)
	if err != nil || ent == nil {
		return nil, err
	}
	return ent.Value.(*sortedSet).zrange(start, stop), nil
}

func (db *DB) ZCard(key string) (int, error) {
	ent, err := db.typedEntry(key, ZSet, false)
	if err != nil || ent == nil {
		return 0, err
	}
	return ent.Value.(*sortedSet).size(), nil
}

func (db *DB) ZCount(key string, min, max float64) (int, error) {
	ent, err := db.typedEntry(key, ZSet, false)
	if err != nil || ent == nil {
		return 0, err
	}
	return ent.Value.(*sortedSet).count(min, max), nil
}
