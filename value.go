package hexagondb

import (
	"bytes"
	"sort"

	"github.com/google/btree"
)

// DataType marks which variant an Entry holds.
type DataType = byte

const (
	String DataType = iota + 1
	List
	Hash
	Set
	ZSet
)

// TypeName returns the textual name used by the TYPE command.
func TypeName(t DataType) string {
	switch t {
	case String:
		return "string"
	case List:
		return "list"
	case Hash:
		return "hash"
	case Set:
		return "set"
	case ZSet:
		return "zset"
	}
	return "none"
}

// quickList is the List variant: an ordered sequence of byte strings.
type quickList struct {
	vals [][]byte
}

func newQuickList() *quickList {
	return &quickList{}
}

func (l *quickList) lpush(vals ...[]byte) int {
	// 头插：新元素整体放在队头，保持参数顺序（先到的离头更远）
	for _, v := range vals {
		l.vals = append([][]byte{v}, l.vals...)
	}
	return len(l.vals)
}

func (l *quickList) rpush(vals ...[]byte) int {
	l.vals = append(l.vals, vals...)
	return len(l.vals)
}

func (l *quickList) lpop() ([]byte, bool) {
	if len(l.vals) == 0 {
		return nil, false
	}
	v := l.vals[0]
	l.vals = l.vals[1:]
	return v, true
}

func (l *quickList) rpop() ([]byte, bool) {
	if len(l.vals) == 0 {
		return nil, false
	}
	v := l.vals[len(l.vals)-1]
	l.vals = l.vals[:len(l.vals)-1]
	return v, true
}

func (l *quickList) size() int {
	return len(l.vals)
}

// lrange returns the inclusive [start, stop] slice, negative indexes
// counting from the tail the way redis does.
func (l *quickList) lrange(start, stop int64) [][]byte {
	begin, end, ok := normalizeRange(start, stop, int64(len(l.vals)))
	if !ok {
		return nil
	}
	out := make([][]byte, 0, end-begin+1)
	for i := begin; i <= end; i++ {
		out = append(out, l.vals[i])
	}
	return out
}

// hashMap is the Hash variant: field -> value, field uniqueness by map key.
type hashMap map[string][]byte

// hashSet is the Set variant.
type hashSet map[string]struct{}

// sortedKeys returns the map keys in lexicographic order so listing
// replies are deterministic.
func (s hashSet) sortedKeys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// sortedSet is the ZSet variant: member->score plus a btree ordered by
// (score, member) for range queries. Ties on score break
// lexicographically on member, which is the documented ZRANGE rule.
type sortedSet struct {
	members map[string]float64
	index   *btree.BTree
}

type zsetItem struct {
	member string
	score  float64
}

func (a *zsetItem) Less(b btree.Item) bool {
	other := b.(*zsetItem)
	if a.score != other.score {
		return a.score < other.score
	}
	return bytes.Compare([]byte(a.member), []byte(other.member)) == -1
}

func newSortedSet() *sortedSet {
	return &sortedSet{
		members: make(map[string]float64),
		index:   btree.New(32),
	}
}

// add inserts or updates a member. created means the member is new,
// updated means an existing member moved to a different score; a
// same-score re-add reports neither.
func (z *sortedSet) add(member string, score float64) (created, updated bool) {
	old, exist := z.members[member]
	if exist {
		if old == score {
			return false, false
		}
		// 分数变化需要先摘掉旧的索引项
		z.index.Delete(&zsetItem{member: member, score: old})
		z.members[member] = score
		z.index.ReplaceOrInsert(&zsetItem{member: member, score: score})
		return false, true
	}
	z.members[member] = score
	z.index.ReplaceOrInsert(&zsetItem{member: member, score: score})
	return true, false
}

func (z *sortedSet) remove(member string) bool {
	score, exist := z.members[member]
	if !exist {
		return false
	}
	delete(z.members, member)
	z.index.Delete(&zsetItem{member: member, score: score})
	return true
}

func (z *sortedSet) score(member string) (float64, bool) {
	score, exist := z.members[member]
	return score, exist
}

func (z *sortedSet) size() int {
	return len(z.members)
}

// zrange walks the order index ascending and keeps the inclusive
// [start, stop] window, negative indexes counting from the tail.
func (z *sortedSet) zrange(start, stop int64) []string {
	begin, end, ok := normalizeRange(start, stop, int64(len(z.members)))
	if !ok {
		return nil
	}
	out := make([]string, 0, end-begin+1)
	var idx int64
	z.index.Ascend(func(it btree.Item) bool {
		if idx > end {
			return false
		}
		if idx >= begin {
			out = append(out, it.(*zsetItem).member)
		}
		idx++
		return true
	})
	return out
}

func (z *sortedSet) count(min, max float64) int {
	var n int
	z.index.AscendGreaterOrEqual(&zsetItem{score: min}, func(it btree.Item) bool {
		if it.(*zsetItem).score > max {
			return false
		}
		n++
		return true
	})
	return n
}

// normalizeRange resolves redis-style inclusive ranges against a
// sequence of the given length. ok is false when the window is empty.
func normalizeRange(start, stop, length int64) (int64, int64, bool) {
	if length == 0 {
		return 0, 0, false
	}
	if start < 0 {
		start = length + start
		if start < 0 {
			start = 0
		}
	}
	if stop < 0 {
		stop = length + stop
	}
	if stop >= length {
		stop = length - 1
	}
	if start > stop || start >= length {
		return 0, 0, false
	}
	return start, stop, true
}
