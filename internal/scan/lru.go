package scan

import (
	"container/list"
	"sync"

	"colorprobe/internal/discover"
	"colorprobe/internal/lang"
	"colorprobe/internal/syntax"

	"github.com/cespare/xxhash/v2"
)

type matchKey struct {
	Language lang.ID
	Dialect  string
	Options  discover.Options
	Backend  syntax.Backend
	Size     int
	Sum      uint64
}

func newMatchKey(id lang.ID, dialect string, opts discover.Options, backend syntax.Backend, doc string) matchKey {
	return matchKey{
		Language: id,
		Dialect:  dialect,
		Options:  opts,
		Backend:  backend,
		Size:     len(doc),
		Sum:      xxhash.Sum64String(doc),
	}
}

type lruEntry struct {
	key     matchKey
	matches []Match
}

// matchLRU maps document contents to their matches. Cached slices are shared
// and must not be modified by callers.
type matchLRU struct {
	mu       sync.Mutex
	capacity int
	ll       *list.List
	items    map[matchKey]*list.Element
}

func newMatchLRU(capacity int) *matchLRU {
	if capacity <= 0 {
		capacity = 1
	}
	return &matchLRU{
		capacity: capacity,
		ll:       list.New(),
		items:    make(map[matchKey]*list.Element, min(capacity, 1024)),
	}
}

func (c *matchLRU) Get(key matchKey) ([]Match, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return nil, false
	}
	c.ll.MoveToFront(elem)
	return elem.Value.(lruEntry).matches, true
}

func (c *matchLRU) Set(key matchKey, matches []Match) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		elem.Value = lruEntry{key: key, matches: matches}
		c.ll.MoveToFront(elem)
		return
	}

	c.items[key] = c.ll.PushFront(lruEntry{key: key, matches: matches})
	if c.ll.Len() <= c.capacity {
		return
	}

	back := c.ll.Back()
	if back == nil {
		return
	}
	delete(c.items, back.Value.(lruEntry).key)
	c.ll.Remove(back)
}

func (c *matchLRU) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}
