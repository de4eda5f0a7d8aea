package search

import (
	"container/list"
	"sync"

	"github.com/hyperjump/verso/internal/corpus"
	"github.com/hyperjump/verso/internal/matcher"
)

// matchCache is an LRU cache of unlimited approximate match lists keyed by
// translation, query and scope. Entries remember the corpus index they were
// computed from, so a swapped corpus turns them into misses.
type matchCache struct {
	capacity int
	cache    map[string]*list.Element
	lru      *list.List
	mu       sync.Mutex
}

type cacheEntry struct {
	key     string
	index   *corpus.Index
	matches []matcher.Match
}

func newMatchCache(capacity int) *matchCache {
	if capacity <= 0 {
		return nil
	}
	return &matchCache{
		capacity: capacity,
		cache:    make(map[string]*list.Element),
		lru:      list.New(),
	}
}

func cacheKey(translation, query, scope string) string {
	return translation + "\x00" + query + "\x00" + scope
}

// get returns the matches cached for key if they were computed from idx.
func (c *matchCache) get(key string, idx *corpus.Index) ([]matcher.Match, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.cache[key]
	if !ok {
		return nil, false
	}
	entry := elem.Value.(*cacheEntry)
	if entry.index != idx {
		c.lru.Remove(elem)
		delete(c.cache, key)
		return nil, false
	}
	c.lru.MoveToFront(elem)
	return entry.matches, true
}

// set stores matches for key, evicting the least recently used entry if at capacity.
func (c *matchCache) set(key string, idx *corpus.Index, matches []matcher.Match) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.cache[key]; ok {
		c.lru.MoveToFront(elem)
		entry := elem.Value.(*cacheEntry)
		entry.index = idx
		entry.matches = matches
		return
	}

	elem := c.lru.PushFront(&cacheEntry{key: key, index: idx, matches: matches})
	c.cache[key] = elem

	if c.lru.Len() > c.capacity {
		oldest := c.lru.Back()
		if oldest != nil {
			c.lru.Remove(oldest)
			delete(c.cache, oldest.Value.(*cacheEntry).key)
		}
	}
}

func (c *matchCache) len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}
