package scoreclient

import (
	"sync"

	"github.com/iliyamo/golf-scorecard/internal/model"
)

// Key names one part of the cached scorecard.
type Key string

const (
	KeyRoom    Key = "room"
	KeyHoles   Key = "holes"
	KeyPlayers Key = "players"
)

var allKeys = []Key{KeyRoom, KeyHoles, KeyPlayers}

// Cache is the local copy of one room's scorecard.  Each key is either valid
// or invalidated; a read is served locally only while every key is valid.
// The data itself stays in place after invalidation so a UI can keep showing
// it until the refetch lands.
//
// Every local change (patch, restore, invalidation) bumps a generation
// number.  A fetch records the generation it started at and is only stored
// if nothing changed in between.
type Cache struct {
	mu    sync.Mutex
	data  model.RoomScore
	valid map[Key]bool
	gen   uint64
}

func NewCache() *Cache {
	return &Cache{valid: map[Key]bool{}}
}

// Snapshot is a deep copy of the cache taken before an optimistic patch.
type Snapshot struct {
	data  model.RoomScore
	valid map[Key]bool
}

// Get returns a copy of the data and whether all keys are valid.
func (c *Cache) Get() (model.RoomScore, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ok := true
	for _, k := range allKeys {
		ok = ok && c.valid[k]
	}
	return c.data.Clone(), ok
}

// Peek returns what is currently displayed, valid or not.
func (c *Cache) Peek() model.RoomScore {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data.Clone()
}

// Valid reports whether k holds server-confirmed data.
func (c *Cache) Valid(k Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.valid[k]
}

// Generation is the value to pass to Fill for a fetch starting now.
func (c *Cache) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// Fill stores a fetch that started at generation gen and marks every key
// valid.  If the cache changed since gen the fetch may predate a settled
// mutation; it is dropped and Fill returns false.
func (c *Cache) Fill(rs model.RoomScore, gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return false
	}
	c.data = rs.Clone()
	for _, k := range allKeys {
		c.valid[k] = true
	}
	return true
}

// Invalidate marks keys stale; with no arguments every key.
func (c *Cache) Invalidate(keys ...Key) {
	if len(keys) == 0 {
		keys = allKeys
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	for _, k := range keys {
		c.valid[k] = false
	}
}

func (c *Cache) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	valid := make(map[Key]bool, len(c.valid))
	for k, v := range c.valid {
		valid[k] = v
	}
	return Snapshot{data: c.data.Clone(), valid: valid}
}

// Restore puts a snapshot back, discarding every patch made since.
func (c *Cache) Restore(s Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.data = s.data.Clone()
	c.valid = make(map[Key]bool, len(s.valid))
	for k, v := range s.valid {
		c.valid[k] = v
	}
}

func (c *Cache) patch(fn func(rs *model.RoomScore)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	fn(&c.data)
}
