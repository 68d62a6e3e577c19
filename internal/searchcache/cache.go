package searchcache

import (
	"sync"

	"github.com/christianbooksai/companion/internal/models"
)

// Cache remembers the most recent search so navigating back from a book
// page does not trigger another completion. It holds a single entry.
type Cache struct {
	mu    sync.Mutex
	query string
	data  *models.SearchResponse
}

func New() *Cache {
	return &Cache{}
}

// Set overwrites the cached entry unconditionally
func (c *Cache) Set(query string, data *models.SearchResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.query = query
	c.data = data
}

// Get returns the cached query and response; data is nil when empty
func (c *Cache) Get() (string, *models.SearchResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query, c.data
}

// IsCached reports whether query exactly matches the cached one and a
// response is present
func (c *Cache) IsCached(query string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data != nil && c.query == query
}

func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.query = ""
	c.data = nil
}
