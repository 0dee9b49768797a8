package datasource

import (
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/yourusername/pitwall/internal/metrics"
	"github.com/yourusername/pitwall/internal/models"
)

// Cache keeps recently loaded sessions in memory
type Cache struct {
	store *cache.Cache
}

// NewCache creates a cache whose entries expire after ttl. A ttl of zero or
// less keeps entries until the process exits.
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		return &Cache{store: cache.New(cache.NoExpiration, 0)}
	}
	return &Cache{store: cache.New(ttl, 2*ttl)}
}

func raceKey(season int, circuitID string) string {
	return fmt.Sprintf("race:%d:%s", season, circuitID)
}

func qualifyingKey(season int, circuitID string) string {
	return fmt.Sprintf("qualifying:%d:%s", season, circuitID)
}

// Race returns a cached race
func (c *Cache) Race(season int, circuitID string) (*models.Race, bool) {
	v, ok := c.store.Get(raceKey(season, circuitID))
	metrics.RecordCacheLookup(ok)
	if !ok {
		return nil, false
	}
	return v.(*models.Race), true
}

// SetRace caches a race
func (c *Cache) SetRace(race *models.Race) {
	c.store.SetDefault(raceKey(race.Season, race.Circuit.ID), race)
}

// Qualifying returns a cached qualifying session
func (c *Cache) Qualifying(season int, circuitID string) (*models.QualifyingSession, bool) {
	v, ok := c.store.Get(qualifyingKey(season, circuitID))
	metrics.RecordCacheLookup(ok)
	if !ok {
		return nil, false
	}
	return v.(*models.QualifyingSession), true
}

// SetQualifying caches a qualifying session
func (c *Cache) SetQualifying(session *models.QualifyingSession) {
	c.store.SetDefault(qualifyingKey(session.Season, session.Circuit.ID), session)
}

// Flush removes every entry
func (c *Cache) Flush() {
	c.store.Flush()
}

// Len returns the number of cached entries
func (c *Cache) Len() int {
	return c.store.ItemCount()
}
