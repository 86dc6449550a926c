package services

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	gocache "github.com/patrickmn/go-cache"

	"tripweaver/internal/config"
	"tripweaver/internal/models"
)

// ResearchCache memoises research corpora by trip intent. Entries expire on
// a TTL and the cache flushes wholesale once the entry ceiling is reached.
// Hits and stores both deep copy, so cached corpora are never aliased by
// later pipeline stages.
type ResearchCache struct {
	store      *gocache.Cache
	maxEntries int
}

func NewResearchCache(cfg config.CacheConfig) *ResearchCache {
	return &ResearchCache{
		store:      gocache.New(cfg.ResearchTTL, cfg.ResearchTTL),
		maxEntries: cfg.ResearchEntries,
	}
}

// Key derives the cache key from the canonical JSON form of the intent,
// partitioned by tenant so co-hosted tenants never share research results.
func (cache *ResearchCache) Key(tenant string, intent models.TripIntent) string {
	canonical, err := json.Marshal(intent)
	if err != nil {
		return ""
	}
	digest := sha256.Sum256(canonical)
	return tenant + ":" + hex.EncodeToString(digest[:])
}

// Get returns a deep copy of the cached corpus for the key, if present.
func (cache *ResearchCache) Get(key string) (models.ResearchCorpus, bool) {
	if key == "" {
		return models.ResearchCorpus{}, false
	}
	cached, found := cache.store.Get(key)
	if !found {
		return models.ResearchCorpus{}, false
	}
	corpus, ok := cached.(models.ResearchCorpus)
	if !ok {
		return models.ResearchCorpus{}, false
	}
	return copyCorpus(corpus), true
}

// Set stores a deep copy of the corpus under the key.
func (cache *ResearchCache) Set(key string, corpus models.ResearchCorpus) {
	if key == "" {
		return
	}
	if cache.maxEntries > 0 && cache.store.ItemCount() >= cache.maxEntries {
		cache.store.Flush()
	}
	cache.store.SetDefault(key, copyCorpus(corpus))
}

// Clear drops every cached corpus.
func (cache *ResearchCache) Clear() {
	cache.store.Flush()
}

func copyCorpus(corpus models.ResearchCorpus) models.ResearchCorpus {
	copied := models.ResearchCorpus{
		Lodgings:    copyItems(corpus.Lodgings),
		Dining:      copyItems(corpus.Dining),
		Experiences: copyItems(corpus.Experiences),
		Other:       copyItems(corpus.Other),
	}
	return copied
}

func copyItems(items []models.ResearchItem) []models.ResearchItem {
	if items == nil {
		return nil
	}
	copied := make([]models.ResearchItem, len(items))
	for i, item := range items {
		copied[i] = item
		copied[i].Highlights = append([]string(nil), item.Highlights...)
		copied[i].Tags = append([]string(nil), item.Tags...)
		if item.Place != nil {
			place := *item.Place
			place.Types = append([]string(nil), item.Place.Types...)
			copied[i].Place = &place
		}
	}
	return copied
}
