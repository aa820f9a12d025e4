package beadplot

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	cache "github.com/patrickmn/go-cache"
)

// SummaryCache keeps parsed summaries keyed by the content hash of the uploaded file.
type SummaryCache struct {
	c *cache.Cache
}

// NewSummaryCache returns a cache whose entries expire after ttl. A zero or
// negative ttl returns nil, which callers treat as caching disabled.
func NewSummaryCache(ttl time.Duration) *SummaryCache {
	if ttl <= 0 {
		return nil
	}
	return &SummaryCache{c: cache.New(ttl, 2*ttl)}
}

// Get returns the cached summary for key.
func (s *SummaryCache) Get(key string) (*Summary, bool) {
	if s == nil {
		return nil, false
	}
	v, ok := s.c.Get(key)
	if !ok {
		return nil, false
	}
	summary, ok := v.(*Summary)
	return summary, ok
}

// Put stores a summary under key.
func (s *SummaryCache) Put(key string, summary *Summary) {
	if s == nil {
		return
	}
	s.c.SetDefault(key, summary)
}

// Len returns the number of live entries.
func (s *SummaryCache) Len() int {
	if s == nil {
		return 0
	}
	return s.c.ItemCount()
}

// Flush drops every entry.
func (s *SummaryCache) Flush() {
	if s == nil {
		return
	}
	s.c.Flush()
}

// ContentKey hashes file content together with the column layout used to parse it.
func ContentKey(data []byte, cols SummaryColumns) string {
	h := sha256.New()
	h.Write(data)
	cols = cols.withDefaults()
	for _, group := range [][]string{cols.File, cols.StartIndex, cols.EndIndex, cols.BeadNumber, cols.IsTest} {
		h.Write([]byte{0})
		for _, c := range group {
			h.Write([]byte(c))
			h.Write([]byte{'|'})
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}
