package extract

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// Cache memoises extraction results keyed by schema identity and raw input.
// Entries are stored msgpack-encoded so cached results cannot alias mutable
// state held by callers. Eviction is FIFO once maxEntries is reached.
type Cache struct {
	mu         sync.Mutex
	entries    map[string][]byte
	order      []string
	maxEntries int
}

const defaultCacheSize = 256

// NewCache returns a cache holding at most maxEntries results. A
// non-positive maxEntries falls back to the default capacity.
func NewCache(maxEntries int) *Cache {
	if maxEntries <= 0 {
		maxEntries = defaultCacheSize
	}
	return &Cache{
		entries:    make(map[string][]byte, maxEntries),
		maxEntries: maxEntries,
	}
}

func cacheKey(schemaName, schemaVersion, raw string) string {
	h := sha256.New()
	h.Write([]byte(schemaName))
	h.Write([]byte{0})
	h.Write([]byte(schemaVersion))
	h.Write([]byte{0})
	h.Write([]byte(raw))
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the cached result for the given schema and raw input, if any.
func (c *Cache) Get(schemaName, schemaVersion, raw string) (*Result, bool) {
	if c == nil {
		return nil, false
	}
	key := cacheKey(schemaName, schemaVersion, raw)

	c.mu.Lock()
	buf, ok := c.entries[key]
	c.mu.Unlock()
	if !ok {
		return nil, false
	}

	var res Result
	if err := msgpack.Unmarshal(buf, &res); err != nil {
		// A corrupt entry is treated as a miss and dropped.
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}
	if m, ok := normalizeNumbers(res.Value).(map[string]any); ok {
		res.Value = m
	}
	return &res, true
}

// Put stores res for the given schema and raw input.
func (c *Cache) Put(schemaName, schemaVersion, raw string, res *Result) {
	if c == nil || res == nil {
		return
	}
	buf, err := msgpack.Marshal(res)
	if err != nil {
		return
	}
	key := cacheKey(schemaName, schemaVersion, raw)

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[key]; !exists {
		for len(c.order) >= c.maxEntries {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.entries, oldest)
		}
		c.order = append(c.order, key)
	}
	c.entries[key] = buf
}

// Len reports the number of cached entries.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// normalizeNumbers rewrites msgpack-decoded values so numbers come back as
// float64 and maps as map[string]any, matching what encoding/json produces.
func normalizeNumbers(v any) any {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int8:
		return float64(n)
	case int16:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case uint:
		return float64(n)
	case uint8:
		return float64(n)
	case uint16:
		return float64(n)
	case uint32:
		return float64(n)
	case uint64:
		return float64(n)
	case float32:
		return float64(n)
	case []any:
		for i := range n {
			n[i] = normalizeNumbers(n[i])
		}
		return n
	case map[string]any:
		for k := range n {
			n[k] = normalizeNumbers(n[k])
		}
		return n
	case map[any]any:
		out := make(map[string]any, len(n))
		for k, e := range n {
			ks, ok := k.(string)
			if !ok {
				continue
			}
			out[ks] = normalizeNumbers(e)
		}
		return out
	default:
		return v
	}
}
