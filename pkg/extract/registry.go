package extract

import (
	"fmt"
	"sort"
	"sync"
)

// The registry maps schema identifiers to their schema and optional
// per-schema adapter hook. The generic pipeline never branches on a schema
// name directly; anything type-specific lives behind the registered hook.

type registration struct {
	schema  *Schema
	adapter AdapterFunc
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]registration)
)

// Register installs a schema (and optionally its adapter hook) under the
// schema's name. Registering the same name twice replaces the earlier entry,
// which keeps RegisterAll-style helpers safe to call more than once.
func Register(s *Schema, adapter AdapterFunc) error {
	if s == nil {
		return fmt.Errorf("extract: cannot register nil schema")
	}
	if err := s.Validate(); err != nil {
		return err
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[s.Name] = registration{schema: s, adapter: adapter}
	return nil
}

// MustRegister panics on a bad schema definition. Intended for package init
// blocks where a bad definition is a programming error.
func MustRegister(s *Schema, adapter AdapterFunc) {
	if err := Register(s, adapter); err != nil {
		panic(err)
	}
}

// Lookup fetches a registered schema and its adapter hook by name.
func Lookup(name string) (*Schema, AdapterFunc, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	reg, ok := registry[name]
	if !ok {
		return nil, nil, false
	}
	return reg.schema, reg.adapter, true
}

// RegisteredSchemas lists the registered schema names in sorted order.
func RegisteredSchemas() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
