// Package stores provides concrete cache store implementations
package stores

import (
	"sort"
	"sync"

	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/caching/interfaces"
	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/caching/types"
)

// MemoryStore keeps cache generations in process memory. It is the default
// store; snapshots do not survive a restart but the gateway degrades to
// network-only operation, which is acceptable by design.
type MemoryStore struct {
	mu          sync.RWMutex
	generations map[string]*memoryGeneration
}

// Interface assertion to ensure MemoryStore satisfies the store contract.
var _ interfaces.Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory cache store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		generations: make(map[string]*memoryGeneration),
	}
}

// Open returns the named generation, creating it if absent.
func (s *MemoryStore) Open(name string) (interfaces.Generation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gen, exists := s.generations[name]
	if !exists {
		gen = &memoryGeneration{
			name:    name,
			entries: make(map[string]*types.Entry),
		}
		s.generations[name] = gen
	}
	return gen, nil
}

// Names enumerates all existing generation names in sorted order.
func (s *MemoryStore) Names() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.generations))
	for name := range s.generations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes a whole generation and every entry it holds.
func (s *MemoryStore) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.generations, name)
	return nil
}

type memoryGeneration struct {
	name    string
	mu      sync.RWMutex
	entries map[string]*types.Entry
}

func (g *memoryGeneration) Name() string { return g.name }

func (g *memoryGeneration) Match(key string) (*types.Entry, bool, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	entry, exists := g.entries[key]
	if !exists {
		return nil, false, nil
	}
	return entry.Clone(), true, nil
}

func (g *memoryGeneration) Put(key string, entry *types.Entry) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.entries[key] = entry.Clone()
	return nil
}

func (g *memoryGeneration) Keys() ([]string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	keys := make([]string, 0, len(g.entries))
	for key := range g.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

func (g *memoryGeneration) Delete(key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.entries, key)
	return nil
}
