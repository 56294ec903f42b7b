package presentation

import "sync"

// ProgramCache stores compiled programs keyed by engine and expression.
type ProgramCache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}

type memoryProgramCache struct {
	mu       sync.RWMutex
	programs map[string]any
}

// NewProgramCache returns a goroutine safe in-memory ProgramCache.
func NewProgramCache() ProgramCache {
	return &memoryProgramCache{programs: map[string]any{}}
}

func (c *memoryProgramCache) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	value, ok := c.programs[key]
	return value, ok
}

func (c *memoryProgramCache) Set(key string, value any) {
	c.mu.Lock()
	c.programs[key] = value
	c.mu.Unlock()
}

func cacheKey(engine, expression string) string {
	return engine + ":" + expression
}
