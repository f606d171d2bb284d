package schema

import (
	"fmt"
	"sync"
)

var (
	mu       sync.RWMutex
	registry = make(map[string]*Schema)
)

// Register makes a named schema available to the refs of every schema.
// A name may be registered once.
func Register(s *Schema) error {
	if s == nil {
		return fmt.Errorf("cannot register nil schema")
	}
	if s.Name == "" {
		return fmt.Errorf("%w: a shared schema needs a name", ErrSchema)
	}
	mu.Lock()
	defer mu.Unlock()
	if _, ok := registry[s.Name]; ok {
		return fmt.Errorf("%w: schema %q already registered", ErrSchema, s.Name)
	}
	registry[s.Name] = s
	return nil
}

// LoadShared loads each schema file and registers it under its name,
// returning the registered names in order.  It stops at the first
// failure; schemas registered before it stay registered.
func LoadShared(paths ...string) ([]string, error) {
	names := make([]string, 0, len(paths))
	for _, path := range paths {
		s, err := Load(path)
		if err != nil {
			return names, err
		}
		if err := Register(s); err != nil {
			return names, fmt.Errorf("%s: %w", path, err)
		}
		names = append(names, s.Name)
	}
	return names, nil
}

// Lookup returns the registered schema called name, or nil.
func Lookup(name string) *Schema {
	mu.RLock()
	defer mu.RUnlock()
	return registry[name]
}
