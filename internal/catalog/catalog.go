package catalog

import (
	"fmt"
	"sort"
	"sync"

	"ensemble/pkg/component"
)

// BuilderFunc instantiates a component of one registered type. The name is
// the key the component will be registered under; args carry the manifest's
// type-specific arguments.
type BuilderFunc func(name string, args map[string]interface{}) (component.Component, error)

// Catalog maps component type names to builders.
type Catalog struct {
	mu       sync.RWMutex
	builders map[string]BuilderFunc
}

// New creates a catalog with all built-in component types registered.
func New() *Catalog {
	c := &Catalog{
		builders: make(map[string]BuilderFunc),
	}
	// Built-ins cannot collide; ignore the duplicate checks.
	_ = c.Register("kvstore", func(name string, args map[string]interface{}) (component.Component, error) {
		return NewKVStore(name, args)
	})
	_ = c.Register("metrics", func(name string, args map[string]interface{}) (component.Component, error) {
		return NewMetrics(name, args)
	})
	_ = c.Register("httpserver", func(name string, args map[string]interface{}) (component.Component, error) {
		return NewHTTPServer(name, args)
	})
	_ = c.Register("watcher", func(name string, args map[string]interface{}) (component.Component, error) {
		return NewWatcher(name, args)
	})
	return c
}

// Register adds a builder under a type name.
func (c *Catalog) Register(typeName string, builder BuilderFunc) error {
	if builder == nil {
		return fmt.Errorf("cannot register nil builder")
	}
	if typeName == "" {
		return fmt.Errorf("builder has empty type name")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.builders[typeName]; exists {
		return fmt.Errorf("type %s already registered", typeName)
	}

	c.builders[typeName] = builder
	return nil
}

// Build instantiates a component of the given type. It satisfies
// manifest.Builder.
func (c *Catalog) Build(typeName, name string, args map[string]interface{}) (component.Component, error) {
	c.mu.RLock()
	builder, exists := c.builders[typeName]
	c.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("unknown component type %q (known: %v)", typeName, c.Types())
	}
	return builder(name, args)
}

// Types returns all registered type names in lexicographic order.
func (c *Catalog) Types() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	types := make([]string, 0, len(c.builders))
	for typeName := range c.builders {
		types = append(types, typeName)
	}
	sort.Strings(types)
	return types
}

// stringArg reads an optional string argument, falling back to def when the
// key is absent. A present value of the wrong type is an error.
func stringArg(args map[string]interface{}, key, def string) (string, error) {
	raw, ok := args[key]
	if !ok {
		return def, nil
	}
	value, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("argument %q must be a string, got %T", key, raw)
	}
	return value, nil
}

// stringsArg reads an optional list-of-strings argument.
func stringsArg(args map[string]interface{}, key string) ([]string, error) {
	raw, ok := args[key]
	if !ok {
		return nil, nil
	}
	list, ok := raw.([]interface{})
	if !ok {
		return nil, fmt.Errorf("argument %q must be a list of strings, got %T", key, raw)
	}
	values := make([]string, 0, len(list))
	for i, entry := range list {
		value, ok := entry.(string)
		if !ok {
			return nil, fmt.Errorf("argument %q[%d] must be a string, got %T", key, i, entry)
		}
		values = append(values, value)
	}
	return values, nil
}
