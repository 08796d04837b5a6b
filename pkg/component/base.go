package component

// Base carries a component's dependency-key declaration. Embed it to get
// Dependencies for free:
//
//	type Cache struct {
//		component.Base
//		client *redis.Client
//	}
//
//	c := &Cache{Base: component.NewBase("db")}
//
// Base holds no other state; lifecycle state lives in the orchestrator.
type Base struct {
	deps []string
}

// NewBase returns a Base declaring the given dependency keys. The slice is
// copied so the caller cannot mutate the declaration afterwards.
func NewBase(deps ...string) Base {
	return Base{deps: append([]string(nil), deps...)}
}

// Using replaces the declared dependency keys and returns the receiver so
// declarations can chain. Call it before the component is handed to a system;
// the orchestrator snapshots declarations at construction.
func (b *Base) Using(keys ...string) *Base {
	b.deps = append([]string(nil), keys...)
	return b
}

// Dependencies returns a copy of the declared dependency keys.
func (b *Base) Dependencies() []string {
	return append([]string(nil), b.deps...)
}
