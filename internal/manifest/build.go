package manifest

import (
	"fmt"

	"ensemble/pkg/component"
)

// Builder instantiates a component from a registered type name. The catalog
// implements it; the indirection keeps this package free of the catalog's
// component implementations.
type Builder interface {
	Build(typeName, name string, args map[string]interface{}) (component.Component, error)
}

// declarer is satisfied by components that embed component.Base, which is how
// dependsOn from the manifest reaches the component's declaration.
type declarer interface {
	Using(keys ...string) *component.Base
}

// Build instantiates every component of the manifest through the builder and
// applies each entry's dependsOn declaration. The result is ready to hand to
// system.New, which performs dependency resolution and ordering.
func Build(m *Manifest, builder Builder) (map[string]component.Component, error) {
	components := make(map[string]component.Component, len(m.Components))
	for _, key := range m.Keys() {
		spec := m.Components[key]
		comp, err := builder.Build(spec.Type, key, spec.Args)
		if err != nil {
			return nil, fmt.Errorf("building component %q: %w", key, err)
		}
		if len(spec.DependsOn) > 0 {
			decl, ok := comp.(declarer)
			if !ok {
				return nil, fmt.Errorf("component %q (type %q) does not accept dependency declarations", key, spec.Type)
			}
			decl.Using(spec.DependsOn...)
		}
		components[key] = comp
	}
	return components, nil
}
