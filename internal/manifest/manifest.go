package manifest

import (
	"fmt"
	"sort"
)

// DefaultFileName is the manifest file looked up when no path is given.
const DefaultFileName = "ensemble.yaml"

// Manifest declares a named system: which components exist, which catalog
// type implements each, and how they depend on each other.
type Manifest struct {
	// Name identifies the system in logs and display output.
	Name string `yaml:"name"`

	// Vars holds values available to template expressions in the rest of
	// the document as {{ .Vars.key }}.
	Vars map[string]string `yaml:"vars,omitempty"`

	// Components maps component keys to their specifications.
	Components map[string]ComponentSpec `yaml:"components"`
}

// ComponentSpec describes a single component entry.
type ComponentSpec struct {
	// Type names the catalog builder that instantiates the component.
	Type string `yaml:"type"`

	// DependsOn lists the keys this component depends on. They must all
	// be declared in the same manifest.
	DependsOn []string `yaml:"dependsOn,omitempty"`

	// Args carries type-specific arguments passed to the builder.
	Args map[string]interface{} `yaml:"args,omitempty"`
}

// Keys returns the declared component keys in lexicographic order.
func (m *Manifest) Keys() []string {
	keys := make([]string, 0, len(m.Components))
	for key := range m.Components {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Validate checks the structural invariants the loader cannot express through
// decoding alone. Dependency resolution itself (missing keys, cycles) is the
// system's job; the manifest only guards its own shape.
func (m *Manifest) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("manifest: name is required")
	}
	if len(m.Components) == 0 {
		return fmt.Errorf("manifest %q: at least one component is required", m.Name)
	}
	for key, spec := range m.Components {
		if key == "" {
			return fmt.Errorf("manifest %q: component key cannot be empty", m.Name)
		}
		if spec.Type == "" {
			return fmt.Errorf("manifest %q: component %q: type is required", m.Name, key)
		}
		for _, dep := range spec.DependsOn {
			if dep == key {
				return fmt.Errorf("manifest %q: component %q cannot depend on itself", m.Name, key)
			}
		}
	}
	return nil
}
