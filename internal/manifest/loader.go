package manifest

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"text/template"

	"ensemble/pkg/logging"

	"github.com/Masterminds/sprig/v3"
	"gopkg.in/yaml.v3"
)

// templateData is the dot value available to template expressions in a
// manifest: the manifest's own vars plus the process environment.
type templateData struct {
	Vars map[string]string
	Env  map[string]string
}

// Load reads, templates and decodes a manifest file.
//
// The raw document is rendered through text/template with the sprig function
// map before decoding. The template data exposes {{ .Vars.x }} (the vars
// block of the manifest itself, read in a first untemplated pass) and
// {{ .Env.X }} (the process environment). Template expressions must therefore
// live inside quoted YAML scalars, so the first pass still parses.
//
// Decoding is strict: unknown fields and duplicate keys are errors.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}

	// First pass: pull the vars block out of the untemplated document.
	var varsOnly struct {
		Vars map[string]string `yaml:"vars"`
	}
	if err := yaml.Unmarshal(data, &varsOnly); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}

	rendered, err := render(path, data, templateData{
		Vars: varsOnly.Vars,
		Env:  environMap(),
	})
	if err != nil {
		return nil, err
	}

	m := &Manifest{}
	decoder := yaml.NewDecoder(bytes.NewReader(rendered))
	decoder.KnownFields(true)
	if err := decoder.Decode(m); err != nil {
		return nil, fmt.Errorf("decoding manifest %s: %w", path, err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}

	logging.Info("Manifest", "Loaded manifest %q with %d components from %s", m.Name, len(m.Components), path)
	return m, nil
}

func render(path string, data []byte, td templateData) ([]byte, error) {
	tmpl, err := template.New(path).
		Funcs(sprig.TxtFuncMap()).
		Option("missingkey=error").
		Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("parsing manifest templates in %s: %w", path, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, td); err != nil {
		return nil, fmt.Errorf("rendering manifest templates in %s: %w", path, err)
	}
	return buf.Bytes(), nil
}

func environMap() map[string]string {
	env := make(map[string]string)
	for _, entry := range os.Environ() {
		if key, value, ok := strings.Cut(entry, "="); ok {
			env[key] = value
		}
	}
	return env
}
