// Package manifest loads the YAML document that declares a system: its name,
// its components, the catalog type implementing each and the dependency keys
// between them.
//
// Loading is a three step pipeline: read the file, render it through
// text/template with the sprig function map (vars from the manifest's own
// vars block, environment via .Env), then strict-decode with yaml.v3 so
// unknown fields and duplicate keys fail loudly. Build turns a loaded
// manifest into the key->component map that system.New consumes.
package manifest
