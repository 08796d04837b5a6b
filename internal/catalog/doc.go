// Package catalog provides the registry of built-in component types a
// manifest can instantiate, and the built-ins themselves.
//
// The registry maps type names to builder functions; Register accepts
// additional types, so embedding applications can extend the catalog before
// building a manifest. Built-in types:
//
//   - kvstore: a badger-backed key-value store, in-memory or on disk
//   - metrics: a prometheus registry with lifecycle counters and an HTTP
//     handler for scraping
//   - httpserver: a chi-based admin endpoint with health probes, a JSON
//     system view and the metrics handler of any metrics dependency
//   - watcher: an fsnotify path watcher publishing change notifications
//
// Each built-in embeds component.Base, so a manifest's dependsOn reaches it
// through the standard Using declaration.
package catalog
