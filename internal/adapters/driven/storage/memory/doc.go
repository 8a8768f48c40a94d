// Package memory provides in-memory implementations of the driven stores:
// the classification cache, session search history and a config store for tests.
package memory
