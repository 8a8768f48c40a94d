// Package html turns fetched HTML pages into readable plain text.
// It is the fallback used when article extraction finds no main content.
package html
