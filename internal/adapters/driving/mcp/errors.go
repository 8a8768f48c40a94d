// Package mcp exposes threadsift to AI assistants over the Model Context
// Protocol. Assistants can search and classify posts, summarise a thread
// and profile a post's author.
package mcp

import "errors"

// ErrMissingPipelineService is returned when no pipeline is provided.
var ErrMissingPipelineService = errors.New("mcp: pipeline service is required")
