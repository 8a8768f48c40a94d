package mcp

import (
	"github.com/Vitor-VarelAI/threadsift/internal/core/ports/driving"
)

// PipelineFactory builds a pipeline for one run. concurrency <= 0 means the
// configured value.
type PipelineFactory func(concurrency int, progress func(done, total int)) driving.PipelineService

// Ports aggregates the driving ports the MCP server calls.
type Ports struct {
	// Pipeline runs search_posts.
	Pipeline PipelineFactory

	// Summary runs summarize_thread. Optional.
	Summary driving.SummaryService

	// Profile runs profile_post. Optional.
	Profile driving.ProfileService

	// History backs the history resource and records searches. Optional.
	History driving.HistoryService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Pipeline == nil {
		return ErrMissingPipelineService
	}
	return nil
}
