package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Vitor-VarelAI/threadsift/internal/core/domain"
)

const uriScheme = "threadsift://"

// historyURI lists recent searches.
const historyURI = uriScheme + "history"

func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         historyURI,
		Name:        "history",
		Description: "Recent searches, newest first",
		MIMEType:    "application/json",
	}, s.handleHistoryResource)
}

func (s *Server) handleHistoryResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	entries := []domain.HistoryEntry{}
	if s.ports.History != nil {
		list, err := s.ports.History.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing history: %w", err)
		}
		if list != nil {
			entries = list
		}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling history: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
