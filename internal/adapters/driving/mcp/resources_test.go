package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vitor-VarelAI/threadsift/internal/core/domain"
)

func historyRequest() *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: historyURI}}
}

func TestServer_handleHistoryResource(t *testing.T) {
	ctx := context.Background()

	t.Run("lists entries", func(t *testing.T) {
		hist := &mockHistoryService{entries: []domain.HistoryEntry{
			{ID: 2, Term: "golang", Scope: domain.ScopeSubreddit, Limit: 25, ResultCount: 25, SearchedAt: time.Unix(100, 0).UTC()},
			{ID: 1, Term: "desk", Scope: domain.ScopeKeyword, Limit: 10, ResultCount: 4, SearchedAt: time.Unix(50, 0).UTC()},
		}}
		server, err := NewServer(&Ports{Pipeline: (&mockPipeline{}).factory(), History: hist})
		require.NoError(t, err)

		res, err := server.handleHistoryResource(ctx, historyRequest())
		require.NoError(t, err)
		require.Len(t, res.Contents, 1)
		assert.Equal(t, "application/json", res.Contents[0].MIMEType)

		var got []domain.HistoryEntry
		require.NoError(t, json.Unmarshal([]byte(res.Contents[0].Text), &got))
		require.Len(t, got, 2)
		assert.Equal(t, "golang", got[0].Term)
	})

	t.Run("no history service returns empty list", func(t *testing.T) {
		server, err := NewServer(&Ports{Pipeline: (&mockPipeline{}).factory()})
		require.NoError(t, err)

		res, err := server.handleHistoryResource(ctx, historyRequest())
		require.NoError(t, err)
		assert.Equal(t, "[]", res.Contents[0].Text)
	})

	t.Run("list error", func(t *testing.T) {
		hist := &mockHistoryService{err: errors.New("locked")}
		server, err := NewServer(&Ports{Pipeline: (&mockPipeline{}).factory(), History: hist})
		require.NoError(t, err)

		_, err = server.handleHistoryResource(ctx, historyRequest())
		assert.ErrorContains(t, err, "listing history")
	})
}
