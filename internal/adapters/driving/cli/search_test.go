package cli

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vitor-VarelAI/threadsift/internal/core/domain"
)

func TestSearchCmd_Use(t *testing.T) {
	assert.Equal(t, "search [term]", searchCmd.Use)
	assert.Contains(t, searchCmd.Long, "pain point")
}

func TestSearchCmd_HasFlags(t *testing.T) {
	limit := searchCmd.Flags().Lookup("limit")
	require.NotNil(t, limit)
	assert.Equal(t, "n", limit.Shorthand)
	assert.Equal(t, "25", limit.DefValue)

	sub := searchCmd.Flags().Lookup("subreddit")
	require.NotNil(t, sub)
	assert.Equal(t, "s", sub.Shorthand)

	for _, name := range []string{"sort", "time", "concurrency", "days", "text-only", "intent", "json"} {
		assert.NotNil(t, searchCmd.Flags().Lookup(name), name)
	}
}

func TestSearchCmd_RequiresExactlyOneArg(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "search")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestSearchCmd_RendersResult(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "search", "learn go")
	require.NoError(t, err)

	assert.Contains(t, out, "[1] QUESTION 90%")
	assert.Contains(t, out, "How do I learn Go?")
	assert.Contains(t, out, "r/golang · u/gopher · 10 points · 4 comments · 2h ago")
	assert.Contains(t, out, "error: upstream(500)")
	assert.Contains(t, out, "2 posts: 1 classified, 1 failed, 0 pending")
	assert.Contains(t, out, "neutral · #learning #go")
	assert.Contains(t, out, "Sentiment: positive 0 · negative 0 · neutral 1")

	assert.Equal(t, "learn go", ts.pipeline.query.Term)
	assert.Equal(t, domain.ScopeKeyword, ts.pipeline.query.Scope)
	assert.Equal(t, 25, ts.pipeline.query.Limit)
	require.Len(t, ts.history.recorded, 1)
}

func TestSearchCmd_PassesQueryFlags(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "search", "r/golang", "-s", "-n", "10", "--sort", "TOP", "--time", "week", "-c", "8")
	require.NoError(t, err)

	q := ts.pipeline.query
	assert.Equal(t, "golang", q.Term)
	assert.Equal(t, domain.ScopeSubreddit, q.Scope)
	assert.Equal(t, 10, q.Limit)
	assert.Equal(t, domain.SortTop, q.Sort)
	assert.Equal(t, domain.TimeWeek, q.Time)
	assert.Equal(t, 8, ts.pipeline.concurrency)
}

func TestSearchCmd_FiltersResult(t *testing.T) {
	t.Run("by intent", func(t *testing.T) {
		_, cleanup := setupTestServices()
		defer cleanup()

		out, err := execute(t, "search", "go", "--intent", "question")
		require.NoError(t, err)
		assert.Contains(t, out, "How do I learn Go?")
		assert.NotContains(t, out, "Modules keep breaking")
	})

	t.Run("by age", func(t *testing.T) {
		_, cleanup := setupTestServices()
		defer cleanup()

		out, err := execute(t, "search", "go", "--days", "7")
		require.NoError(t, err)
		assert.NotContains(t, out, "Modules keep breaking")
	})

	t.Run("text only", func(t *testing.T) {
		_, cleanup := setupTestServices()
		defer cleanup()

		out, err := execute(t, "search", "go", "--text-only")
		require.NoError(t, err)
		assert.Contains(t, out, "How do I learn Go?")
		assert.NotContains(t, out, "Modules keep breaking")
	})

	t.Run("shows everything when filters match nothing", func(t *testing.T) {
		_, cleanup := setupTestServices()
		defer cleanup()

		out, err := execute(t, "search", "go", "--intent", "advice")
		require.NoError(t, err)
		assert.Contains(t, out, "No posts matched the filters; showing all 2 results.")
		assert.Contains(t, out, "How do I learn Go?")
		assert.Contains(t, out, "Modules keep breaking")
	})

	t.Run("unknown intent", func(t *testing.T) {
		_, cleanup := setupTestServices()
		defer cleanup()

		_, err := execute(t, "search", "go", "--intent", "rant")
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown intent "rant"`)
	})
}

func TestSearchCmd_JSON(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "search", "go", "--json")
	require.NoError(t, err)

	var res domain.PipelineResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "run-1", res.RunID)
	require.Len(t, res.Items, 2)
	assert.Equal(t, domain.StatusClassified, res.Items[0].Status)
}

func TestSearchCmd_Errors(t *testing.T) {
	t.Run("fetch failure is wrapped", func(t *testing.T) {
		ts, cleanup := setupTestServices()
		defer cleanup()
		ts.pipeline.result = nil
		ts.pipeline.err = &domain.BatchError{Stage: domain.StateFetching, Err: domain.ErrRateLimited}

		_, err := execute(t, "search", "go")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "search failed")
		assert.ErrorIs(t, err, domain.ErrRateLimited)
		assert.Empty(t, ts.history.recorded)
	})

	t.Run("invalid input is returned as is", func(t *testing.T) {
		ts, cleanup := setupTestServices()
		defer cleanup()
		ts.pipeline.result = nil
		ts.pipeline.err = domain.ErrInvalidInput

		_, err := execute(t, "search", "go")
		assert.Equal(t, domain.ErrInvalidInput, err)
	})

	t.Run("history failure is not fatal", func(t *testing.T) {
		ts, cleanup := setupTestServices()
		defer cleanup()
		ts.history.err = errors.New("disk full")

		_, err := execute(t, "search", "go")
		assert.NoError(t, err)
	})

	t.Run("no pipeline", func(t *testing.T) {
		_, cleanup := setupTestServices()
		defer cleanup()
		pipelineFactory = nil

		_, err := execute(t, "search", "go")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "pipeline service not configured")
	})
}

func TestSearchCmd_CancelledNote(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.pipeline.result.State = domain.StateCancelled

	out, err := execute(t, "search", "go")
	require.NoError(t, err)
	assert.Contains(t, out, "Cancelled before all posts were classified.")
}

func TestEllipsize(t *testing.T) {
	assert.Equal(t, "short", ellipsize("short", 10))
	assert.Equal(t, "abcd…", ellipsize("abcdefgh", 5))
	assert.Equal(t, "a b", ellipsize("a \n  b", 10))
}
