package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Vitor-VarelAI/threadsift/internal/core/domain"
	"github.com/Vitor-VarelAI/threadsift/internal/logger"
)

var (
	searchSubreddit   bool
	searchLimit       int
	searchSort        string
	searchTime        string
	searchConcurrency int
	searchDays        int
	searchTextOnly    bool
	searchIntent      string
	searchJSON        bool
)

var searchCmd = &cobra.Command{
	Use:   "search [term]",
	Short: "Fetch and classify Reddit posts",
	Long: `Fetches one page of Reddit posts for a keyword (or a community with
--subreddit) and classifies each post's intent: question, pain point,
advice, discussion or other.

Classification needs an LLM provider; without one posts are listed
unclassified. Press Ctrl-C to stop early and keep what is done.

Examples:
  threadsift search "standing desk"
  threadsift search golang --subreddit --sort top --time week
  threadsift search "note taking app" --intent pain_point --days 30`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	f := searchCmd.Flags()
	f.BoolVarP(&searchSubreddit, "subreddit", "s", false, "treat the term as a community name")
	f.IntVarP(&searchLimit, "limit", "n", domain.DefaultQueryLimit, "maximum number of posts (1-100)")
	f.StringVar(&searchSort, "sort", string(domain.SortNew), "sort order: new, relevance, hot, top, comments")
	f.StringVar(&searchTime, "time", string(domain.TimeAll), "time window: hour, day, week, month, year, all")
	f.IntVarP(&searchConcurrency, "concurrency", "c", 0, "parallel classifications (0 = configured)")
	f.IntVar(&searchDays, "days", 0, "only show posts from the last N days")
	f.BoolVar(&searchTextOnly, "text-only", false, "only show posts with body text")
	f.StringVar(&searchIntent, "intent", "", "only show posts with this intent")
	f.BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if pipelineFactory == nil {
		return errNotConfigured("pipeline")
	}

	filter := domain.ResultFilter{MaxAgeDays: searchDays, TextOnly: searchTextOnly}
	if searchIntent != "" {
		intent, ok := domain.ParseIntent(searchIntent)
		if !ok {
			return fmt.Errorf("unknown intent %q (want one of %s)", searchIntent, intentNames())
		}
		filter.Intent = intent
	}

	scope := domain.ScopeKeyword
	if searchSubreddit {
		scope = domain.ScopeSubreddit
	}
	q := domain.NewSearchQuery(args[0], scope, searchLimit).
		WithSort(domain.SortOrder(strings.ToLower(searchSort))).
		WithTime(domain.TimeWindow(strings.ToLower(searchTime)))

	var progress func(done, total int)
	errOut := cmd.ErrOrStderr()
	if !searchJSON && isTerminal(errOut) {
		progress = func(done, total int) {
			fmt.Fprintf(errOut, "\rClassifying %d/%d", done, total)
			if done == total {
				fmt.Fprint(errOut, "\r\033[K")
			}
		}
	}

	ctx := cmd.Context()
	res, err := pipelineFactory(searchConcurrency, progress).Run(ctx, q)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return err
		}
		return fmt.Errorf("search failed: %w", err)
	}

	if historyService != nil {
		if err := historyService.Record(ctx, q, len(res.Items)); err != nil {
			logger.Warn("Could not record search history: %v", err)
		}
	}

	now := time.Now()
	res, fellBack := res.FilterOrAll(filter, now)
	if fellBack {
		cmd.PrintErrf("No posts matched the filters; showing all %d results.\n", len(res.Items))
	}

	if searchJSON {
		return writeJSON(cmd, res)
	}
	renderResult(cmd, res, now)
	return nil
}

func intentNames() string {
	names := make([]string, 0, len(domain.AllIntents()))
	for _, in := range domain.AllIntents() {
		names = append(names, in.String())
	}
	return strings.Join(names, ", ")
}
