package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Vitor-VarelAI/threadsift/internal/core/domain"
)

var (
	historyClear bool
	historyJSON  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent searches",
	Long: `Lists the most recent searches, newest first. Only the query is kept,
never the posts or their classifications.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "delete all history")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "output history as JSON")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return errNotConfigured("history")
	}

	if historyClear {
		if err := historyService.Clear(cmd.Context()); err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
		cmd.Println("History cleared.")
		return nil
	}

	entries, err := historyService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	if historyJSON {
		return writeJSON(cmd, entries)
	}
	if len(entries) == 0 {
		cmd.Println("No searches yet.")
		return nil
	}

	st := newStyles(cmd.OutOrStdout())
	now := time.Now()
	for _, e := range entries {
		term := e.Term
		if e.Scope == domain.ScopeSubreddit {
			term = "r/" + term
		}
		cmd.Printf("%s  %s\n", st.title.Render(term),
			st.muted.Render(fmt.Sprintf("%d/%d posts · %s", e.ResultCount, e.Limit, age(now.Sub(e.SearchedAt)))))
	}
	return nil
}
