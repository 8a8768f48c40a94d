package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var summarizeJSON bool

var summarizeCmd = &cobra.Command{
	Use:     "summarize [url]",
	Aliases: []string{"summarise"},
	Short:   "Summarise a discussion thread",
	Long: `Extracts the readable content of a thread (or any web page) and asks
the LLM for a short summary of the question, the main replies and any
consensus.`,
	Args: cobra.ExactArgs(1),
	RunE: runSummarize,
}

func init() {
	summarizeCmd.Flags().BoolVar(&summarizeJSON, "json", false, "output the summary as JSON")
	rootCmd.AddCommand(summarizeCmd)
}

func runSummarize(cmd *cobra.Command, args []string) error {
	if summaryService == nil {
		return errNotConfigured("summary")
	}

	summary, err := summaryService.Summarize(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("summarize failed: %w", err)
	}

	if summarizeJSON {
		return writeJSON(cmd, summary)
	}

	st := newStyles(cmd.OutOrStdout())
	if summary.Title != "" {
		cmd.Println(st.heading.Render(summary.Title))
	}
	cmd.Println(st.muted.Render(summary.SourceURL))
	if md := summary.Metadata; md.WordCount > 0 {
		cmd.Println(st.muted.Render(fmt.Sprintf("%s · %d words · ~%d min read", md.Domain, md.WordCount, md.ReadingMinutes)))
	}
	cmd.Println()
	cmd.Println(summary.Text)
	if len(summary.MainTopics) > 0 {
		cmd.Println()
		cmd.Printf("%s %s\n", st.title.Render("Main topics:"), strings.Join(summary.MainTopics, ", "))
	}
	return nil
}
