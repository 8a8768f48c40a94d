package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Vitor-VarelAI/threadsift/internal/core/domain"
)

// defaultWidth is used when the output is not a terminal.
const defaultWidth = 100

// styles renders output. Colours are dropped automatically when the writer
// is not a colour terminal.
type styles struct {
	title   lipgloss.Style
	muted   lipgloss.Style
	heading lipgloss.Style
	errText lipgloss.Style
	intent  map[domain.Intent]lipgloss.Style
	width   int
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	intentStyle := func(color string) lipgloss.Style {
		return r.NewStyle().Bold(true).Foreground(lipgloss.Color(color))
	}
	return styles{
		title:   r.NewStyle().Bold(true),
		muted:   r.NewStyle().Foreground(lipgloss.Color("245")),
		heading: r.NewStyle().Bold(true).Underline(true),
		errText: r.NewStyle().Foreground(lipgloss.Color("196")),
		intent: map[domain.Intent]lipgloss.Style{
			domain.IntentQuestion:   intentStyle("39"),
			domain.IntentPainPoint:  intentStyle("203"),
			domain.IntentAdvice:     intentStyle("42"),
			domain.IntentDiscussion: intentStyle("214"),
			domain.IntentOther:      intentStyle("245"),
		},
		width: terminalWidth(w),
	}
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func terminalWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 20 {
			return width
		}
	}
	return defaultWidth
}

func writeJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

// renderResult prints a pipeline result as a numbered list followed by totals.
func renderResult(cmd *cobra.Command, res *domain.PipelineResult, now time.Time) {
	st := newStyles(cmd.OutOrStdout())

	if len(res.Items) == 0 {
		cmd.Println("No posts found.")
		return
	}

	for i, it := range res.Items {
		label := st.muted.Render(string(it.Status))
		switch {
		case it.Classification != nil:
			c := it.Classification
			label = st.intent[c.Intent].Render(strings.ToUpper(c.Intent.Description())) +
				st.muted.Render(fmt.Sprintf(" %.0f%%", c.Confidence*100))
		case it.Err != nil:
			label = st.errText.Render("error: " + it.Err.String())
		}

		cmd.Printf("[%d] %s  %s\n", i+1, label, st.muted.Render(postMeta(it.Post, now)))
		cmd.Printf("    %s\n", st.title.Render(ellipsize(it.Post.Title, st.width-4)))
		if it.Post.URL != "" {
			cmd.Printf("    %s\n", st.muted.Render(it.Post.URL))
		}
		if c := it.Classification; c != nil {
			if c.Rationale != "" {
				cmd.Printf("    %s\n", ellipsize(c.Rationale, st.width-4))
			}
			if tags := postTags(c); tags != "" {
				cmd.Printf("    %s\n", st.muted.Render(tags))
			}
		}
		cmd.Println()
	}

	renderTotals(cmd, st, res)
}

func renderTotals(cmd *cobra.Command, st styles, res *domain.PipelineResult) {
	counts := res.Counts()
	intents := res.IntentCounts()

	parts := make([]string, 0, len(domain.AllIntents()))
	for _, in := range domain.AllIntents() {
		if n := intents[in]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", st.intent[in].Render(in.Description()), n))
		}
	}
	cmd.Println(st.heading.Render("Summary"))
	if len(parts) > 0 {
		cmd.Printf("  %s\n", strings.Join(parts, " · "))
		cmd.Printf("  %s\n", sentimentLine(res.SentimentCounts()))
	}
	cmd.Printf("  %d posts: %d classified, %d failed, %d pending (%s)\n",
		len(res.Items),
		counts[domain.StatusClassified],
		counts[domain.StatusFailed],
		counts[domain.StatusPending],
		res.Duration().Round(time.Millisecond),
	)
	if res.State == domain.StateCancelled {
		cmd.Println(st.errText.Render("  Cancelled before all posts were classified."))
	}
}

// sentimentLine always lists positive, negative and neutral; mixed and
// unknown only when present.
func sentimentLine(counts map[domain.Sentiment]int) string {
	parts := []string{
		fmt.Sprintf("positive %d", counts[domain.SentimentPositive]),
		fmt.Sprintf("negative %d", counts[domain.SentimentNegative]),
		fmt.Sprintf("neutral %d", counts[domain.SentimentNeutral]),
	}
	for _, s := range []domain.Sentiment{domain.SentimentMixed, domain.SentimentUnknown} {
		if n := counts[s]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", s, n))
		}
	}
	return "Sentiment: " + strings.Join(parts, " · ")
}

// postTags renders a classification's sentiment and topics, e.g.
// "negative · #tooling #modules".
func postTags(c *domain.Classification) string {
	var parts []string
	if c.Sentiment != "" && c.Sentiment != domain.SentimentUnknown {
		parts = append(parts, string(c.Sentiment))
	}
	if len(c.Topics) > 0 {
		tags := make([]string, len(c.Topics))
		for i, t := range c.Topics {
			tags[i] = "#" + t
		}
		parts = append(parts, strings.Join(tags, " "))
	}
	return strings.Join(parts, " · ")
}

func postMeta(p domain.Post, now time.Time) string {
	meta := []string{"r/" + p.Subreddit}
	if p.Author != "" {
		meta = append(meta, "u/"+p.Author)
	}
	meta = append(meta,
		fmt.Sprintf("%d points", p.Score),
		fmt.Sprintf("%d comments", p.CommentCount),
	)
	if !p.CreatedAt.IsZero() {
		meta = append(meta, age(now.Sub(p.CreatedAt)))
	}
	return strings.Join(meta, " · ")
}

// age renders a duration the way Reddit does ("5m", "3h", "12d").
func age(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

// ellipsize shortens s to n runes for display.
func ellipsize(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if n <= 1 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
