package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Vitor-VarelAI/threadsift/internal/core/domain"
)

var (
	profileTitle string
	profileBody  string
	profileID    string
	profileJSON  bool
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Read the author's mindset from a post",
	Long: `Asks the LLM for a psychographic reading of one post: the dominant
emotion, what the author believes, what they already tried, what they
think is blocking them and a revealing quote.`,
	Args: cobra.NoArgs,
	RunE: runProfile,
}

func init() {
	f := profileCmd.Flags()
	f.StringVar(&profileTitle, "title", "", "post title (required)")
	f.StringVar(&profileBody, "body", "", "post body")
	f.StringVar(&profileID, "id", "", "post id, echoed in the output")
	f.BoolVar(&profileJSON, "json", false, "output the profile as JSON")
	rootCmd.AddCommand(profileCmd)
}

func runProfile(cmd *cobra.Command, _ []string) error {
	if profileService == nil {
		return errNotConfigured("profile")
	}
	if strings.TrimSpace(profileTitle) == "" {
		return errors.New("--title is required")
	}

	p, err := profileService.Profile(cmd.Context(), domain.Post{ID: profileID, Title: profileTitle, Body: profileBody})
	if err != nil {
		return fmt.Errorf("profile failed: %w", err)
	}

	if profileJSON {
		return writeJSON(cmd, p)
	}

	st := newStyles(cmd.OutOrStdout())
	field := func(name, value string) {
		if value != "" {
			cmd.Printf("%s %s\n", st.title.Render(name+":"), value)
		}
	}
	list := func(name string, values []string) {
		if len(values) == 0 {
			return
		}
		cmd.Println(st.title.Render(name + ":"))
		for _, v := range values {
			cmd.Printf("  - %s\n", v)
		}
	}

	field("Emotion", p.Emotion)
	field("Core belief", p.CoreBelief)
	list("Attempted solutions", p.AttemptedSolutions)
	list("Perceived blockers", p.PerceivedBlockers)
	list("External forces", p.ExternalForces)
	if p.Quote != "" {
		cmd.Printf("%s %q\n", st.title.Render("Quote:"), p.Quote)
	}
	return nil
}
