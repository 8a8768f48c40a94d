package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Vitor-VarelAI/threadsift/internal/core/domain"
)

var settingsJSON bool

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change settings stored in config.toml.

Keys are dotted, for example "pipeline.concurrency" or "reddit.mode".
Run "threadsift settings keys" for the full list.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> [value]",
	Short: "Set a single setting",
	Long: `Set a single dotted key. Secrets (API keys, passwords) are prompted
for without echo when the value is omitted.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSettingsSet,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List recognised setting keys",
	Args:  cobra.NoArgs,
	RunE:  runSettingsKeys,
}

var settingsLLMCmd = &cobra.Command{
	Use:   "llm <provider>",
	Short: "Configure the LLM provider",
	Long: `Select the LLM used for classification, summaries and profiles.

Providers:
  ollama     - local Ollama instance (no API key)
  openai     - OpenAI API (needs llm.api_key or OPENAI_API_KEY)
  anthropic  - Anthropic API (needs llm.api_key or ANTHROPIC_API_KEY)`,
	Args: cobra.ExactArgs(1),
	RunE: runSettingsLLM,
}

var settingsValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check settings and ping the LLM provider",
	Args:  cobra.NoArgs,
	RunE:  runSettingsValidate,
}

func init() {
	settingsCmd.PersistentFlags().BoolVar(&settingsJSON, "json", false, "output as JSON")
	settingsLLMCmd.Flags().String("model", "", "model name (default depends on provider)")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	settingsCmd.AddCommand(settingsLLMCmd)
	settingsCmd.AddCommand(settingsValidateCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNotConfigured("settings")
	}

	values, err := settingsService.Values()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if settingsJSON {
		return writeJSON(cmd, values)
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	st := newStyles(cmd.OutOrStdout())
	section := ""
	for _, k := range keys {
		group, name, _ := strings.Cut(k, ".")
		if group != section {
			if section != "" {
				cmd.Println()
			}
			cmd.Println(st.heading.Render("[" + group + "]"))
			section = group
		}
		v := values[k]
		if v == "" {
			v = st.muted.Render("(not set)")
		}
		cmd.Printf("  %s = %s\n", name, v)
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errNotConfigured("settings")
	}

	key := args[0]
	var value string
	if len(args) == 2 {
		value = args[1]
	} else {
		v, err := promptValue(cmd, key)
		if err != nil {
			return err
		}
		value = v
	}

	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	cmd.Printf("%s updated.\n", key)
	return nil
}

// promptValue reads a value from stdin, without echo for secret keys.
func promptValue(cmd *cobra.Command, key string) (string, error) {
	cmd.Printf("%s: ", key)

	fd := int(os.Stdin.Fd())
	if isSecretKey(key) && term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		cmd.Println()
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", key, err)
		}
		return strings.TrimSpace(string(b)), nil
	}

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading %s: %w", key, err)
	}
	return strings.TrimSpace(line), nil
}

func isSecretKey(key string) bool {
	return strings.HasSuffix(key, "api_key") ||
		strings.HasSuffix(key, "secret") ||
		strings.HasSuffix(key, "password")
}

func runSettingsKeys(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNotConfigured("settings")
	}
	keys := settingsService.Keys()
	if settingsJSON {
		return writeJSON(cmd, keys)
	}
	for _, k := range keys {
		cmd.Println(k)
	}
	return nil
}

func runSettingsLLM(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errNotConfigured("settings")
	}

	provider := domain.AIProvider(strings.ToLower(args[0]))
	if !provider.IsValid() {
		names := make([]string, 0, 3)
		for _, p := range domain.AllLLMProviders() {
			names = append(names, p.String())
		}
		return fmt.Errorf("unknown provider %q (want one of %s)", args[0], strings.Join(names, ", "))
	}

	model, err := cmd.Flags().GetString("model")
	if err != nil {
		return fmt.Errorf("getting model flag: %w", err)
	}
	if model == "" {
		model = domain.DefaultLLMModels()[provider]
	}

	if err := settingsService.SetLLMProvider(provider, model); err != nil {
		return fmt.Errorf("failed to set LLM provider: %w", err)
	}
	cmd.Printf("LLM provider set to %s (%s).\n", provider.Description(), model)
	if provider.RequiresAPIKey() {
		cmd.Println("Set the API key with: threadsift settings set llm.api_key")
	}
	return nil
}

func runSettingsValidate(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNotConfigured("settings")
	}

	var errs []error
	if err := settingsService.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := settingsService.ValidateLLMConfig(cmd.Context()); err != nil {
		errs = append(errs, fmt.Errorf("llm: %w", err))
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}
	cmd.Println("Settings OK.")
	return nil
}
