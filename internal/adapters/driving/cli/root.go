// Package cli implements the threadsift command line.
// Commands are thin: they parse flags, call a driving port and render the result.
package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Vitor-VarelAI/threadsift/internal/core/ports/driving"
	"github.com/Vitor-VarelAI/threadsift/internal/logger"
)

// version is set by the linker or SetVersion.
var version = "dev"

// Options are the global flags, handed to the bootstrap function.
type Options struct {
	ConfigDir string
	Verbose   bool
	LogFormat string
}

// PipelineFactory builds a pipeline for one run. concurrency <= 0 means the
// configured value; progress may be nil.
type PipelineFactory func(concurrency int, progress func(done, total int)) driving.PipelineService

// Services are the driving ports the commands use. Any of them may be nil;
// commands that need a missing one fail with a clear message.
type Services struct {
	Pipeline PipelineFactory
	Summary  driving.SummaryService
	Profile  driving.ProfileService
	History  driving.HistoryService
	Settings driving.SettingsService

	// Close releases adapters (database, LLM clients). It may be nil.
	Close func() error
}

// Bootstrap wires services once global flags are known.
type Bootstrap func(ctx context.Context, opts Options) (*Services, error)

var (
	opts      Options
	bootstrap Bootstrap

	pipelineFactory PipelineFactory
	summaryService  driving.SummaryService
	profileService  driving.ProfileService
	historyService  driving.HistoryService
	settingsService driving.SettingsService
	closeServices   func() error
)

var rootCmd = &cobra.Command{
	Use:   "threadsift",
	Short: "Find what Reddit is asking, complaining about and recommending",
	Long: `threadsift fetches Reddit posts for a keyword or community, classifies
each post's intent with a language model (question, pain point, advice,
discussion, other) and summarises individual threads on demand.

Configuration lives in ~/.threadsift/config.toml; credentials may also come
from the environment or a .env file.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "enable debug logging")
	pf.StringVar(&opts.ConfigDir, "config-dir", "", "configuration directory (default ~/.threadsift)")
	pf.StringVar(&opts.LogFormat, "log-format", logger.FormatConsole, "log format: console or json")
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(opts.Verbose)
	logger.SetFormat(opts.LogFormat)

	if bootstrap == nil || cmd.Name() == "version" {
		return nil
	}
	svc, err := bootstrap(cmd.Context(), opts)
	if err != nil {
		return err
	}
	SetServices(svc)
	return nil
}

// SetVersion sets the version printed by "threadsift version".
func SetVersion(v string) {
	version = v
}

// SetBootstrap installs the function that wires services before a command runs.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetServices injects services directly.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	pipelineFactory = s.Pipeline
	summaryService = s.Summary
	profileService = s.Profile
	historyService = s.History
	settingsService = s.Settings
	closeServices = s.Close
}

// Execute runs the root command. Ctrl-C cancels the command's context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.SetOut(os.Stdout)
	err := rootCmd.ExecuteContext(ctx)
	if closeServices != nil {
		err = errors.Join(err, closeServices())
	}
	return err
}

// errNotConfigured reports a missing service.
func errNotConfigured(name string) error {
	return errors.New(name + " service not configured")
}
