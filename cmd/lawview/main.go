package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/kk-code-lab/lawview/internal/config"
	"github.com/kk-code-lab/lawview/internal/search"
)

var version = "0.1.0"

var log = commonlog.GetLogger("lawview")

// logsOnStderr is set when errors logged by commonlog already reach the user.
var logsOnStderr bool

// globalOptions are the flags shared by every command.
type globalOptions struct {
	configPath string
	logFile    string
	verbose    int
	pinPolicy  string
	regex      bool
}

func main() {
	// Set UTF-8 as fallback encoding so statute text displays on terminals
	// with an unknown charset.
	tcell.SetEncodingFallback(tcell.EncodingFallbackUTF8)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		log.Errorf("%s", err)
		if !logsOnStderr {
			fmt.Fprintf(os.Stderr, "lawview: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	view := &viewOptions{global: opts}

	rootCmd := &cobra.Command{
		Use:   "lawview [document]",
		Short: "Read and search structured legal documents",
		Long: `lawview renders a legal document (chapters, articles and annotated
paragraphs stored as JSON) as a navigable, searchable view.

Without a subcommand the document is opened in the interactive viewer.
The document may be a local path or an http(s) URL.`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			configureLogging(opts, cmd.Name() == "view" || cmd == cmd.Root())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runView(cmd, view, args[0])
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/lawview/config.yaml)")
	flags.StringVar(&opts.logFile, "log-file", "", "write logs to this file")
	flags.CountVarP(&opts.verbose, "verbose", "v", "increase log verbosity (repeatable)")
	flags.StringVar(&opts.pinPolicy, "pin-policy", "", "annotation pinning: toggle or exclusive")
	flags.BoolVar(&opts.regex, "regex", false, "interpret queries as regular expressions")

	view.bindFlags(rootCmd)

	rootCmd.AddCommand(viewCmd(opts))
	rootCmd.AddCommand(exportCmd(opts))
	rootCmd.AddCommand(searchCmd(opts))
	rootCmd.AddCommand(tocCmd())
	return rootCmd
}

// configureLogging sends logs to --log-file. The interactive viewer owns the
// terminal, so without a file its logs are discarded instead of written to
// stderr.
func configureLogging(opts *globalOptions, interactive bool) {
	switch {
	case opts.logFile != "":
		commonlog.Configure(opts.verbose, &opts.logFile)
	case interactive:
		devNull := os.DevNull
		commonlog.Configure(opts.verbose, &devNull)
	default:
		commonlog.Configure(opts.verbose, nil)
		logsOnStderr = true
	}
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(opts *globalOptions) (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if opts.configPath != "" {
		cfg, err = config.Load(opts.configPath)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		return config.Config{}, err
	}

	if opts.pinPolicy != "" {
		policy, err := config.ParsePinPolicy(opts.pinPolicy)
		if err != nil {
			return config.Config{}, err
		}
		cfg.PinPolicy = policy
	}
	if opts.regex {
		cfg.SearchMode = search.ModeRegex.String()
	}
	log.Debugf("config: pin=%s mode=%s toc=%v watch=%v", cfg.PinPolicy, cfg.SearchMode, cfg.ShowTOC, cfg.Watch)
	return cfg, nil
}
