// Package cli wires the postpilot commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"postpilot/api"
	"postpilot/config"
	"postpilot/generator"
	"postpilot/hooks"
	"postpilot/logging"
	"postpilot/output"
	"postpilot/publisher"
)

type globalFlags struct {
	configPath string
	server     string
	output     string
	debug      bool
	noColor    bool
}

// app is the state shared by every command of one invocation.
type app struct {
	flags globalFlags

	cfg      *config.Config
	logger   *zap.Logger
	closeLog func() error
	printer  *output.Printer
	format   output.Format

	// isTerminal reports whether the wizard can take over the screen.
	isTerminal func() bool
}

func newApp() *app {
	return &app{
		isTerminal: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
		},
	}
}

// NewRootCommand builds a fresh command tree.
func NewRootCommand() *cobra.Command {
	return newRootCommand(newApp())
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "postpilot",
		Short: "Generate and publish AI-written blog posts",
		Long: `PostPilot turns a website, a custom topic or a trending topic into a
ready-to-publish blog post using the PostPilot API.

Run without arguments in a terminal to start the interactive wizard.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.teardown()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !a.isTerminal() {
				return cmd.Help()
			}
			return a.runWizard(cmd.Context(), wizardFlags{})
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configPath, "config", "", "config file (default is $HOME/.postpilot/config.yaml)")
	pf.StringVar(&a.flags.server, "server", "", "PostPilot API base URL")
	pf.StringVarP(&a.flags.output, "output", "o", "table", "output format (table, json, yaml)")
	pf.BoolVar(&a.flags.debug, "debug", false, "enable debug logging")
	pf.BoolVar(&a.flags.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		newWizardCmd(a),
		newHealthCmd(a),
		newTrendsCmd(a),
		newGenerateCmd(a),
		newPublishCmd(a),
		newConfigCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	format, err := output.ParseFormat(a.flags.output)
	if err != nil {
		return &output.CLIError{Summary: err.Error(), ExitCode: output.ExitUsageError}
	}
	a.format = format

	cfg, err := config.LoadWithEnv(config.DiscoverPath(a.flags.configPath))
	if err != nil {
		return &output.CLIError{Summary: "failed to load config", Detail: err.Error(), ExitCode: output.ExitConfigError}
	}
	if a.flags.server != "" {
		cfg.APIBaseURL = a.flags.server
	}
	if a.flags.debug {
		cfg.Debug = true
	}
	a.cfg = cfg

	mode, err := output.ParseColorMode(cfg.UI.Color)
	if err != nil {
		mode = output.ColorAuto
	}
	if a.flags.noColor {
		mode = output.ColorNever
	}
	a.printer = output.NewPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.ResolveColors(mode, isTerminalWriter(cmd.OutOrStdout())))

	logger, closeLog, err := logging.New(logging.Options{File: cfg.LogFile, Debug: cfg.Debug})
	if err != nil {
		a.printer.Warning("logging disabled: %v", err)
		logger, closeLog = zap.NewNop(), func() error { return nil }
	}
	a.logger = logger.With(zap.String("cmd", cmd.CommandPath()))
	a.closeLog = closeLog
	a.logger.Debug("config loaded", zap.String("api_base_url", cfg.APIBaseURL))
	return nil
}

func (a *app) teardown() error {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	if a.closeLog != nil {
		closeLog := a.closeLog
		a.closeLog = nil
		return closeLog()
	}
	return nil
}

func isTerminalWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (a *app) client() *api.Client {
	return api.New(api.Options{
		BaseURL: a.cfg.APIBaseURL,
		Timeout: a.cfg.TimeoutDuration(),
		Logger:  a.logger,
	})
}

func (a *app) session(autoPublish bool) *generator.Session {
	h := hooks.New(a.client(), hooks.QueryOptions{Size: a.cfg.Cache.Size, TTL: a.cfg.CacheTTL()})
	return generator.NewSession(h, generator.SessionOptions{
		AutoPublish: autoPublish || a.cfg.AutoPublish,
		Logger:      a.logger,
	})
}

func (a *app) publisher() *publisher.Publisher {
	return publisher.New(a.logger)
}

// structured writes v when --output is json or yaml and reports whether it did.
func (a *app) structured(v any) (bool, error) {
	return output.Structured(a.printer.Out(), a.format, v)
}

// Execute runs the command tree and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := newApp()
	root := newRootCommand(a)
	err := root.ExecuteContext(ctx)
	// PersistentPostRunE is skipped when a command fails.
	_ = a.teardown()
	if err == nil {
		return output.ExitSuccess
	}

	cliErr := output.FromError(err)
	printer := a.printer
	if printer == nil {
		printer = output.NewPrinter(os.Stdout, os.Stderr, false)
	}
	if errors.Is(err, context.Canceled) {
		cliErr = &output.CLIError{Summary: "interrupted", ExitCode: output.ExitGeneral}
	}
	printer.FormatError(cliErr)
	if cliErr.ExitCode == 0 {
		return output.ExitGeneral
	}
	return cliErr.ExitCode
}

func usageError(format string, args ...any) error {
	return &output.CLIError{Summary: fmt.Sprintf(format, args...), ExitCode: output.ExitUsageError}
}
