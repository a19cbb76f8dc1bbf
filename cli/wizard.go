package cli

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"postpilot/publisher"
	"postpilot/wizard"
)

type wizardFlags struct {
	url   string
	route string
}

func newWizardCmd(a *app) *cobra.Command {
	var flags wizardFlags
	cmd := &cobra.Command{
		Use:   "wizard",
		Short: "Start the interactive blog wizard",
		Long: `Start the interactive wizard: enter a website, watch the analysis, pick
a source on the writer form and export the generated post.

--url skips the landing step. --route restores a step from a route such as
/blog-writer?url=example.com.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runWizard(cmd.Context(), flags)
		},
	}
	cmd.Flags().StringVar(&flags.url, "url", "", "website to analyze")
	cmd.Flags().StringVar(&flags.route, "route", "", "start at a route (/, /analyze?url=, /blog-writer?url=, /output)")
	return cmd
}

func (a *app) startFlow(flags wizardFlags) (*wizard.Flow, error) {
	if flags.url != "" && flags.route != "" {
		return nil, usageError("--url and --route are mutually exclusive")
	}
	if flags.url != "" {
		f := wizard.NewFlow()
		if err := f.SubmitURL(flags.url); err != nil {
			return nil, err
		}
		return f, nil
	}
	f, err := wizard.FlowFromRoute(flags.route)
	if err != nil {
		return nil, usageError("%v", err)
	}
	return f, nil
}

func (a *app) runWizard(ctx context.Context, flags wizardFlags) error {
	flow, err := a.startFlow(flags)
	if err != nil {
		return err
	}
	a.logger.Info("wizard started", zap.String("route", flow.Route()))
	final, err := wizard.Run(ctx, wizard.Options{
		Session:       a.session(false),
		Publisher:     a.publisher(),
		Flow:          flow,
		DownloadDir:   a.cfg.DownloadDir,
		Format:        publisher.FormatText,
		TrendingLimit: a.cfg.TrendingLimit,
		Logger:        a.logger,
	})
	if err != nil {
		return err
	}
	a.logger.Info("wizard finished", zap.String("route", final.Route()))
	return nil
}
