package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"postpilot/output"
)

type trendFlags struct {
	region   string
	category string
	limit    int
}

func (f *trendFlags) register(cmd *cobra.Command, withLimit bool) {
	cmd.Flags().StringVar(&f.region, "region", "", "region label or code (e.g. \"North America\", eu)")
	cmd.Flags().StringVar(&f.category, "category", "", "category label or code (e.g. Technology, health)")
	if withLimit {
		cmd.Flags().IntVar(&f.limit, "limit", 0, "maximum topics to list (default from config)")
	}
}

func newTrendsCmd(a *app) *cobra.Command {
	var flags trendFlags
	cmd := &cobra.Command{
		Use:   "trends",
		Short: "List trending topics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			limit := flags.limit
			if limit <= 0 {
				limit = a.cfg.TrendingLimit
			}
			resp, err := a.session(false).TrendingTopics(cmd.Context(), flags.region, flags.category, limit)
			if err != nil {
				return err
			}
			if ok, err := a.structured(resp); ok {
				return err
			}
			if len(resp.Topics) == 0 {
				a.printer.Warning("no trending topics returned")
				return nil
			}

			t := output.NewTable(a.printer.Out(), []string{"#", "Topic"})
			for i, topic := range resp.Topics {
				t.AddRow(strconv.Itoa(i+1), topic)
			}
			return t.Render()
		},
	}
	flags.register(cmd, true)
	cmd.AddCommand(newTrendsPickCmd(a))
	return cmd
}

func newTrendsPickCmd(a *app) *cobra.Command {
	var flags trendFlags
	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Let the API pick one trending topic",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			trend, err := a.session(false).PickTrend(cmd.Context(), flags.region, flags.category)
			if err != nil {
				return err
			}
			if ok, err := a.structured(trend); ok {
				return err
			}

			t := output.NewTable(a.printer.Out(), []string{"Topic", "Keywords"})
			t.AddRow(trend.Topic, strings.Join(trend.Keywords, ", "))
			return t.Render()
		},
	}
	flags.register(cmd, false)
	return cmd
}
