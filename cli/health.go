package cli

import (
	"github.com/spf13/cobra"

	"postpilot/output"
)

func newHealthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the PostPilot API is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := a.client().Health(cmd.Context())
			if err != nil {
				return err
			}
			if ok, err := a.structured(resp); ok {
				return err
			}

			t := output.NewTable(a.printer.Out(), []string{"Server", "Status", "Message"})
			t.AddRow(a.cfg.APIBaseURL, a.printer.StatusBadge(resp.Status), resp.Message)
			return t.Render()
		},
	}
}
