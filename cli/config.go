package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"postpilot/config"
	"postpilot/output"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
	}
	cmd.AddCommand(newConfigShowCmd(a), newConfigSetServerCmd(a))
	return cmd
}

func newConfigShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			if ok, err := a.structured(a.cfg); ok {
				return err
			}
			t := output.NewTable(a.printer.Out(), []string{"Key", "Value"})
			t.AddRow("config file", config.DiscoverPath(a.flags.configPath))
			t.AddRow("api_base_url", a.cfg.APIBaseURL)
			t.AddRow("timeout", a.cfg.TimeoutDuration().String())
			t.AddRow("auto_publish", fmt.Sprint(a.cfg.AutoPublish))
			t.AddRow("download_dir", a.cfg.DownloadDir)
			t.AddRow("log_file", a.cfg.LogFile)
			t.AddRow("debug", fmt.Sprint(a.cfg.Debug))
			t.AddRow("trending_limit", fmt.Sprint(a.cfg.TrendingLimit))
			t.AddRow("cache.ttl", a.cfg.CacheTTL().String())
			t.AddRow("cache.size", fmt.Sprint(a.cfg.Cache.Size))
			t.AddRow("ui.color", a.cfg.UI.Color)
			return t.Render()
		},
	}
}

func newConfigSetServerCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set-server <url>",
		Short: "Set the PostPilot API base URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			server := strings.TrimSuffix(strings.TrimSpace(args[0]), "/")
			if !strings.HasPrefix(server, "http://") && !strings.HasPrefix(server, "https://") {
				return usageError("server URL must start with http:// or https://")
			}

			path := config.DiscoverPath(a.flags.configPath)
			cfg, err := config.Load(path)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			cfg.APIBaseURL = server
			if err := config.Save(cfg, path); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			a.printer.Success("Server URL updated to: %s", server)
			a.printer.Info("Configuration saved to: %s", path)
			return nil
		},
	}
}
