package cli

import (
	"github.com/spf13/cobra"

	"github.com/avukalov/dashboard-core/pkg/config"
	"github.com/avukalov/dashboard-core/pkg/dashboard"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string // optional YAML config; environment otherwise
}

func newRootCmd() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "dashboard-core",
		Short:         "Data-access layer for the invoices dashboard",
		Long:          "dashboard-core talks to the GraphQL gateway behind the invoices dashboard: paginated invoice tables, customer roll-ups, card aggregates and invoice mutations.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to YAML config (defaults to environment)")

	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newInvoicesCmd(opts))
	cmd.AddCommand(newCardsCmd(opts))
	return cmd
}

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

// buildDashboard resolves the facade: an explicit config file builds a
// fresh instance, otherwise the process-scoped default is used.
func buildDashboard(opts *RootOptions) (*dashboard.Dashboard, error) {
	if opts.ConfigPath == "" {
		return dashboard.Default()
	}

	cfg, err := config.NewLoader(&config.EnvExpander{}).Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	return dashboard.New(cfg)
}
