package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCardsCmd(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cards",
		Short: "Show the dashboard card aggregates",
		RunE: func(cmd *cobra.Command, args []string) error {
			dash, err := buildDashboard(opts)
			if err != nil {
				return err
			}

			cards, err := dash.CardData(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "invoices:  %d\n", cards.NumberOfInvoices)
			fmt.Fprintf(cmd.OutOrStdout(), "customers: %d\n", cards.NumberOfCustomers)
			fmt.Fprintf(cmd.OutOrStdout(), "paid:      %s\n", cards.TotalPaid)
			fmt.Fprintf(cmd.OutOrStdout(), "pending:   %s\n", cards.TotalPending)
			return nil
		},
	}
	return cmd
}
