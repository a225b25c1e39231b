package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/avukalov/dashboard-core/pkg/dashboard"
)

func newInvoicesCmd(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invoices",
		Short: "Query and mutate invoices",
	}
	cmd.AddCommand(newInvoicesListCmd(opts))
	cmd.AddCommand(newInvoicesCreateCmd(opts))
	cmd.AddCommand(newInvoicesDeleteCmd(opts))
	return cmd
}

func newInvoicesListCmd(opts *RootOptions) *cobra.Command {
	var (
		search  string
		page    int
		orderBy string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List one page of the filtered invoice table",
		RunE: func(cmd *cobra.Command, args []string) error {
			dash, err := buildDashboard(opts)
			if err != nil {
				return err
			}

			rows, err := dash.FilteredInvoices(cmd.Context(), search, page, dashboard.ParseOrderBy(orderBy))
			if err != nil {
				return err
			}

			pages, err := dash.InvoicePages(cmd.Context(), search)
			if err != nil {
				return err
			}

			for _, row := range rows {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-10s  %-8s  %-24s  %s\n",
					row.Date, dashboard.FormatCurrency(row.Amount), row.Status, row.Name, row.Email)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "page %d of %d\n", page, pages)
			return nil
		},
	}

	cmd.Flags().StringVarP(&search, "query", "q", "", "search term")
	cmd.Flags().IntVarP(&page, "page", "p", 1, "page number")
	cmd.Flags().StringVar(&orderBy, "order-by", "", `ordering, e.g. "amount asc"`)
	return cmd
}

func newInvoicesCreateCmd(opts *RootOptions) *cobra.Command {
	var input dashboard.InvoiceInput
	var status string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an invoice",
		RunE: func(cmd *cobra.Command, args []string) error {
			dash, err := buildDashboard(opts)
			if err != nil {
				return err
			}

			input.Status = dashboard.Status(status)
			result := dash.CreateInvoice(cmd.Context(), input)
			return writeResult(cmd, result)
		},
	}

	cmd.Flags().StringVar(&input.CustomerID, "customer", "", "customer id")
	cmd.Flags().Float64Var(&input.Amount, "amount", 0, "amount in major units, e.g. 1500.00")
	cmd.Flags().StringVar(&status, "status", string(dashboard.StatusPending), "invoice status (pending|paid)")
	return cmd
}

func newInvoicesDeleteCmd(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an invoice by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dash, err := buildDashboard(opts)
			if err != nil {
				return err
			}

			result := dash.DeleteInvoice(cmd.Context(), args[0])
			return writeResult(cmd, result)
		},
	}
	return cmd
}

func writeResult(cmd *cobra.Command, result dashboard.MutationResult) error {
	if result.OK {
		fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		return nil
	}

	enc := json.NewEncoder(os.Stderr)
	enc.SetIndent("", "  ")
	_ = enc.Encode(result)
	return fmt.Errorf("%s", result.Message)
}
