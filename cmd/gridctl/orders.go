package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var ordersCmd = &cobra.Command{
	Use:   "orders SYMBOL",
	Short: "List open spot orders for a symbol",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		creds, err := requireCredentials()
		if err != nil {
			return err
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()

		symbol := strings.ToUpper(strings.ReplaceAll(args[0], "/", ""))
		orders, err := newExchange().GetOpenOrders(ctx, creds, symbol)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ORDER\tSIDE\tPRICE\tQTY\tSTATUS\tCREATED")
		for _, o := range orders {
			fmt.Fprintf(w, "%s\t%s\t%g\t%g\t%s\t%s\n",
				o.OrderID, o.Side, o.Price, o.Quantity, o.Status,
				time.UnixMilli(o.CreatedAt).UTC().Format(time.RFC3339))
		}
		return w.Flush()
	},
}
