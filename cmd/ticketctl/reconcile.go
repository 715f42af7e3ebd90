package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/iliyamo/event-ticketing/internal/model"
	"github.com/iliyamo/event-ticketing/internal/receipt"
	"github.com/iliyamo/event-ticketing/internal/repository"
	"github.com/iliyamo/event-ticketing/internal/service"
)

func reconcileCmd() *cobra.Command {
	var (
		grace  time.Duration
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "List charges that succeeded but never became an order",
		Long: `List payment intents the provider reported as succeeded more than
--grace ago that still have no order.  Nothing is changed; each listed
intent needs a manual refund or a manually entered order.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, cfg, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()
			if !cmd.Flags().Changed("grace") {
				grace = cfg.ReconcileGrace
			}

			checkout := service.NewCheckoutService(nil, nil, repository.NewPaymentIntentRepo(db), service.CheckoutConfig{})
			intents, err := checkout.Unreconciled(context.Background(), grace)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(intents)
			}
			return writeIntents(cmd.OutOrStdout(), intents, cfg.Stripe.Currency)
		},
	}
	cmd.Flags().DurationVar(&grace, "grace", 15*time.Minute, "how long a succeeded charge may wait for its order")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func writeIntents(w io.Writer, intents []model.PaymentIntent, currency string) error {
	if len(intents) == 0 {
		_, err := fmt.Fprintln(w, "no unreconciled charges")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "INTENT\tEVENT\tUSER\tAMOUNT\tSUCCEEDED AT")
	for _, p := range intents {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			p.IntentID, optID(p.EventID), optID(p.UserID),
			receipt.FormatAmount(p.Amount, currency), p.UpdatedAt.UTC().Format(time.RFC3339))
	}
	return tw.Flush()
}

func optID(p *uint64) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprint(*p)
}
