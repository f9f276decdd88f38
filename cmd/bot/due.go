package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/Freeeeeet/tutor_ledger_bot/internal/formatting"
)

func newDueCmd() *cobra.Command {
	var lead time.Duration

	cmd := &cobra.Command{
		Use:   "due",
		Short: "List unpaid lessons starting within the reminder lead window",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.close()

			loc, err := rt.cfg.Location()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("lead") {
				lead = rt.services.Reminder.Lead()
			}

			lessons, err := rt.services.Reminder.DueForReminder(cmd.Context(), lead)
			if err != nil {
				return err
			}

			if len(lessons) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "no unpaid lessons in the next %s\n", formatting.FormatLead(lead))
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSTARTS\tTUTOR\tSTUDENT\tAMOUNT\tPAYOUT")
			for _, l := range lessons {
				payout, err := rt.services.Notifier.PayoutFor(cmd.Context(), l)
				if err != nil {
					return err
				}
				startsAt, err := l.StartsAt(loc)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\t%s\n",
					l.ID, formatting.FormatDateTime(startsAt), l.TutorID, l.Student,
					formatting.FormatPriceShort(l.Amount), formatting.FormatPrice(payout),
				)
			}
			return w.Flush()
		},
	}

	cmd.Flags().DurationVar(&lead, "lead", 0, "lead window (default REMINDER_LEAD_MINUTES)")
	return cmd
}
