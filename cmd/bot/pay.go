package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Freeeeeet/tutor_ledger_bot/internal/service"
)

func newPayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pay <lesson_id>",
		Short: "Mark a lesson as paid on behalf of the administrator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lessonID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || lessonID < 0 {
				return fmt.Errorf("invalid lesson id %q", args[0])
			}

			rt, err := openRuntime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.close()

			ok, err := rt.services.Payments.MarkPaid(cmd.Context(), rt.cfg.AdminID, lessonID)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("lesson %d: %w", lessonID, service.ErrNotFound)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "lesson %d marked as paid\n", lessonID)
			return nil
		},
	}
}
