package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Freeeeeet/tutor_ledger_bot/internal/model"
)

func newTutorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tutor",
		Short: "Manage the Tutors table",
	}
	cmd.AddCommand(newTutorAddCmd())
	return cmd
}

func newTutorAddCmd() *cobra.Command {
	var (
		tutorID  int64
		name     string
		username string
		percent  float64
	)

	c := &cobra.Command{
		Use:   "add",
		Short: "Register a tutor with an optional payout percent",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.close()

			tutor := model.Tutor{TutorID: tutorID, Name: name, Username: username}
			if cmd.Flags().Changed("percent") {
				tutor.Percent = &percent
			}

			if err := rt.services.Lessons.AddTutor(cmd.Context(), tutor); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "tutor %d added\n", tutorID)
			return nil
		},
	}

	c.Flags().Int64Var(&tutorID, "id", 0, "tutor Telegram user id")
	c.Flags().StringVar(&name, "name", "", "tutor name")
	c.Flags().StringVar(&username, "username", "", "Telegram username")
	c.Flags().Float64Var(&percent, "percent", 0, "payout percent 0-100 (fallback is used when omitted)")

	_ = c.MarkFlagRequired("id")
	return c
}
