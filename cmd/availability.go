package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/iqgame/internal/ui/report"
)

var availabilityCmd = &cobra.Command{
	Use:   "availability",
	Short: "Show how many games each category can still supply",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		cats, err := a.Availability.GetAvailability(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), report.Availability(cats))
		return nil
	},
}
