package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/iqgame/internal/help"
)

var powerupCmd = &cobra.Command{
	Use:     "powerup",
	Aliases: []string{"helps"},
	Short:   "Use and inspect team power-ups (options, doublePoints, twoAnswers)",
}

var powerupUseCmd = &cobra.Command{
	Use:   "use <session-id> <team> <options|doublePoints|twoAnswers>",
	Short: "Spend a power-up for a team",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := sessionID(args[0])
		if err != nil {
			return err
		}
		req := help.UseRequest{SessionID: id, TeamName: args[1], HelpType: args[2]}
		if cmd.Flags().Changed("question") {
			qid, _ := cmd.Flags().GetInt("question")
			req.QuestionID = &qid
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Ledger.UseHelp(cmd.Context(), req); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s used %s\n", req.TeamName, req.HelpType)
		return nil
	},
}

var powerupStatusCmd = &cobra.Command{
	Use:   "status <session-id> <team>",
	Short: "Show which power-ups a team has left",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := sessionID(args[0])
		if err != nil {
			return err
		}
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		st, err := a.Ledger.Status(cmd.Context(), id, args[1])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "options:      %s\n", usedLabel(st.OptionsUsed))
		fmt.Fprintf(out, "doublePoints: %s\n", doubleLabel(st))
		fmt.Fprintf(out, "twoAnswers:   %s\n", usedLabel(st.TwoAnswersUsed))
		return nil
	},
}

func usedLabel(used bool) string {
	if used {
		return "used"
	}
	return "available"
}

func doubleLabel(st help.Status) string {
	if st.DoublePointsActive {
		return "armed"
	}
	return usedLabel(st.DoublePointsUsed)
}

func init() {
	powerupUseCmd.Flags().Int("question", 0, "Question the power-up is used on (required to check multiple choice for options)")
	powerupCmd.AddCommand(powerupUseCmd)
	powerupCmd.AddCommand(powerupStatusCmd)
}
