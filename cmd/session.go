package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/abhisek/iqgame/internal/allocator"
	"github.com/abhisek/iqgame/internal/game"
	"github.com/abhisek/iqgame/internal/ui/report"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Create, play and manage game sessions",
}

func sessionID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid session id %q", arg)
	}
	return id, nil
}

var sessionCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Allocate a new session over six categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		team1, _ := cmd.Flags().GetString("team1")
		team2, _ := cmd.Flags().GetString("team2")
		cats, _ := cmd.Flags().GetIntSlice("categories")

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		created, err := a.Allocator.CreateSession(cmd.Context(), allocator.Request{
			Name: name, Team1: team1, Team2: team2, CategoryIDs: cats,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created session %d %q with %d questions\n",
			created.SessionID, created.Name, len(created.QuestionIDs))
		return nil
	},
}

var sessionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		list, err := a.Engine.ListSessions(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), report.Sessions(list))
		return nil
	},
}

var sessionStatusCmd = &cobra.Command{
	Use:   "status <session-id>",
	Short: "Show scores, turn and power-ups",
	Args:  cobra.ExactArgs(1),
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

		st, err := a.Engine.Status(cmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), report.Status(st))
		return nil
	},
}

var sessionResultsCmd = &cobra.Command{
	Use:   "results <session-id>",
	Short: "Show the winner and per-category breakdown",
	Args:  cobra.ExactArgs(1),
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

		res, err := a.Engine.Results(cmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), report.Results(res))
		return nil
	},
}

var sessionBoardCmd = &cobra.Command{
	Use:   "board <session-id>",
	Short: "List the board's questions with their ids and who scored them",
	Args:  cobra.ExactArgs(1),
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

		cats, err := a.Engine.SessionQuestions(cmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), report.Board(cats))
		return nil
	},
}

var sessionScoreCmd = &cobra.Command{
	Use:   "score <session-id> <question-id> [team]",
	Short: "Score a question; omit the team when nobody answered",
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := sessionID(args[0])
		if err != nil {
			return err
		}
		qid, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid question id %q", args[1])
		}
		var team string
		if len(args) == 3 {
			team = args[2]
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		scored, err := a.Engine.ScoreQuestion(cmd.Context(), id, qid, team)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		switch {
		case team == "":
			fmt.Fprintf(out, "Question %d closed without points\n", qid)
		case scored.Doubled:
			fmt.Fprintf(out, "%s scores %d (double points), total %d\n", team, scored.Points, scored.TeamScore)
		default:
			fmt.Fprintf(out, "%s scores %d, total %d\n", team, scored.Points, scored.TeamScore)
		}
		if scored.GameFinished {
			fmt.Fprintln(out, "Game finished.")
		}
		return nil
	},
}

var sessionTurnCmd = &cobra.Command{
	Use:   "turn <session-id> [team]",
	Short: "Show whose turn it is, or hand the turn to a team",
	Args:  cobra.RangeArgs(1, 2),
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

		if len(args) == 2 {
			if _, err := a.Engine.ChangeTurn(cmd.Context(), id, args[1]); err != nil {
				return err
			}
		}
		team, err := a.Engine.CurrentTurn(cmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Turn: %s\n", team)
		return nil
	},
}

var sessionResetCmd = &cobra.Command{
	Use:   "reset <session-id>",
	Short: "Restart a session on the same questions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := sessionID(args[0])
		if err != nil {
			return err
		}
		name, _ := cmd.Flags().GetString("name")
		team1, _ := cmd.Flags().GetString("team1")
		team2, _ := cmd.Flags().GetString("team2")

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Engine.Reset(cmd.Context(), id, game.ResetRequest{
			SessionName: name, Team1: team1, Team2: team2,
		}); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Session %d reset\n", id)
		return nil
	},
}

var sessionDeleteCmd = &cobra.Command{
	Use:   "delete <session-id>",
	Short: "Delete a session",
	Args:  cobra.ExactArgs(1),
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

		if err := a.Engine.DeleteSession(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Session %d deleted\n", id)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{sessionCreateCmd, sessionResetCmd} {
		c.Flags().String("name", "", "Session name")
		c.Flags().String("team1", "", "First team (starts)")
		c.Flags().String("team2", "", "Second team")
		c.MarkFlagRequired("name")
		c.MarkFlagRequired("team1")
		c.MarkFlagRequired("team2")
	}
	sessionCreateCmd.Flags().IntSlice("categories", nil, "Six category ids, comma separated")
	sessionCreateCmd.MarkFlagRequired("categories")

	sessionCmd.AddCommand(sessionCreateCmd)
	sessionCmd.AddCommand(sessionListCmd)
	sessionCmd.AddCommand(sessionStatusCmd)
	sessionCmd.AddCommand(sessionResultsCmd)
	sessionCmd.AddCommand(sessionBoardCmd)
	sessionCmd.AddCommand(sessionScoreCmd)
	sessionCmd.AddCommand(sessionTurnCmd)
	sessionCmd.AddCommand(sessionResetCmd)
	sessionCmd.AddCommand(sessionDeleteCmd)
}
