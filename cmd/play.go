package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play [session-id]",
	Short: "Host a game in the terminal",
	Long: "play opens the board of an existing session, or the new game form when no session id is given.\n" +
		"Logs go to --log-file since the terminal is taken by the game.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := 0
		if len(args) == 1 {
			var err error
			if id, err = sessionID(args[0]); err != nil {
				return err
			}
		}

		var logs io.Writer = io.Discard
		if path, _ := cmd.Flags().GetString("log-file"); path != "" {
			f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
			if err != nil {
				return fmt.Errorf("open log file: %w", err)
			}
			defer f.Close()
			logs = f
		}

		a, err := openAppLogging(cmd, logs)
		if err != nil {
			return err
		}
		defer a.Close()

		if id != 0 {
			if _, err := a.Engine.Status(cmd.Context(), id); err != nil {
				return err
			}
		}
		return a.Play(cmd.Context(), id)
	},
}

func init() {
	playCmd.Flags().String("log-file", "", "Append logs to this file while playing")
}
