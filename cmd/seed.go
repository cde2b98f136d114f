package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed <catalog.yaml>",
	Short: "Import categories, questions and answers from a YAML catalog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		sum, err := a.Importer.ImportFile(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d groups, %d categories, %d questions, %d answers\n",
			sum.Groups, sum.Categories, sum.Questions, sum.Answers)
		return nil
	},
}
