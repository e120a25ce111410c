package main

import (
	"github.com/spf13/cobra"
)

var textCmd = &cobra.Command{
	Use:   "text <source>",
	Short: "Extract page text to a .txt file",
	Long: `Text extracts the text of every page, in document order, into
<source_basename>.txt under the output directory. Pages are separated
by form-feed characters.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")

		res, err := svc.Text(cmd.Context(), args[0], out)
		if err != nil {
			return err
		}
		printArtifacts(res)
		return nil
	},
}

func init() {
	textCmd.Flags().String("out", ".", "output directory")

	rootCmd.AddCommand(textCmd)
}
