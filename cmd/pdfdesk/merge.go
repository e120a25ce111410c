package main

import (
	"github.com/spf13/cobra"
)

var mergeCmd = &cobra.Command{
	Use:   "merge <source>...",
	Short: "Concatenate PDFs into one file",
	Long: `Merge concatenates all pages of each source, in the order given on the
command line, into the --out file. Every source is validated before any
output is written, so a failed merge leaves nothing behind.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")

		res, err := svc.Merge(cmd.Context(), args, out)
		if err != nil {
			return err
		}
		printArtifacts(res)
		return nil
	},
}

func init() {
	mergeCmd.Flags().String("out", "", "output PDF file")
	_ = mergeCmd.MarkFlagRequired("out")

	rootCmd.AddCommand(mergeCmd)
}
