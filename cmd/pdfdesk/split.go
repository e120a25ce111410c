package main

import (
	"github.com/spf13/cobra"
)

var splitCmd = &cobra.Command{
	Use:   "split <source>",
	Short: "Copy selected pages into a new PDF",
	Long: `Split copies the pages selected by --pages, in the order they are
listed, into <source_basename>_split<.ext> under the output directory.
Ranges are 1-based and inclusive; duplicate pages are dropped, keeping
their first occurrence.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pages, _ := cmd.Flags().GetString("pages")
		out, _ := cmd.Flags().GetString("out")

		res, err := svc.Split(cmd.Context(), args[0], pages, out)
		if err != nil {
			return err
		}
		printArtifacts(res)
		return nil
	},
}

func init() {
	splitCmd.Flags().String("pages", "", `page selection, e.g. "1-3,5"`)
	splitCmd.Flags().String("out", ".", "output directory")
	_ = splitCmd.MarkFlagRequired("pages")

	rootCmd.AddCommand(splitCmd)
}
