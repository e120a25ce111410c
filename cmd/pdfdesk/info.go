package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <source>",
	Short: "Describe a source file",
	Long: `Info resolves the source and reports its detected type, its size and,
for PDFs, the page count. Non-PDF sources are described rather than
rejected.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := svc.Info(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("source: %s\n", res.Source)
		fmt.Printf("type:   %s (%s)\n", res.Description, res.MIMEType)
		fmt.Printf("size:   %d bytes\n", res.SizeBytes)
		if res.IsPDF && res.Pages > 0 {
			fmt.Printf("pages:  %d\n", res.Pages)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
