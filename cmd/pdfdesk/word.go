package main

import (
	"github.com/spf13/cobra"
)

var wordCmd = &cobra.Command{
	Use:   "word <source>",
	Short: "Convert a PDF to an editable Word document",
	Long: `Word converts the whole document to DOCX through a headless LibreOffice
child process. LibreOffice must be installed; a wedged conversion is
killed after PDFDESK_SOFFICE_TIMEOUT (default 5m).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")

		res, err := svc.Word(cmd.Context(), args[0], out)
		if err != nil {
			return err
		}
		printArtifacts(res)
		return nil
	},
}

func init() {
	wordCmd.Flags().String("out", "", "output DOCX file")
	_ = wordCmd.MarkFlagRequired("out")

	rootCmd.AddCommand(wordCmd)
}
