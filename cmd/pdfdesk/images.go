package main

import (
	"github.com/spf13/cobra"
)

var imagesCmd = &cobra.Command{
	Use:   "images <source>",
	Short: "Rasterize every page to an image file",
	Long: `Images renders each page of the document into the output directory as
page_<n>.<format>, numbered from 1 in document order. Supported formats
are png, jpg, jpeg, tiff and tif.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")
		dpi, _ := cmd.Flags().GetInt("dpi")
		format, _ := cmd.Flags().GetString("format")

		if dpi == 0 {
			dpi = cfg.Render.DPI
		}
		if format == "" {
			format = cfg.Render.Format
		}

		res, err := svc.Images(cmd.Context(), args[0], out, dpi, format)
		if err != nil {
			return err
		}
		printArtifacts(res)
		return nil
	},
}

func init() {
	imagesCmd.Flags().String("out", ".", "output directory")
	imagesCmd.Flags().Int("dpi", 0, "render resolution (default PDFDESK_DEFAULT_DPI, 300)")
	imagesCmd.Flags().String("format", "", "image format (default PDFDESK_DEFAULT_FORMAT, png)")

	rootCmd.AddCommand(imagesCmd)
}
