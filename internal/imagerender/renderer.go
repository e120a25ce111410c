// Package imagerender rasterizes PDF pages into per-page image files.
package imagerender

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/image/tiff"

	"github.com/local/pdfdesk/internal/mupdf"
	"github.com/local/pdfdesk/internal/operr"
)

const op = "images"

// DefaultDPI is used when the caller passes no resolution.
const DefaultDPI = 300

// jpegQuality matches the original export setting: maximum quality.
const jpegQuality = 100

// Formats lists the accepted format tokens.
var Formats = []string{"png", "jpg", "jpeg", "tiff", "tif"}

// NormalizeFormat validates a format token case-insensitively and returns
// its canonical (lowercase) form.
func NormalizeFormat(format string) (string, error) {
	f := strings.ToLower(strings.TrimSpace(format))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", operr.New(operr.KindMalformed, op, "unsupported image format %q", format)
}

// Rasterize renders every page of the PDF at src into
// <outDir>/page_<n>.<format> with n counted from 1, and returns the
// written paths in page order. The render scale is dpi/72 in a fixed RGB
// colorspace. dpi 0 means DefaultDPI; the format token is validated
// before the source is opened.
func Rasterize(src, outDir string, dpi int, format string) ([]string, error) {
	f, err := NormalizeFormat(format)
	if err != nil {
		return nil, err
	}

	if dpi == 0 {
		dpi = DefaultDPI
	}
	if dpi < 0 {
		return nil, operr.New(operr.KindMalformed, op, "invalid dpi %d", dpi)
	}

	if _, err := os.Stat(src); err != nil {
		if os.IsNotExist(err) {
			return nil, operr.New(operr.KindNotFound, op, "file not found: %s", src)
		}
		return nil, operr.Wrap(operr.KindIO, op, err, "stat %s", src)
	}

	doc, err := mupdf.Open(src)
	if err != nil {
		return nil, operr.Wrap(operr.KindDelegated, op, err, "opening %s", src)
	}
	defer doc.Close()

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, operr.Wrap(operr.KindIO, op, err, "creating output dir %s", outDir)
	}

	total := doc.NumPage()
	written := make([]string, 0, total)
	for i := 0; i < total; i++ {
		img, err := doc.ImageDPI(i, float64(dpi))
		if err != nil {
			return nil, operr.Wrap(operr.KindDelegated, op, err, "rendering page %d", i+1)
		}

		path := filepath.Join(outDir, fmt.Sprintf("page_%d.%s", i+1, f))
		if err := writeImage(path, img, f); err != nil {
			return nil, err
		}
		written = append(written, path)
	}

	log.Debug().Str("src", src).Int("pages", total).Int("dpi", dpi).Str("format", f).Msg("rasterized document")
	return written, nil
}

func writeImage(path string, img image.Image, format string) error {
	out, err := os.Create(path)
	if err != nil {
		return operr.Wrap(operr.KindIO, op, err, "creating %s", path)
	}

	var encErr error
	switch format {
	case "jpg", "jpeg":
		encErr = jpeg.Encode(out, img, &jpeg.Options{Quality: jpegQuality})
	case "png":
		enc := &png.Encoder{CompressionLevel: png.BestCompression}
		encErr = enc.Encode(out, img)
	case "tiff", "tif":
		encErr = tiff.Encode(out, img, &tiff.Options{Compression: tiff.LZW, Predictor: true})
	}
	if encErr != nil {
		out.Close()
		return operr.Wrap(operr.KindDelegated, op, encErr, "encoding %s", path)
	}

	if err := out.Close(); err != nil {
		return operr.Wrap(operr.KindIO, op, err, "writing %s", path)
	}
	return nil
}
