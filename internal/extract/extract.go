// Package extract dumps the text content of a PDF to a plain-text artifact.
package extract

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/local/pdfdesk/internal/mupdf"
	"github.com/local/pdfdesk/internal/operr"
)

const op = "text"

// Text extracts the text of every page of src in page order and writes it
// to <outDir>/<source_basename>.txt, pages separated by form feeds.
// Returns the written path.
func Text(src, outDir string) (string, error) {
	if _, err := os.Stat(src); err != nil {
		if os.IsNotExist(err) {
			return "", operr.New(operr.KindNotFound, op, "file not found: %s", src)
		}
		return "", operr.Wrap(operr.KindIO, op, err, "stat %s", src)
	}

	doc, err := mupdf.Open(src)
	if err != nil {
		return "", operr.Wrap(operr.KindDelegated, op, err, "opening %s", src)
	}
	defer doc.Close()

	total := doc.NumPage()
	var b strings.Builder
	for i := 0; i < total; i++ {
		text, err := doc.Text(i)
		if err != nil {
			return "", operr.Wrap(operr.KindDelegated, op, err, "extracting page %d", i+1)
		}
		if i > 0 {
			b.WriteByte('\f')
		}
		b.WriteString(text)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", operr.Wrap(operr.KindIO, op, err, "creating output dir %s", outDir)
	}

	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	out := filepath.Join(outDir, base+".txt")
	if err := os.WriteFile(out, []byte(b.String()), 0o644); err != nil {
		return "", operr.Wrap(operr.KindIO, op, err, "writing %s", out)
	}

	log.Debug().Str("src", src).Int("pages", total).Str("out", out).Msg("text extracted")
	return out, nil
}
