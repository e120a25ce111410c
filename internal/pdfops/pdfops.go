// Package pdfops implements the PDF page operations: split by page range
// and merge of ordered source lists.
package pdfops

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/rs/zerolog/log"

	"github.com/local/pdfdesk/internal/operr"
	"github.com/local/pdfdesk/internal/pagerange"
)

// pdfcpu entry points, swappable in tests.
var (
	pageCountFile   = api.PageCountFile
	collectFile     = api.CollectFile
	mergeCreateFile = api.MergeCreateFile
)

// PageCount returns the number of pages in the PDF at path.
func PageCount(path string) (int, error) {
	if err := requireFile("pages", path); err != nil {
		return 0, err
	}
	n, err := pageCountFile(path)
	if err != nil {
		return 0, operr.Wrap(operr.KindDelegated, "pages", err, "page count of %s", path)
	}
	return n, nil
}

// Split copies the pages selected by rangeExpr, in their resolved order,
// into <outDir>/<source_basename>_split.<ext> and returns the written
// path. The source is never modified.
func Split(src, rangeExpr, outDir string) (string, error) {
	const op = "split"

	if err := requireFile(op, src); err != nil {
		return "", err
	}

	total, err := pageCountFile(src)
	if err != nil {
		return "", operr.Wrap(operr.KindDelegated, op, err, "page count of %s", src)
	}

	indices, err := pagerange.Parse(rangeExpr, total)
	if err != nil {
		return "", err
	}
	if len(indices) == 0 {
		return "", operr.New(operr.KindEmptySelection, op, "no pages selected, provide ranges like 1-3,5")
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", operr.Wrap(operr.KindIO, op, err, "creating output dir %s", outDir)
	}

	// one selector token per resolved page keeps the collected order
	pages := make([]string, len(indices))
	for i, idx := range indices {
		pages[i] = strconv.Itoa(idx + 1)
	}

	out := filepath.Join(outDir, splitName(src))
	if err := collectFile(src, out, pages, nil); err != nil {
		return "", operr.Wrap(operr.KindDelegated, op, err, "collecting pages into %s", out)
	}

	log.Debug().Str("src", src).Int("pages", len(pages)).Str("out", out).Msg("split written")
	return out, nil
}

// Merge concatenates all pages of each source, in list order, into
// outPath. Every source is validated before any output is produced, so a
// failed merge leaves no partial artifact.
func Merge(srcs []string, outPath string) (string, error) {
	const op = "merge"

	if len(srcs) == 0 {
		return "", operr.New(operr.KindEmptySelection, op, "no source files given")
	}

	for _, src := range srcs {
		if err := requireFile(op, src); err != nil {
			return "", err
		}
	}

	if dir := filepath.Dir(outPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", operr.Wrap(operr.KindIO, op, err, "creating output dir %s", dir)
		}
	}

	if err := mergeCreateFile(srcs, outPath, false, nil); err != nil {
		return "", operr.Wrap(operr.KindDelegated, op, err, "merging into %s", outPath)
	}

	log.Debug().Int("sources", len(srcs)).Str("out", outPath).Msg("merge written")
	return outPath, nil
}

func splitName(src string) string {
	base := filepath.Base(src)
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext) + "_split" + ext
}

func requireFile(op, path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return operr.New(operr.KindNotFound, op, "file not found: %s", path)
		}
		return operr.Wrap(operr.KindIO, op, err, "stat %s", path)
	}
	return nil
}
