// Package ops is the operation façade shared by the CLI and the web
// surface: it resolves source references, runs the core operation, and
// records metrics and one structured log line per invocation.
package ops

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/local/pdfdesk/internal/converter"
	"github.com/local/pdfdesk/internal/extract"
	"github.com/local/pdfdesk/internal/fetch"
	"github.com/local/pdfdesk/internal/filetype"
	"github.com/local/pdfdesk/internal/imagerender"
	"github.com/local/pdfdesk/internal/metrics"
	"github.com/local/pdfdesk/internal/operr"
	"github.com/local/pdfdesk/internal/pdfops"
)

// Dependencies carries the pieces the façade drives. Nil fields get the
// production implementations.
type Dependencies struct {
	Resolver *fetch.Resolver

	Split     func(src, rangeExpr, outDir string) (string, error)
	Merge     func(srcs []string, outPath string) (string, error)
	Word      func(ctx context.Context, src, outPath string) (string, error)
	Images    func(src, outDir string, dpi int, format string) ([]string, error)
	Text      func(src, outDir string) (string, error)
	PageCount func(path string) (int, error)
	Detect    func(path string) (filetype.Info, error)
}

// Service runs operations against resolved local files. It adds no
// business logic and translates no errors.
type Service struct {
	deps Dependencies
}

// New builds a Service, filling missing dependencies with the production
// implementations.
func New(deps Dependencies) *Service {
	if deps.Resolver == nil {
		deps.Resolver = fetch.New(fetch.Options{})
	}
	if deps.Split == nil {
		deps.Split = pdfops.Split
	}
	if deps.Merge == nil {
		deps.Merge = pdfops.Merge
	}
	if deps.Word == nil {
		deps.Word = converter.New("", 0).ConvertToWord
	}
	if deps.Images == nil {
		deps.Images = imagerender.Rasterize
	}
	if deps.Text == nil {
		deps.Text = extract.Text
	}
	if deps.PageCount == nil {
		deps.PageCount = pdfops.PageCount
	}
	if deps.Detect == nil {
		deps.Detect = filetype.New().Detect
	}
	return &Service{deps: deps}
}

// Result reports one finished operation.
type Result struct {
	Op        string        `json:"op"`
	Artifacts []string      `json:"artifacts"`
	Duration  time.Duration `json:"duration"`
}

// InfoResult describes one source for the info command and the dashboard.
type InfoResult struct {
	Source      string `json:"source"`
	LocalPath   string `json:"local_path"`
	MIMEType    string `json:"mime_type"`
	Extension   string `json:"extension"`
	Description string `json:"description"`
	IsPDF       bool   `json:"is_pdf"`
	SizeBytes   int64  `json:"size_bytes"`
	Pages       int    `json:"pages,omitempty"`
}

// Split resolves srcRef and copies the pages selected by rangeExpr into
// outDir.
func (s *Service) Split(ctx context.Context, srcRef, rangeExpr, outDir string) (Result, error) {
	return s.run(ctx, "split", srcRef, func(local string) ([]string, error) {
		out, err := s.deps.Split(local, rangeExpr, outDir)
		if err != nil {
			return nil, err
		}
		return []string{out}, nil
	})
}

// Merge resolves every source reference, in order, and merges them into
// outPath.
func (s *Service) Merge(ctx context.Context, srcRefs []string, outPath string) (Result, error) {
	const op = "merge"
	start := time.Now()
	src := strings.Join(srcRefs, ", ")

	locals := make([]string, 0, len(srcRefs))
	cleanups := make([]func(), 0, len(srcRefs))
	defer func() {
		for _, c := range cleanups {
			c()
		}
	}()
	for _, ref := range srcRefs {
		local, cleanup, err := s.deps.Resolver.Localize(ctx, ref)
		if err != nil {
			return Result{Op: op}, s.observe(op, src, start, nil, err)
		}
		cleanups = append(cleanups, cleanup)
		locals = append(locals, local)
	}

	out, err := s.deps.Merge(locals, outPath)
	var artifacts []string
	if err == nil {
		artifacts = []string{out}
	}
	return Result{Op: op, Artifacts: artifacts, Duration: time.Since(start)}, s.observe(op, src, start, artifacts, err)
}

// Word resolves srcRef and converts the whole document to a DOCX at
// outPath.
func (s *Service) Word(ctx context.Context, srcRef, outPath string) (Result, error) {
	return s.run(ctx, "word", srcRef, func(local string) ([]string, error) {
		out, err := s.deps.Word(ctx, local, outPath)
		if err != nil {
			return nil, err
		}
		return []string{out}, nil
	})
}

// Images resolves srcRef and rasterizes every page into outDir.
func (s *Service) Images(ctx context.Context, srcRef, outDir string, dpi int, format string) (Result, error) {
	return s.run(ctx, "images", srcRef, func(local string) ([]string, error) {
		paths, err := s.deps.Images(local, outDir, dpi, format)
		if err != nil {
			return nil, err
		}
		metrics.AddPages("images", len(paths))
		return paths, nil
	})
}

// Text resolves srcRef and extracts its text into outDir.
func (s *Service) Text(ctx context.Context, srcRef, outDir string) (Result, error) {
	return s.run(ctx, "text", srcRef, func(local string) ([]string, error) {
		out, err := s.deps.Text(local, outDir)
		if err != nil {
			return nil, err
		}
		return []string{out}, nil
	})
}

// Info reports detected type, size and page count for a source
// reference. Non-PDF sources are described, not rejected.
func (s *Service) Info(ctx context.Context, srcRef string) (InfoResult, error) {
	const op = "info"
	start := time.Now()

	local, cleanup, err := s.deps.Resolver.Localize(ctx, srcRef)
	if err != nil {
		return InfoResult{}, s.observe(op, srcRef, start, nil, err)
	}
	defer cleanup()

	st, err := os.Stat(local)
	if err != nil {
		return InfoResult{}, s.observe(op, srcRef, start, nil, operr.Wrap(operr.KindIO, op, err, "stat %s", local))
	}
	info, err := s.deps.Detect(local)
	if err != nil {
		return InfoResult{}, s.observe(op, srcRef, start, nil, operr.Wrap(operr.KindIO, op, err, "detecting type of %s", local))
	}

	res := InfoResult{
		Source:      srcRef,
		LocalPath:   local,
		MIMEType:    info.MIMEType,
		Extension:   info.Extension,
		Description: info.Description,
		IsPDF:       info.IsPDF,
		SizeBytes:   st.Size(),
	}
	if info.IsPDF {
		if pages, err := s.deps.PageCount(local); err == nil {
			res.Pages = pages
		}
	}
	return res, s.observe(op, srcRef, start, nil, nil)
}

// PreflightWarning returns a human-readable warning when a local source
// is detectably not a PDF. Remote references are never probed; the
// operation itself stays the authority on whether the input is usable.
func (s *Service) PreflightWarning(ref string) string {
	if fetch.IsRemote(ref) {
		return ""
	}
	path := strings.TrimPrefix(ref, "file://")
	info, err := s.deps.Detect(path)
	if err != nil || info.IsPDF {
		return ""
	}
	return fmt.Sprintf("%s does not look like a PDF: %s", ref, info.Description)
}

func (s *Service) run(ctx context.Context, op, srcRef string, fn func(local string) ([]string, error)) (Result, error) {
	start := time.Now()

	local, cleanup, err := s.deps.Resolver.Localize(ctx, srcRef)
	if err != nil {
		return Result{Op: op}, s.observe(op, srcRef, start, nil, err)
	}
	defer cleanup()

	artifacts, err := fn(local)
	return Result{Op: op, Artifacts: artifacts, Duration: time.Since(start)}, s.observe(op, srcRef, start, artifacts, err)
}

func (s *Service) observe(op, src string, start time.Time, artifacts []string, err error) error {
	dur := time.Since(start)
	outcome := "success"
	evt := log.Info()
	if err != nil {
		outcome = "error"
		evt = log.Error().Err(err)
	}
	metrics.ObserveOperation(op, outcome, dur)
	evt.Str("op", op).Str("source", src).Str("outcome", outcome).
		Int("artifacts", len(artifacts)).Dur("duration", dur).Msg("operation finished")
	return err
}
