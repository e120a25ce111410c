package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/local/pdfdesk/internal/limiter"
	"github.com/local/pdfdesk/internal/operr"
	"github.com/local/pdfdesk/internal/ops"
	"github.com/local/pdfdesk/internal/statuscheck"
)

func newTestWeb(t *testing.T, deps ops.Dependencies) (*Web, *limiter.Gate) {
	t.Helper()
	gate := limiter.New(1)
	checker := statuscheck.New(statuscheck.Options{SofficePath: "soffice", TempDir: t.TempDir()})
	w := New(ops.New(deps), gate, checker, Defaults{DPI: 300, Format: "png", OutDir: t.TempDir()})
	return w, gate
}

func serve(w *Web, req *http.Request) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	w.RegisterRoutes(mux)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func postForm(path string, vals url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(vals.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func writePDFStub(t *testing.T, dir, name string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte("%PDF-1.4 stub content"), 0o644))
	return p
}

func TestDashboardRenders(t *testing.T) {
	w, _ := newTestWeb(t, ops.Dependencies{})

	rec := serve(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `action="/run/split"`)
	assert.Contains(t, body, `action="/run/merge"`)
	assert.Contains(t, body, `action="/run/word"`)
	assert.Contains(t, body, `action="/run/images"`)
	assert.Contains(t, body, `action="/run/text"`)
	assert.Contains(t, body, "To Word")
}

func TestRunSplitSuccess(t *testing.T) {
	dir := t.TempDir()
	src := writePDFStub(t, dir, "doc.pdf")
	artifact := filepath.Join(dir, "doc_split.pdf")

	w, _ := newTestWeb(t, ops.Dependencies{
		Split: func(s, expr, out string) (string, error) {
			assert.Equal(t, src, s)
			assert.Equal(t, "1-3", expr)
			return artifact, nil
		},
	})

	rec := serve(w, postForm("/run/split", url.Values{
		"source": {src},
		"pages":  {"1-3"},
		"out":    {dir},
	}))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "doc_split.pdf")
	assert.Contains(t, rec.Body.String(), "finished in")
}

func TestRunSplitErrorBanner(t *testing.T) {
	dir := t.TempDir()
	src := writePDFStub(t, dir, "doc.pdf")

	w, _ := newTestWeb(t, ops.Dependencies{
		Split: func(string, string, string) (string, error) {
			return "", operr.New(operr.KindOutOfBounds, "split", "page out of bounds %q", "9")
		},
	})

	rec := serve(w, postForm("/run/split", url.Values{
		"source": {src},
		"pages":  {"9"},
	}))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "page out of bounds")
	assert.Contains(t, rec.Body.String(), "out_of_bounds")
}

func TestRunRejectsConcurrentOperation(t *testing.T) {
	dir := t.TempDir()
	src := writePDFStub(t, dir, "doc.pdf")

	called := false
	w, gate := newTestWeb(t, ops.Dependencies{
		Split: func(string, string, string) (string, error) {
			called = true
			return "x", nil
		},
	})

	release, ok := gate.TryAcquire()
	require.True(t, ok)
	defer release()

	rec := serve(w, postForm("/run/split", url.Values{
		"source": {src},
		"pages":  {"1"},
	}))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "an operation is already running")
	assert.False(t, called)
}

func TestRunUnknownOperation(t *testing.T) {
	w, _ := newTestWeb(t, ops.Dependencies{})

	rec := serve(w, postForm("/run/rotate", url.Values{}))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRunRequiresPost(t *testing.T) {
	w, _ := newTestWeb(t, ops.Dependencies{})

	rec := serve(w, httptest.NewRequest(http.MethodGet, "/run/split", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestMergeRequiresOutputPath(t *testing.T) {
	w, _ := newTestWeb(t, ops.Dependencies{
		Merge: func([]string, string) (string, error) {
			t.Fatal("merge must not run without an output path")
			return "", nil
		},
	})

	rec := serve(w, postForm("/run/merge", url.Values{
		"sources": {"/tmp/a.pdf\n/tmp/b.pdf"},
	}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "output file path is required")
}

func TestMergePassesSourcesInLineOrder(t *testing.T) {
	dir := t.TempDir()
	a := writePDFStub(t, dir, "a.pdf")
	b := writePDFStub(t, dir, "b.pdf")
	out := filepath.Join(dir, "merged.pdf")

	var got []string
	w, _ := newTestWeb(t, ops.Dependencies{
		Merge: func(srcs []string, outPath string) (string, error) {
			got = append([]string(nil), srcs...)
			return outPath, nil
		},
	})

	rec := serve(w, postForm("/run/merge", url.Values{
		"sources": {b + "\r\n" + a + "\n\n"},
		"out":     {out},
	}))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{b, a}, got)
}

func TestImagesRejectsBadDPI(t *testing.T) {
	dir := t.TempDir()
	src := writePDFStub(t, dir, "doc.pdf")

	w, _ := newTestWeb(t, ops.Dependencies{
		Images: func(string, string, int, string) ([]string, error) {
			t.Fatal("rasterizer must not run on a bad dpi")
			return nil, nil
		},
	})

	rec := serve(w, postForm("/run/images", url.Values{
		"source": {src},
		"dpi":    {"abc"},
	}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid dpi")
}

func TestPreflightWarningShown(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(txt, []byte("plain text here"), 0o644))
	out := filepath.Join(dir, "merged.pdf")

	w, _ := newTestWeb(t, ops.Dependencies{
		Merge: func(srcs []string, outPath string) (string, error) {
			return outPath, nil
		},
	})

	rec := serve(w, postForm("/run/merge", url.Values{
		"sources": {txt},
		"out":     {out},
	}))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "does not look like a PDF")
}

func TestHealthz(t *testing.T) {
	w, _ := newTestWeb(t, ops.Dependencies{})

	rec := serve(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `"pdf_engine"`)
	assert.Contains(t, rec.Body.String(), `"temp_dir"`)
}

func TestMetricsEndpoint(t *testing.T) {
	w, _ := newTestWeb(t, ops.Dependencies{})

	rec := serve(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestWordRunsWithContext(t *testing.T) {
	dir := t.TempDir()
	src := writePDFStub(t, dir, "doc.pdf")
	out := filepath.Join(dir, "doc.docx")

	w, _ := newTestWeb(t, ops.Dependencies{
		Word: func(ctx context.Context, s, outPath string) (string, error) {
			require.NotNil(t, ctx)
			return outPath, nil
		},
	})

	rec := serve(w, postForm("/run/word", url.Values{
		"source": {src},
		"out":    {out},
	}))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "doc.docx")
}
