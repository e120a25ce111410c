package converter

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/local/pdfdesk/internal/operr"
)

// fakeSoffice is a stand-in binary that records its arguments and writes
// a DOCX named after the input into the requested outdir.
const fakeSoffice = `#!/bin/sh
printf '%s\n' "$@" > "${0%.sh}.args"
outdir=""
input=""
while [ $# -gt 0 ]; do
  case "$1" in
    --outdir) outdir="$2"; shift 2 ;;
    --convert-to) shift 2 ;;
    -*) shift ;;
    *) input="$1"; shift ;;
  esac
done
base=$(basename "$input")
printf 'fake docx content' > "$outdir/${base%.*}.docx"
`

func writeScript(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "soffice.sh")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o755))
	return path
}

func writeSource(t *testing.T, dir string) string {
	t.Helper()
	src := filepath.Join(dir, "doc.pdf")
	require.NoError(t, os.WriteFile(src, []byte("%PDF-1.4 stub"), 0o644))
	return src
}

func TestConvertToWord(t *testing.T) {
	dir := t.TempDir()
	bin := writeScript(t, dir, fakeSoffice)
	src := writeSource(t, dir)
	outDir := filepath.Join(dir, "out")
	outPath := filepath.Join(outDir, "report-final.docx")

	got, err := New(bin, time.Minute).ConvertToWord(context.Background(), src, outPath)
	require.NoError(t, err)
	assert.Equal(t, outPath, got)

	content, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, "fake docx content", string(content))

	args, err := os.ReadFile(filepath.Join(dir, "soffice.args"))
	require.NoError(t, err)
	assert.Contains(t, string(args), "--infilter=writer_pdf_import")
	assert.Contains(t, string(args), "-env:UserInstallation=file://")
	assert.Contains(t, string(args), "--convert-to\ndocx")

	// staging dir is gone, only the artifact remains
	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "report-final.docx", entries[0].Name())
}

func TestConvertToWordMissingSource(t *testing.T) {
	dir := t.TempDir()
	bin := writeScript(t, dir, fakeSoffice)

	_, err := New(bin, time.Minute).ConvertToWord(context.Background(), filepath.Join(dir, "absent.pdf"), filepath.Join(dir, "out.docx"))
	require.Error(t, err)
	assert.True(t, operr.IsKind(err, operr.KindNotFound))
}

func TestConvertToWordBinaryNotInstalled(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir)

	_, err := New(filepath.Join(dir, "nope"), time.Minute).ConvertToWord(context.Background(), src, filepath.Join(dir, "out.docx"))
	require.Error(t, err)
	assert.True(t, operr.IsKind(err, operr.KindDelegated))
	assert.Contains(t, err.Error(), "not found")
}

func TestConvertToWordChildFailure(t *testing.T) {
	dir := t.TempDir()
	bin := writeScript(t, dir, "#!/bin/sh\necho 'conversion boom' >&2\nexit 3\n")
	src := writeSource(t, dir)

	_, err := New(bin, time.Minute).ConvertToWord(context.Background(), src, filepath.Join(dir, "out", "doc.docx"))
	require.Error(t, err)
	assert.True(t, operr.IsKind(err, operr.KindDelegated))
	assert.Contains(t, err.Error(), "conversion boom")
}

func TestConvertToWordNoOutput(t *testing.T) {
	dir := t.TempDir()
	bin := writeScript(t, dir, "#!/bin/sh\nexit 0\n")
	src := writeSource(t, dir)

	_, err := New(bin, time.Minute).ConvertToWord(context.Background(), src, filepath.Join(dir, "out", "doc.docx"))
	require.Error(t, err)
	assert.True(t, operr.IsKind(err, operr.KindDelegated))
	assert.Contains(t, err.Error(), "produced no output")
}

func TestConvertToWordTimeout(t *testing.T) {
	dir := t.TempDir()
	bin := writeScript(t, dir, "#!/bin/sh\nexec sleep 5 >/dev/null 2>&1\n")
	src := writeSource(t, dir)

	start := time.Now()
	_, err := New(bin, 100*time.Millisecond).ConvertToWord(context.Background(), src, filepath.Join(dir, "out", "doc.docx"))
	require.Error(t, err)
	assert.True(t, operr.IsKind(err, operr.KindDelegated))
	assert.Contains(t, err.Error(), "timed out")
	assert.Less(t, time.Since(start), 3*time.Second)
}

func TestConvertToWordContextCanceled(t *testing.T) {
	dir := t.TempDir()
	bin := writeScript(t, dir, "#!/bin/sh\nexec sleep 5 >/dev/null 2>&1\n")
	src := writeSource(t, dir)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := New(bin, time.Minute).ConvertToWord(ctx, src, filepath.Join(dir, "out", "doc.docx"))
	require.Error(t, err)
	assert.True(t, operr.IsKind(err, operr.KindDelegated))
	assert.Contains(t, err.Error(), "canceled")
}

func TestNewDefaults(t *testing.T) {
	l := New("", 0)
	assert.Equal(t, "soffice", l.binary)
	assert.Equal(t, DefaultTimeout, l.timeout)
}
