// Package converter turns PDFs into editable Word documents by driving a
// headless LibreOffice child process.
package converter

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/local/pdfdesk/internal/operr"
)

const op = "word"

// DefaultTimeout bounds a single conversion. LibreOffice occasionally
// wedges on malformed input and never exits on its own.
const DefaultTimeout = 5 * time.Minute

// LibreOffice converts PDFs to DOCX through a headless soffice child.
type LibreOffice struct {
	binary  string
	timeout time.Duration
}

// New returns a converter driving the given soffice binary. An empty
// binary means "soffice" resolved via PATH; a non-positive timeout means
// DefaultTimeout.
func New(binary string, timeout time.Duration) *LibreOffice {
	if binary == "" {
		binary = "soffice"
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &LibreOffice{binary: binary, timeout: timeout}
}

// CheckInstallation verifies the soffice binary is resolvable.
func (l *LibreOffice) CheckInstallation() error {
	if _, err := exec.LookPath(l.binary); err != nil {
		return operr.Wrap(operr.KindDelegated, op, err, "%s not found in PATH", l.binary)
	}
	return nil
}

// ConvertToWord converts the whole PDF at srcPath into a DOCX written to
// outPath and returns outPath. The child runs with a disposable user
// profile and is killed once the configured timeout elapses.
func (l *LibreOffice) ConvertToWord(ctx context.Context, srcPath, outPath string) (string, error) {
	start := time.Now()

	if _, err := os.Stat(srcPath); err != nil {
		if os.IsNotExist(err) {
			return "", operr.New(operr.KindNotFound, op, "file not found: %s", srcPath)
		}
		return "", operr.Wrap(operr.KindIO, op, err, "stat %s", srcPath)
	}
	if err := l.CheckInstallation(); err != nil {
		return "", err
	}

	outDir := filepath.Dir(outPath)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", operr.Wrap(operr.KindIO, op, err, "creating output dir %s", outDir)
	}

	// An isolated profile keeps concurrent or crashed children from
	// corrupting a shared LibreOffice profile.
	profileDir := filepath.Join(os.TempDir(), "pdfdesk_profile_"+uuid.New().String())
	if err := os.MkdirAll(profileDir, 0o755); err != nil {
		return "", operr.Wrap(operr.KindIO, op, err, "creating profile dir %s", profileDir)
	}
	defer os.RemoveAll(profileDir)

	// soffice names its output after the input, so convert into a staging
	// dir and rename onto the requested destination afterwards. Staging
	// lives next to the destination to keep the rename on one filesystem.
	staging, err := os.MkdirTemp(outDir, ".pdfdesk-word-")
	if err != nil {
		return "", operr.Wrap(operr.KindIO, op, err, "creating staging dir in %s", outDir)
	}
	defer os.RemoveAll(staging)

	cmd := exec.Command(
		l.binary,
		"-env:UserInstallation=file://"+profileDir,
		"--headless",
		"--infilter=writer_pdf_import",
		"--convert-to", "docx",
		"--outdir", staging,
		srcPath,
	)
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	log.Info().Str("src", srcPath).Str("out", outPath).Msg("converting to word")
	log.Debug().Str("cmd", strings.Join(cmd.Args, " ")).Msg("soffice command")

	if err := cmd.Start(); err != nil {
		return "", operr.Wrap(operr.KindDelegated, op, err, "starting %s", l.binary)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case err := <-done:
		if err != nil {
			msg := strings.TrimSpace(output.String())
			if msg == "" {
				return "", operr.Wrap(operr.KindDelegated, op, err, "%s failed", l.binary)
			}
			return "", operr.Wrap(operr.KindDelegated, op, err, "%s failed: %s", l.binary, msg)
		}
	case <-time.After(l.timeout):
		if cmd.Process != nil {
			cmd.Process.Kill()
		}
		<-done
		return "", operr.New(operr.KindDelegated, op, "%s timed out after %v", l.binary, l.timeout)
	case <-ctx.Done():
		if cmd.Process != nil {
			cmd.Process.Kill()
		}
		<-done
		return "", operr.Wrap(operr.KindDelegated, op, ctx.Err(), "conversion canceled")
	}

	staged := filepath.Join(staging, stagedName(srcPath))
	if _, err := os.Stat(staged); err != nil {
		return "", operr.New(operr.KindDelegated, op, "%s produced no output: %s", l.binary, strings.TrimSpace(output.String()))
	}
	if err := os.Rename(staged, outPath); err != nil {
		return "", operr.Wrap(operr.KindIO, op, err, "moving result to %s", outPath)
	}

	log.Info().Str("out", outPath).Dur("duration", time.Since(start)).Msg("conversion successful")
	return outPath, nil
}

// stagedName is the file name soffice gives the converted document.
func stagedName(srcPath string) string {
	base := filepath.Base(srcPath)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".docx"
}
