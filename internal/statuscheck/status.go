// Package statuscheck reports whether the tools the operations depend on
// are ready, for the dashboard and the health endpoint.
package statuscheck

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/local/pdfdesk/internal/mupdf"
)

// Status represents the readiness of a subsystem.
type Status struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// Summary bundles all subsystem statuses.
type Summary struct {
	PDFEngine   Status `json:"pdf_engine"`
	LibreOffice Status `json:"libreoffice"`
	TempDir     Status `json:"temp_dir"`
}

// Healthy reports whether the subsystems every core operation needs are
// ready. LibreOffice is excluded: only the Word conversion requires it.
func (s Summary) Healthy() bool {
	return s.PDFEngine.OK && s.TempDir.OK
}

// Checker probes the local environment.
type Checker struct {
	soffice string
	tempDir string
}

// Options configures the Checker.
type Options struct {
	SofficePath string
	TempDir     string
}

// New creates a new Checker with the provided options.
func New(opts Options) *Checker {
	soffice := opts.SofficePath
	if soffice == "" {
		soffice = "soffice"
	}
	tempDir := opts.TempDir
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	return &Checker{soffice: soffice, tempDir: tempDir}
}

// Summary returns the current status snapshot.
func (c *Checker) Summary() Summary {
	return Summary{
		PDFEngine:   c.checkPDFEngine(),
		LibreOffice: c.checkLibreOffice(),
		TempDir:     c.checkTempDir(),
	}
}

func (c *Checker) checkPDFEngine() Status {
	if !mupdf.Configured() {
		return Status{OK: false, Message: "Renderer not linked"}
	}
	return Status{OK: true, Message: "Embedded"}
}

func (c *Checker) checkLibreOffice() Status {
	path, err := exec.LookPath(c.soffice)
	if err != nil {
		return Status{OK: false, Message: "Binary not found"}
	}
	return Status{OK: true, Message: path}
}

func (c *Checker) checkTempDir() Status {
	probe := filepath.Join(c.tempDir, ".pdfdesk-probe")
	if err := os.WriteFile(probe, []byte("ok"), 0o600); err != nil {
		return Status{OK: false, Message: trimError(err)}
	}
	os.Remove(probe)
	return Status{OK: true, Message: "Writable"}
}

func trimError(err error) string {
	if err == nil {
		return ""
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "timeout"
	}
	msg := err.Error()
	if len(msg) > 120 {
		return msg[:120]
	}
	return msg
}
