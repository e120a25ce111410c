// Package mupdf wraps the MuPDF engine behind a small Document interface
// so page rendering and text extraction can run against the real engine or
// an in-memory fake.
package mupdf

import (
	"errors"
	"image"
)

// Document abstracts an open PDF for page rendering and text extraction.
// Page indices are zero-based.
type Document interface {
	NumPage() int
	ImageDPI(page int, dpi float64) (*image.RGBA, error)
	Text(page int) (string, error)
	Close() error
}

// Opener abstracts opening a PDF path into a Document.
type Opener interface {
	Open(path string) (Document, error)
}

// defaultOpener is installed in gofitz.go; tests swap it via SetOpener.
var defaultOpener Opener

// SetOpener swaps the engine and returns the previous one so callers can
// restore it.
func SetOpener(o Opener) Opener {
	prev := defaultOpener
	defaultOpener = o
	return prev
}

// Open opens the PDF at path with the configured engine.
func Open(path string) (Document, error) {
	if defaultOpener == nil {
		return nil, errors.New("no PDF engine configured")
	}
	return defaultOpener.Open(path)
}

// Configured reports whether an engine is installed.
func Configured() bool {
	return defaultOpener != nil
}
