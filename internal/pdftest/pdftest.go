// Package pdftest provides in-memory PDF documents so operations that
// normally drive the MuPDF engine can be exercised without it.
package pdftest

import (
	"fmt"
	"image"
	"image/color"
	"io/fs"
	"testing"

	"github.com/local/pdfdesk/internal/mupdf"
)

// Page describes one fake page. A nil Image renders as a small uniform
// RGBA buffer; RenderErr/TextErr inject per-page failures.
type Page struct {
	Text      string
	Image     *image.RGBA
	RenderErr error
	TextErr   error
}

// Doc is a fake mupdf.Document built from page fixtures.
type Doc struct {
	Pages  []Page
	closed bool
}

// NewDoc builds a document whose pages carry the given texts.
func NewDoc(pageTexts ...string) *Doc {
	pages := make([]Page, len(pageTexts))
	for i, t := range pageTexts {
		pages[i] = Page{Text: t}
	}
	return &Doc{Pages: pages}
}

func (d *Doc) NumPage() int { return len(d.Pages) }

func (d *Doc) ImageDPI(page int, dpi float64) (*image.RGBA, error) {
	if page < 0 || page >= len(d.Pages) {
		return nil, fmt.Errorf("page %d out of range", page)
	}
	p := d.Pages[page]
	if p.RenderErr != nil {
		return nil, p.RenderErr
	}
	if p.Image != nil {
		return p.Image, nil
	}
	return UniformImage(8, 8, color.RGBA{R: 200, G: 200, B: 200, A: 255}), nil
}

func (d *Doc) Text(page int) (string, error) {
	if page < 0 || page >= len(d.Pages) {
		return "", fmt.Errorf("page %d out of range", page)
	}
	p := d.Pages[page]
	if p.TextErr != nil {
		return "", p.TextErr
	}
	return p.Text, nil
}

func (d *Doc) Close() error {
	d.closed = true
	return nil
}

// Closed reports whether Close was called.
func (d *Doc) Closed() bool { return d.closed }

// Opener serves fake documents by path. Paths not present behave like
// missing files.
type Opener struct {
	Docs map[string]*Doc
	Err  error
}

func (o Opener) Open(path string) (mupdf.Document, error) {
	if o.Err != nil {
		return nil, o.Err
	}
	d, ok := o.Docs[path]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	return d, nil
}

// Install makes the fake opener the engine for the duration of the test
// and restores the previous engine afterwards.
func Install(t testing.TB, o mupdf.Opener) {
	t.Helper()
	prev := mupdf.SetOpener(o)
	t.Cleanup(func() { mupdf.SetOpener(prev) })
}

// InstallDoc registers a single document under path and installs it.
func InstallDoc(t testing.TB, path string, d *Doc) {
	t.Helper()
	Install(t, Opener{Docs: map[string]*Doc{path: d}})
}

// UniformImage builds a w×h RGBA image filled with c.
func UniformImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}
