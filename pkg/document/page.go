package document

import "github.com/jdeng/goeink/internal/engine"

// Page is a decoded page of a Document. A Page does not keep its Document
// open; once the Document is closed every Page operation fails with
// ErrDocumentClosed.
type Page struct {
	num  int
	ref  *engine.Page
	info engine.PageInfo
	doc  *Document
}

// Number returns the page number, counting from 1.
func (p *Page) Number() int { return p.num }

// Info returns the page metadata fetched when the page was opened. It is
// the zero value when the engine could not provide it.
func (p *Page) Info() engine.PageInfo { return p.info }

func (p *Page) check() error {
	if p.doc.Closed() {
		return ErrDocumentClosed
	}
	if p.ref == nil {
		return ErrPageClosed
	}
	return nil
}

// NativeWidth returns the page width in pixels at the engine's native
// resolution, or 0 when the page or its document is closed.
func (p *Page) NativeWidth() int {
	if p.check() != nil {
		return 0
	}
	return p.ref.Width()
}

// NativeHeight returns the page height in pixels at the engine's native
// resolution, or 0 when the page or its document is closed.
func (p *Page) NativeHeight() int {
	if p.check() != nil {
		return 0
	}
	return p.ref.Height()
}

// Size returns the native page size scaled by the draw context's zoom.
// Rotation is not taken into account.
func (p *Page) Size(dc *DrawContext) (float64, float64) {
	return float64(p.NativeWidth()) * dc.Zoom(), float64(p.NativeHeight()) * dc.Zoom()
}

// Close releases the decoded page. It is safe to call Close more than once,
// also after the Document has been closed.
func (p *Page) Close() error {
	if p.ref != nil {
		p.ref.Release()
		p.ref = nil
	}
	return nil
}
