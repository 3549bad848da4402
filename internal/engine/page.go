package engine

import (
	"image"
	"sync"
)

// Page is a page being decoded from a Document.
type Page struct {
	doc   *Document
	index int

	mu     sync.Mutex
	status Status
	img    *image.Gray
}

// OpenPage requests decoding of the page at the zero-based index. It returns
// nil when doc is nil, not successfully decoded, or index is out of range.
func OpenPage(doc *Document, index int) *Page {
	if doc == nil || doc.Status() != StatusOK {
		return nil
	}
	if index < 0 || index >= doc.PageCount() {
		return nil
	}
	p := &Page{doc: doc, index: index, status: StatusStarted}
	doc.ctx.spawn(p.decode)
	return p
}

func (p *Page) decode() {
	img, err := p.doc.decodePage(p.index)
	if err == nil {
		b := img.Bounds()
		err = validatePageBounds(b.Dx(), b.Dy())
	}
	if err != nil {
		p.fail(err)
		return
	}

	p.mu.Lock()
	if p.status == StatusStopped {
		p.mu.Unlock()
		return
	}
	p.img = img
	p.status = StatusOK
	p.mu.Unlock()

	p.doc.ctx.post(&Message{Tag: TagPageInfo, Document: p.doc, Page: p})
}

func (p *Page) fail(err error) {
	if p.Status() == StatusStopped {
		return
	}
	p.doc.ctx.post(errorMessage(p.doc, p, err))
	p.mu.Lock()
	if p.status != StatusStopped {
		p.status = StatusFailed
	}
	p.mu.Unlock()
	p.doc.ctx.post(&Message{Tag: TagPageInfo, Document: p.doc, Page: p})
}

// Index returns the zero-based page index.
func (p *Page) Index() int { return p.index }

// Document returns the document the page belongs to.
func (p *Page) Document() *Document { return p.doc }

// Status returns the decoding status.
func (p *Page) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// IsDecoded reports whether decoding has finished, successfully or not.
func (p *Page) IsDecoded() bool {
	return p.Status().Done()
}

// Width returns the page width in pixels at native resolution, or 0 before
// decoding succeeds.
func (p *Page) Width() int {
	if img := p.image(); img != nil {
		return img.Rect.Dx()
	}
	return 0
}

// Height returns the page height in pixels at native resolution, or 0
// before decoding succeeds.
func (p *Page) Height() int {
	if img := p.image(); img != nil {
		return img.Rect.Dy()
	}
	return 0
}

func (p *Page) image() *image.Gray {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.img
}

// Release drops the decoded pixels. Calling Release more than once is a
// no-op.
func (p *Page) Release() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.img = nil
	p.status = StatusStopped
}
