package engine

import (
	"errors"
	"fmt"
	"image"
	"os"
	"sync"
)

// DocumentOptions configures how a document is decoded.
type DocumentOptions struct {
	// DPI is the native resolution used for formats without intrinsic
	// pixel dimensions (PDF, EPUB). Zero selects the engine default.
	DPI int
}

var errDocumentReleased = errors.New("engine: document released")

// Document is a document being decoded under a Context. Opening a document
// starts decoding on a background goroutine; completion and failures are
// reported through the context's message queue.
type Document struct {
	ctx  *Context
	path string
	dpi  int

	mu       sync.Mutex
	status   Status
	src      source
	released bool

	// srcMu serialises access to src, which is not safe for concurrent use.
	srcMu sync.Mutex
}

// OpenDocument requests decoding of the file at path. It returns nil when
// ctx is nil or the file cannot be opened at all; every later failure is
// posted as an error message and leaves the document in StatusFailed.
func OpenDocument(ctx *Context, path string, opts DocumentOptions) *Document {
	if ctx == nil {
		return nil
	}
	fi, err := os.Stat(path)
	if err != nil || fi.IsDir() {
		return nil
	}
	dpi := opts.DPI
	if dpi <= 0 {
		dpi = defaultDPI
	}
	doc := &Document{ctx: ctx, path: path, dpi: dpi, status: StatusStarted}
	ctx.spawn(doc.decode)
	return doc
}

func (d *Document) decode() {
	src, err := openSource(d.path, d.dpi)

	d.mu.Lock()
	if d.released {
		d.mu.Unlock()
		if src != nil {
			src.Close()
		}
		return
	}
	if err != nil {
		d.mu.Unlock()
		d.fail(err)
		return
	}
	d.src = src
	d.status = StatusOK
	d.mu.Unlock()

	d.ctx.post(&Message{Tag: TagDocInfo, Document: d})
}

// fail posts an error message and marks the document failed. The error is
// queued before the status changes so a waiter never observes completion
// without the error.
func (d *Document) fail(err error) {
	d.ctx.post(errorMessage(d, nil, err))
	d.mu.Lock()
	d.status = StatusFailed
	d.mu.Unlock()
	d.ctx.post(&Message{Tag: TagDocInfo, Document: d})
}

// Path returns the file the document was opened from.
func (d *Document) Path() string { return d.path }

// Context returns the context the document was opened under.
func (d *Document) Context() *Context { return d.ctx }

// Status returns the decoding status.
func (d *Document) Status() Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.status
}

// IsDecoded reports whether decoding has finished, successfully or not.
func (d *Document) IsDecoded() bool {
	return d.Status().Done()
}

// PageCount returns the number of pages, or 0 before decoding succeeds.
func (d *Document) PageCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.src == nil {
		return 0
	}
	return d.src.NumPages()
}

// PageInfo returns metadata for the page at the zero-based index.
func (d *Document) PageInfo(index int) (PageInfo, error) {
	var info PageInfo
	err := d.withSource(func(src source) error {
		if index < 0 || index >= src.NumPages() {
			return fmt.Errorf("engine: page index %d out of range (0-%d)", index, src.NumPages()-1)
		}
		var err error
		info, err = src.PageInfo(index)
		return err
	})
	return info, err
}

func (d *Document) decodePage(index int) (*image.Gray, error) {
	var img *image.Gray
	err := d.withSource(func(src source) error {
		var err error
		img, err = src.DecodePage(index)
		return err
	})
	return img, err
}

func (d *Document) withSource(fn func(src source) error) error {
	d.srcMu.Lock()
	defer d.srcMu.Unlock()

	d.mu.Lock()
	src := d.src
	released := d.released
	d.mu.Unlock()
	if released {
		return errDocumentReleased
	}
	if src == nil {
		return fmt.Errorf("engine: document not decoded (%v)", d.Status())
	}
	return fn(src)
}

// Release closes the underlying container. Pages opened from d must not be
// used afterwards. Calling Release more than once is a no-op.
func (d *Document) Release() {
	d.srcMu.Lock()
	defer d.srcMu.Unlock()

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.released {
		return
	}
	d.released = true
	if !d.status.Done() {
		d.status = StatusStopped
	}
	if d.src != nil {
		d.src.Close()
		d.src = nil
	}
}
