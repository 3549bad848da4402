// Package document opens paged documents, renders their pages and packs the
// result into 4-bit grayscale framebuffers.
//
// Decoding happens asynchronously inside the engine; every call in this
// package that needs a decoded document or page blocks until the engine
// reports completion or an error. A Document and the Pages opened from it are
// not safe for concurrent use. Use one Document per goroutine.
//
// Close a Document with defer once it is no longer needed:
//
//	doc, err := document.Open("book.cbz")
//	if err != nil {
//		return err
//	}
//	defer doc.Close()
package document

import (
	"context"

	"github.com/jdeng/goeink/internal/engine"
	"github.com/jdeng/goeink/internal/observability"
)

// Document is an open document together with the engine context that
// decodes it.
type Document struct {
	path  string
	ctx   *engine.Context
	doc   *engine.Document
	pages int
	log   observability.Logger
}

// Open opens the document at path and waits until the engine has decoded
// its structure.
func Open(path string, opts ...Option) (*Document, error) {
	return OpenContext(context.Background(), path, opts...)
}

// OpenContext is like Open but gives up waiting for the engine when ctx is
// done.
func OpenContext(ctx context.Context, path string, opts ...Option) (*Document, error) {
	o := buildOptions(opts)
	log := o.Logger.With(observability.String("path", path))

	ectx := engine.CreateContext(o.ContextName)
	if ectx == nil {
		return nil, &EngineError{Msg: "cannot create context"}
	}
	d := &Document{path: path, ctx: ectx, log: log}

	d.doc = engine.OpenDocument(ectx, path, engine.DocumentOptions{DPI: o.DPI})
	if d.doc == nil {
		d.Close()
		return nil, &OpenError{Path: path}
	}
	if err := waitForDecode(ctx, ectx, d.doc.IsDecoded); err != nil {
		d.Close()
		return nil, err
	}
	if d.doc.Status() != engine.StatusOK {
		d.Close()
		return nil, &OpenError{Path: path}
	}

	d.pages = d.doc.PageCount()
	log.Debug("document opened", observability.Int("pages", d.pages))
	return d, nil
}

// Path returns the path the document was opened from.
func (d *Document) Path() string { return d.path }

// Pages returns the number of pages.
func (d *Document) Pages() int { return d.pages }

// Closed reports whether Close has been called.
func (d *Document) Closed() bool { return d.ctx == nil }

// OpenPage opens page n, counting from 1, and waits until it is decoded.
func (d *Document) OpenPage(n int) (*Page, error) {
	return d.OpenPageContext(context.Background(), n)
}

// OpenPageContext is like OpenPage but gives up waiting for the engine when
// ctx is done.
func (d *Document) OpenPageContext(ctx context.Context, n int) (*Page, error) {
	if d.Closed() {
		return nil, ErrDocumentClosed
	}
	if n < 1 || n > d.pages {
		return nil, &RangeError{Requested: n, Min: 1, Max: d.pages}
	}

	ref := engine.OpenPage(d.doc, n-1)
	if ref == nil {
		return nil, &OpenPageError{Page: n}
	}
	if err := waitForDecode(ctx, d.ctx, ref.IsDecoded); err != nil {
		ref.Release()
		return nil, err
	}
	if ref.Status() != engine.StatusOK {
		ref.Release()
		return nil, &OpenPageError{Page: n}
	}

	p := &Page{num: n, ref: ref, doc: d}
	info, err := d.doc.PageInfo(n - 1)
	if err != nil {
		d.log.Warn("page info unavailable", observability.Int("page", n), observability.Error("error", err))
	} else {
		p.info = info
	}
	return p, nil
}

// Close releases the document and then its engine context. It is safe to
// call Close more than once.
func (d *Document) Close() error {
	if d.doc != nil {
		d.doc.Release()
		d.doc = nil
	}
	if d.ctx != nil {
		d.ctx.Release()
		d.ctx = nil
		d.log.Debug("document closed")
	}
	return nil
}
