package document

import (
	"errors"
	"fmt"
)

var (
	// ErrDocumentClosed is returned by operations on a closed Document or on
	// a Page whose Document has been closed.
	ErrDocumentClosed = errors.New("document: document is closed")
	// ErrPageClosed is returned by operations on a closed Page.
	ErrPageClosed = errors.New("document: page is closed")
)

// EngineError reports that the decoding engine could not be set up.
type EngineError struct {
	Msg string
}

func (e *EngineError) Error() string {
	return "document: engine: " + e.Msg
}

// DecodeError is an error reported by the decoding engine while a document
// or page was being decoded. Filename and Line locate the decoder code that
// raised it; Filename is empty when the engine gave no location.
type DecodeError struct {
	Message  string
	Filename string
	Line     int
}

func (e *DecodeError) Error() string {
	if e.Filename != "" {
		return fmt.Sprintf("document: decode: %s (%s:%d)", e.Message, e.Filename, e.Line)
	}
	return "document: decode: " + e.Message
}

// HasLocation reports whether the engine supplied a source location.
func (e *DecodeError) HasLocation() bool { return e.Filename != "" }

// OpenError reports that the engine produced no document for Path.
type OpenError struct {
	Path string
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("document: cannot open %q", e.Path)
}

// OpenPageError reports that the engine produced no page for Page.
type OpenPageError struct {
	Page int
}

func (e *OpenPageError) Error() string {
	return fmt.Sprintf("document: cannot open page #%d", e.Page)
}

// RangeError reports a page number outside [Min, Max].
type RangeError struct {
	Requested int
	Min, Max  int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("document: cannot open page #%d, out of range (%d-%d)", e.Requested, e.Min, e.Max)
}

// RenderError reports a failed page render.
type RenderError struct {
	Page int
	Err  error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("document: render page #%d: %v", e.Page, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }
