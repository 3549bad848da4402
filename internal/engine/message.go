package engine

import (
	"fmt"
	"runtime"
)

// Tag identifies the kind of a queued Message.
type Tag int

const (
	TagError Tag = iota
	TagInfo
	TagNewStream
	TagDocInfo
	TagPageInfo
)

func (t Tag) String() string {
	switch t {
	case TagError:
		return "Error"
	case TagInfo:
		return "Info"
	case TagNewStream:
		return "NewStream"
	case TagDocInfo:
		return "DocInfo"
	case TagPageInfo:
		return "PageInfo"
	default:
		return fmt.Sprintf("Tag(%d)", int(t))
	}
}

// Message is a notification posted by a decoding job. Document and Page
// identify the job that posted it; either may be nil.
type Message struct {
	Tag      Tag
	Document *Document
	Page     *Page

	// Text carries the error or informational text.
	Text string
	// Filename and Line locate the decoder code that raised an error.
	// Filename is empty when no location is known.
	Filename string
	Line     int
}

func errorMessage(doc *Document, page *Page, err error) *Message {
	msg := &Message{Tag: TagError, Document: doc, Page: page, Text: err.Error()}
	if _, file, line, ok := runtime.Caller(2); ok {
		msg.Filename = file
		msg.Line = line
	}
	return msg
}
