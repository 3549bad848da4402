// Package scripting exposes documents, draw contexts and blit buffers to
// JavaScript through the global object eink.
//
//	var doc = eink.openDocument("book.cbz");
//	var page = doc.openPage(1);
//	var bb = eink.newBlitBuffer(600, 800);
//	page.draw(eink.newDC(0, 1, 0, 0, -1), bb, 0, 0);
//	eink.present(bb);
//
// Failed operations throw; the Go error is available to Execute callers
// through errors.As.
package scripting

import (
	"context"

	"github.com/jdeng/goeink/pkg/blitbuffer"
)

// Engine runs scripts against the document API.
type Engine interface {
	// Execute runs script and returns its completion value exported to Go.
	Execute(ctx context.Context, script string) (interface{}, error)

	// Presented returns the last buffer passed to eink.present, or nil.
	Presented() *blitbuffer.BlitBuffer

	// Close closes every document opened by scripts.
	Close() error
}
