package document

import (
	"context"

	"github.com/jdeng/goeink/internal/engine"
)

// messageQueue is the consumer side of an engine context's message queue.
type messageQueue interface {
	Wait(ctx context.Context) error
	Peek() *engine.Message
	Pop()
}

// handleMessages drains the queue, blocking first for at least one message
// when wait is set. The first error message is returned as a *DecodeError;
// all other messages are discarded. A nil queue is a no-op.
func handleMessages(ctx context.Context, q messageQueue, wait bool) error {
	if q == nil {
		return nil
	}
	if wait {
		if err := q.Wait(ctx); err != nil {
			return err
		}
	}
	for msg := q.Peek(); msg != nil; msg = q.Peek() {
		q.Pop()
		if msg.Tag == engine.TagError {
			return &DecodeError{Message: msg.Text, Filename: msg.Filename, Line: msg.Line}
		}
	}
	return nil
}

// waitForDecode blocks until done reports true, failing on the first error
// message. Messages about other jobs are discarded along the way.
func waitForDecode(ctx context.Context, q messageQueue, done func() bool) error {
	if q == nil {
		return &EngineError{Msg: "no decoding context"}
	}
	for !done() {
		if err := handleMessages(ctx, q, true); err != nil {
			return err
		}
	}
	// An error may have been queued together with completion.
	return handleMessages(ctx, q, false)
}
