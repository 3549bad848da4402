package engine

import (
	"context"
	"sync"
)

// Context owns the message queue shared by every document opened under it.
// The queue supports a single consumer; producers are the decoding
// goroutines started by OpenDocument and OpenPage.
type Context struct {
	name string

	mu       sync.Mutex
	queue    []*Message
	notify   chan struct{}
	released bool
	jobs     sync.WaitGroup
}

// CreateContext returns a new decoding context labelled with name.
func CreateContext(name string) *Context {
	return &Context{
		name:   name,
		notify: make(chan struct{}, 1),
	}
}

// Name returns the label given at creation.
func (c *Context) Name() string { return c.name }

// Peek returns the oldest queued message without removing it, or nil when
// the queue is empty.
func (c *Context) Peek() *Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.queue) == 0 {
		return nil
	}
	return c.queue[0]
}

// Pop removes the oldest queued message, if any.
func (c *Context) Pop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.queue) == 0 {
		return
	}
	c.queue[0] = nil
	c.queue = c.queue[1:]
}

// Wait blocks until at least one message is queued or ctx is done.
func (c *Context) Wait(ctx context.Context) error {
	for {
		c.mu.Lock()
		n := len(c.queue)
		c.mu.Unlock()
		if n > 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.notify:
		}
	}
}

// Pending returns the number of queued messages.
func (c *Context) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}

func (c *Context) post(msg *Message) {
	c.mu.Lock()
	if c.released {
		c.mu.Unlock()
		return
	}
	c.queue = append(c.queue, msg)
	c.mu.Unlock()

	select {
	case c.notify <- struct{}{}:
	default:
	}
}

// Release drops queued messages and waits for running decode jobs to finish.
// Documents opened under c must be released first.
func (c *Context) Release() {
	c.mu.Lock()
	c.released = true
	c.queue = nil
	c.mu.Unlock()
	c.jobs.Wait()
}

func (c *Context) spawn(job func()) {
	c.jobs.Add(1)
	go func() {
		defer c.jobs.Done()
		job()
	}()
}
