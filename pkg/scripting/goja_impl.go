package scripting

import (
	"context"
	"fmt"

	"github.com/dop251/goja"

	"github.com/jdeng/goeink/internal/observability"
	"github.com/jdeng/goeink/pkg/blitbuffer"
	"github.com/jdeng/goeink/pkg/document"
)

// handleKey names the hidden property that carries the Go value behind a
// script object.
const handleKey = "__handle"

var _ Engine = (*GojaEngine)(nil)

type GojaEngine struct {
	vm   *goja.Runtime
	ctx  context.Context
	opts []document.Option
	log  observability.Logger

	docs      []*document.Document
	presented *blitbuffer.BlitBuffer
}

// NewEngine returns an engine with the eink global registered. opts apply
// to every document a script opens.
func NewEngine(log observability.Logger, opts ...document.Option) *GojaEngine {
	if log == nil {
		log = observability.NopLogger{}
	}
	e := &GojaEngine{
		vm:   goja.New(),
		ctx:  context.Background(),
		opts: append([]document.Option{document.WithLogger(log)}, opts...),
		log:  log,
	}
	e.register()
	return e
}

func (e *GojaEngine) Execute(ctx context.Context, script string) (interface{}, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		select {
		case <-ctx.Done():
			e.vm.Interrupt(ctx.Err())
		case <-done:
		}
	}()
	// The watcher must be gone before the interrupt is cleared, or a late
	// cancellation would leak into the next run.
	defer func() {
		close(done)
		<-stopped
		e.vm.ClearInterrupt()
	}()

	e.ctx = ctx
	defer func() { e.ctx = context.Background() }()

	val, err := e.vm.RunString(script)
	if err != nil {
		if interruptedErr, ok := err.(*goja.InterruptedError); ok {
			if cause := interruptedErr.Unwrap(); cause != nil {
				return nil, cause
			}
			return nil, context.Canceled
		}
		return nil, err
	}
	return val.Export(), nil
}

func (e *GojaEngine) Presented() *blitbuffer.BlitBuffer { return e.presented }

func (e *GojaEngine) Close() error {
	for _, d := range e.docs {
		d.Close()
	}
	e.docs = nil
	return nil
}

// throw raises err as a JavaScript exception.
func (e *GojaEngine) throw(err error) {
	panic(e.vm.NewGoError(err))
}

func (e *GojaEngine) wrap(v interface{}) *goja.Object {
	obj := e.vm.NewObject()
	obj.DefineDataProperty(handleKey, e.vm.ToValue(v), goja.FLAG_FALSE, goja.FLAG_FALSE, goja.FLAG_FALSE)
	return obj
}

func unwrap[T any](v goja.Value) (T, bool) {
	var zero T
	obj, ok := v.(*goja.Object)
	if !ok {
		return zero, false
	}
	h := obj.Get(handleKey)
	if h == nil {
		return zero, false
	}
	t, ok := h.Export().(T)
	return t, ok
}

// arg returns argument i as a T handle or throws a TypeError.
func arg[T any](e *GojaEngine, call goja.FunctionCall, i int, what string) T {
	t, ok := unwrap[T](call.Argument(i))
	if !ok {
		panic(e.vm.NewTypeError(fmt.Sprintf("argument %d is not a %s", i+1, what)))
	}
	return t
}

func (e *GojaEngine) register() {
	eink := e.vm.NewObject()

	eink.Set("openDocument", func(call goja.FunctionCall) goja.Value {
		path := call.Argument(0).String()
		d, err := document.OpenContext(e.ctx, path, e.opts...)
		if err != nil {
			e.throw(err)
		}
		e.docs = append(e.docs, d)
		return e.documentObject(d)
	})

	eink.Set("newDC", func(call goja.FunctionCall) goja.Value {
		dc := document.NewDrawContext()
		if len(call.Arguments) > 0 {
			dc.SetRotate(int(call.Argument(0).ToInteger()))
		}
		if len(call.Arguments) > 1 {
			dc.SetZoom(call.Argument(1).ToFloat())
		}
		if len(call.Arguments) > 3 {
			dc.SetOffset(int(call.Argument(2).ToInteger()), int(call.Argument(3).ToInteger()))
		}
		if len(call.Arguments) > 4 {
			dc.SetGamma(call.Argument(4).ToFloat())
		}
		return e.drawContextObject(dc)
	})

	eink.Set("newBlitBuffer", func(call goja.FunctionCall) goja.Value {
		bb, err := blitbuffer.New(int(call.Argument(0).ToInteger()), int(call.Argument(1).ToInteger()))
		if err != nil {
			e.throw(err)
		}
		return e.blitBufferObject(bb)
	})

	eink.Set("present", func(call goja.FunctionCall) goja.Value {
		e.presented = arg[*blitbuffer.BlitBuffer](e, call, 0, "blit buffer")
		return goja.Undefined()
	})

	e.vm.Set("eink", eink)
}

func (e *GojaEngine) documentObject(d *document.Document) goja.Value {
	obj := e.wrap(d)

	obj.Set("openPage", func(call goja.FunctionCall) goja.Value {
		p, err := d.OpenPageContext(e.ctx, int(call.Argument(0).ToInteger()))
		if err != nil {
			e.throw(err)
		}
		return e.pageObject(p)
	})

	obj.Set("getPages", func(goja.FunctionCall) goja.Value {
		return e.vm.ToValue(d.Pages())
	})

	obj.Set("close", func(goja.FunctionCall) goja.Value {
		d.Close()
		return goja.Undefined()
	})

	return obj
}

func (e *GojaEngine) pageObject(p *document.Page) goja.Value {
	obj := e.wrap(p)

	obj.Set("getSize", func(call goja.FunctionCall) goja.Value {
		dc := arg[*document.DrawContext](e, call, 0, "draw context")
		w, h := p.Size(dc)
		return e.vm.NewArray(w, h)
	})

	obj.Set("draw", func(call goja.FunctionCall) goja.Value {
		dc := arg[*document.DrawContext](e, call, 0, "draw context")
		bb := arg[*blitbuffer.BlitBuffer](e, call, 1, "blit buffer")
		x, y := int(call.Argument(2).ToInteger()), int(call.Argument(3).ToInteger())
		if err := p.Draw(dc, bb, x, y); err != nil {
			e.throw(err)
		}
		e.log.Debug("page drawn", observability.Int("page", p.Number()), observability.Int("x", x), observability.Int("y", y))
		return goja.Undefined()
	})

	obj.Set("close", func(goja.FunctionCall) goja.Value {
		p.Close()
		return goja.Undefined()
	})

	return obj
}

func (e *GojaEngine) drawContextObject(dc *document.DrawContext) goja.Value {
	obj := e.wrap(dc)

	obj.Set("setRotate", func(call goja.FunctionCall) goja.Value {
		dc.SetRotate(int(call.Argument(0).ToInteger()))
		return goja.Undefined()
	})
	obj.Set("getRotate", func(goja.FunctionCall) goja.Value { return e.vm.ToValue(dc.Rotate()) })

	obj.Set("setZoom", func(call goja.FunctionCall) goja.Value {
		dc.SetZoom(call.Argument(0).ToFloat())
		return goja.Undefined()
	})
	obj.Set("getZoom", func(goja.FunctionCall) goja.Value { return e.vm.ToValue(dc.Zoom()) })

	obj.Set("setOffset", func(call goja.FunctionCall) goja.Value {
		dc.SetOffset(int(call.Argument(0).ToInteger()), int(call.Argument(1).ToInteger()))
		return goja.Undefined()
	})
	obj.Set("getOffset", func(goja.FunctionCall) goja.Value {
		x, y := dc.Offset()
		return e.vm.NewArray(x, y)
	})

	obj.Set("setGamma", func(call goja.FunctionCall) goja.Value {
		dc.SetGamma(call.Argument(0).ToFloat())
		return goja.Undefined()
	})
	obj.Set("getGamma", func(goja.FunctionCall) goja.Value { return e.vm.ToValue(dc.Gamma()) })

	return obj
}

func (e *GojaEngine) blitBufferObject(bb *blitbuffer.BlitBuffer) goja.Value {
	obj := e.wrap(bb)

	obj.Set("getWidth", func(goja.FunctionCall) goja.Value { return e.vm.ToValue(bb.Width()) })
	obj.Set("getHeight", func(goja.FunctionCall) goja.Value { return e.vm.ToValue(bb.Height()) })

	obj.Set("getPixel", func(call goja.FunctionCall) goja.Value {
		return e.vm.ToValue(bb.GetPixel(int(call.Argument(0).ToInteger()), int(call.Argument(1).ToInteger())))
	})

	obj.Set("fill", func(call goja.FunctionCall) goja.Value {
		bb.Fill(uint8(call.Argument(0).ToInteger()))
		return goja.Undefined()
	})

	return obj
}
