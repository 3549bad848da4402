package document

import (
	"fmt"

	"github.com/jdeng/goeink/internal/engine"
)

// Framebuffer is a destination for rendered pages: 4-bit grayscale, two
// pixels per byte with the even pixel in the high nibble, 0x0 white and 0xF
// black, rows Pitch bytes apart. *blitbuffer.BlitBuffer implements it.
type Framebuffer interface {
	Width() int
	Height() int
	Pitch() int
	Pixels() []byte
}

// Draw renders the page into fb.
//
// The page is scaled to fill the region of fb starting at (x, y) and
// reaching its bottom-right corner. The part of that output starting at the
// draw context's offset is then packed into fb from its top-left corner.
func (p *Page) Draw(dc *DrawContext, fb Framebuffer, x, y int) error {
	if err := p.check(); err != nil {
		return err
	}
	w, h := fb.Width(), fb.Height()
	if w <= 0 || h <= 0 {
		return &RenderError{Page: p.num, Err: fmt.Errorf("invalid framebuffer size %dx%d", w, h)}
	}
	pitch := fb.Pitch()
	if pitch < (w+1)/2 || len(fb.Pixels()) < (h-1)*pitch+(w+1)/2 {
		return &RenderError{Page: p.num, Err: fmt.Errorf("framebuffer storage too small for %dx%d pitch %d", w, h, pitch)}
	}

	pageRect := engine.Rect{X: x, Y: y, W: w - x, H: h - y}
	ox, oy := dc.Offset()
	renderRect := engine.Rect{X: ox, Y: oy, W: w - ox, H: h - oy}

	// Rows below or right of the render rectangle stay white.
	scratch := make([]byte, w*h)
	for i := range scratch {
		scratch[i] = 0xFF
	}
	if err := p.ref.Render(engine.RenderColor, pageRect, renderRect, dc.Format(), w, scratch); err != nil {
		return &RenderError{Page: p.num, Err: err}
	}

	pack(fb.Pixels(), pitch, scratch, w, h)
	return nil
}

// pack converts 8-bit gray rows of width w into 4-bit inverted pairs.
func pack(dst []byte, pitch int, src []byte, w, h int) {
	for y := 0; y < h; y++ {
		d := dst[y*pitch:]
		s := src[y*w:]
		x := 0
		for ; x < w/2; x++ {
			d[x] = 255 - ((s[2*x+1]&0xF0)>>4 | s[2*x]&0xF0)
		}
		if w&1 != 0 {
			d[x] = 255 - s[2*x]&0xF0
		}
	}
}
