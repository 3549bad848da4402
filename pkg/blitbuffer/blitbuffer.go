// Package blitbuffer provides the 4-bit grayscale framebuffer used by e-ink
// style displays.
//
// Two pixels share one byte: the even pixel in the high nibble, the odd pixel
// in the low nibble. A nibble of 0x0 is white and 0xF is black. Rows are
// Pitch bytes apart.
//
// Memory layout example for a 3-pixel row:
//
//	Pixels: 0  1  2
//	Values: 0  15 8
//	Bytes:  0x0F     0x80
package blitbuffer

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// BlitBuffer is a packed 4-bit grayscale framebuffer.
type BlitBuffer struct {
	width  int
	height int
	pitch  int
	data   []byte
}

// New allocates a white buffer of w x h pixels with the minimal pitch.
func New(w, h int) (*BlitBuffer, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("blitbuffer: invalid size %dx%d", w, h)
	}
	pitch := (w + 1) / 2
	return &BlitBuffer{width: w, height: h, pitch: pitch, data: make([]byte, pitch*h)}, nil
}

// NewFromBuffer wraps existing storage, for example a mapped framebuffer,
// without copying it.
func NewFromBuffer(w, h, pitch int, buf []byte) (*BlitBuffer, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("blitbuffer: invalid size %dx%d", w, h)
	}
	if pitch < (w+1)/2 {
		return nil, errors.New("blitbuffer: pitch smaller than row size")
	}
	required := pitch*(h-1) + (w+1)/2
	if len(buf) < required {
		return nil, fmt.Errorf("blitbuffer: buffer too small, need %d bytes, have %d", required, len(buf))
	}
	return &BlitBuffer{width: w, height: h, pitch: pitch, data: buf}, nil
}

// Width returns the buffer width in pixels.
func (bb *BlitBuffer) Width() int { return bb.width }

// Height returns the buffer height in pixels.
func (bb *BlitBuffer) Height() int { return bb.height }

// Pitch returns the number of bytes per row.
func (bb *BlitBuffer) Pitch() int { return bb.pitch }

// Pixels exposes the packed storage.
func (bb *BlitBuffer) Pixels() []byte { return bb.data }

// GetPixel returns the 4-bit value at (x, y), or 0 outside the buffer.
func (bb *BlitBuffer) GetPixel(x, y int) uint8 {
	if x < 0 || y < 0 || x >= bb.width || y >= bb.height {
		return 0
	}
	b := bb.data[y*bb.pitch+x/2]
	if x&1 == 0 {
		return b >> 4
	}
	return b & 0x0F
}

// SetPixel stores the low 4 bits of v at (x, y). Out-of-range coordinates
// are ignored.
func (bb *BlitBuffer) SetPixel(x, y int, v uint8) {
	if x < 0 || y < 0 || x >= bb.width || y >= bb.height {
		return
	}
	i := y*bb.pitch + x/2
	if x&1 == 0 {
		bb.data[i] = bb.data[i]&0x0F | (v&0x0F)<<4
	} else {
		bb.data[i] = bb.data[i]&0xF0 | v&0x0F
	}
}

// Fill sets every pixel to v.
func (bb *BlitBuffer) Fill(v uint8) {
	v &= 0x0F
	b := v<<4 | v
	for y := 0; y < bb.height; y++ {
		row := bb.data[y*bb.pitch : y*bb.pitch+(bb.width+1)/2]
		for i := range row {
			row[i] = b
		}
	}
}

// ToGray expands the buffer to an 8-bit grayscale image with the usual
// polarity, 0 black and 255 white.
func (bb *BlitBuffer) ToGray() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, bb.width, bb.height))
	for y := 0; y < bb.height; y++ {
		for x := 0; x < bb.width; x++ {
			img.SetGray(x, y, color.Gray{Y: 255 - bb.GetPixel(x, y)*17})
		}
	}
	return img
}
