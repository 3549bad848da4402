package engine

import (
	"errors"
	"fmt"
)

// Style identifies the pixel layout produced by Page.Render.
type Style int

const (
	// StyleGrey8 stores one byte per pixel, 0 black and 255 white.
	StyleGrey8 Style = iota
)

func (s Style) String() string {
	switch s {
	case StyleGrey8:
		return "Grey8"
	default:
		return fmt.Sprintf("Style(%d)", int(s))
	}
}

// Format describes the pixel buffer a render call writes into.
type Format struct {
	style       Style
	topToBottom bool
	yDown       bool
}

// NewFormat returns a format of the given style with bottom-to-top rows and
// an upward y axis, matching the engine default.
func NewFormat(style Style) (*Format, error) {
	if style != StyleGrey8 {
		return nil, fmt.Errorf("engine: unsupported pixel style %v", style)
	}
	return &Format{style: style}, nil
}

// Style returns the pixel style.
func (f *Format) Style() Style { return f.style }

// SetRowOrder selects whether rows are stored top first.
func (f *Format) SetRowOrder(topToBottom bool) { f.topToBottom = topToBottom }

// RowOrder reports whether rows are stored top first.
func (f *Format) RowOrder() bool { return f.topToBottom }

// SetYDirection selects whether rectangle y coordinates grow downwards.
func (f *Format) SetYDirection(down bool) { f.yDown = down }

// YDirection reports whether rectangle y coordinates grow downwards.
func (f *Format) YDirection() bool { return f.yDown }

// BytesPerPixel returns the storage size of one pixel.
func (f *Format) BytesPerPixel() int { return 1 }

var errNilFormat = errors.New("engine: nil pixel format")
