package engine

import (
	"fmt"
	"image"
)

// Rect is a rectangle given by its top-left corner and extent, in the
// output coordinate system of a render call.
type Rect struct {
	X, Y int
	W, H int
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Image returns r as an image.Rectangle.
func (r Rect) Image() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H)
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", r.W, r.H, r.X, r.Y)
}

// RenderMode selects how page content is rasterised.
type RenderMode int

const (
	// RenderColor renders with smooth interpolation.
	RenderColor RenderMode = iota
	// RenderBlack renders a bilevel image, every pixel black or white.
	RenderBlack
)

func (m RenderMode) String() string {
	switch m {
	case RenderColor:
		return "Color"
	case RenderBlack:
		return "Black"
	default:
		return fmt.Sprintf("RenderMode(%d)", int(m))
	}
}

// PageInfo captures per-page metadata available without decoding the page.
type PageInfo struct {
	Width    int
	Height   int
	DPI      int
	Rotation int
}

const (
	// defaultDPI is the native resolution assumed for pages that do not
	// carry one.
	defaultDPI = 300

	// maxPageDimension caps width/height of a decoded page to avoid excessive
	// allocations when a file lies about its size.
	maxPageDimension = 32768
	// maxPagePixels bounds the total pixel count of a decoded page.
	maxPagePixels int64 = 64 * 1024 * 1024
)

func validatePageBounds(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("engine: page bounds invalid (%d x %d)", width, height)
	}
	if width > maxPageDimension || height > maxPageDimension {
		return fmt.Errorf("engine: page dimension exceeds limit (%d x %d)", width, height)
	}
	pixels := int64(width) * int64(height)
	if pixels > maxPagePixels {
		return fmt.Errorf("engine: page pixel count %d exceeds limit %d", pixels, maxPagePixels)
	}
	return nil
}
