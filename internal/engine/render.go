package engine

import (
	"errors"
	"fmt"
	"image"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

var errPageNotDecoded = errors.New("engine: page not decoded")

// Render rasterises the page into buf.
//
// The whole page is scaled to fill pageRect. The part of that output lying
// inside renderRect is written to buf, one row of renderRect.W pixels every
// rowStride bytes, starting with the pixel at (renderRect.X, renderRect.Y).
// Parts of renderRect outside pageRect are white. Both rectangles share the
// coordinate system selected by the format's y direction.
func (p *Page) Render(mode RenderMode, pageRect, renderRect Rect, format *Format, rowStride int, buf []byte) error {
	if format == nil {
		return errNilFormat
	}
	if format.Style() != StyleGrey8 {
		return fmt.Errorf("engine: unsupported pixel style %v", format.Style())
	}
	src := p.image()
	if src == nil {
		return errPageNotDecoded
	}
	if pageRect.Empty() {
		return fmt.Errorf("engine: empty page rectangle %v", pageRect)
	}
	if renderRect.Empty() {
		return fmt.Errorf("engine: empty render rectangle %v", renderRect)
	}
	if rowStride < renderRect.W {
		return fmt.Errorf("engine: row stride %d smaller than render width %d", rowStride, renderRect.W)
	}
	need := (renderRect.H-1)*rowStride + renderRect.W
	if len(buf) < need {
		return fmt.Errorf("engine: buffer too small, need %d bytes, have %d", need, len(buf))
	}

	if !format.YDirection() {
		pageRect = flipY(pageRect)
		renderRect = flipY(renderRect)
	}

	for y := 0; y < renderRect.H; y++ {
		row := buf[y*rowStride : y*rowStride+renderRect.W]
		for x := range row {
			row[x] = 0xFF
		}
	}

	dst := &image.Gray{
		Pix:    buf[:need],
		Stride: rowStride,
		Rect:   image.Rect(0, 0, renderRect.W, renderRect.H),
	}
	sb := src.Bounds()
	s2d := f64.Aff3{
		float64(pageRect.W) / float64(sb.Dx()), 0, float64(pageRect.X - renderRect.X),
		0, float64(pageRect.H) / float64(sb.Dy()), float64(pageRect.Y - renderRect.Y),
	}

	switch mode {
	case RenderBlack:
		draw.NearestNeighbor.Transform(dst, s2d, src, sb, draw.Src, nil)
		threshold(dst)
	default:
		draw.ApproxBiLinear.Transform(dst, s2d, src, sb, draw.Src, nil)
	}

	if !format.RowOrder() {
		flipRows(buf, rowStride, renderRect.W, renderRect.H)
	}
	return nil
}

// flipY converts a rectangle from an upward to a downward y axis.
func flipY(r Rect) Rect {
	r.Y = -(r.Y + r.H)
	return r
}

func threshold(img *image.Gray) {
	for y := 0; y < img.Rect.Dy(); y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+img.Rect.Dx()]
		for x, v := range row {
			if v < 0x80 {
				row[x] = 0
			} else {
				row[x] = 0xFF
			}
		}
	}
}

func flipRows(buf []byte, stride, width, height int) {
	tmp := make([]byte, width)
	for top, bottom := 0, height-1; top < bottom; top, bottom = top+1, bottom-1 {
		a := buf[top*stride : top*stride+width]
		b := buf[bottom*stride : bottom*stride+width]
		copy(tmp, a)
		copy(a, b)
		copy(b, tmp)
	}
}
