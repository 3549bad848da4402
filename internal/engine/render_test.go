package engine

import (
	"bytes"
	"testing"
)

func newTopDownFormat(t *testing.T) *Format {
	t.Helper()
	f, err := NewFormat(StyleGrey8)
	if err != nil {
		t.Fatalf("NewFormat: %v", err)
	}
	f.SetRowOrder(true)
	f.SetYDirection(true)
	return f
}

// quadrantPage opens a 2x2 page: black, white on the first row and white,
// black on the second.
func quadrantPage(t *testing.T) *Page {
	t.Helper()
	c := CreateContext("render")
	t.Cleanup(c.Release)

	data := grayPNG(t, 2, 2, func(x, y int) uint8 {
		if x == y {
			return 0
		}
		return 0xFF
	})
	doc := openDecoded(t, c, writeFile(t, "quad.png", data))
	t.Cleanup(doc.Release)
	return openPage(t, doc, 0)
}

func TestRenderScalesPageIntoPageRect(t *testing.T) {
	p := quadrantPage(t)
	f := newTopDownFormat(t)

	buf := make([]byte, 4*4)
	r := Rect{0, 0, 4, 4}
	if err := p.Render(RenderBlack, r, r, f, 4, buf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := []byte{
		0x00, 0x00, 0xFF, 0xFF,
		0x00, 0x00, 0xFF, 0xFF,
		0xFF, 0xFF, 0x00, 0x00,
		0xFF, 0xFF, 0x00, 0x00,
	}
	if !bytes.Equal(buf, want) {
		t.Errorf("Render =\n% x\nwant\n% x", buf, want)
	}
}

func TestRenderRectSelectsRegion(t *testing.T) {
	p := quadrantPage(t)
	f := newTopDownFormat(t)

	// Page scaled to 4x4; copy out the 2x2 block starting at (2, 0).
	buf := make([]byte, 2*2)
	if err := p.Render(RenderBlack, Rect{0, 0, 4, 4}, Rect{2, 0, 2, 2}, f, 2, buf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if want := []byte{0xFF, 0xFF, 0xFF, 0xFF}; !bytes.Equal(buf, want) {
		t.Errorf("Render = % x, want % x", buf, want)
	}
}

func TestRenderOutsidePageIsWhite(t *testing.T) {
	p := quadrantPage(t)
	f := newTopDownFormat(t)

	// Page occupies columns 2-3 only; columns 0-1 stay white.
	buf := make([]byte, 4*2)
	if err := p.Render(RenderBlack, Rect{2, 0, 2, 2}, Rect{0, 0, 4, 2}, f, 4, buf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := []byte{
		0xFF, 0xFF, 0x00, 0xFF,
		0xFF, 0xFF, 0xFF, 0x00,
	}
	if !bytes.Equal(buf, want) {
		t.Errorf("Render = % x, want % x", buf, want)
	}
}

func TestRenderRowStrideAndOrder(t *testing.T) {
	p := quadrantPage(t)
	f := newTopDownFormat(t)
	f.SetRowOrder(false)

	// Stride 3 leaves one padding byte per row untouched.
	buf := []byte{0x11, 0x11, 0x11, 0x11, 0x11}
	r := Rect{0, 0, 2, 2}
	if err := p.Render(RenderBlack, r, r, f, 3, buf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := []byte{0xFF, 0x00, 0x11, 0x00, 0xFF}
	if !bytes.Equal(buf, want) {
		t.Errorf("Render = % x, want % x", buf, want)
	}
}

func TestRenderColorProducesIntermediateShades(t *testing.T) {
	p := quadrantPage(t)
	f := newTopDownFormat(t)

	buf := make([]byte, 8*8)
	r := Rect{0, 0, 8, 8}
	if err := p.Render(RenderColor, r, r, f, 8, buf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if buf[0] != 0x00 || buf[7] != 0xFF {
		t.Errorf("corners = %#x %#x, want 0x00 0xff", buf[0], buf[7])
	}
	mixed := false
	for _, v := range buf {
		if v != 0 && v != 0xFF {
			mixed = true
			break
		}
	}
	if !mixed {
		t.Errorf("smooth rendering produced no intermediate gray levels")
	}
}

func TestRenderErrors(t *testing.T) {
	p := quadrantPage(t)
	f := newTopDownFormat(t)
	r := Rect{0, 0, 2, 2}

	cases := []struct {
		name   string
		render func() error
	}{
		{"nil format", func() error { return p.Render(RenderColor, r, r, nil, 2, make([]byte, 4)) }},
		{"empty page rect", func() error { return p.Render(RenderColor, Rect{0, 0, 0, 2}, r, f, 2, make([]byte, 4)) }},
		{"empty render rect", func() error { return p.Render(RenderColor, r, Rect{0, 0, 2, -1}, f, 2, make([]byte, 4)) }},
		{"short stride", func() error { return p.Render(RenderColor, r, r, f, 1, make([]byte, 4)) }},
		{"short buffer", func() error { return p.Render(RenderColor, r, r, f, 2, make([]byte, 3)) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.render(); err == nil {
				t.Errorf("expected error")
			}
		})
	}

	p.Release()
	if err := p.Render(RenderColor, r, r, f, 2, make([]byte, 4)); err != errPageNotDecoded {
		t.Errorf("Render after release = %v, want %v", err, errPageNotDecoded)
	}
}

func TestNewFormatRejectsUnknownStyle(t *testing.T) {
	if _, err := NewFormat(Style(7)); err == nil {
		t.Fatalf("expected error for unknown style")
	}
	f, err := NewFormat(StyleGrey8)
	if err != nil {
		t.Fatalf("NewFormat: %v", err)
	}
	if f.RowOrder() || f.YDirection() {
		t.Errorf("default format should be bottom-to-top")
	}
}

func TestFlipY(t *testing.T) {
	got := flipY(Rect{X: 1, Y: 2, W: 3, H: 4})
	if got != (Rect{X: 1, Y: -6, W: 3, H: 4}) {
		t.Errorf("flipY = %+v", got)
	}
}
