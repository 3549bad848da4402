package document

import "github.com/jdeng/goeink/internal/engine"

// GammaDisabled is the gamma value meaning no gamma adjustment.
const GammaDisabled = -1.0

// DrawContext holds the transform applied when rendering a page. Values are
// stored as given: rotate and zoom are not validated.
type DrawContext struct {
	rotate  int
	zoom    float64
	gamma   float64
	offsetX int
	offsetY int
	format  *engine.Format
}

// DCOption overrides one DrawContext default.
type DCOption func(*DrawContext)

// WithRotate sets the rotation in degrees.
func WithRotate(deg int) DCOption { return func(dc *DrawContext) { dc.rotate = deg } }

// WithZoom sets the zoom factor.
func WithZoom(zoom float64) DCOption { return func(dc *DrawContext) { dc.zoom = zoom } }

// WithOffset sets the offset of the copied region.
func WithOffset(x, y int) DCOption {
	return func(dc *DrawContext) { dc.offsetX, dc.offsetY = x, y }
}

// WithGamma sets the gamma value.
func WithGamma(gamma float64) DCOption { return func(dc *DrawContext) { dc.gamma = gamma } }

// NewDrawContext returns a context with rotation 0, zoom 1, offset (0, 0)
// and gamma disabled, adjusted by opts. Its pixel format is 8-bit gray with
// rows and y axis running top to bottom.
func NewDrawContext(opts ...DCOption) *DrawContext {
	dc := &DrawContext{zoom: 1.0, gamma: GammaDisabled}
	for _, opt := range opts {
		opt(dc)
	}
	// StyleGrey8 is always supported.
	dc.format, _ = engine.NewFormat(engine.StyleGrey8)
	dc.format.SetRowOrder(true)
	dc.format.SetYDirection(true)
	return dc
}

// Rotate returns the rotation in degrees.
func (dc *DrawContext) Rotate() int { return dc.rotate }

// SetRotate sets the rotation in degrees.
func (dc *DrawContext) SetRotate(deg int) { dc.rotate = deg }

// Zoom returns the zoom factor.
func (dc *DrawContext) Zoom() float64 { return dc.zoom }

// SetZoom sets the zoom factor.
func (dc *DrawContext) SetZoom(zoom float64) { dc.zoom = zoom }

// Offset returns the origin of the copied region in rendered page space.
func (dc *DrawContext) Offset() (x, y int) { return dc.offsetX, dc.offsetY }

// SetOffset sets the origin of the copied region.
func (dc *DrawContext) SetOffset(x, y int) { dc.offsetX, dc.offsetY = x, y }

// Gamma returns the configured gamma. It is stored for callers but not
// applied when rendering.
func (dc *DrawContext) Gamma() float64 { return dc.gamma }

// SetGamma sets the gamma value. A negative value disables it.
func (dc *DrawContext) SetGamma(gamma float64) { dc.gamma = gamma }

// GammaEnabled reports whether a non-negative gamma has been set.
func (dc *DrawContext) GammaEnabled() bool { return dc.gamma >= 0 }

// Format returns the pixel format pages are rendered in.
func (dc *DrawContext) Format() *engine.Format { return dc.format }
