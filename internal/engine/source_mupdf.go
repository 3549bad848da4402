package engine

import (
	"image"

	"github.com/gen2brain/go-fitz"
)

// muPDFSource renders PDF, EPUB, XPS and the other formats MuPDF reads.
// Pages are rasterised at dpi, which becomes their native resolution.
type muPDFSource struct {
	doc *fitz.Document
	dpi int
}

func openMuPDFSource(name string, dpi int) (*muPDFSource, error) {
	doc, err := fitz.New(name)
	if err != nil {
		return nil, err
	}
	return &muPDFSource{doc: doc, dpi: dpi}, nil
}

func (s *muPDFSource) NumPages() int { return s.doc.NumPage() }

// PageInfo scales the page bounds, given in points, to the native resolution.
func (s *muPDFSource) PageInfo(index int) (PageInfo, error) {
	bounds, err := s.doc.Bound(index)
	if err != nil {
		return PageInfo{}, err
	}
	return PageInfo{
		Width:  bounds.Dx() * s.dpi / 72,
		Height: bounds.Dy() * s.dpi / 72,
		DPI:    s.dpi,
	}, nil
}

func (s *muPDFSource) DecodePage(index int) (*image.Gray, error) {
	info, err := s.PageInfo(index)
	if err != nil {
		return nil, err
	}
	if err := validatePageBounds(info.Width, info.Height); err != nil {
		return nil, err
	}
	img, err := s.doc.ImageDPI(index, float64(s.dpi))
	if err != nil {
		return nil, err
	}
	return toGray(img), nil
}

func (s *muPDFSource) Close() error {
	return s.doc.Close()
}
