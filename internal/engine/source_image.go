package engine

import (
	"archive/zip"
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path"
	"slices"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

var pageImageExts = []string{".png", ".jpg", ".jpeg", ".gif", ".tif", ".tiff", ".bmp", ".webp"}

func isPageImage(name string) bool {
	return slices.Contains(pageImageExts, strings.ToLower(path.Ext(name)))
}

func decodeInfo(r io.Reader, dpi int) (PageInfo, error) {
	cfg, _, err := image.DecodeConfig(r)
	if err != nil {
		return PageInfo{}, err
	}
	return PageInfo{Width: cfg.Width, Height: cfg.Height, DPI: dpi}, nil
}

// decodeGray checks the dimensions declared in the image header before
// decoding, so an oversized page is rejected without allocating it. open is
// called once per pass.
func decodeGray(open func() (io.ReadCloser, error)) (*image.Gray, error) {
	rc, err := open()
	if err != nil {
		return nil, err
	}
	cfg, _, err := image.DecodeConfig(rc)
	rc.Close()
	if err != nil {
		return nil, err
	}
	if err := validatePageBounds(cfg.Width, cfg.Height); err != nil {
		return nil, err
	}

	rc, err = open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	img, _, err := image.Decode(rc)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	if err := validatePageBounds(b.Dx(), b.Dy()); err != nil {
		return nil, err
	}
	return toGray(img), nil
}

// imageSource is a one-page document backed by a single image file.
type imageSource struct {
	data []byte
	dpi  int
}

func openImageSource(name string, dpi int) (*imageSource, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	return &imageSource{data: data, dpi: dpi}, nil
}

func (s *imageSource) NumPages() int { return 1 }

func (s *imageSource) PageInfo(index int) (PageInfo, error) {
	if index != 0 {
		return PageInfo{}, fmt.Errorf("engine: page index %d out of range", index)
	}
	return decodeInfo(bytes.NewReader(s.data), s.dpi)
}

func (s *imageSource) DecodePage(index int) (*image.Gray, error) {
	if index != 0 {
		return nil, fmt.Errorf("engine: page index %d out of range", index)
	}
	return decodeGray(func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(s.data)), nil
	})
}

func (s *imageSource) Close() error {
	s.data = nil
	return nil
}

// archiveSource is a zip archive (cbz) whose image entries, in name order,
// are the pages of the document.
type archiveSource struct {
	zr    *zip.ReadCloser
	pages []*zip.File
	dpi   int
}

func openArchiveSource(name string, dpi int) (*archiveSource, error) {
	zr, err := zip.OpenReader(name)
	if err != nil {
		return nil, err
	}
	var pages []*zip.File
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || !isPageImage(f.Name) {
			continue
		}
		pages = append(pages, f)
	}
	if len(pages) == 0 {
		zr.Close()
		return nil, errNoPages
	}
	sortPageNames(pages)
	return &archiveSource{zr: zr, pages: pages, dpi: dpi}, nil
}

// sortPageNames orders entries the way a reader expects: "p2" before "p10".
func sortPageNames(pages []*zip.File) {
	c := collate.New(language.Und, collate.Numeric)
	slices.SortStableFunc(pages, func(a, b *zip.File) int {
		if n := c.CompareString(a.Name, b.Name); n != 0 {
			return n
		}
		return strings.Compare(a.Name, b.Name)
	})
}

func (s *archiveSource) NumPages() int { return len(s.pages) }

func (s *archiveSource) open(index int) (io.ReadCloser, error) {
	if index < 0 || index >= len(s.pages) {
		return nil, fmt.Errorf("engine: page index %d out of range", index)
	}
	return s.pages[index].Open()
}

func (s *archiveSource) PageInfo(index int) (PageInfo, error) {
	rc, err := s.open(index)
	if err != nil {
		return PageInfo{}, err
	}
	defer rc.Close()
	return decodeInfo(rc, s.dpi)
}

func (s *archiveSource) DecodePage(index int) (*image.Gray, error) {
	if index < 0 || index >= len(s.pages) {
		return nil, fmt.Errorf("engine: page index %d out of range", index)
	}
	img, err := decodeGray(func() (io.ReadCloser, error) { return s.open(index) })
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.pages[index].Name, err)
	}
	return img, nil
}

func (s *archiveSource) Close() error {
	return s.zr.Close()
}
