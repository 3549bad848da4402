package engine

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"os"

	"golang.org/x/image/draw"
)

// source is a decoded document container. Implementations are not safe for
// concurrent use; Document serialises access.
type source interface {
	NumPages() int
	PageInfo(index int) (PageInfo, error)
	DecodePage(index int) (*image.Gray, error)
	Close() error
}

// Kind identifies the container format detected for a document file.
type Kind int

const (
	KindUnknown Kind = iota
	KindImage
	KindArchive
	KindMuPDF
)

func (k Kind) String() string {
	switch k {
	case KindImage:
		return "Image"
	case KindArchive:
		return "Archive"
	case KindMuPDF:
		return "MuPDF"
	default:
		return "Unknown"
	}
}

var (
	zipSignature = []byte("PK\x03\x04")
	pdfSignature = []byte("%PDF-")
)

var imageMagics = [][]byte{
	[]byte("\x89PNG\r\n\x1a\n"),
	[]byte("\xff\xd8\xff"),
	[]byte("GIF87a"),
	[]byte("GIF89a"),
	[]byte("II*\x00"),
	[]byte("MM\x00*"),
	[]byte("BM"),
}

var errNoPages = errors.New("engine: document has no pages")

const sniffLen = 16

// sniff classifies a document by its leading bytes. Zip files are reported
// as archives; openSource hands them to MuPDF when they hold no page images.
func sniff(head []byte) Kind {
	switch {
	case bytes.HasPrefix(head, zipSignature):
		return KindArchive
	case bytes.HasPrefix(head, pdfSignature):
		return KindMuPDF
	case len(head) >= 12 && bytes.Equal(head[:4], []byte("RIFF")) && bytes.Equal(head[8:12], []byte("WEBP")):
		return KindImage
	}
	for _, magic := range imageMagics {
		if bytes.HasPrefix(head, magic) {
			return KindImage
		}
	}
	return KindMuPDF
}

// DetectKind reads the head of the file at path and classifies it.
func DetectKind(path string) (Kind, error) {
	f, err := os.Open(path)
	if err != nil {
		return KindUnknown, err
	}
	defer f.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		if errors.Is(err, io.EOF) {
			return KindUnknown, errors.New("engine: empty document file")
		}
		return KindUnknown, err
	}
	return sniff(head[:n]), nil
}

func openSource(path string, dpi int) (source, error) {
	kind, err := DetectKind(path)
	if err != nil {
		return nil, err
	}
	var src source
	switch kind {
	case KindImage:
		src, err = openImageSource(path, dpi)
	case KindArchive:
		src, err = openArchiveSource(path, dpi)
		if errors.Is(err, errNoPages) {
			src, err = openMuPDFSource(path, dpi)
		}
	default:
		src, err = openMuPDFSource(path, dpi)
	}
	if err != nil {
		return nil, fmt.Errorf("engine: open %s document: %w", kind, err)
	}
	if src.NumPages() == 0 {
		src.Close()
		return nil, errNoPages
	}
	return src, nil
}

// toGray converts img to an 8-bit grayscale image anchored at the origin.
func toGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok && g.Rect.Min == (image.Point{}) {
		return g
	}
	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(gray, gray.Bounds(), img, b.Min, draw.Src)
	return gray
}
