package engine

import (
	"archive/zip"
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// grayPNG encodes a w x h image whose pixels are produced by fill.
func grayPNG(t *testing.T, w, h int, fill func(x, y int) uint8) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray(x, y, color.Gray{Y: fill(x, y)})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func solid(v uint8) func(x, y int) uint8 {
	return func(int, int) uint8 { return v }
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func writeArchive(t *testing.T, entries map[string][]byte) string {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, data := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := w.Write(data); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return writeFile(t, "book.cbz", buf.Bytes())
}

// drain waits until done reports true and returns every message seen.
func drain(t *testing.T, c *Context, done func() bool) []*Message {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var msgs []*Message
	for {
		for msg := c.Peek(); msg != nil; msg = c.Peek() {
			msgs = append(msgs, msg)
			c.Pop()
		}
		if done() {
			return msgs
		}
		if err := c.Wait(ctx); err != nil {
			t.Fatalf("waiting for decode: %v", err)
		}
	}
}

func openDecoded(t *testing.T, c *Context, path string) *Document {
	t.Helper()
	doc := OpenDocument(c, path, DocumentOptions{})
	if doc == nil {
		t.Fatalf("OpenDocument(%s) returned nil", path)
	}
	drain(t, c, doc.IsDecoded)
	if doc.Status() != StatusOK {
		t.Fatalf("document status = %v, want OK", doc.Status())
	}
	return doc
}

func openPage(t *testing.T, doc *Document, index int) *Page {
	t.Helper()
	p := OpenPage(doc, index)
	if p == nil {
		t.Fatalf("OpenPage(%d) returned nil", index)
	}
	drain(t, doc.Context(), p.IsDecoded)
	if p.Status() != StatusOK {
		t.Fatalf("page status = %v, want OK", p.Status())
	}
	return p
}

func TestSniff(t *testing.T) {
	cases := []struct {
		name string
		head []byte
		want Kind
	}{
		{"png", []byte("\x89PNG\r\n\x1a\n\x00\x00"), KindImage},
		{"jpeg", []byte("\xff\xd8\xff\xe0"), KindImage},
		{"tiff", []byte("II*\x00\x08\x00"), KindImage},
		{"webp", []byte("RIFF\x10\x00\x00\x00WEBPVP8 "), KindImage},
		{"zip", []byte("PK\x03\x04\x14\x00"), KindArchive},
		{"pdf", []byte("%PDF-1.7\n"), KindMuPDF},
		{"other", []byte("<FictionBook"), KindMuPDF},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := sniff(tc.head); got != tc.want {
				t.Errorf("sniff = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestStatusString(t *testing.T) {
	if StatusOK.String() != "OK" || StatusFailed.String() != "Failed" {
		t.Errorf("unexpected status strings %q %q", StatusOK, StatusFailed)
	}
	if Status(42).String() != "Status(42)" {
		t.Errorf("unknown status = %q", Status(42))
	}
	if StatusStarted.Done() || !StatusStopped.Done() {
		t.Errorf("Done() misclassifies Started/Stopped")
	}
}

func TestOpenDocumentMissingFile(t *testing.T) {
	c := CreateContext("test")
	defer c.Release()

	if doc := OpenDocument(c, filepath.Join(t.TempDir(), "missing.png"), DocumentOptions{}); doc != nil {
		t.Fatalf("expected nil document for missing file")
	}
	if doc := OpenDocument(nil, "x", DocumentOptions{}); doc != nil {
		t.Fatalf("expected nil document for nil context")
	}
}

func TestOpenImageDocument(t *testing.T) {
	c := CreateContext("test")
	defer c.Release()

	path := writeFile(t, "page.png", grayPNG(t, 30, 20, solid(0x80)))
	doc := openDecoded(t, c, path)
	defer doc.Release()

	if n := doc.PageCount(); n != 1 {
		t.Fatalf("PageCount = %d, want 1", n)
	}
	info, err := doc.PageInfo(0)
	if err != nil {
		t.Fatalf("PageInfo: %v", err)
	}
	if info.Width != 30 || info.Height != 20 || info.DPI != defaultDPI {
		t.Errorf("PageInfo = %+v", info)
	}
	if _, err := doc.PageInfo(1); err == nil {
		t.Errorf("expected error for page info out of range")
	}

	p := openPage(t, doc, 0)
	if p.Width() != 30 || p.Height() != 20 {
		t.Errorf("page size = %dx%d, want 30x20", p.Width(), p.Height())
	}
	if OpenPage(doc, 1) != nil {
		t.Errorf("expected nil page for index out of range")
	}
}

func TestOpenArchiveDocument(t *testing.T) {
	c := CreateContext("test")
	defer c.Release()

	path := writeArchive(t, map[string][]byte{
		"002.png":    grayPNG(t, 8, 6, solid(0)),
		"001.png":    grayPNG(t, 4, 3, solid(0xFF)),
		"readme.txt": []byte("not a page"),
	})
	doc := openDecoded(t, c, path)
	defer doc.Release()

	if n := doc.PageCount(); n != 2 {
		t.Fatalf("PageCount = %d, want 2", n)
	}
	first := openPage(t, doc, 0)
	if first.Width() != 4 || first.Height() != 3 {
		t.Errorf("first page = %dx%d, want 4x3 (pages sorted by name)", first.Width(), first.Height())
	}
	second := openPage(t, doc, 1)
	if second.Width() != 8 || second.Height() != 6 {
		t.Errorf("second page = %dx%d, want 8x6", second.Width(), second.Height())
	}
}

func TestArchivePagesSortNumerically(t *testing.T) {
	c := CreateContext("test")
	defer c.Release()

	path := writeArchive(t, map[string][]byte{
		"ch1/p10.png": grayPNG(t, 10, 1, solid(0)),
		"ch1/p2.png":  grayPNG(t, 2, 1, solid(0)),
		"ch1/p1.png":  grayPNG(t, 1, 1, solid(0)),
	})
	doc := openDecoded(t, c, path)
	defer doc.Release()

	for i, want := range []int{1, 2, 10} {
		info, err := doc.PageInfo(i)
		if err != nil {
			t.Fatalf("PageInfo(%d): %v", i, err)
		}
		if info.Width != want {
			t.Errorf("page %d width = %d, want %d", i, info.Width, want)
		}
	}
}

func TestCorruptPagePostsError(t *testing.T) {
	c := CreateContext("test")
	defer c.Release()

	path := writeFile(t, "broken.png", []byte("\x89PNG\r\n\x1a\nthis is not a png"))
	doc := openDecoded(t, c, path)
	defer doc.Release()

	p := OpenPage(doc, 0)
	if p == nil {
		t.Fatalf("OpenPage returned nil")
	}
	msgs := drain(t, c, p.IsDecoded)
	if p.Status() != StatusFailed {
		t.Fatalf("page status = %v, want Failed", p.Status())
	}
	var found *Message
	for _, m := range msgs {
		if m.Tag == TagError {
			found = m
		}
	}
	if found == nil {
		t.Fatalf("no error message among %d messages", len(msgs))
	}
	if found.Page != p || found.Text == "" || found.Filename == "" || found.Line == 0 {
		t.Errorf("error message = %+v", found)
	}
}

func TestArchiveWithoutPagesFails(t *testing.T) {
	c := CreateContext("test")
	defer c.Release()

	// Only the zip signature is valid, so the archive reader fails.
	path := writeFile(t, "bad.cbz", []byte("PK\x03\x04garbage"))
	doc := OpenDocument(c, path, DocumentOptions{})
	if doc == nil {
		t.Fatalf("OpenDocument returned nil")
	}
	msgs := drain(t, c, doc.IsDecoded)
	if doc.Status() != StatusFailed {
		t.Fatalf("status = %v, want Failed", doc.Status())
	}
	if len(msgs) == 0 || msgs[0].Tag != TagError {
		t.Fatalf("first message should be the error, got %+v", msgs)
	}
	if doc.PageCount() != 0 {
		t.Errorf("failed document reports %d pages", doc.PageCount())
	}
}

func TestDocumentReleaseIdempotent(t *testing.T) {
	c := CreateContext("test")
	defer c.Release()

	doc := openDecoded(t, c, writeFile(t, "page.png", grayPNG(t, 2, 2, solid(0))))
	doc.Release()
	doc.Release()
	if _, err := doc.PageInfo(0); err == nil {
		t.Errorf("PageInfo after release should fail")
	}
}

func TestContextQueue(t *testing.T) {
	c := CreateContext("queue")
	if c.Peek() != nil {
		t.Fatalf("new context has messages")
	}
	c.Pop()

	c.post(&Message{Tag: TagInfo, Text: "a"})
	c.post(&Message{Tag: TagInfo, Text: "b"})
	if err := c.Wait(context.Background()); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if c.Pending() != 2 || c.Peek().Text != "a" {
		t.Fatalf("unexpected queue head")
	}
	c.Pop()
	if c.Peek().Text != "b" {
		t.Fatalf("unexpected queue order")
	}
	c.Release()
	c.post(&Message{Tag: TagInfo})
	if c.Pending() != 0 {
		t.Fatalf("released context accepted a message")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := CreateContext("empty").Wait(ctx); err != context.Canceled {
		t.Fatalf("Wait on canceled context = %v", err)
	}
}
