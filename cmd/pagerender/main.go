package main

import (
	"context"
	"flag"
	"fmt"
	"image/png"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jdeng/goeink/internal/observability"
	"github.com/jdeng/goeink/pkg/blitbuffer"
	"github.com/jdeng/goeink/pkg/document"
	"github.com/jdeng/goeink/pkg/scripting"
)

func main() {
	var inputFile = flag.String("input", "", "Input document (image, CBZ archive, PDF, EPUB, XPS)")
	var pageNum = flag.Int("page", 1, "Page number, counting from 1")
	var width = flag.Int("width", 600, "Framebuffer width in pixels")
	var height = flag.Int("height", 800, "Framebuffer height in pixels")
	var posX = flag.Int("x", 0, "Horizontal position of the page in the framebuffer")
	var posY = flag.Int("y", 0, "Vertical position of the page in the framebuffer")
	var zoom = flag.Float64("zoom", 1.0, "Zoom factor used for the reported page size")
	var offset = flag.String("offset", "0,0", "Offset of the copied region as x,y")
	var dpi = flag.Int("dpi", 0, "Native resolution for PDF, EPUB and XPS pages (0 for the default)")
	var outputFile = flag.String("output", "", "Output file (.png for an 8-bit preview, anything else for the packed framebuffer; defaults to input filename with .png extension)")
	var scriptFile = flag.String("script", "", "Run a JavaScript file against the eink API instead of rendering -input")
	var verbose = flag.Bool("v", false, "Log engine events")
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := observability.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *scriptFile != "" {
		bb, err := runScript(ctx, logger, *scriptFile, *dpi)
		if err != nil {
			log.Fatalf("Script failed: %v", err)
		}
		if bb == nil {
			return
		}
		output := *outputFile
		if output == "" {
			output = defaultOutputPath(*scriptFile)
		}
		if err := writeOutput(output, bb); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}
		fmt.Printf("Wrote presented framebuffer to %s\n", output)
		return
	}

	if *inputFile == "" {
		log.Fatal("Input file is required. Use -input or -script flag.")
	}

	ox, oy, err := parseOffset(*offset)
	if err != nil {
		log.Fatalf("Invalid offset: %v", err)
	}

	doc, err := document.OpenContext(ctx, *inputFile, document.WithLogger(logger), document.WithDPI(*dpi))
	if err != nil {
		log.Fatalf("Failed to open document: %v", err)
	}
	defer doc.Close()

	page, err := doc.OpenPageContext(ctx, *pageNum)
	if err != nil {
		log.Fatalf("Failed to open page: %v", err)
	}
	defer page.Close()

	bb, err := blitbuffer.New(*width, *height)
	if err != nil {
		log.Fatalf("Failed to allocate framebuffer: %v", err)
	}

	dc := document.NewDrawContext(document.WithZoom(*zoom), document.WithOffset(ox, oy))
	if err := page.Draw(dc, bb, *posX, *posY); err != nil {
		log.Fatalf("Failed to render page: %v", err)
	}

	output := *outputFile
	if output == "" {
		output = defaultOutputPath(*inputFile)
	}
	if filepath.Clean(output) == filepath.Clean(*inputFile) {
		log.Fatalf("Output %s would overwrite the input document", output)
	}
	if err := writeOutput(output, bb); err != nil {
		log.Fatalf("Failed to write output: %v", err)
	}

	w, h := page.Size(dc)
	fmt.Printf("Successfully rendered page %d of %d from %s to %s\n", *pageNum, doc.Pages(), *inputFile, output)
	fmt.Printf("Page size: %dx%d pixels native, %.0fx%.0f at zoom %g\n", page.NativeWidth(), page.NativeHeight(), w, h, *zoom)
}

func runScript(ctx context.Context, logger observability.Logger, path string, dpi int) (*blitbuffer.BlitBuffer, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	engine := scripting.NewEngine(logger, document.WithDPI(dpi))
	defer engine.Close()

	result, err := engine.Execute(ctx, string(src))
	if err != nil {
		return nil, err
	}
	if result != nil {
		fmt.Printf("Script result: %v\n", result)
	}
	return engine.Presented(), nil
}

// writeOutput stores bb as an 8-bit PNG preview or, for any other
// extension, as the raw packed rows.
func writeOutput(path string, bb *blitbuffer.BlitBuffer) error {
	if !strings.EqualFold(filepath.Ext(path), ".png") {
		return os.WriteFile(path, bb.Pixels(), 0o644)
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(file, bb.ToGray()); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func parseOffset(s string) (int, int, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, fmt.Errorf("%q is not x,y", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return 0, 0, err
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

// defaultOutputPath names the PNG preview after the input, moving aside
// when the input is itself a PNG.
func defaultOutputPath(input string) string {
	if strings.EqualFold(filepath.Ext(input), ".png") {
		return replaceExt(input, ".eink.png")
	}
	return replaceExt(input, ".png")
}

func replaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
