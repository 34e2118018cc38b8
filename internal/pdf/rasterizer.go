package pdf

import (
	"bytes"
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gen2brain/go-fitz"
)

// PageRenderer rasterizes single PDF pages. Render fails on an out-of-range
// index or a corrupt page.
type PageRenderer interface {
	PageCount(pdfPath string) (int, error)
	Render(pdfPath string, pageIndex int) ([]byte, error)
}

// FitzRenderer renders pages with go-fitz (MuPDF) at the page's declared size.
type FitzRenderer struct{}

func (FitzRenderer) PageCount(pdfPath string) (int, error) {
	doc, err := fitz.New(pdfPath)
	if err != nil {
		return 0, fmt.Errorf("open pdf: %w", err)
	}
	defer doc.Close()
	return doc.NumPage(), nil
}

func (FitzRenderer) Render(pdfPath string, pageIndex int) ([]byte, error) {
	doc, err := fitz.New(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer doc.Close()

	if pageIndex < 0 || pageIndex >= doc.NumPage() {
		return nil, fmt.Errorf("page %d out of range (document has %d pages)", pageIndex, doc.NumPage())
	}

	img, err := doc.Image(pageIndex)
	if err != nil {
		return nil, fmt.Errorf("render page %d: %w", pageIndex, err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode page %d: %w", pageIndex, err)
	}
	return buf.Bytes(), nil
}

// Rasterizer converts every page of a PDF into a PNG artifact. File names are
// zero-padded so lexical order reproduces page order.
type Rasterizer struct {
	renderer PageRenderer
	logger   *slog.Logger
}

func NewRasterizer(renderer PageRenderer, logger *slog.Logger) *Rasterizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Rasterizer{renderer: renderer, logger: logger}
}

// Rasterize writes one image per page into outputDir and returns the paths in
// page order. Any page failing to render fails the whole call; the caller
// decides whether to fall back to another extraction path.
func (r *Rasterizer) Rasterize(pdfPath, outputDir string) ([]string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	pageCount, err := r.renderer.PageCount(pdfPath)
	if err != nil {
		return nil, err
	}
	if pageCount == 0 {
		return nil, fmt.Errorf("pdf has no pages")
	}

	paths := make([]string, 0, pageCount)
	for i := 0; i < pageCount; i++ {
		data, err := r.renderer.Render(pdfPath, i)
		if err != nil {
			return nil, err
		}
		path := filepath.Join(outputDir, fmt.Sprintf("page-%04d.png", i+1))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, fmt.Errorf("write page %d: %w", i+1, err)
		}
		paths = append(paths, path)
	}

	r.logger.Debug("rasterized pdf", "path", pdfPath, "pages", pageCount)
	return paths, nil
}
