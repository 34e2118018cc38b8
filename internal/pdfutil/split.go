package pdfutil

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/wudi/pdfkit/builder"
	"github.com/wudi/pdfkit/ir"
	"github.com/wudi/pdfkit/writer"
)

// Split writes each page of the input PDF as a standalone single-page PDF in
// outputDir and returns the paths in page order.
func Split(ctx context.Context, pdfBytes []byte, outputDir string) ([]string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	pipeline := ir.NewDefault()
	doc, err := pipeline.Parse(ctx, bytes.NewReader(pdfBytes))
	if err != nil {
		return nil, fmt.Errorf("parse pdf: %w", err)
	}
	if len(doc.Pages) == 0 {
		return nil, fmt.Errorf("pdf has no pages")
	}

	w := (&writer.WriterBuilder{}).Build()
	paths := make([]string, 0, len(doc.Pages))

	for i, page := range doc.Pages {
		b := builder.NewBuilder()
		b.AddPage(page)
		single, err := b.Build()
		if err != nil {
			return nil, fmt.Errorf("build page %d: %w", i+1, err)
		}

		var buf bytes.Buffer
		if err := w.Write(ctx, single, &buf, writer.Config{Deterministic: true}); err != nil {
			return nil, fmt.Errorf("write page %d: %w", i+1, err)
		}

		path := filepath.Join(outputDir, fmt.Sprintf("page-%04d.pdf", i+1))
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return nil, fmt.Errorf("save page %d: %w", i+1, err)
		}
		paths = append(paths, path)
	}

	return paths, nil
}
