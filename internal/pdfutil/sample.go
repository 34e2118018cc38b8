// Package pdfutil holds PDF file-manipulation helpers that sit outside the
// extraction pipeline: sample generation and page splitting.
package pdfutil

import (
	"bytes"
	"context"
	"fmt"

	"github.com/wudi/pdfkit/builder"
	"github.com/wudi/pdfkit/ir/semantic"
	"github.com/wudi/pdfkit/writer"
)

// CreateSamplePDF builds a one-page invoice-style PDF useful for trying the
// parse endpoint without hunting for a real document.
func CreateSamplePDF(ctx context.Context) ([]byte, error) {
	b := builder.NewBuilder()
	b.SetInfo(&semantic.DocumentInfo{Title: "Sample Invoice"})

	b.NewPage(595, 842). // A4 in points
				DrawText("Invoice Number: INV-2024-001", 50, 800, builder.TextOptions{FontSize: 18}).
				DrawText("Bill To: Documind Test Account", 50, 770, builder.TextOptions{FontSize: 12}).
				DrawLine(50, 760, 545, 760, builder.LineOptions{StrokeColor: builder.Color{B: 0.5}, LineWidth: 1}).
				DrawText("Date: 2024-01-15", 50, 730, builder.TextOptions{FontSize: 12}).
				DrawText("Item", 60, 690, builder.TextOptions{FontSize: 10}).
				DrawText("Qty", 300, 690, builder.TextOptions{FontSize: 10}).
				DrawText("Amount", 450, 690, builder.TextOptions{FontSize: 10}).
				DrawText("Document parsing credits", 60, 670, builder.TextOptions{FontSize: 10}).
				DrawText("1", 300, 670, builder.TextOptions{FontSize: 10}).
				DrawText("$452.10", 450, 670, builder.TextOptions{FontSize: 10}).
				DrawText("Total: $452.10", 400, 630, builder.TextOptions{FontSize: 14}).
				Finish()

	doc, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("build sample pdf: %w", err)
	}

	var buf bytes.Buffer
	w := (&writer.WriterBuilder{}).Build()
	if err := w.Write(ctx, doc, &buf, writer.Config{Deterministic: true}); err != nil {
		return nil, fmt.Errorf("write sample pdf: %w", err)
	}
	return buf.Bytes(), nil
}
