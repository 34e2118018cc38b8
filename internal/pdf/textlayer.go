package pdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// TextLayer is the parsed text layer of a PDF.
type TextLayer struct {
	Text      string
	PageCount int
}

// TextLayerParser reads the embedded text layer of a PDF. Implementations
// fail on malformed input; they never OCR.
type TextLayerParser interface {
	Parse(pdfBytes []byte) (TextLayer, error)
}

// StdParser implements TextLayerParser with github.com/ledongthuc/pdf.
type StdParser struct{}

func (StdParser) Parse(data []byte) (layer TextLayer, err error) {
	// The reader panics on some malformed files; surface that as a parse error.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parse pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return TextLayer{}, fmt.Errorf("open pdf: %w", err)
	}

	var sb strings.Builder
	numPages := r.NumPage()
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue // skip pages that fail to extract
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	return TextLayer{Text: sb.String(), PageCount: numPages}, nil
}
