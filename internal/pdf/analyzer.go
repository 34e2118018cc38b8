package pdf

import "log/slog"

const (
	// minTextLength is the floor below which a PDF cannot have a genuine
	// text layer.
	minTextLength = 50

	// minTextPerPage is the per-page character density a text-based PDF
	// must exceed.
	minTextPerPage = 100
)

// Analyzer decides whether a PDF is text-based or scanned from text-layer
// statistics. It is a heuristic, not a format-correctness check.
type Analyzer struct {
	parser TextLayerParser
	logger *slog.Logger
}

func NewAnalyzer(parser TextLayerParser, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{parser: parser, logger: logger}
}

// IsTextBased reports whether the PDF carries a usable text layer. A parse
// failure classifies the document as scanned: OCR is the slower but universal
// path.
func (a *Analyzer) IsTextBased(pdfBytes []byte) bool {
	layer, err := a.parser.Parse(pdfBytes)
	if err != nil {
		a.logger.Warn("text layer parse failed, treating pdf as scanned", "error", err)
		return false
	}

	textLength := len(layer.Text)
	if textLength < minTextLength {
		return false
	}
	if layer.PageCount <= 0 {
		return false
	}

	textPerPage := float64(textLength) / float64(layer.PageCount)
	return textPerPage > minTextPerPage
}
