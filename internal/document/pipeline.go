package document

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/documind/documind/constants"
	"github.com/documind/documind/internal/classify"
	"github.com/documind/documind/internal/lang"
	"github.com/documind/documind/internal/ocr"
	"github.com/documind/documind/internal/pdf"
)

// Sentinel errors for the pipeline's single top-level failure boundary.
var (
	// ErrUnsupportedType reports a file extension outside the supported set.
	ErrUnsupportedType = errors.New("unsupported file type")

	// ErrProcessing wraps any failure the scanned-PDF fallback could not absorb.
	ErrProcessing = errors.New("failed to process document")
)

// scannedPDFWarning is the degradation notice attached when the
// rasterize-then-OCR path fails and the text layer is used instead.
const scannedPDFWarning = "Could not process scanned PDF completely. Using best-effort text extraction instead."

// Request is one uploaded document to process.
type Request struct {
	Content      []byte
	Filename     string
	MimeType     string
	LanguageHint string
	TypeHint     string
}

// Pipeline routes a document to the right extraction strategy and assembles
// the final result. All external capabilities are injected.
type Pipeline struct {
	analyzer   *pdf.Analyzer
	parser     pdf.TextLayerParser
	rasterizer *pdf.Rasterizer
	aggregator *ocr.Aggregator
	detector   *lang.Detector
	uploadsDir string
	logger     *slog.Logger
}

func NewPipeline(
	analyzer *pdf.Analyzer,
	parser pdf.TextLayerParser,
	rasterizer *pdf.Rasterizer,
	aggregator *ocr.Aggregator,
	detector *lang.Detector,
	uploadsDir string,
	logger *slog.Logger,
) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		analyzer:   analyzer,
		parser:     parser,
		rasterizer: rasterizer,
		aggregator: aggregator,
		detector:   detector,
		uploadsDir: uploadsDir,
		logger:     logger,
	}
}

// extraction carries the text+language outcome of one routing branch.
type extraction struct {
	text     string
	language string
	pages    int
	warnings []string
}

// Process runs the full pipeline for one document. The caller either gets a
// complete result (possibly with warnings) or a single descriptive error;
// there is no partial result.
func (p *Pipeline) Process(ctx context.Context, req Request) (*ExtractionResult, *WorkingArea, error) {
	ext := constants.NormalizeExt(filepath.Ext(req.Filename))
	format := constants.MapExtToFormat(ext)
	if format == "" {
		return nil, nil, fmt.Errorf("%w: .%s", ErrUnsupportedType, ext)
	}

	area, err := NewWorkingArea(p.uploadsDir)
	if err != nil {
		return nil, nil, p.wrap(err)
	}
	originalPath, err := area.SaveOriginal(req.Content, ext)
	if err != nil {
		return nil, area, p.wrap(err)
	}

	var out extraction
	switch format {
	case constants.PDF:
		out, err = p.processPDF(ctx, req, area, originalPath)
	case constants.IMAGE:
		out, err = p.processImage(ctx, req, originalPath)
	}
	if err != nil {
		return nil, area, p.wrap(err)
	}

	documentType := req.TypeHint
	if documentType == "" {
		documentType = string(classify.Classify(out.text))
	}
	fields := classify.Extract(out.text, constants.Category(documentType))

	result := &ExtractionResult{
		DocumentType: documentType,
		Language:     out.language,
		Text:         out.text,
		Fields:       fields,
		Pages:        out.pages,
		Warnings:     out.warnings,
		Metadata: Metadata{
			OriginalFilename: req.Filename,
			FileSize:         int64(len(req.Content)),
			FileType:         req.MimeType,
			DocumentID:       area.ID,
		},
	}

	p.logger.Info("document processed",
		"document_id", area.ID,
		"type", documentType,
		"language", out.language,
		"pages", out.pages,
		"warnings", len(out.warnings),
	)
	return result, area, nil
}

// processPDF decides between the direct text-layer path and the
// rasterize-then-OCR path, falling back to the text layer (with a warning)
// when the scanned path fails.
func (p *Pipeline) processPDF(ctx context.Context, req Request, area *WorkingArea, originalPath string) (extraction, error) {
	if p.analyzer.IsTextBased(req.Content) {
		layer, err := p.parser.Parse(req.Content)
		if err != nil {
			return extraction{}, err
		}
		return extraction{
			text:     layer.Text,
			language: p.detector.Detect(layer.Text),
			pages:    layer.PageCount,
		}, nil
	}

	scanErr := p.tryScanned(ctx, req, area, originalPath)
	if scanErr.err == nil {
		return scanErr.out, nil
	}

	p.logger.Warn("scanned pdf processing failed, using text layer fallback",
		"document_id", area.ID, "error", scanErr.err)

	layer, err := p.parser.Parse(req.Content)
	if err != nil {
		// Both the scanned path and the fallback failed; nothing to return.
		return extraction{}, fmt.Errorf("text extraction fallback: %w", err)
	}
	return extraction{
		text:     layer.Text,
		language: p.detector.Detect(layer.Text),
		pages:    layer.PageCount,
		warnings: []string{scannedPDFWarning},
	}, nil
}

type scanOutcome struct {
	out extraction
	err error
}

func (p *Pipeline) tryScanned(ctx context.Context, req Request, area *WorkingArea, originalPath string) scanOutcome {
	pages, err := p.rasterizer.Rasterize(originalPath, area.PagesDir())
	if err != nil {
		return scanOutcome{err: err}
	}
	agg, err := p.aggregator.RecognizeAll(ctx, pages, req.LanguageHint)
	if err != nil {
		return scanOutcome{err: err}
	}
	return scanOutcome{out: extraction{
		text:     agg.Text,
		language: agg.Language,
		pages:    len(pages),
	}}
}

func (p *Pipeline) processImage(ctx context.Context, req Request, originalPath string) (extraction, error) {
	agg, err := p.aggregator.RecognizeAll(ctx, []string{originalPath}, req.LanguageHint)
	if err != nil {
		return extraction{}, err
	}
	return extraction{
		text:     agg.Text,
		language: agg.Language,
		pages:    1,
	}, nil
}

func (p *Pipeline) wrap(err error) error {
	return fmt.Errorf("%w: %v", ErrProcessing, err)
}
