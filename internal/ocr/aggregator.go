package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/documind/documind/internal/lang"
)

// PageResult is the OCR outcome for one page.
type PageResult struct {
	Index    int
	Text     string
	Language string
}

// Aggregate is the combined outcome across all pages.
type Aggregate struct {
	Text     string
	Language string
}

// Aggregator fans OCR out over page images and reassembles the results in
// page order. Each page's language is detected from its own OCR text; the
// aggregate language is the majority across pages.
type Aggregator struct {
	engine   Engine
	detector *lang.Detector
	logger   *slog.Logger
}

func NewAggregator(engine Engine, detector *lang.Detector, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{engine: engine, detector: detector, logger: logger}
}

// RecognizeAll OCRs every page concurrently with the same language hint and
// joins the per-page text with a blank line, preserving page order regardless
// of completion order.
func (a *Aggregator) RecognizeAll(ctx context.Context, pages []string, languageHint string) (Aggregate, error) {
	if languageHint == "" {
		languageHint = lang.DefaultLanguage
	}

	results := make([]PageResult, len(pages))
	errs := make([]error, len(pages))

	var wg sync.WaitGroup
	for i, path := range pages {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			text, err := a.engine.Recognize(ctx, path, languageHint)
			if err != nil {
				errs[i] = fmt.Errorf("ocr page %d: %w", i+1, err)
				return
			}
			results[i] = PageResult{
				Index:    i,
				Text:     text,
				Language: a.detector.Detect(text),
			}
		}(i, path)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return Aggregate{}, err
		}
	}

	texts := make([]string, len(results))
	for i, r := range results {
		texts[i] = r.Text
	}

	agg := Aggregate{
		Text:     strings.Join(texts, "\n\n"),
		Language: majorityLanguage(results),
	}
	a.logger.Debug("ocr aggregation complete", "pages", len(pages), "language", agg.Language)
	return agg, nil
}

// majorityLanguage picks the most frequent per-page language. Ties go to the
// language first encountered in page order, not alphabetically.
func majorityLanguage(results []PageResult) string {
	counts := make(map[string]int, len(results))
	var order []string
	for _, r := range results {
		if _, seen := counts[r.Language]; !seen {
			order = append(order, r.Language)
		}
		counts[r.Language]++
	}

	best := lang.DefaultLanguage
	bestCount := 0
	for _, code := range order {
		if counts[code] > bestCount {
			best = code
			bestCount = counts[code]
		}
	}
	return best
}
