// docparse runs the extraction pipeline on a local file and prints the
// result as JSON. Useful for trying thresholds and language models without
// a running server.
package main

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/documind/documind/internal/document"
	"github.com/documind/documind/internal/lang"
	"github.com/documind/documind/internal/ocr"
	"github.com/documind/documind/internal/pdf"
)

func main() {
	var (
		languageHint string
		typeHint     string
		workDir      string
		tessdataDir  string
		keep         bool
	)

	root := &cobra.Command{
		Use:   "docparse <file>",
		Short: "Extract text, language, category, and fields from a PDF or image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelWarn,
			}))

			content, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			parser := pdf.StdParser{}
			detector := lang.NewDetector(nil, logger)
			pipeline := document.NewPipeline(
				pdf.NewAnalyzer(parser, logger),
				parser,
				pdf.NewRasterizer(pdf.FitzRenderer{}, logger),
				ocr.NewAggregator(ocr.TesseractEngine{TessdataDir: tessdataDir}, detector, logger),
				detector,
				workDir,
				logger,
			)

			result, area, err := pipeline.Process(cmd.Context(), document.Request{
				Content:      content,
				Filename:     filepath.Base(args[0]),
				MimeType:     "",
				LanguageHint: languageHint,
				TypeHint:     typeHint,
			})
			if area != nil && !keep {
				defer func() { _ = area.Remove() }()
			}
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}

	root.Flags().StringVarP(&languageHint, "language", "l", "", "language hint for the OCR engine (e.g. eng, fra)")
	root.Flags().StringVarP(&typeHint, "type", "t", "", "document type hint, skips classification")
	root.Flags().StringVar(&workDir, "work-dir", os.TempDir(), "directory for scratch artifacts")
	root.Flags().StringVar(&tessdataDir, "tessdata-dir", "", "override the Tesseract traineddata directory")
	root.Flags().BoolVar(&keep, "keep", false, "keep scratch artifacts after the run")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
