package ocr

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// Engine recognizes text in a single image file. It fails if the language
// model is unavailable or the image is unreadable.
type Engine interface {
	Recognize(ctx context.Context, imagePath, languageCode string) (string, error)
}

// TesseractEngine runs OCR through gosseract (libtesseract bindings).
type TesseractEngine struct {
	// TessdataDir overrides the traineddata location when non-empty.
	TessdataDir string
}

func (e TesseractEngine) Recognize(_ context.Context, imagePath, languageCode string) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if e.TessdataDir != "" {
		if err := client.SetTessdataPrefix(e.TessdataDir); err != nil {
			return "", fmt.Errorf("set tessdata dir: %w", err)
		}
	}
	if err := client.SetLanguage(languageCode); err != nil {
		return "", fmt.Errorf("set ocr language %q: %w", languageCode, err)
	}
	if err := client.SetImage(imagePath); err != nil {
		return "", fmt.Errorf("set ocr image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("ocr %s: %w", imagePath, err)
	}
	return text, nil
}
