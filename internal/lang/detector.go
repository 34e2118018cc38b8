package lang

import (
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/abadojack/whatlanggo"
)

const (
	// DefaultLanguage is returned whenever detection cannot be trusted.
	DefaultLanguage = "eng"

	// Undetermined is the identifier's "no idea" code.
	Undetermined = "und"

	// minDetectLength gates detection: identification on very short strings
	// is unreliable and must not be attempted.
	minDetectLength = 20
)

// Identifier reports the ISO 639-3 code for a text sample, or Undetermined.
type Identifier interface {
	Identify(text string, minLength int) (string, error)
}

// whatlangIdentifier backs the production detector with whatlanggo's
// trigram model.
type whatlangIdentifier struct{}

func (whatlangIdentifier) Identify(text string, minLength int) (string, error) {
	if utf8.RuneCountInString(text) < minLength {
		return Undetermined, nil
	}
	info := whatlanggo.Detect(text)
	code := info.Lang.Iso6393()
	if code == "" {
		return Undetermined, nil
	}
	return code, nil
}

// Detector wraps an Identifier with a minimum-length gate and a safe default.
type Detector struct {
	id     Identifier
	logger *slog.Logger
}

func NewDetector(id Identifier, logger *slog.Logger) *Detector {
	if id == nil {
		id = whatlangIdentifier{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Detector{id: id, logger: logger}
}

// Detect returns the Tesseract code for the language of text. It never fails:
// short input, an undetermined result, or an identifier error all yield
// DefaultLanguage.
func (d *Detector) Detect(text string) string {
	if utf8.RuneCountInString(strings.TrimSpace(text)) < minDetectLength {
		return DefaultLanguage
	}
	code, err := d.id.Identify(text, minDetectLength)
	if err != nil {
		d.logger.Warn("language identification failed", "error", err)
		return DefaultLanguage
	}
	if code == "" || code == Undetermined {
		return DefaultLanguage
	}
	return MapToTesseract(code)
}
