package lang

// tesseractCodes maps ISO 639-3 codes reported by the identifier to the model
// names Tesseract ships. Most codes are identical; the table keeps the full
// supported set so additions stay in one place.
var tesseractCodes = map[string]string{
	"cmn": "chi_sim", // Mandarin Chinese -> Simplified Chinese model
	"jpn": "jpn",
	"kor": "kor",
	"eng": "eng",
	"deu": "deu",
	"fra": "fra",
	"spa": "spa",
	"ita": "ita",
	"rus": "rus",
	"ara": "ara",
	"hin": "hin",
	"ben": "ben",
	"por": "por",
	"urd": "urd",
}

// MapToTesseract converts a detected language code to the code the OCR engine
// understands. Unknown codes pass through unchanged.
func MapToTesseract(code string) string {
	if mapped, ok := tesseractCodes[code]; ok {
		return mapped
	}
	return code
}
