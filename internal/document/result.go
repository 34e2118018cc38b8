package document

// Metadata describes the processed upload.
type Metadata struct {
	OriginalFilename string `json:"originalFilename"`
	FileSize         int64  `json:"fileSize"`
	FileType         string `json:"fileType"`
	DocumentID       string `json:"documentId"`
}

// ExtractionResult is the pipeline's output. Text is always present (never
// null); Fields may be empty but never nil; Warnings is set only when a
// fallback path was taken.
type ExtractionResult struct {
	DocumentType string            `json:"documentType"`
	Language     string            `json:"language"`
	Text         string            `json:"text"`
	Fields       map[string]string `json:"fields"`
	Pages        int               `json:"pages,omitempty"`
	Warnings     []string          `json:"warnings,omitempty"`
	Metadata     Metadata          `json:"metadata"`
}
