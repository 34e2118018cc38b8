package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"github.com/documind/documind/constants"
	"github.com/documind/documind/internal/document"
	"github.com/documind/documind/internal/pdfutil"
	"github.com/documind/documind/internal/repository"
)

// handleParse accepts a multipart upload and runs it through the document
// pipeline. Form fields: file (required), language, document_type.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		s.writeError(w, http.StatusRequestEntityTooLarge, "file exceeds the maximum upload size")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer file.Close()

	ext := constants.NormalizeExt(filepath.Ext(header.Filename))
	if constants.MapExtToFormat(ext) == "" {
		s.writeError(w, http.StatusUnsupportedMediaType, fmt.Sprintf("unsupported file type: .%s", ext))
		return
	}

	typeHint := r.FormValue("document_type")
	if typeHint != "" && !slices.Contains(constants.AsStringSlice(), typeHint) {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown document_type %q", typeHint))
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	req := document.Request{
		Content:      content,
		Filename:     header.Filename,
		MimeType:     header.Header.Get("Content-Type"),
		LanguageHint: r.FormValue("language"),
		TypeHint:     typeHint,
	}

	result, area, err := s.pipeline.Process(r.Context(), req)
	if area != nil && !s.storage.KeepUploads {
		defer func() {
			if rmErr := area.Remove(); rmErr != nil {
				s.logger.Warn("failed to remove working area", "document_id", area.ID, "error", rmErr)
			}
		}()
	}
	if err != nil {
		if errors.Is(err, document.ErrUnsupportedType) {
			s.writeError(w, http.StatusUnsupportedMediaType, err.Error())
			return
		}
		s.logger.Error("document processing failed", "filename", header.Filename, "error", err)
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.recordDocument(r, result, ext)
	s.writeJSON(w, http.StatusOK, result)
}

// recordDocument persists parse metadata for listing and export. Storage is
// best effort; a failure here never fails the request.
func (s *Server) recordDocument(r *http.Request, result *document.ExtractionResult, ext string) {
	err := s.docs.Insert(r.Context(), &repository.DocumentRecord{
		ID:           result.Metadata.DocumentID,
		Filename:     result.Metadata.OriginalFilename,
		FileExt:      ext,
		FileSize:     result.Metadata.FileSize,
		DocumentType: result.DocumentType,
		Language:     result.Language,
		Pages:        result.Pages,
		WarningCount: len(result.Warnings),
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		s.logger.Warn("failed to record document metadata", "document_id", result.Metadata.DocumentID, "error", err)
	}
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	recs, err := s.docs.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to list documents")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"documents": recs})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	data, err := s.exporter.ExportDocumentsXLSX(r.Context(), limit)
	if err != nil {
		s.logger.Error("export failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "export failed")
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="documents.xlsx"`)
	_, _ = w.Write(data)
}

func (s *Server) handleSamplePDF(w http.ResponseWriter, r *http.Request) {
	data, err := pdfutil.CreateSamplePDF(r.Context())
	if err != nil {
		s.logger.Error("sample pdf generation failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to create sample PDF")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="sample.pdf"`)
	_, _ = w.Write(data)
}

// handleSplitPDF splits an uploaded PDF into single-page files under a fresh
// operation directory and reports the produced page files.
func (s *Server) handleSplitPDF(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		s.writeError(w, http.StatusRequestEntityTooLarge, "file exceeds the maximum upload size")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "no PDF file uploaded")
		return
	}
	defer file.Close()

	if constants.NormalizeExt(filepath.Ext(header.Filename)) != "pdf" {
		s.writeError(w, http.StatusUnsupportedMediaType, "only PDF files can be split")
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	area, err := document.NewWorkingArea(filepath.Join(s.storage.UploadsDir, "split"))
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to allocate working area")
		return
	}

	paths, err := pdfutil.Split(r.Context(), content, area.Dir)
	if err != nil {
		s.logger.Error("pdf split failed", "filename", header.Filename, "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to split PDF")
		return
	}

	pages := make([]map[string]any, 0, len(paths))
	for _, p := range paths {
		info, statErr := os.Stat(p)
		var size int64
		if statErr == nil {
			size = info.Size()
		}
		pages = append(pages, map[string]any{
			"name": filepath.Base(p),
			"size": size,
		})
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"operationId":  area.ID,
		"originalName": header.Filename,
		"totalPages":   len(paths),
		"pageFiles":    pages,
	})
}
