package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/documind/documind/internal/auth"
	"github.com/documind/documind/internal/common"
	"github.com/documind/documind/internal/document"
	"github.com/documind/documind/internal/export"
	"github.com/documind/documind/internal/lang"
	"github.com/documind/documind/internal/ocr"
	"github.com/documind/documind/internal/pdf"
	"github.com/documind/documind/internal/repository"
)

const adminToken = "test-admin-token"

type memoryKeyRepo struct {
	mu   sync.Mutex
	keys map[string]*repository.APIKey
}

func (m *memoryKeyRepo) Create(_ context.Context, k *repository.APIKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *k
	m.keys[k.ID] = &cp
	return nil
}

func (m *memoryKeyRepo) GetByKey(_ context.Context, key string) (*repository.APIKey, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range m.keys {
		if k.Key == key {
			cp := *k
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (m *memoryKeyRepo) ListByUser(_ context.Context, userID string) ([]*repository.APIKey, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*repository.APIKey
	for _, k := range m.keys {
		if k.UserID == userID {
			cp := *k
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memoryKeyRepo) Revoke(_ context.Context, userID, keyID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k, ok := m.keys[keyID]
	if !ok || k.UserID != userID {
		return common.ErrNotFound
	}
	k.IsActive = false
	return nil
}

func (m *memoryKeyRepo) TouchLastUsed(_ context.Context, keyID string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if k, ok := m.keys[keyID]; ok {
		k.LastUsedAt = &at
	}
	return nil
}

type memoryDocRepo struct {
	mu   sync.Mutex
	recs []*repository.DocumentRecord
}

func (m *memoryDocRepo) Insert(_ context.Context, rec *repository.DocumentRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *rec
	m.recs = append(m.recs, &cp)
	return nil
}

func (m *memoryDocRepo) List(_ context.Context, limit int) ([]*repository.DocumentRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit <= 0 || limit > len(m.recs) {
		limit = len(m.recs)
	}
	out := make([]*repository.DocumentRecord, 0, limit)
	for _, r := range m.recs[:limit] {
		cp := *r
		out = append(out, &cp)
	}
	return out, nil
}

type stubParser struct{}

func (stubParser) Parse([]byte) (pdf.TextLayer, error) {
	return pdf.TextLayer{}, errors.New("no text layer in tests")
}

type stubRenderer struct{}

func (stubRenderer) PageCount(string) (int, error) { return 0, errors.New("not rendered in tests") }
func (stubRenderer) Render(string, int) ([]byte, error) {
	return nil, errors.New("not rendered in tests")
}

type stubEngine struct{ text string }

func (s stubEngine) Recognize(context.Context, string, string) (string, error) {
	return s.text, nil
}

type fixedIdentifier struct{}

func (fixedIdentifier) Identify(string, int) (string, error) { return "eng", nil }

type testServer struct {
	router  http.Handler
	keys    *memoryKeyRepo
	docs    *memoryDocRepo
	authSvc *auth.Service
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	keys := &memoryKeyRepo{keys: make(map[string]*repository.APIKey)}
	docs := &memoryDocRepo{}
	authSvc := auth.NewService(keys, nil)
	detector := lang.NewDetector(fixedIdentifier{}, nil)

	pipeline := document.NewPipeline(
		pdf.NewAnalyzer(stubParser{}, nil),
		stubParser{},
		pdf.NewRasterizer(stubRenderer{}, nil),
		ocr.NewAggregator(stubEngine{text: "Receipt #R-42 Payment received Total: $12.00"}, detector, nil),
		detector,
		t.TempDir(),
		nil,
	)

	srv := New(
		pipeline,
		authSvc,
		docs,
		export.NewService(docs, nil),
		common.ServerConfig{Addr: ":0", MaxUploadBytes: 10 << 20, AdminToken: adminToken},
		common.StorageConfig{UploadsDir: t.TempDir()},
		nil,
	)
	return &testServer{router: srv.Router(), keys: keys, docs: docs, authSvc: authSvc}
}

func (ts *testServer) issueKey(t *testing.T) string {
	t.Helper()
	key, err := ts.authSvc.GenerateKey(context.Background(), "user-1", "test", nil)
	require.NoError(t, err)
	return key.Key
}

func multipartUpload(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)

	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestParseRequiresAPIKey(t *testing.T) {
	ts := newTestServer(t)
	body, contentType := multipartUpload(t, "file", "photo.png", []byte{0x89, 'P', 'N', 'G'})

	req := httptest.NewRequest(http.MethodPost, "/v1/documents/parse", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestKeyManagementRequiresAdminToken(t *testing.T) {
	ts := newTestServer(t)
	payload := bytes.NewBufferString(`{"userId":"user-1","name":"laptop"}`)

	req := httptest.NewRequest(http.MethodPost, "/v1/keys", payload)
	req.Header.Set("X-API-Key", "wrong-token")
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	payload = bytes.NewBufferString(`{"userId":"user-1","name":"laptop"}`)
	req = httptest.NewRequest(http.MethodPost, "/v1/keys", payload)
	req.Header.Set("X-API-Key", adminToken)
	rec = httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created repository.APIKey
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.Key)
}

func TestParseImageUpload(t *testing.T) {
	ts := newTestServer(t)
	key := ts.issueKey(t)
	body, contentType := multipartUpload(t, "file", "photo.png", []byte{0x89, 'P', 'N', 'G'})

	req := httptest.NewRequest(http.MethodPost, "/v1/documents/parse", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-API-Key", key)

	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var result document.ExtractionResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "receipt", result.DocumentType)
	assert.Equal(t, "R-42", result.Fields["receiptNumber"])
	assert.Equal(t, "photo.png", result.Metadata.OriginalFilename)

	// parse metadata is recorded for listing and export
	ts.docs.mu.Lock()
	defer ts.docs.mu.Unlock()
	require.Len(t, ts.docs.recs, 1)
	assert.Equal(t, result.Metadata.DocumentID, ts.docs.recs[0].ID)
}

func TestParseRejectsUnknownTypeHint(t *testing.T) {
	ts := newTestServer(t)
	key := ts.issueKey(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "photo.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte{0x89, 'P', 'N', 'G'})
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("document_type", "memo"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/documents/parse", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("X-API-Key", key)

	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestParseRejectsUnsupportedExtension(t *testing.T) {
	ts := newTestServer(t)
	key := ts.issueKey(t)
	body, contentType := multipartUpload(t, "file", "report.docx", []byte("PK"))

	req := httptest.NewRequest(http.MethodPost, "/v1/documents/parse", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-API-Key", key)

	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestParseAcceptsBearerAuthorization(t *testing.T) {
	ts := newTestServer(t)
	key := ts.issueKey(t)
	body, contentType := multipartUpload(t, "file", "photo.jpg", []byte{0xFF, 0xD8})

	req := httptest.NewRequest(http.MethodPost, "/v1/documents/parse", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+key)

	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestListDocuments(t *testing.T) {
	ts := newTestServer(t)
	key := ts.issueKey(t)
	require.NoError(t, ts.docs.Insert(context.Background(), &repository.DocumentRecord{
		ID: "doc-1", Filename: "a.pdf", DocumentType: "invoice", Language: "eng", Pages: 2,
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/documents", nil)
	req.Header.Set("X-API-Key", key)

	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Documents []*repository.DocumentRecord `json:"documents"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Documents, 1)
	assert.Equal(t, "doc-1", resp.Documents[0].ID)
}

func TestExportDocuments(t *testing.T) {
	ts := newTestServer(t)
	key := ts.issueKey(t)
	require.NoError(t, ts.docs.Insert(context.Background(), &repository.DocumentRecord{
		ID: "doc-1", Filename: "a.pdf", DocumentType: "invoice", Language: "eng", Pages: 2,
		CreatedAt: time.Now().UTC(),
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/documents/export", nil)
	req.Header.Set("X-API-Key", key)

	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", rec.Header().Get("Content-Type"))
	assert.NotZero(t, rec.Body.Len())
}

func TestRevokeKeyEndpoint(t *testing.T) {
	ts := newTestServer(t)
	created, err := ts.authSvc.GenerateKey(context.Background(), "user-1", "temp", nil)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodDelete, "/v1/keys/"+created.ID+"?userId=user-1", nil)
	req.Header.Set("X-API-Key", adminToken)
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)

	_, err = ts.authSvc.Authenticate(context.Background(), created.Key)
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}
