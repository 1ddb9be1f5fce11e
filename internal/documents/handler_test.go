package documents

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func testRouter(t *testing.T, svc *Service) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("userId", "user-1")
		c.Next()
	})
	NewHandler(svc, 100<<20).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func multipartBody(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func TestUploadEndpoint(t *testing.T) {
	store := newMemStore()
	svc, _ := testService(t, store)
	router := testRouter(t, svc)

	body, contentType := multipartBody(t, "notes.txt", "hello world\n")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/projects/proj-1/documents", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var d Document
	if err := json.Unmarshal(rec.Body.Bytes(), &d); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if d.Status != StatusUploaded || d.Name != "notes.txt" {
		t.Fatalf("unexpected document %+v", d)
	}
}

func TestUploadEndpointRequiresFileField(t *testing.T) {
	store := newMemStore()
	svc, _ := testService(t, store)
	router := testRouter(t, svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/projects/proj-1/documents", bytes.NewBufferString("{}"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUploadEndpointUnknownProject(t *testing.T) {
	store := newMemStore()
	svc, _ := testService(t, store)
	router := testRouter(t, svc)

	body, contentType := multipartBody(t, "notes.txt", "hello")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/projects/nope/documents", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestExtractEndpointReturnsResult(t *testing.T) {
	store := newMemStore()
	svc, _ := testService(t, store)
	router := testRouter(t, svc)
	d := uploadText(t, svc, "notes.txt", "hello world\nfoo\n")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/"+d.ID+"/extract", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Document      Document        `json:"document"`
		ExtractedData json.RawMessage `json:"extractedData"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Document.Status != StatusExtracted {
		t.Fatalf("expected extracted, got %q", resp.Document.Status)
	}
	if len(resp.ExtractedData) == 0 || string(resp.ExtractedData) == "null" {
		t.Fatal("expected extractedData in the response")
	}
}

func TestExtractEndpointConflict(t *testing.T) {
	store := newMemStore()
	svc, repo := testService(t, store)
	router := testRouter(t, svc)
	d := uploadText(t, svc, "notes.txt", "hello")

	// Hold an active claim so the request collides with it.
	now := time.Now().UTC()
	if err := repo.MarkProcessing(context.Background(), d.ID, now, now.Add(-10*time.Minute)); err != nil {
		t.Fatalf("seed claim: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/"+d.ID+"/extract", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestListEndpointScopedToProject(t *testing.T) {
	store := newMemStore()
	svc, _ := testService(t, store)
	router := testRouter(t, svc)
	uploadText(t, svc, "a.txt", "a")
	uploadText(t, svc, "b.txt", "b")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/projects/proj-1/documents", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Documents []Document `json:"documents"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Documents) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(resp.Documents))
	}
}
