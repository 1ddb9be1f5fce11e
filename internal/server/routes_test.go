package server_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"docflow-backend/internal/bootstrap"
	"docflow-backend/internal/shared/config"
)

func buildApp(t *testing.T) *bootstrap.App {
	t.Helper()
	app, err := bootstrap.Build(config.Config{
		Env:                  "dev",
		CORSAllowOrigin:      []string{"http://localhost:5173"},
		ObjectStoreType:      "local",
		LocalStoreDir:        t.TempDir(),
		JWTSecret:            "test-secret",
		TokenTTL:             time.Hour,
		MaxUploadBytes:       100 << 20,
		StaleProcessingAfter: 10 * time.Minute,
	})
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	return app
}

func doJSON(t *testing.T, app *bootstrap.App, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func registerUser(t *testing.T, app *bootstrap.App, email string) string {
	t.Helper()
	rec := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email":    email,
		"password": "secret123",
		"name":     "Test User",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	decode(t, rec, &resp)
	if resp.Token == "" {
		t.Fatal("expected a token")
	}
	return resp.Token
}

func TestHealthAndMetricsArePublic(t *testing.T) {
	app := buildApp(t)

	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics: expected 200, got %d", rec.Code)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte("documents_uploaded_total")) {
		t.Fatal("metrics output missing upload counter")
	}
}

func TestProtectedRoutesRejectMissingToken(t *testing.T) {
	app := buildApp(t)
	rec := doJSON(t, app, http.MethodGet, "/api/v1/orgs", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestFullDocumentLifecycle(t *testing.T) {
	app := buildApp(t)
	token := registerUser(t, app, "flow@example.com")

	rec := doJSON(t, app, http.MethodPost, "/api/v1/orgs", token, map[string]string{"name": "Acme"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create org: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var org struct {
		ID string `json:"id"`
	}
	decode(t, rec, &org)

	rec = doJSON(t, app, http.MethodPost, "/api/v1/orgs/"+org.ID+"/projects", token, map[string]string{"name": "Specs"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create project: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var project struct {
		ID string `json:"id"`
	}
	decode(t, rec, &project)

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", "notes.txt")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	part.Write([]byte("hello world\nfoo\n"))
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/projects/"+project.ID+"/documents", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	uploadRec := httptest.NewRecorder()
	app.Router.ServeHTTP(uploadRec, req)
	if uploadRec.Code != http.StatusCreated {
		t.Fatalf("upload: expected 201, got %d: %s", uploadRec.Code, uploadRec.Body.String())
	}
	var doc struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	decode(t, uploadRec, &doc)
	if doc.Status != "uploaded" {
		t.Fatalf("expected uploaded, got %q", doc.Status)
	}

	rec = doJSON(t, app, http.MethodPost, "/api/v1/documents/"+doc.ID+"/extract", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("extract: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var extractResp struct {
		Document struct {
			Status string `json:"status"`
		} `json:"document"`
		ExtractedData struct {
			ExtractionType string `json:"extractionType"`
			Content        struct {
				CharacterCount int `json:"characterCount"`
				LineCount      int `json:"lineCount"`
				WordCount      int `json:"wordCount"`
			} `json:"content"`
		} `json:"extractedData"`
	}
	decode(t, rec, &extractResp)
	if extractResp.Document.Status != "extracted" {
		t.Fatalf("expected extracted, got %q", extractResp.Document.Status)
	}
	if extractResp.ExtractedData.ExtractionType != "text" {
		t.Fatalf("expected text extraction, got %q", extractResp.ExtractedData.ExtractionType)
	}
	got := extractResp.ExtractedData.Content
	if got.CharacterCount != 16 || got.LineCount != 3 || got.WordCount != 3 {
		t.Fatalf("unexpected counts %+v", got)
	}

	// A second user cannot see the document.
	otherToken := registerUser(t, app, "other@example.com")
	rec = doJSON(t, app, http.MethodGet, "/api/v1/documents/"+doc.ID, otherToken, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for other user, got %d", rec.Code)
	}
}

func TestOrgCascadeRemovesDocuments(t *testing.T) {
	app := buildApp(t)
	token := registerUser(t, app, "cascade@example.com")

	rec := doJSON(t, app, http.MethodPost, "/api/v1/orgs", token, map[string]string{"name": "Acme"})
	var org struct {
		ID string `json:"id"`
	}
	decode(t, rec, &org)

	rec = doJSON(t, app, http.MethodPost, "/api/v1/orgs/"+org.ID+"/projects", token, map[string]string{"name": "Specs"})
	var project struct {
		ID string `json:"id"`
	}
	decode(t, rec, &project)

	rec = doJSON(t, app, http.MethodDelete, "/api/v1/orgs/"+org.ID, token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete org: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, app, http.MethodGet, "/api/v1/orgs/"+org.ID, token, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected org gone, got %d", rec.Code)
	}
}
