package bootstrap_test

import (
	"bytes"
	"encoding/json"
	"io/fs"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"finance-backend/internal/bootstrap"
	"finance-backend/internal/shared/config"
)

func newTestApp(t *testing.T) (*bootstrap.App, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	uploadDir := t.TempDir()
	app, err := bootstrap.Build(config.Config{
		Env:                      "test",
		UploadDir:                uploadDir,
		MaxUploadSize:            1 << 20,
		SecretKey:                "test-secret",
		Algorithm:                "HS256",
		AccessTokenExpireMinutes: 30,
		ProviderTimeout:          time.Second,
		NewsCacheTTL:             time.Hour,
		ChatHistoryTurns:         5,
		ChatHistoryTTL:           time.Hour,
		OrphanGrace:              time.Hour,
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	t.Cleanup(app.Close)
	return app, uploadDir
}

func do(t *testing.T, app *bootstrap.App, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, app *bootstrap.App) string {
	t.Helper()
	body := `{"username":"asha","password":"s3cure-pass","email":"asha@example.com"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if w := do(t, app, req); w.Code != http.StatusCreated {
		t.Fatalf("register: %d %s", w.Code, w.Body.String())
	}

	form := url.Values{"username": {"asha"}, "password": {"s3cure-pass"}}
	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := do(t, app, req)
	if w.Code != http.StatusOK {
		t.Fatalf("token: %d %s", w.Code, w.Body.String())
	}
	var tok struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &tok); err != nil || tok.AccessToken == "" {
		t.Fatalf("token response %s: %v", w.Body.String(), err)
	}
	return tok.AccessToken
}

func uploadRequest(t *testing.T, token, name, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", name)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	part.Write([]byte(content))
	mw.Close()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func authed(method, target, token string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func countFiles(t *testing.T, dir string) int {
	t.Helper()
	n := 0
	filepath.WalkDir(dir, func(_ string, d fs.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			n++
		}
		return nil
	})
	return n
}

func TestDocumentLifecycle(t *testing.T) {
	app, uploadDir := newTestApp(t)
	token := login(t, app)

	w := do(t, app, uploadRequest(t, token, "holdings.csv", "Name,Value\nGold ETF,1000\nNifty Index Fund,2500\n"))
	if w.Code != http.StatusCreated {
		t.Fatalf("upload: %d %s", w.Code, w.Body.String())
	}
	var doc struct {
		ID     string `json:"id"`
		Status string `json:"analysis_status"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &doc); err != nil || doc.ID == "" {
		t.Fatalf("upload response %s: %v", w.Body.String(), err)
	}
	if countFiles(t, uploadDir) != 1 {
		t.Fatalf("expected stored file")
	}

	var analysis struct {
		Status  string `json:"status"`
		Summary string `json:"summary"`
	}
	deadline := time.Now().Add(5 * time.Second)
	for {
		w = do(t, app, authed(http.MethodGet, "/api/v1/documents/"+doc.ID+"/analysis", token))
		if w.Code != http.StatusOK {
			t.Fatalf("analysis: %d %s", w.Code, w.Body.String())
		}
		if err := json.Unmarshal(w.Body.Bytes(), &analysis); err != nil {
			t.Fatalf("analysis body: %v", err)
		}
		if analysis.Status != "pending" || time.Now().After(deadline) {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if analysis.Status != "completed" || analysis.Summary == "" {
		t.Fatalf("expected degraded completion, got %+v", analysis)
	}

	w = do(t, app, authed(http.MethodGet, "/api/v1/documents", token))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), doc.ID) {
		t.Fatalf("list: %d %s", w.Code, w.Body.String())
	}

	w = do(t, app, authed(http.MethodDelete, "/api/v1/documents/"+doc.ID, token))
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete: %d %s", w.Code, w.Body.String())
	}
	if countFiles(t, uploadDir) != 0 {
		t.Fatalf("expected stored file removed")
	}
	w = do(t, app, authed(http.MethodGet, "/api/v1/documents/"+doc.ID+"/analysis", token))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", w.Code)
	}
}

func TestUploadRejectsUnsupportedExtension(t *testing.T) {
	app, uploadDir := newTestApp(t)
	token := login(t, app)

	w := do(t, app, uploadRequest(t, token, "notes.txt", "hello"))
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "unsupported_media") {
		t.Fatalf("expected unsupported_media, got %d %s", w.Code, w.Body.String())
	}
	if countFiles(t, uploadDir) != 0 {
		t.Fatalf("rejected upload left a file behind")
	}
}

func TestUploadAcceptsDottedFileName(t *testing.T) {
	app, uploadDir := newTestApp(t)
	token := login(t, app)

	w := do(t, app, uploadRequest(t, token, "q1..q2-holdings.csv", "Name,Value\nGold ETF,100\n"))
	if w.Code != http.StatusCreated {
		t.Fatalf("upload: %d %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"name":"q1..q2-holdings.csv"`) {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
	if countFiles(t, uploadDir) != 1 {
		t.Fatalf("expected stored file")
	}
}

func TestRegisterRejectsOverlongPassword(t *testing.T) {
	app, _ := newTestApp(t)
	body := `{"username":"asha","password":"` + strings.Repeat("p", 80) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := do(t, app, req)
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "validation_error") {
		t.Fatalf("expected 400 validation_error, got %d %s", w.Code, w.Body.String())
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app, _ := newTestApp(t)
	for _, target := range []string{"/api/v1/documents", "/api/v1/ai/insights", "/api/v1/investments"} {
		w := do(t, app, httptest.NewRequest(http.MethodGet, target, nil))
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", target, w.Code)
		}
	}
}

func TestPublicRoutes(t *testing.T) {
	app, _ := newTestApp(t)

	w := do(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"memory"`) {
		t.Fatalf("health: %d %s", w.Code, w.Body.String())
	}

	w = do(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("metrics: %d", w.Code)
	}

	w = do(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/news", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("news: %d %s", w.Code, w.Body.String())
	}
	var result struct {
		News     []json.RawMessage `json:"news"`
		Degraded bool              `json:"degraded"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("news body: %v", err)
	}
	if !result.Degraded || len(result.News) != 3 {
		t.Fatalf("expected degraded fallback news, got %s", w.Body.String())
	}
}

func TestChatDegradesWithoutProvider(t *testing.T) {
	app, _ := newTestApp(t)
	token := login(t, app)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/ai/chat", strings.NewReader(`{"message":"Should I buy gold?"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := do(t, app, req)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"degraded":true`) {
		t.Fatalf("chat: %d %s", w.Code, w.Body.String())
	}

	w = do(t, app, authed(http.MethodGet, "/api/v1/ai/chat-history", token))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "How can I help") {
		t.Fatalf("history: %d %s", w.Code, w.Body.String())
	}
}
