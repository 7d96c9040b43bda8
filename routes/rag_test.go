package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"rag-chatbot-platform/models"

	"github.com/gin-gonic/gin"
)

type fakeIngestor struct {
	files, chunks int
	err           error
	lastFolder    string
}

func (f *fakeIngestor) Ingest(_ context.Context, folder string) (int, int, error) {
	f.lastFolder = folder
	return f.files, f.chunks, f.err
}

type fakeChatter struct {
	answer  string
	sources []models.Source
	err     error
	cleared []string
}

func (f *fakeChatter) Chat(_ context.Context, _, _ string, _ int) (string, []models.Source, error) {
	return f.answer, f.sources, f.err
}

func (f *fakeChatter) ClearSession(sessionID string) {
	f.cleared = append(f.cleared, sessionID)
}

func newTestRouter(ingestor Ingestor, chatter Chatter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	SetupRAGRoutes(router, ingestor, chatter, func() gin.H {
		return gin.H{"llm": gin.H{"model": "gemini-2.0-flash"}}
	}, nil)
	return router
}

func TestChatEndpoint(t *testing.T) {
	chatter := &fakeChatter{
		answer:  "The capital is Tokyo.",
		sources: []models.Source{{Path: "jp.txt", ChunkID: "jp.txt::0", Score: 0.9, TextPreview: "Tokyo"}},
	}
	router := newTestRouter(&fakeIngestor{}, chatter)

	body := `{"session_id":"s1","message":"What is the capital?"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp models.ChatResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp.Answer != chatter.answer || len(resp.Sources) != 1 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestChatEndpointRejectsMissingFields(t *testing.T) {
	router := newTestRouter(&fakeIngestor{}, &fakeChatter{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message":"no session"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestIngestEndpoint(t *testing.T) {
	ingestor := &fakeIngestor{files: 3, chunks: 12}
	router := newTestRouter(ingestor, &fakeChatter{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/ingest", strings.NewReader(`{"folder":"./docs"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if ingestor.lastFolder != "./docs" {
		t.Fatalf("folder not passed through, got %q", ingestor.lastFolder)
	}
	var resp models.IngestResult
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp.Files != 3 || resp.Chunks != 12 {
		t.Fatalf("unexpected counts: %+v", resp)
	}
}

func TestClearSessionEndpoint(t *testing.T) {
	chatter := &fakeChatter{}
	router := newTestRouter(&fakeIngestor{}, chatter)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/session/abc/clear", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if len(chatter.cleared) != 1 || chatter.cleared[0] != "abc" {
		t.Fatalf("expected session abc cleared, got %v", chatter.cleared)
	}
	if !strings.Contains(w.Body.String(), "Session abc cleared") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestHealthAndInfoEndpoints(t *testing.T) {
	router := newTestRouter(&fakeIngestor{}, &fakeChatter{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "true") {
		t.Fatalf("health failed: %d %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/info", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "gemini-2.0-flash") {
		t.Fatalf("info failed: %d %s", w.Code, w.Body.String())
	}
}
