package integration

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"

	"ai-studymate-be/internal/bootstrap"
	"ai-studymate-be/internal/config"
	"ai-studymate-be/internal/pkg/serverutils"
	"ai-studymate-be/internal/server"

	"github.com/gofiber/fiber/v2"
)

func setupApp(t *testing.T) *fiber.App {
	t.Helper()
	// Load .env from root (2 levels up) because tests run in package dir
	if err := godotenv.Load("../../.env"); err != nil {
		t.Logf("Warning: Could not load ../../.env: %v", err)
	}
	cfg := config.Load()
	container := bootstrap.NewContainer(cfg)
	srv := server.New(cfg, container)
	return srv.GetApp()
}

func doJSON(t *testing.T, app *fiber.App, method, path, sessionId string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if sessionId != "" {
		req.Header.Set(serverutils.SessionHeader, sessionId)
	}

	resp, err := app.Test(req, int(30*time.Second/time.Millisecond))
	assert.NoError(t, err)

	raw, _ := io.ReadAll(resp.Body)
	var parsed map[string]interface{}
	_ = json.Unmarshal(raw, &parsed)
	return resp, parsed
}

func TestTextMaterialFlow(t *testing.T) {
	app := setupApp(t)

	// 1. Submit pasted text, capture the session id the server assigns.
	req := httptest.NewRequest("POST", "/api/material/v1/text",
		bytes.NewReader([]byte(`{"text":"A lecture about binary search trees."}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, int(30*time.Second/time.Millisecond))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	sessionId := resp.Header.Get(serverutils.SessionHeader)
	assert.NotEmpty(t, sessionId)

	// 2. Status shows the material under the same session.
	resp2, body := doJSON(t, app, "GET", "/api/material/v1", sessionId, nil)
	assert.Equal(t, http.StatusOK, resp2.StatusCode)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, true, data["has_material"])
	assert.Equal(t, "text", data["kind"])

	// 3. A different session sees nothing.
	otherSession := "11111111-2222-3333-4444-555555555555"
	_, body = doJSON(t, app, "GET", "/api/material/v1", otherSession, nil)
	data = body["data"].(map[string]interface{})
	assert.Equal(t, false, data["has_material"])
}

func TestValidationErrors(t *testing.T) {
	app := setupApp(t)

	// Missing required field.
	resp, body := doJSON(t, app, "POST", "/api/material/v1/text", "", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, false, body["success"])

	// Blank text is rejected after binding.
	resp, _ = doJSON(t, app, "POST", "/api/material/v1/text", "", map[string]interface{}{"text": "   "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Malformed video URL.
	resp, _ = doJSON(t, app, "POST", "/api/material/v1/video", "", map[string]interface{}{"url": "not a url"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestArtifactDownloadBeforeGeneration(t *testing.T) {
	app := setupApp(t)

	resp, _ := doJSON(t, app, "GET", "/api/study/v1/artifact/notes/download", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, "GET", "/api/study/v1/artifact/bogus/download", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// TestLiveNotesFlow exercises the real OpenAI pipeline end to end. It only
// runs when OPENAI_API_KEY is present, e.g. in a manually triggered job.
func TestLiveNotesFlow(t *testing.T) {
	app := setupApp(t)
	if os.Getenv("OPENAI_API_KEY") == "" {
		t.Skip("OPENAI_API_KEY not set, skipping live API test")
	}

	req := httptest.NewRequest("POST", "/api/material/v1/text",
		bytes.NewReader([]byte(`{"text":"Binary search halves the search interval each step, giving O(log n) lookups on sorted data."}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, int(120*time.Second/time.Millisecond))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	sessionId := resp.Header.Get(serverutils.SessionHeader)

	resp2, body := doJSON(t, app, "POST", "/api/study/v1/notes", sessionId, nil)
	if !assert.Equal(t, http.StatusOK, resp2.StatusCode) {
		t.Logf("response: %v", body)
		return
	}
	data := body["data"].(map[string]interface{})
	assert.NotEmpty(t, data["notes"])
}
