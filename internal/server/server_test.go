package server_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"learnos/internal/config"
	"learnos/internal/dto"
	"learnos/internal/handler"
	"learnos/internal/repository"
	"learnos/internal/sanitize"
	"learnos/internal/server"
	"learnos/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const lessonReply = "```json\n" + `{
  "keyConcepts": [
    {"title": "Mass", "explanation": "Everything is made of stuff. Mass is how much stuff."},
    {"title": "Attraction", "explanation": "Things with mass pull on each other."}
  ],
  "analogies": [
    {"concept": "Mass", "analogy": "A backpack full of books is harder to lift."},
    {"concept": "Attraction", "analogy": "A bowling ball on a trampoline pulls marbles in."}
  ],
  "quiz": [
    {"question": "What makes an apple fall?", "options": ["Gravity", "Wind", "Magnetism", "Light"], "correctAnswer": 0},
    {"question": "More mass means?", "options": ["Weaker pull", "Stronger pull", "No pull", "Random pull"], "correctAnswer": 1},
    {"question": "Gravity acts between?", "options": ["Only planets", "Only magnets", "All masses", "Only liquids"], "correctAnswer": 2}
  ]
}` + "\n```"

// countingGenerator returns a fixed reply and counts calls.
type countingGenerator struct {
	calls int32
	reply string
}

func (g *countingGenerator) Generate(context.Context, string) (string, error) {
	atomic.AddInt32(&g.calls, 1)
	return g.reply, nil
}

func newTestServer(t *testing.T, gen *countingGenerator, staticDir string) *fiber.App {
	t.Helper()
	store := repository.NewLessonMemoryAdapter()
	san, err := sanitize.NewLessonSanitizer()
	require.NoError(t, err)

	svc := service.NewLessonService(store, gen, san, nil, 5*time.Second)
	cfg := config.ServerConfig{Port: 3000, ReadTimeout: 5 * time.Second, WriteTimeout: 5 * time.Second, BodyLimit: 1 << 20, StaticDir: staticDir}
	return server.NewApp(cfg, handler.NewLessonHandler(svc), handler.NewHealthHandler(store, nil, true, cfg.Port))
}

func generate(t *testing.T, app *fiber.App, topic string) (int, dto.LessonResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader(`{"topic":"`+topic+`"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body dto.LessonResponse
	if resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	}
	return resp.StatusCode, body
}

func TestLessonFlow_GenerateOnceThenServeStored(t *testing.T) {
	gen := &countingGenerator{reply: lessonReply}
	app := newTestServer(t, gen, "")

	status, first := generate(t, app, "Gravity")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "gravity", first.Topic)
	assert.Len(t, first.KeyConcepts, 2)
	assert.Len(t, first.Quiz, 3)
	assert.EqualValues(t, 1, atomic.LoadInt32(&gen.calls))

	for _, variant := range []string{"gravity", "  GRAVITY  ", "GrAvItY"} {
		status, again := generate(t, app, variant)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, first, again, "variant %q", variant)
	}
	assert.EqualValues(t, 1, atomic.LoadInt32(&gen.calls), "stored lesson is served without regeneration")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/lessons", nil))
	require.NoError(t, err)
	var summaries []dto.LessonSummaryResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&summaries))
	require.Len(t, summaries, 1)
	assert.Equal(t, "gravity", summaries[0].Topic)
}

func TestLessonFlow_GarbageReplyStoresNothing(t *testing.T) {
	gen := &countingGenerator{reply: "Sorry, I can't do that."}
	app := newTestServer(t, gen, "")

	status, _ := generate(t, app, "gravity")
	assert.Equal(t, http.StatusInternalServerError, status)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/lessons", nil))
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "[]", string(raw))
}

func TestApp_HealthAndNotFound(t *testing.T) {
	app := newTestServer(t, &countingGenerator{reply: lessonReply}, "")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/unknown", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Route not found", body.Error)
}

func TestApp_ServesStaticFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>LearnOS</h1>"), 0o644))
	app := newTestServer(t, &countingGenerator{reply: lessonReply}, dir)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), "LearnOS")
}
