package handler_test

import (
	"bytes"
	"encoding/json"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/xxxsen/mchain/internal/handler"
	"github.com/xxxsen/mchain/internal/middleware"
	"github.com/xxxsen/mchain/internal/pkg/errcode"
	"github.com/xxxsen/mchain/internal/repo"
	"github.com/xxxsen/mchain/internal/service"
	"github.com/xxxsen/mchain/internal/testutil"
)

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func setupRouter(t *testing.T) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, cleanup := testutil.OpenTestDB(t)
	t.Cleanup(cleanup)
	texts := repo.NewTextRepo(db)
	edges := repo.NewEdgeRepo(db)
	rng := rand.New(rand.NewPCG(1, 2))

	learner := service.NewChainLearner(texts, edges, 4)
	synth := service.NewTextSynthesizer(
		service.NewLengthEstimator(texts, rng),
		service.NewWeightedSampler(edges, rng),
	)
	stats := service.NewStatsService(texts, edges)

	engine := gin.New()
	engine.Use(middleware.RequestID(), middleware.ClientIP(), middleware.CORS(nil))
	handler.RegisterRoutes(engine.Group("/api/v1"), handler.RouterDeps{
		Chain: handler.NewChainHandler(learner, synth, stats),
	})
	return engine
}

func post(t *testing.T, router http.Handler, path, body string) envelope {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)
	var env envelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &env))
	return env
}

func generatedText(t *testing.T, env envelope) string {
	t.Helper()
	require.Equal(t, 0, env.Code, env.Msg)
	var data struct {
		Text string `json:"text"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	return data.Text
}

func TestInputThenGenerate(t *testing.T) {
	router := setupRouter(t)

	env := post(t, router, "/api/v1/input", `{"input":"the cat sat"}`)
	require.Equal(t, 0, env.Code)

	env = post(t, router, "/api/v1/generate", `{"start":"the","max_length":1}`)
	require.Equal(t, "the cat", generatedText(t, env))

	env = post(t, router, "/api/v1/generate", `{"max_length":2000}`)
	require.Equal(t, "the cat", generatedText(t, env))

	// length drawn from history of one 11 char text
	env = post(t, router, "/api/v1/generate", `{}`)
	require.Equal(t, "the cat", generatedText(t, env))
}

func TestGenerateWithoutHistory(t *testing.T) {
	router := setupRouter(t)
	env := post(t, router, "/api/v1/generate", `{"start":"hello"}`)
	require.Equal(t, errcode.ErrNoHistory, env.Code)
}

func TestValidation(t *testing.T) {
	router := setupRouter(t)
	long := make([]byte, 2001)
	for i := range long {
		long[i] = 'a'
	}
	tests := []struct {
		name string
		path string
		body string
	}{
		{name: "missing input", path: "/api/v1/input", body: `{}`},
		{name: "empty input", path: "/api/v1/input", body: `{"input":""}`},
		{name: "input too long", path: "/api/v1/input", body: `{"input":"` + string(long) + `"}`},
		{name: "malformed json", path: "/api/v1/input", body: `{"input":`},
		{name: "empty start", path: "/api/v1/generate", body: `{"start":""}`},
		{name: "zero length", path: "/api/v1/generate", body: `{"max_length":0}`},
		{name: "length too large", path: "/api/v1/generate", body: `{"max_length":2001}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := post(t, router, tt.path, tt.body)
			require.Equal(t, errcode.ErrInvalid, env.Code)
		})
	}
}

func TestStats(t *testing.T) {
	router := setupRouter(t)
	post(t, router, "/api/v1/input", `{"input":"a b c"}`)
	post(t, router, "/api/v1/input", `{"input":"a b"}`)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	var env envelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &env))
	require.Equal(t, 0, env.Code)

	var stats struct {
		Texts       int64   `json:"texts"`
		MeanLength  float64 `json:"mean_length"`
		Edges       int64   `json:"edges"`
		Transitions int64   `json:"transitions"`
		StartTokens int64   `json:"start_tokens"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	require.Equal(t, int64(2), stats.Texts)
	require.InDelta(t, 4.0, stats.MeanLength, 1e-9)
	require.Equal(t, int64(2), stats.Edges)
	require.Equal(t, int64(3), stats.Transitions)
	require.Equal(t, int64(1), stats.StartTokens)
}
