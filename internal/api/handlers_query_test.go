package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/policyquery/internal/config"
	"github.com/dgallion1/policyquery/internal/dispatch"
	"github.com/dgallion1/policyquery/internal/stats"
)

type fakeQueryService struct {
	degraded       bool
	gotQuestions   []string
	gotDocumentURL string
}

func (f *fakeQueryService) ProcessQueries(ctx context.Context, questions []string, documentURL string) ([]dispatch.QueryResult, bool) {
	f.gotQuestions = questions
	f.gotDocumentURL = documentURL
	results := make([]dispatch.QueryResult, 0, len(questions))
	for _, q := range questions {
		results = append(results, dispatch.QueryResult{
			Question:   q,
			Answer:     "stub answer",
			Confidence: 0.8,
			Sources:    []string{"Uploaded document"},
			Reasoning:  "stub reasoning",
			Timestamp:  time.Now(),
		})
	}
	return results, f.degraded
}

func newTestServer(svc QueryService) *Server {
	cfg := config.Config{
		PolicyQueryAPIKey: "test-key",
		MaxBatchSize:      3,
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(svc, stats.New(time.Hour), log, cfg)
}

func doQuery(t *testing.T, srv *Server, token string, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/query", bytes.NewReader([]byte(body)))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

func TestHandleQuery_Success(t *testing.T) {
	svc := &fakeQueryService{}
	srv := newTestServer(svc)

	w := doQuery(t, srv, "test-key", `{"questions":["What is covered?","What is excluded?"],"document_url":"https://example.com/doc.pdf"}`)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Results  []dispatch.QueryResult `json:"results"`
		Degraded bool                   `json:"degraded"`
		Count    int                    `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Results, 2)
	assert.Equal(t, 2, resp.Count)
	assert.False(t, resp.Degraded)
	assert.Equal(t, "https://example.com/doc.pdf", svc.gotDocumentURL)
}

func TestHandleQuery_DegradedFlagSurfaced(t *testing.T) {
	srv := newTestServer(&fakeQueryService{degraded: true})

	w := doQuery(t, srv, "test-key", `{"questions":["Anything?"]}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"degraded":true`)
}

func TestHandleQuery_RequiresAuth(t *testing.T) {
	srv := newTestServer(&fakeQueryService{})

	w := doQuery(t, srv, "", `{"questions":["Anything?"]}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doQuery(t, srv, "wrong-key", `{"questions":["Anything?"]}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandleQuery_RejectsInvalidBodies(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", "nope"},
		{"missing questions", `{}`},
		{"empty batch", `{"questions":[]}`},
		{"empty question", `{"questions":[""]}`},
		{"blank question", `{"questions":["   "]}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := newTestServer(&fakeQueryService{})
			w := doQuery(t, srv, "test-key", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestHandleQuery_RejectsOversizedBatch(t *testing.T) {
	srv := newTestServer(&fakeQueryService{})

	body := `{"questions":["a?","b?","c?","d?"]}`
	w := doQuery(t, srv, "test-key", body)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "max size")
}

func TestHandleQueryStats(t *testing.T) {
	srv := newTestServer(&fakeQueryService{})
	srv.stats.Record(120, stats.OutcomeRemote)

	req := httptest.NewRequest(http.MethodGet, "/api/stats/queries", nil)
	req.Header.Set("Authorization", "Bearer test-key")
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"remote_count":1`)
}

func TestHandleHealth_Public(t *testing.T) {
	srv := newTestServer(&fakeQueryService{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "ok"))
}
