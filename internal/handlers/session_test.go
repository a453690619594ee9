package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/decisionlab/simulator-backend/internal/db/dbtest"
	"github.com/decisionlab/simulator-backend/internal/logger"
	"github.com/decisionlab/simulator-backend/internal/repos"
	"github.com/decisionlab/simulator-backend/internal/services"
)

const scenarioDocument = `{
	"session_metadata": {"session_id": "s1", "user_id": "u1", "simulator_version_id": "v1"},
	"explicit_decisions": [{"nodeId": "n1", "choiceId": "c1", "choiceText": "Open the gate"}],
	"expected_actions": [{"expected_action_id": "ea1", "source": {"node_id": "n1", "option_id": "c1"}, "action_type": "adjust"}],
	"canonical_actions": [{"canonical_action_id": "ca1", "mechanic_id": "m1", "action_type": "adjust"}],
	"comparisons": [{"expected_action_id": "ea1", "canonical_action_id": "ca1", "outcome": "match"}]
}`

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb := dbtest.New(t)
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	t.Cleanup(log.Sync)

	service := services.NewSessionService(
		gdb,
		log,
		repos.NewSessionRepo(gdb, log),
		repos.NewReferenceRepo(gdb, log),
		repos.NewDerivedRepo(gdb, log),
	)
	handler := NewSessionHandler(log, service)

	router := gin.New()
	router.GET("/health", HealthCheck)
	sessions := router.Group("/sessions")
	sessions.POST("", handler.Create)
	sessions.POST("/normalize", handler.NormalizeAll)
	sessions.POST("/:id/normalize", handler.Normalize)
	sessions.GET("", handler.List)
	sessions.GET("/latest", handler.Latest)
	sessions.GET("/latest/normalized", handler.LatestNormalized)
	sessions.GET("/:id", handler.Get)
	sessions.GET("/:id/normalized", handler.GetNormalized)
	return router
}

func doRequest(t *testing.T, router *gin.Engine, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), target); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func TestIngestScenario(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/sessions", []byte(scenarioDocument))
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got=%d body=%s", rec.Code, rec.Body.String())
	}

	var created struct {
		OK        bool            `json:"ok"`
		SessionID string          `json:"session_id"`
		Counts    services.Counts `json:"counts"`
	}
	decodeBody(t, rec, &created)
	if !created.OK || created.SessionID != "s1" {
		t.Fatalf("unexpected create response: %+v", created)
	}
	if created.Counts.ExplicitDecisions != 1 || created.Counts.ExpectedActions != 1 ||
		created.Counts.CanonicalActions != 1 || created.Counts.Comparisons != 1 {
		t.Fatalf("unexpected counts: %+v", created.Counts)
	}

	rec = doRequest(t, router, http.MethodGet, "/sessions/s1/normalized", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got=%d body=%s", rec.Code, rec.Body.String())
	}

	var view struct {
		Session struct {
			SessionID string `json:"session_id"`
		} `json:"session"`
		ExplicitDecisions []map[string]any `json:"explicit_decisions"`
		ExpectedActions   []map[string]any `json:"expected_actions"`
		CanonicalActions  []map[string]any `json:"canonical_actions"`
		Comparisons       []map[string]any `json:"comparisons"`
		MechanicEvents    []map[string]any `json:"mechanic_events"`
	}
	decodeBody(t, rec, &view)
	if view.Session.SessionID != "s1" {
		t.Fatalf("unexpected session in view: %+v", view.Session)
	}
	for name, rows := range map[string][]map[string]any{
		"explicit_decisions": view.ExplicitDecisions,
		"expected_actions":   view.ExpectedActions,
		"canonical_actions":  view.CanonicalActions,
		"comparisons":        view.Comparisons,
	} {
		if len(rows) != 1 {
			t.Fatalf("%s: got=%d rows want=1", name, len(rows))
		}
		if rows[0]["session_id"] != "s1" {
			t.Fatalf("%s row not keyed to s1: %+v", name, rows[0])
		}
	}
	if view.MechanicEvents == nil || len(view.MechanicEvents) != 0 {
		t.Fatalf("mechanic_events should be an empty list, got=%v", view.MechanicEvents)
	}
}

func TestIngestRequiresSessionID(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/sessions", []byte(`{"session_metadata": {"user_id": "u1"}}`))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusBadRequest)
	}

	var envelope ErrorEnvelope
	decodeBody(t, rec, &envelope)
	if envelope.Error.Code != "missing_session_id" {
		t.Fatalf("unexpected error code: got=%q", envelope.Error.Code)
	}
}

func TestGetUnknownSession(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t)

	for _, path := range []string{
		"/sessions/does-not-exist",
		"/sessions/does-not-exist/normalized",
		"/sessions/latest",
		"/sessions/latest/normalized",
	} {
		rec := doRequest(t, router, http.MethodGet, path, nil)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("%s: got=%d want=%d", path, rec.Code, http.StatusNotFound)
		}
	}

	rec := doRequest(t, router, http.MethodPost, "/sessions/does-not-exist/normalize", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("normalize unknown: got=%d want=%d", rec.Code, http.StatusNotFound)
	}
}

func TestRawDocumentRoundTrip(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t)

	// Deliberately odd spacing and key order: the stored payload must
	// come back byte for byte.
	raw := []byte(`{"extra": {"nested": [1, 2, 3]},  "session_metadata": {"session_id": "s1"}}`)
	rec := doRequest(t, router, http.MethodPost, "/sessions", raw)
	if rec.Code != http.StatusOK {
		t.Fatalf("ingest: got=%d body=%s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, router, http.MethodGet, "/sessions/s1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("fetch raw: got=%d", rec.Code)
	}
	if !bytes.Equal(rec.Body.Bytes(), raw) {
		t.Fatalf("raw document altered:\ngot= %s\nwant=%s", rec.Body.Bytes(), raw)
	}
}

func TestRenormalizeEndpointIsIdempotent(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t)

	if rec := doRequest(t, router, http.MethodPost, "/sessions", []byte(scenarioDocument)); rec.Code != http.StatusOK {
		t.Fatalf("ingest: got=%d", rec.Code)
	}

	var first, second struct {
		Counts services.Counts `json:"counts"`
	}
	rec := doRequest(t, router, http.MethodPost, "/sessions/s1/normalize", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("first normalize: got=%d body=%s", rec.Code, rec.Body.String())
	}
	decodeBody(t, rec, &first)

	rec = doRequest(t, router, http.MethodPost, "/sessions/s1/normalize", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("second normalize: got=%d body=%s", rec.Code, rec.Body.String())
	}
	decodeBody(t, rec, &second)

	if first.Counts != second.Counts {
		t.Fatalf("counts drifted: first=%+v second=%+v", first.Counts, second.Counts)
	}
}

func TestBulkNormalize(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t)

	if rec := doRequest(t, router, http.MethodPost, "/sessions", []byte(scenarioDocument)); rec.Code != http.StatusOK {
		t.Fatalf("ingest: got=%d", rec.Code)
	}

	rec := doRequest(t, router, http.MethodPost, "/sessions/normalize", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("bulk normalize: got=%d body=%s", rec.Code, rec.Body.String())
	}

	var resp struct {
		OK        bool `json:"ok"`
		Processed int  `json:"processed"`
		Results   []struct {
			SessionID string `json:"session_id"`
		} `json:"results"`
	}
	decodeBody(t, rec, &resp)
	if !resp.OK || resp.Processed != 1 || len(resp.Results) != 1 || resp.Results[0].SessionID != "s1" {
		t.Fatalf("unexpected bulk response: %+v", resp)
	}
}

func TestListLimit(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t)

	for _, id := range []string{"a", "b", "c"} {
		body := []byte(`{"session_metadata": {"session_id": "` + id + `"}}`)
		if rec := doRequest(t, router, http.MethodPost, "/sessions", body); rec.Code != http.StatusOK {
			t.Fatalf("ingest %s: got=%d", id, rec.Code)
		}
	}

	rec := doRequest(t, router, http.MethodGet, "/sessions?limit=2", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: got=%d", rec.Code)
	}
	var summaries []map[string]any
	decodeBody(t, rec, &summaries)
	if len(summaries) != 2 {
		t.Fatalf("limit ignored: got=%d rows", len(summaries))
	}
	if summaries[0]["session_id"] != "c" {
		t.Fatalf("list not newest-first: %+v", summaries)
	}

	rec = doRequest(t, router, http.MethodGet, "/sessions?limit=zero", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad limit: got=%d want=%d", rec.Code, http.StatusBadRequest)
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("health: got=%d", rec.Code)
	}
	var body map[string]bool
	decodeBody(t, rec, &body)
	if !body["ok"] {
		t.Fatalf("unexpected health body: %s", rec.Body.String())
	}
}
