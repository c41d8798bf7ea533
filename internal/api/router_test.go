package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasktrack/internal/config"
	"tasktrack/internal/docs"
	"tasktrack/internal/logging"
	"tasktrack/internal/storage"
	"tasktrack/internal/suggestion"
	"tasktrack/internal/tasks"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Env = config.EnvTest
	cfg.Database.DSN = fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.NewReplacer("/", "_", " ", "_").Replace(t.Name()))

	db, err := storage.Open(cfg.Database)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})

	repo := storage.NewTaskRepository(db, cfg.Database.Provider)
	require.NoError(t, repo.Migrate(context.Background()))

	engine := suggestion.NewEngineWithConfig(suggestion.Config{
		SimilarityThreshold: cfg.Suggestion.SimilarityThreshold,
	})
	service := tasks.NewService(repo, engine, logging.NewNoop())

	docsHandler, err := docs.NewHandler()
	require.NoError(t, err)

	srv := httptest.NewServer(NewRouter(cfg, service, docsHandler, logging.NewNoop()).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, srv *httptest.Server, method, path string, payload interface{}) *http.Response {
	t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(data)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, srv.URL+path, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = resp.Body.Close()
	})
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func taskPayload(overrides map[string]interface{}) map[string]interface{} {
	payload := map[string]interface{}{
		"title":         "Test title",
		"description":   "Test description",
		"creation_date": "2024-01-10",
		"due_date":      "2024-02-01",
		"status":        "pending",
	}
	for k, v := range overrides {
		if v == nil {
			delete(payload, k)
			continue
		}
		payload[k] = v
	}
	return payload
}

func TestCreateTask(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, srv, http.MethodPost, "/task", taskPayload(nil))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created map[string]interface{}
	decodeBody(t, resp, &created)
	assert.Equal(t, float64(1), created["id"])
	assert.Equal(t, "Test title", created["title"])
	assert.Equal(t, "2024-01-10", created["creation_date"])
	assert.Equal(t, "2024-02-01", created["due_date"])
	assert.Equal(t, "pending", created["status"])
	assert.NotContains(t, created, "suggestions")
	assert.NotContains(t, created, "completed_ts")
}

func TestCreateTaskInvalidJSON(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/task", strings.NewReader("{not json"))
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer func() {
		_ = resp.Body.Close()
	}()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateTaskValidation(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, srv, http.MethodPost, "/task", taskPayload(map[string]interface{}{
		"title":    nil,
		"status":   "in_progress",
		"due_date": nil,
	}))
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var errResp struct {
		Error struct {
			Code       string `json:"code"`
			Violations []struct {
				Field   string `json:"field"`
				Message string `json:"message"`
			} `json:"violations"`
		} `json:"error"`
	}
	decodeBody(t, resp, &errResp)
	assert.Equal(t, "VALIDATION_FAILED", errResp.Error.Code)

	fields := make([]string, 0, len(errResp.Error.Violations))
	for _, v := range errResp.Error.Violations {
		fields = append(fields, v.Field)
	}
	assert.Contains(t, fields, "title")
	assert.Contains(t, fields, "due_date")
}

func TestListTasksEmpty(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, srv, http.MethodGet, "/task", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list []map[string]interface{}
	decodeBody(t, resp, &list)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestListTasksFilterAndSort(t *testing.T) {
	srv := newTestServer(t)

	seeds := []map[string]interface{}{
		taskPayload(map[string]interface{}{"title": "First", "creation_date": "2024-01-03", "due_date": "2024-02-03"}),
		taskPayload(map[string]interface{}{"title": "Second", "creation_date": "2024-01-01", "due_date": "2024-02-01", "status": "completed"}),
		taskPayload(map[string]interface{}{"title": "Third", "creation_date": "2024-01-02", "due_date": nil}),
	}
	for _, seed := range seeds {
		resp := doJSON(t, srv, http.MethodPost, "/task", seed)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp := doJSON(t, srv, http.MethodGet, "/task?status=pending", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var pending []map[string]interface{}
	decodeBody(t, resp, &pending)
	require.Len(t, pending, 2)

	resp = doJSON(t, srv, http.MethodGet, "/task?sort=creation_date&desc=true", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var sorted []map[string]interface{}
	decodeBody(t, resp, &sorted)
	require.Len(t, sorted, 3)
	assert.Equal(t, "First", sorted[0]["title"])
	assert.Equal(t, "Third", sorted[1]["title"])
	assert.Equal(t, "Second", sorted[2]["title"])

	resp = doJSON(t, srv, http.MethodGet, "/task?due=2024-02-01", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var due []map[string]interface{}
	decodeBody(t, resp, &due)
	require.Len(t, due, 1)
	assert.Equal(t, "Second", due[0]["title"])
}

func TestListTasksRejectsBadQuery(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{
		"/task?status=bogus",
		"/task?sort=title",
		"/task?desc=sideways",
		"/task?due=tomorrow",
	} {
		resp := doJSON(t, srv, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode, "path %s", path)
	}
}

func TestUpdateTask(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, srv, http.MethodPost, "/task", taskPayload(nil))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	updated := taskPayload(map[string]interface{}{
		"id":     1,
		"title":  "Updated test title",
		"status": "completed",
	})
	resp = doJSON(t, srv, http.MethodPut, "/task", updated)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var record map[string]interface{}
	decodeBody(t, resp, &record)
	assert.Equal(t, "Updated test title", record["title"])
	assert.Equal(t, "completed", record["status"])
	assert.NotEmpty(t, record["completed_ts"])
}

func TestUpdateTaskNotFound(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, srv, http.MethodPut, "/task", taskPayload(map[string]interface{}{"id": 42}))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdateTaskCreationDateConflict(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, srv, http.MethodPost, "/task", taskPayload(nil))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, srv, http.MethodPut, "/task", taskPayload(map[string]interface{}{
		"id":            1,
		"creation_date": "2024-01-11",
	}))
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	// Conflict leaves the stored record unchanged.
	resp = doJSON(t, srv, http.MethodGet, "/task", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []map[string]interface{}
	decodeBody(t, resp, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "2024-01-10", list[0]["creation_date"])
}

func TestUpdateTaskRequiresID(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, srv, http.MethodPut, "/task", taskPayload(nil))
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestDeleteTask(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, srv, http.MethodPost, "/task", taskPayload(nil))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, srv, http.MethodDelete, "/task?id=1", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, srv, http.MethodDelete, "/task?id=1", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, srv, http.MethodDelete, "/task", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestCreateSmartTaskEmptyCorpus(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, srv, http.MethodPost, "/smart_task", taskPayload(nil))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var raw map[string]json.RawMessage
	decodeBody(t, resp, &raw)
	require.Contains(t, raw, "suggestions")
	assert.Equal(t, "null", string(raw["suggestions"]))
}

func TestCreateSmartTaskSuggestions(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, srv, http.MethodPost, "/task", taskPayload(nil))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = doJSON(t, srv, http.MethodPost, "/task", taskPayload(map[string]interface{}{
		"title": "Something else entirely", "description": "Unrelated work",
	}))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, srv, http.MethodPost, "/smart_task", taskPayload(map[string]interface{}{
		"title": "Updated test title",
	}))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var smart struct {
		ID          int64    `json:"id"`
		Suggestions []string `json:"suggestions"`
	}
	decodeBody(t, resp, &smart)
	assert.Equal(t, int64(3), smart.ID)
	assert.Equal(t, []string{"Test title"}, smart.Suggestions)
}

func TestCreateSmartTaskNoMatches(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, srv, http.MethodPost, "/task", taskPayload(map[string]interface{}{
		"title": "Completely different", "description": "Nothing shared",
	}))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, srv, http.MethodPost, "/smart_task", taskPayload(nil))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var raw map[string]json.RawMessage
	decodeBody(t, resp, &raw)
	assert.Equal(t, "[]", string(raw["suggestions"]))
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, srv, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var status map[string]interface{}
	decodeBody(t, resp, &status)
	assert.Equal(t, "ok", status["status"])
	assert.Equal(t, config.EnvTest, status["env"])
}

func TestRootRedirectsToDocs(t *testing.T) {
	srv := newTestServer(t)

	client := srv.Client()
	client.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	resp, err := client.Get(srv.URL + "/")
	require.NoError(t, err)
	defer func() {
		_ = resp.Body.Close()
	}()

	assert.Equal(t, http.StatusTemporaryRedirect, resp.StatusCode)
	assert.Equal(t, "/docs", resp.Header.Get("Location"))
}

func TestOpenAPISpecServed(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, srv, http.MethodGet, "/openapi.json", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var spec map[string]interface{}
	decodeBody(t, resp, &spec)
	assert.Contains(t, spec, "paths")
}

func TestResponsesCarryRequestID(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, srv, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}
