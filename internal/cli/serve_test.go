package cli

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/canvasrender/pkg/cache"
	errs "github.com/matzehuels/canvasrender/pkg/errors"
	"github.com/matzehuels/canvasrender/pkg/pipeline"
	"github.com/matzehuels/canvasrender/pkg/render"
	"github.com/matzehuels/canvasrender/pkg/surface/surfacetest"
)

const boxScene = `{
  "id": "box",
  "width": 100,
  "height": 50,
  "layers": [
    {"kind": "shape", "id": "bg", "style": {"fillStyle": "red"},
     "commands": [{"type": "rect", "x": 0, "y": 0, "width": 100, "height": 50}, {"type": "fill"}]}
  ]
}`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	logger := log.New(io.Discard)
	runner := pipeline.NewRunner(fc, nil, render.New(surfacetest.NewHost(), nil), logger)
	srv := httptest.NewServer(newServer(runner, logger, pipeline.Options{}).routes())
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, url, contentType, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, contentType, strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestServeRenderCaches(t *testing.T) {
	srv := newTestServer(t)

	resp := post(t, srv.URL+"/render", "application/json", boxScene)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	assert.Equal(t, "MISS", resp.Header.Get("X-Cache"))
	assert.NotEmpty(t, resp.Header.Get("X-Scene-Hash"))
	_, err := uuid.Parse(resp.Header.Get(requestIDHeader))
	assert.NoError(t, err, "request id should be a uuid")
	first, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.NotEmpty(t, first)

	resp = post(t, srv.URL+"/render", "application/json", boxScene)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "HIT", resp.Header.Get("X-Cache"))
	second, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestServeRenderQuery(t *testing.T) {
	srv := newTestServer(t)

	resp := post(t, srv.URL+"/render?format=jpg&quality=60&no_cache=true", "application/json", boxScene)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/jpeg", resp.Header.Get("Content-Type"))
	assert.Equal(t, "MISS", resp.Header.Get("X-Cache"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(body), "jpg 60 100x50"), "body = %q", body)
}

func TestServeRenderYAML(t *testing.T) {
	srv := newTestServer(t)

	yamlScene := "width: 40\nheight: 20\nlayers:\n  - kind: shape\n    commands:\n      - {type: rect, x: 0, y: 0, width: 4, height: 4}\n      - {type: fill}\n"
	resp := post(t, srv.URL+"/render", "application/yaml", yamlScene)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServeRenderErrors(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name   string
		query  string
		body   string
		status int
		code   errs.Code
	}{
		{"unknown node", "", `{"width": 10, "height": 10, "layers": [{"kind": "video"}]}`, http.StatusBadRequest, errs.ErrCodeUnknownNode},
		{"bad json", "", `{"width": `, http.StatusBadRequest, errs.ErrCodeInvalidScene},
		{"bad quality", "?quality=high", boxScene, http.StatusBadRequest, errs.ErrCodeInvalidFormat},
		{"bad format", "?format=gif", boxScene, http.StatusBadRequest, errs.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, srv.URL+"/render"+tt.query, "application/json", tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

			var body errorBody
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, string(tt.code), body.Code)
			assert.NotEmpty(t, body.Message)
			assert.Equal(t, resp.Header.Get(requestIDHeader), body.RequestID)
		})
	}
}

func TestServeRequestIDPropagates(t *testing.T) {
	srv := newTestServer(t)
	id := uuid.NewString()

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
	require.NoError(t, err)
	req.Header.Set(requestIDHeader, id)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, id, resp.Header.Get(requestIDHeader))
}

func TestServeSchemaAndHealth(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/schema")
	require.NoError(t, err)
	defer resp.Body.Close()
	schema, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(schema), "Node kinds:")

	resp, err = http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	var health map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "ok", health["status"])

	resp, err = http.Get(srv.URL + "/render")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errs.New(errs.ErrCodeMissingField, "x"), http.StatusBadRequest},
		{errs.New(errs.ErrCodeUnknownCommand, "x"), http.StatusBadRequest},
		{errs.New(errs.ErrCodeInvalidHighlight, "x"), http.StatusBadRequest},
		{errs.New(errs.ErrCodeImageLoad, "x"), http.StatusBadGateway},
		{errs.New(errs.ErrCodeNetwork, "x"), http.StatusBadGateway},
		{errs.New(errs.ErrCodeLayoutPending, "x"), http.StatusInternalServerError},
		{errs.New(errs.ErrCodeEncode, "x"), http.StatusInternalServerError},
		{context.Canceled, http.StatusServiceUnavailable},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
