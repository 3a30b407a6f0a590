package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/clip2md/config"
	"github.com/gaurav-prasanna/clip2md/core/normalize"
	"github.com/gaurav-prasanna/clip2md/core/rules"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type failingNormalizer struct{}

func (failingNormalizer) Normalize(string) (string, error) {
	return "", errors.New("boom")
}

func newTestServer(t *testing.T, conf config.Server) *Server {
	t.Helper()
	if conf.Addr == "" {
		conf = config.Default().Server
	}
	return New(conf, normalize.New(nil, rules.DefaultOptions()), nil)
}

func do(s *Server, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func postJSON(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/convert", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestConvert(t *testing.T) {
	s := newTestServer(t, config.Server{})

	w := do(s, postJSON(`{"html":"<div><input type=\"checkbox\" checked><div data-component=\"content\">Done</div></div>"}`))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp["markdown"], "- [x] Done")
}

func TestConvertForm(t *testing.T) {
	s := newTestServer(t, config.Server{})

	form := url.Values{"html": {"<h1>Title</h1>"}}
	req := httptest.NewRequest(http.MethodPost, "/convert", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := do(s, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "# Title")
}

func TestConvertNoHTML(t *testing.T) {
	s := newTestServer(t, config.Server{})

	for _, body := range []string{`{}`, `{"html":""}`, `not json`} {
		w := do(s, postJSON(body))
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.JSONEq(t, `{"error":"No HTML provided"}`, w.Body.String(), body)
	}
}

func TestConvertWhitespaceHTML(t *testing.T) {
	s := newTestServer(t, config.Server{})

	w := do(s, postJSON(`{"html":"   "}`))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"markdown":""}`, w.Body.String())
}

func TestConvertFailure(t *testing.T) {
	s := New(config.Default().Server, failingNormalizer{}, nil)

	w := do(s, postJSON(`{"html":"<p>x</p>"}`))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Conversion failed"}`, w.Body.String())
}

func TestConvertTooLarge(t *testing.T) {
	conf := config.Default().Server
	conf.MaxBodyBytes = 64
	s := newTestServer(t, conf)

	w := do(s, postJSON(`{"html":"`+strings.Repeat("x", 200)+`"}`))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestRequestID(t *testing.T) {
	s := newTestServer(t, config.Server{})

	w := do(s, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	_, err := uuid.Parse(w.Header().Get(requestIDHeader))
	assert.NoError(t, err)

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, id)
	w = do(s, req)
	assert.Equal(t, id, w.Header().Get(requestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "not-a-uuid")
	w = do(s, req)
	assert.NotEqual(t, "not-a-uuid", w.Header().Get(requestIDHeader))
}

func TestMetrics(t *testing.T) {
	s := newTestServer(t, config.Server{})
	do(s, postJSON(`{"html":"<p>x</p>"}`))

	w := do(s, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `clip2md_conversions_total{outcome="ok"}`)
	assert.Contains(t, w.Body.String(), "clip2md_conversion_duration_seconds_bucket")
}

func TestStaticDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>paste here</h1>"), 0o644))

	conf := config.Default().Server
	conf.StaticDir = dir
	s := newTestServer(t, conf)

	w := do(s, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "paste here")

	w = do(newTestServer(t, config.Server{}), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
