package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusTeapot)
	_, _ = w.Write([]byte("ok"))
})

func TestCORSWildcard(t *testing.T) {
	rec := httptest.NewRecorder()
	CORS([]string{"*"})(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "X-Verification-ID", rec.Header().Get("Access-Control-Expose-Headers"))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestCORSAllowList(t *testing.T) {
	h := CORS([]string{"https://app.example"})(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://app.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "https://app.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSPreflight(t *testing.T) {
	rec := httptest.NewRecorder()
	CORS([]string{"*"})(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/verify", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	rec := httptest.NewRecorder()
	Logging(logger)(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/verify", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Contains(t, buf.String(), "method=POST")
	assert.Contains(t, buf.String(), "path=/api/verify")
	assert.Contains(t, buf.String(), "status=418")
}
