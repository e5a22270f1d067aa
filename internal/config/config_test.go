package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(m map[string]string) lookupFunc {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestDefaults(t *testing.T) {
	c := Default()
	assert.Equal(t, ":8080", c.HTTPAddr)
	assert.Equal(t, ProviderVision, c.OCR.Provider)
	assert.Equal(t, 30*time.Second, c.OCR.Timeout)
	assert.Equal(t, int64(10<<20), c.MaxUploadBytes)
	assert.Equal(t, 24*time.Hour, c.Cache.TTL)
	assert.NoError(t, c.Validate())
}

func TestApplyEnv(t *testing.T) {
	c := Default()
	err := c.applyEnv(envOf(map[string]string{
		"HTTP_ADDR":            ":9090",
		"OCR_PROVIDER":         "gemini",
		"GEMINI_API_KEY":       "k",
		"OCR_TIMEOUT":          "5s",
		"OCR_CACHE_TTL":        "1h",
		"MAX_UPLOAD_BYTES":     "2048",
		"CORS_ALLOWED_ORIGINS": "https://a.example, https://b.example,",
		"LOG_LEVEL":            "",
	}))
	require.NoError(t, err)
	assert.Equal(t, ":9090", c.HTTPAddr)
	assert.Equal(t, ProviderGemini, c.OCR.Provider)
	assert.Equal(t, 5*time.Second, c.OCR.Timeout)
	assert.Equal(t, time.Hour, c.Cache.TTL)
	assert.Equal(t, int64(2048), c.MaxUploadBytes)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, c.CORSAllowedOrigins)
	assert.Equal(t, "info", c.Log.Level)
	assert.NoError(t, c.Validate())
}

func TestApplyEnvRejectsBadValues(t *testing.T) {
	for key, val := range map[string]string{
		"OCR_TIMEOUT":      "soon",
		"OCR_CACHE_TTL":    "forever",
		"MAX_UPLOAD_BYTES": "ten",
	} {
		c := Default()
		assert.Error(t, c.applyEnv(envOf(map[string]string{key: val})), key)
	}
}

func TestValidate(t *testing.T) {
	c := Default()
	c.OCR.Provider = "tesseract"
	assert.Error(t, c.Validate())

	c = Default()
	c.OCR.Provider = ProviderGemini
	assert.Error(t, c.Validate())

	c = Default()
	c.MaxUploadBytes = 0
	assert.Error(t, c.Validate())
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "docverify.yaml")
	yml := `
http_addr: ":7000"
ocr:
  provider: vision
  timeout: 12s
cache:
  redis_url: redis://localhost:6379/0
share:
  token_secret: from-file
log:
  format: text
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))
	t.Setenv("SHARE_TOKEN_SECRET", "from-env")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7000", c.HTTPAddr)
	assert.Equal(t, 12*time.Second, c.OCR.Timeout)
	assert.Equal(t, "redis://localhost:6379/0", c.Cache.RedisURL)
	assert.Equal(t, "from-env", c.Share.TokenSecret)
	assert.Equal(t, "text", c.Log.Format)
	assert.Equal(t, 24*time.Hour, c.Cache.TTL)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ocr: [unterminated"), 0o600))
	_, err := Load(path)
	assert.Error(t, err)
}
