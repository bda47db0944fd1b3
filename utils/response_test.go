package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func serve(r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestResponses(t *testing.T) {
	r := gin.New()
	r.GET("/ok", func(c *gin.Context) { Success(c, []int{1, 2}) })
	r.GET("/created", func(c *gin.Context) { Created(c, gin.H{"id": 1}) })
	r.GET("/empty", func(c *gin.Context) { NoContent(c) })
	r.GET("/missing", func(c *gin.Context) { Error(c, http.StatusNotFound, CodePostNotFound, "Post (id=1) not found") })
	r.GET("/invalid", func(c *gin.Context) {
		FieldErrors(c, "Post requires title", map[string]string{"title": "Post requires title"})
	})

	w := serve(r, http.MethodGet, "/ok")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[1,2]`, w.Body.String())

	w = serve(r, http.MethodGet, "/created")
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"id":1}`, w.Body.String())

	w = serve(r, http.MethodGet, "/empty")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	w = serve(r, http.MethodGet, "/missing")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"code":40401,"message":"Post (id=1) not found"}`, w.Body.String())

	w = serve(r, http.MethodGet, "/invalid")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"code":40021,"message":"Post requires title","errors":{"title":"Post requires title"}}`, w.Body.String())
}

func TestRecoveryWithZap(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "gin.log")
	logger, err := NewRollingFileLogger(logPath, "info", 1, 1, 1, false)
	require.NoError(t, err)

	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set(RequestIDKey, "req-1"); c.Next() })
	r.Use(Ginzap(logger, time.RFC3339, true), RecoveryWithZap(logger, true))
	r.GET("/boom", func(c *gin.Context) { panic(errors.New("boom")) })
	r.GET("/fine", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, http.MethodGet, "/boom")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, CodeInternal, body.Code)

	w = serve(r, http.MethodGet, "/fine")
	assert.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, logger.Sync())
	raw, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Recovery from panic")
	assert.Contains(t, string(raw), `"request_id":"req-1"`)
	assert.Contains(t, string(raw), `"path":"/fine"`)
}

func TestNewRollingFileLoggerRequiresPath(t *testing.T) {
	_, err := NewRollingFileLogger("", "info", 0, 0, 0, false)
	assert.Error(t, err)
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "hello ", Sanitize(`hello <script>alert(1)</script>`))
	assert.Equal(t, "<b>bold</b>", Sanitize("<b>bold</b>"))
	assert.Equal(t, "<script>x</script>", CleanerFor(false)("<script>x</script>"))
	assert.Equal(t, "", CleanerFor(true)("<script>x</script>"))
}
