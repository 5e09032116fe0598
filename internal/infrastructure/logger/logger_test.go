package logger

import (
	"context"
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
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func TestNew(t *testing.T) {
	l, err := New(&Config{Level: "debug", Format: "json", Output: "stderr"})
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))

	l, err = New(DefaultConfig())
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bakery.log")
	l, err := New(&Config{Level: "info", Format: "json", Output: path, Service: "bakery", Environment: "test"})
	require.NoError(t, err)

	l.Info("oven preheated")
	require.NoError(t, l.Sync())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	line := string(raw)
	assert.Contains(t, line, `"msg":"oven preheated"`)
	assert.Contains(t, line, `"service":"bakery"`)
	assert.Contains(t, line, `"env":"test"`)

	_, err = New(&Config{Output: filepath.Join(t.TempDir(), "missing", "dir", "bakery.log")})
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("WARNING"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel(" error "))
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("nonsense"))
}

func TestFromContext(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))

	core, _ := observer.New(zapcore.InfoLevel)
	l := zap.New(core)
	ctx := WithRequestID(WithContext(context.Background(), l), "req-1")
	assert.Same(t, l, FromContext(ctx))
	assert.Equal(t, "req-1", GetRequestID(ctx))
	assert.Same(t, l, L(ctx), "no span means no enrichment")
}

func TestGinMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	core, recorded := observer.New(zapcore.InfoLevel)
	router := gin.New()
	router.Use(func(c *gin.Context) { c.Set(GinRequestIDKey, "req-42") })
	router.Use(GinMiddleware(zap.New(core)))
	router.GET("/api/products", func(c *gin.Context) {
		c.Set(GinTenantIDKey, "tenant-1")
		c.Set(GinUserIDKey, "user-1")
		assert.Equal(t, "req-42", GetRequestID(c.Request.Context()))
		c.Status(http.StatusNotFound)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/products?page=2", nil))

	entries := recorded.FilterMessage("HTTP Request").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	fields := entries[0].ContextMap()
	assert.Equal(t, "req-42", fields["request_id"])
	assert.Equal(t, "tenant-1", fields["tenant_id"])
	assert.Equal(t, "user-1", fields["user_id"])
	assert.Equal(t, "page=2", fields["query"])
	assert.EqualValues(t, http.StatusNotFound, fields["status"])
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	core, recorded := observer.New(zapcore.ErrorLevel)
	router := gin.New()
	router.Use(Recovery(zap.New(core)))
	router.GET("/boom", func(c *gin.Context) { panic("oven on fire") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success":false,"error":{"code":"INTERNAL_ERROR","message":"An unexpected error occurred"}}`, w.Body.String())
	assert.Equal(t, 1, recorded.FilterMessage("Panic recovered").Len())
}

func TestSQLLogger_Trace(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	gl := NewSQLLogger(zap.New(core), gormlogger.Warn, 100*time.Millisecond)
	sql := func() (string, int64) { return "SELECT 1", 1 }

	gl.Trace(context.Background(), time.Now(), sql, nil)
	assert.Equal(t, 0, recorded.Len(), "fast queries are not logged at warn")

	gl.Trace(context.Background(), time.Now().Add(-time.Second), sql, nil)
	assert.Equal(t, 1, recorded.FilterMessageSnippet("SLOW SQL").Len())

	gl.Trace(context.Background(), time.Now(), sql, gormlogger.ErrRecordNotFound)
	assert.Equal(t, 0, recorded.FilterMessage("SQL Error").Len())
	assert.Equal(t, 1, recorded.Len(), "a missing row is not logged at warn")

	gl.Trace(context.Background(), time.Now(), sql, errors.New("syntax error"))
	assert.Equal(t, 1, recorded.FilterMessage("SQL Error").Len())

	silent := gl.LogMode(gormlogger.Silent)
	silent.Trace(context.Background(), time.Now(), sql, errors.New("ignored"))
	assert.Equal(t, 1, recorded.FilterMessage("SQL Error").Len())
}

func TestSQLLogger_Printf(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	gl := NewSQLLogger(zap.New(core), gormlogger.Warn, 0)

	gl.Info(context.Background(), "opened %d conns", 4)
	gl.Warn(context.Background(), "pool at %d%%", 90)
	require.Equal(t, 1, recorded.Len())
	assert.Equal(t, "pool at 90%", recorded.All()[0].Message)
	assert.Equal(t, "gorm", recorded.All()[0].LoggerName)
}

func TestSQLLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, SQLLogLevel("silent"))
	assert.Equal(t, gormlogger.Info, SQLLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, SQLLogLevel(""))
	assert.Equal(t, gormlogger.Warn, SQLLogLevel("verbose"))
}
