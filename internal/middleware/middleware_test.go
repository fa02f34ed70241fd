package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/haierkeys/fast-note-web/pkg/limiter"
	"github.com/haierkeys/fast-note-web/pkg/validator"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNegotiateLang(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		header map[string]string
		want   string
	}{
		{name: "default", want: "en"},
		{name: "query", query: "lang=zh-CN", want: "zh"},
		{name: "lang header", header: map[string]string{"lang": "zh"}, want: "zh"},
		{name: "accept language", header: map[string]string{"Accept-Language": "zh-CN,zh;q=0.9,en;q=0.8"}, want: "zh"},
		{name: "english accept", header: map[string]string{"Accept-Language": "en-GB"}, want: "en"},
		{name: "unsupported", header: map[string]string{"Accept-Language": "fr-FR"}, want: "en"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)
			for k, v := range tt.header {
				c.Request.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, NegotiateLang(c))
		})
	}
}

func TestLangWithValidator_SetsLocale(t *testing.T) {
	r := gin.New()
	r.Use(LangWithValidator(validator.NewCustomValidator(), "en"))
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, validator.LocaleFrom(c.Request.Context()))
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/?lang=zh", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, "zh", w.Body.String())

	// no preference falls back to the configured language
	r = gin.New()
	r.Use(LangWithValidator(validator.NewCustomValidator(), "zh"))
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, validator.LocaleFrom(c.Request.Context()))
	})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "zh", w.Body.String())
}

func TestMethodOverride(t *testing.T) {
	r := gin.New()
	r.DELETE("/notes/:note", func(c *gin.Context) { c.String(http.StatusOK, "deleted "+c.Param("note")) })
	r.PUT("/notes/:note", func(c *gin.Context) { c.String(http.StatusOK, "put "+c.PostForm("excerpt")) })
	h := MethodOverride(r)

	form := url.Values{"_method": {"DELETE"}}
	req := httptest.NewRequest(http.MethodPost, "/notes/3", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, "deleted 3", w.Body.String())

	// form fields stay readable after the override parsed the body
	form = url.Values{"_method": {"put"}, "excerpt": {"hello"}}
	req = httptest.NewRequest(http.MethodPost, "/notes/3", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, "put hello", w.Body.String())

	// GET is never overridden
	req = httptest.NewRequest(http.MethodGet, "/notes/3?_method=DELETE", nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.NotEqual(t, http.StatusOK, w.Code)
}

func TestRateLimiter(t *testing.T) {
	l := limiter.NewRouteLimiter().AddBuckets(limiter.BucketRule{
		Key:          "POST /notes",
		FillInterval: time.Hour,
		Capacity:     1,
		Quantum:      1,
	})

	r := gin.New()
	r.Use(RateLimiter(l, nil))
	r.POST("/notes", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/notes", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/notes", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestRecoveryWithLogger(t *testing.T) {
	r := gin.New()
	r.Use(RecoveryWithLogger(zap.NewNop(), nil))
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"code":500`)
}

func TestNoFound(t *testing.T) {
	r := gin.New()
	r.NoRoute(NoFound(nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTraceMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(TraceMiddlewareWithConfig(true, ""))
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, GetTraceID(c.Request.Context()))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	id := w.Header().Get(DefaultTraceIDHeader)
	require.NotEmpty(t, id)
	assert.Equal(t, id, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(DefaultTraceIDHeader, "given-id")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "given-id", w.Body.String())
}

func TestContextTimeout(t *testing.T) {
	r := gin.New()
	r.Use(ContextTimeout(10*time.Millisecond, nil))
	r.GET("/slow", func(c *gin.Context) {
		<-c.Request.Context().Done()
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/slow", nil))
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
}

func TestHTTPMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewHTTPMetrics("test", reg)
	require.NoError(t, err)

	// second registration reuses the collectors
	_, err = NewHTTPMetrics("test", reg)
	require.NoError(t, err)

	r := gin.New()
	r.Use(m.Handler())
	r.GET("/notes/:note", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/notes/1", nil))
	}
	assert.Equal(t, 3.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/notes/:note", "200")))
}
