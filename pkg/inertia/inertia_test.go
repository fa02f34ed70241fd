package inertia

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"app.html": {Data: []byte(
			`<html><body><div id="app" data-page="{{ .PageJSON }}">{{ template "content" . }}</div></body></html>`)},
		"partials/flash.html": {Data: []byte(
			`{{ define "flash" }}{{ with .Props.flash }}<p class="flash">{{ .status }}</p>{{ end }}{{ end }}`)},
		"Hello.html": {Data: []byte(
			`{{ define "content" }}{{ template "flash" . }}<h1>{{ .Props.title }}</h1>{{ end }}`)},
	}
}

func newTestEngine(t *testing.T) (*gin.Engine, *Renderer) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r, err := New(testFS(), "v1", nil)
	require.NoError(t, err)
	r.Share(FlashProps)

	e := gin.New()
	e.Use(r.Middleware())
	e.GET("/hello", func(c *gin.Context) {
		_ = r.Render(c, http.StatusOK, "Hello", Props{"title": "Hi <there>", "other": 1})
	})
	e.POST("/hello", func(c *gin.Context) {
		SetFlash(c, "Note created")
		r.Redirect(c, "/hello")
	})
	return e, r
}

func TestRenderHTML(t *testing.T) {
	e, r := newTestEngine(t)
	assert.True(t, r.HasComponent("Hello"))
	assert.False(t, r.HasComponent("partials/flash"))

	w := httptest.NewRecorder()
	e.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/hello", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	body := w.Body.String()
	assert.Contains(t, body, "<h1>Hi &lt;there&gt;</h1>")
	assert.Contains(t, body, `data-page="{&#34;component&#34;:&#34;Hello&#34;`)
}

func TestRenderJSON(t *testing.T) {
	e, _ := newTestEngine(t)

	req := httptest.NewRequest(http.MethodGet, "/hello?x=1", nil)
	req.Header.Set(HeaderInertia, "true")
	req.Header.Set(HeaderVersion, "v1")
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "true", w.Header().Get(HeaderInertia))
	assert.Equal(t, HeaderInertia, w.Header().Get("Vary"))

	var page Page
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, "Hello", page.Component)
	assert.Equal(t, "/hello?x=1", page.URL)
	assert.Equal(t, "v1", page.Version)
	assert.Equal(t, "Hi <there>", page.Props["title"])
	assert.Contains(t, page.Props, "flash")
}

func TestVersionMismatch(t *testing.T) {
	e, _ := newTestEngine(t)

	req := httptest.NewRequest(http.MethodGet, "/hello", nil)
	req.Header.Set(HeaderInertia, "true")
	req.Header.Set(HeaderVersion, "old")
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "/hello", w.Header().Get(HeaderLocation))
}

func TestPartialReload(t *testing.T) {
	e, _ := newTestEngine(t)

	req := httptest.NewRequest(http.MethodGet, "/hello", nil)
	req.Header.Set(HeaderInertia, "true")
	req.Header.Set(HeaderVersion, "v1")
	req.Header.Set(HeaderPartialComponent, "Hello")
	req.Header.Set(HeaderPartialData, "title")
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)

	var page Page
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, Props{"title": "Hi <there>"}, page.Props)
}

func TestFlashSurvivesRedirect(t *testing.T) {
	e, _ := newTestEngine(t)

	w := httptest.NewRecorder()
	e.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/hello", nil))
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/hello", w.Header().Get("Location"))

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/hello", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w = httptest.NewRecorder()
	e.ServeHTTP(w, req)

	assert.Contains(t, w.Body.String(), `<p class="flash">Note created</p>`)
	cleared := false
	for _, ck := range w.Result().Cookies() {
		if ck.Name == flashCookie && ck.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared, "flash cookie should be cleared after display")
}
