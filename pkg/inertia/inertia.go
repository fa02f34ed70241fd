// Package inertia speaks the Inertia page protocol on top of gin.
// Inertia requests get the page object as JSON, first visits get the HTML shell
// with the same page object embedded and the component rendered server side.
package inertia

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
)

const (
	HeaderInertia          = "X-Inertia"
	HeaderVersion          = "X-Inertia-Version"
	HeaderLocation         = "X-Inertia-Location"
	HeaderPartialComponent = "X-Inertia-Partial-Component"
	HeaderPartialData      = "X-Inertia-Partial-Data"

	rootTemplate = "app.html"
	partialsGlob = "partials/*.html"
)

// Props 页面属性
type Props map[string]any

// Page is the Inertia page object
// Page Inertia 页面对象
type Page struct {
	Component string `json:"component"`
	Props     Props  `json:"props"`
	URL       string `json:"url"`
	Version   string `json:"version"`
}

// SharedFunc returns props merged into every page. Page props win on conflict.
type SharedFunc func(c *gin.Context) Props

// Renderer 页面渲染器
type Renderer struct {
	version string
	pages   map[string]*template.Template

	mu     sync.RWMutex
	shared []SharedFunc
}

// viewData 传给 HTML 模板的数据
type viewData struct {
	Page     Page
	PageJSON string
	Props    Props
}

// New parses app.html plus partials together with every component template in templates.
// Component "Notes/Index" maps to "Notes/Index.html".
// New 解析根模板与所有组件模板
func New(templates fs.FS, version string, funcs template.FuncMap) (*Renderer, error) {
	r := &Renderer{
		version: version,
		pages:   make(map[string]*template.Template),
	}

	partials, err := fs.Glob(templates, partialsGlob)
	if err != nil {
		return nil, err
	}

	err = fs.WalkDir(templates, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path.Ext(p) != ".html" || p == rootTemplate || strings.HasPrefix(p, "partials/") {
			return nil
		}
		files := append([]string{rootTemplate}, partials...)
		files = append(files, p)

		tmpl, err := template.New(rootTemplate).Funcs(funcs).ParseFS(templates, files...)
		if err != nil {
			return fmt.Errorf("parse template %s: %w", p, err)
		}
		r.pages[strings.TrimSuffix(p, ".html")] = tmpl
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Version 当前资源版本
func (r *Renderer) Version() string {
	return r.version
}

// Share 注册共享属性
func (r *Renderer) Share(fn SharedFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shared = append(r.shared, fn)
}

// HasComponent reports whether a template exists for component.
func (r *Renderer) HasComponent(component string) bool {
	_, ok := r.pages[component]
	return ok
}

// Render writes component with props using status.
// Render 渲染页面组件
func (r *Renderer) Render(c *gin.Context, status int, component string, props Props) error {
	page := Page{
		Component: component,
		Props:     r.mergeProps(c, component, props),
		URL:       c.Request.URL.RequestURI(),
		Version:   r.version,
	}

	data, err := sonic.Marshal(page)
	if err != nil {
		return fmt.Errorf("encode page %s: %w", component, err)
	}

	if IsInertiaRequest(c) {
		c.Header(HeaderInertia, "true")
		c.Header("Vary", HeaderInertia)
		c.Data(status, "application/json; charset=utf-8", data)
		return nil
	}

	tmpl, ok := r.pages[component]
	if !ok {
		return fmt.Errorf("template for component %q not found", component)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, rootTemplate, viewData{Page: page, PageJSON: string(data), Props: page.Props}); err != nil {
		return fmt.Errorf("execute template %s: %w", component, err)
	}
	c.Header("Vary", HeaderInertia)
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
	return nil
}

// mergeProps merges shared props under the page props and honours partial reloads.
func (r *Renderer) mergeProps(c *gin.Context, component string, props Props) Props {
	merged := Props{}

	r.mu.RLock()
	for _, fn := range r.shared {
		for k, v := range fn(c) {
			merged[k] = v
		}
	}
	r.mu.RUnlock()

	for k, v := range props {
		merged[k] = v
	}

	if only := c.GetHeader(HeaderPartialData); only != "" && c.GetHeader(HeaderPartialComponent) == component {
		keep := make(map[string]bool)
		for _, k := range strings.Split(only, ",") {
			keep[strings.TrimSpace(k)] = true
		}
		for k := range merged {
			if !keep[k] {
				delete(merged, k)
			}
		}
	}
	return merged
}

// Redirect sends a 303 so the browser follows with GET after PUT, PATCH and DELETE.
// Redirect 使用 303 跳转
func (r *Renderer) Redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusSeeOther, location)
}

// Location forces a full page visit, used when the asset version changed.
func (r *Renderer) Location(c *gin.Context, url string) {
	if IsInertiaRequest(c) {
		c.Header(HeaderLocation, url)
		c.AbortWithStatus(http.StatusConflict)
		return
	}
	c.Redirect(http.StatusSeeOther, url)
	c.Abort()
}

// Middleware rejects Inertia GETs carrying a stale asset version with 409.
// Middleware 处理资源版本校验
func (r *Renderer) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsInertiaRequest(c) {
			c.Next()
			return
		}

		if c.Request.Method == http.MethodGet && c.GetHeader(HeaderVersion) != r.version {
			r.Location(c, c.Request.URL.RequestURI())
			return
		}

		c.Next()
	}
}

// IsInertiaRequest 判断是否为 Inertia 请求
func IsInertiaRequest(c *gin.Context) bool {
	return c.GetHeader(HeaderInertia) == "true"
}
