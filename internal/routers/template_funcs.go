package routers

import (
	"html/template"
	"time"

	"github.com/haierkeys/fast-note-web/pkg/timex"
)

// TemplateFuncs 页面模板函数
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"datetime":   datetime,
		"fieldError": fieldError,
	}
}

func datetime(v any) string {
	switch t := v.(type) {
	case timex.Time:
		return t.Time().Local().Format(time.DateTime)
	case time.Time:
		return t.Local().Format(time.DateTime)
	}
	return ""
}

// fieldError looks up key in the errors prop, which is absent on a clean form.
func fieldError(errs any, key string) string {
	m, ok := errs.(map[string]string)
	if !ok {
		return ""
	}
	return m[key]
}
