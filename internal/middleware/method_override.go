package middleware

import (
	"mime"
	"net/http"
	"strings"
)

// MethodOverrideField form field carrying the intended method
const MethodOverrideField = "_method"

// MethodOverrideHeader header alternative to the form field
const MethodOverrideHeader = "X-HTTP-Method-Override"

var overridable = map[string]bool{
	http.MethodPut:    true,
	http.MethodPatch:  true,
	http.MethodDelete: true,
}

// MethodOverride lets HTML forms reach PUT, PATCH and DELETE routes by posting
// _method. It wraps the engine because gin matches routes before middleware runs.
// MethodOverride 表单方法伪造
func MethodOverride(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			if m := overrideMethod(r); overridable[m] {
				r.Method = m
			}
		}
		next.ServeHTTP(w, r)
	})
}

func overrideMethod(r *http.Request) string {
	if m := r.Header.Get(MethodOverrideHeader); m != "" {
		return strings.ToUpper(m)
	}

	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch ct {
	case "application/x-www-form-urlencoded":
		_ = r.ParseForm()
	case "multipart/form-data":
		_ = r.ParseMultipartForm(32 << 20)
	default:
		return ""
	}
	return strings.ToUpper(r.PostFormValue(MethodOverrideField))
}
