package middleware

import (
	"github.com/haierkeys/fast-note-web/pkg/app"
	"github.com/haierkeys/fast-note-web/pkg/validator"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

var supportedLangs = language.NewMatcher([]language.Tag{
	language.English,
	language.SimplifiedChinese,
})

// NegotiateLang picks en or zh from ?lang=, the lang header or Accept-Language.
// NegotiateLang 协商请求语言
func NegotiateLang(c *gin.Context) string {
	var prefs []language.Tag
	for _, s := range []string{c.Query("lang"), c.GetHeader("lang")} {
		if s == "" {
			continue
		}
		if tag, err := language.Parse(s); err == nil {
			prefs = append(prefs, tag)
		}
	}
	if accept, _, err := language.ParseAcceptLanguage(c.GetHeader("Accept-Language")); err == nil {
		prefs = append(prefs, accept...)
	}

	_, idx, _ := supportedLangs.Match(prefs...)
	if idx == 1 {
		return "zh"
	}
	return "en"
}

// LangWithValidator 创建带翻译器的语言中间件
// defaultLang is used when the request states no preference at all.
func LangWithValidator(v *validator.CustomValidator, defaultLang string) gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := defaultLang
		if lang == "" || c.Query("lang") != "" || c.GetHeader("lang") != "" || c.GetHeader("Accept-Language") != "" {
			lang = NegotiateLang(c)
		}

		c.Set(app.TranslatorKey, v.Translator(lang))
		c.Request = c.Request.WithContext(validator.WithLocale(c.Request.Context(), lang))

		c.Next()
	}
}
