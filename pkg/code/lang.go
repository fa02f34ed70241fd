package code

import (
	"errors"
	"reflect"
	"strings"
	"sync/atomic"
)

// lang type, used to store English and Chinese text
// lang 类型，用来存储英文和中文文本
type lang struct {
	en    string // English // 英文
	zh_cn string // Chinese // 中文
}

const FALLBACK_LNG = "en"

// Process wide default language, set once from config.
// Filled at declaration: package level codes read it during variable initialization, before init runs.
// 进程级默认语言
var lng = func() *atomic.Value {
	v := &atomic.Value{}
	v.Store(FALLBACK_LNG)
	return v
}()

// GetMessage returns the message in the process default language
// GetMessage 方法根据全局默认语言返回相应的消息
func (l lang) GetMessage() string {
	return l.GetMessageIn(GetGlobalDefaultLang())
}

// GetMessageIn returns the message in the given language.
// Unknown or empty languages fall back to English.
// GetMessageIn 返回指定语言的消息，无效时回退到英文
func (l lang) GetMessageIn(language string) string {
	val := reflect.ValueOf(l)
	if field := val.FieldByName(NormalizeLang(language)); field.IsValid() && field.String() != "" {
		return field.String()
	}
	return val.FieldByName(FALLBACK_LNG).String()
}

// NormalizeLang maps request language tags like "zh-CN" or "zh" onto lang field names.
func NormalizeLang(language string) string {
	language = strings.ToLower(strings.ReplaceAll(language, "-", "_"))
	if strings.HasPrefix(language, "zh") {
		return "zh_cn"
	}
	if strings.HasPrefix(language, "en") {
		return "en"
	}
	return language
}

// GetSupportedLanguages function returns all languages supported by the lang type
// GetSupportedLanguages 函数返回 lang 类型支持的所有语言
func GetSupportedLanguages() []string {
	var languages []string
	typ := reflect.TypeOf(lang{})
	for i := 0; i < typ.NumField(); i++ {
		languages = append(languages, typ.Field(i).Name)
	}
	return languages
}

// SetGlobalDefaultLang sets the global default language
// 设置全局默认语言
func SetGlobalDefaultLang(language string) error {
	language = NormalizeLang(language)
	for _, l := range GetSupportedLanguages() {
		if language == l {
			lng.Store(language)
			return nil
		}
	}
	lng.Store(FALLBACK_LNG)
	return errors.New("unsupported language type, set defaulting to " + FALLBACK_LNG)
}

// GetGlobalDefaultLang gets the global default language
// 获取全局默认语言
func GetGlobalDefaultLang() string {
	if l, ok := lng.Load().(string); ok && l != "" {
		return l
	}
	return FALLBACK_LNG
}
