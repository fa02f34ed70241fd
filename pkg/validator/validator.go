// Package validator wraps go-playground/validator for gin binding and service level checks
// Package validator 封装参数校验器，同时供 gin 绑定与服务层使用
package validator

import (
	"context"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
)

// CustomValidator implements gin's binding.StructValidator
// CustomValidator 实现 gin 的 binding.StructValidator 接口
type CustomValidator struct {
	once     sync.Once
	Validate *validator.Validate
	Uni      *ut.UniversalTranslator
	initErr  error
}

func NewCustomValidator() *CustomValidator {
	return &CustomValidator{}
}

// ValidateStruct 校验结构体，非结构体类型直接通过
func (v *CustomValidator) ValidateStruct(obj any) error {
	if obj == nil {
		return nil
	}
	value := reflect.ValueOf(obj)
	switch value.Kind() {
	case reflect.Ptr:
		if value.IsNil() {
			return nil
		}
		return v.ValidateStruct(value.Elem().Interface())
	case reflect.Struct:
		v.lazyinit()
		return v.Validate.Struct(obj)
	case reflect.Slice, reflect.Array:
		for i := 0; i < value.Len(); i++ {
			if err := v.ValidateStruct(value.Index(i).Interface()); err != nil {
				return err
			}
		}
	}
	return nil
}

// Engine 返回底层校验引擎
func (v *CustomValidator) Engine() any {
	v.lazyinit()
	return v.Validate
}

// Err returns the error hit while registering translations, if any.
func (v *CustomValidator) Err() error {
	v.lazyinit()
	return v.initErr
}

func (v *CustomValidator) lazyinit() {
	v.once.Do(func() {
		v.Validate = validator.New()
		v.Validate.SetTagName("binding")

		// 字段名使用 json 标签，其次 form 标签
		v.Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return fld.Name
		})

		v.Uni = ut.New(en.New(), en.New(), zh.New())
		v.initErr = v.registerTranslations()
	})
}

func (v *CustomValidator) registerTranslations() error {
	enTran, _ := v.Uni.GetTranslator("en")
	zhTran, _ := v.Uni.GetTranslator("zh")

	if err := en_translations.RegisterDefaultTranslations(v.Validate, enTran); err != nil {
		return err
	}
	if err := zh_translations.RegisterDefaultTranslations(v.Validate, zhTran); err != nil {
		return err
	}

	overrides := map[ut.Translator]string{
		enTran: "The {0} field is required.",
		zhTran: "{0}不能为空",
	}
	for trans, text := range overrides {
		text := text
		err := v.Validate.RegisterTranslation("required", trans, func(t ut.Translator) error {
			return t.Add("required", text, true)
		}, func(t ut.Translator, fe validator.FieldError) string {
			msg, _ := t.T("required", fe.Field())
			return msg
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// Translator returns the translator for language, English when unknown.
// Translator 获取对应语言的翻译器，未知语言使用英文
func (v *CustomValidator) Translator(language string) ut.Translator {
	v.lazyinit()
	language = strings.ToLower(strings.ReplaceAll(language, "-", "_"))
	if strings.HasPrefix(language, "zh") {
		language = "zh"
	}
	if trans, found := v.Uni.GetTranslator(language); found {
		return trans
	}
	trans, _ := v.Uni.GetTranslator("en")
	return trans
}

// FieldErrors converts a validation error into field -> message.
// Returns nil for a nil error or an error that is not a validation error.
// FieldErrors 将校验错误转换为 字段 -> 消息
func (v *CustomValidator) FieldErrors(err error, language string) map[string]string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil
	}
	trans := v.Translator(language)
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if _, exists := fields[fe.Field()]; exists {
			continue
		}
		fields[fe.Field()] = fe.Translate(trans)
	}
	return fields
}

// Check validates obj and returns translated field errors, nil when valid.
// A non validation failure is returned as err.
func (v *CustomValidator) Check(ctx context.Context, obj any) (map[string]string, error) {
	err := v.ValidateStruct(obj)
	if err == nil {
		return nil, nil
	}
	if fields := v.FieldErrors(err, LocaleFrom(ctx)); fields != nil {
		return fields, nil
	}
	return nil, err
}

type localeKey struct{}

// WithLocale stores the request language on ctx.
func WithLocale(ctx context.Context, language string) context.Context {
	return context.WithValue(ctx, localeKey{}, language)
}

// LocaleFrom returns the request language stored on ctx, "en" when absent.
func LocaleFrom(ctx context.Context) string {
	if ctx != nil {
		if l, ok := ctx.Value(localeKey{}).(string); ok && l != "" {
			return l
		}
	}
	return "en"
}
