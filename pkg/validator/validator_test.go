package validator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noteForm struct {
	Excerpt string `json:"excerpt" form:"excerpt" binding:"required"`
	Content string `json:"content" form:"content" binding:"required"`
	Hidden  string `json:"-"`
}

func TestCheck(t *testing.T) {
	v := NewCustomValidator()
	require.NoError(t, v.Err())

	tests := []struct {
		name   string
		form   *noteForm
		locale string
		want   map[string]string
	}{
		{
			name: "valid",
			form: &noteForm{Excerpt: "a", Content: "b"},
			want: nil,
		},
		{
			name: "missing excerpt",
			form: &noteForm{Content: "b"},
			want: map[string]string{"excerpt": "The excerpt field is required."},
		},
		{
			name: "both missing",
			form: &noteForm{},
			want: map[string]string{
				"excerpt": "The excerpt field is required.",
				"content": "The content field is required.",
			},
		},
		{
			name:   "chinese",
			form:   &noteForm{Excerpt: "a"},
			locale: "zh-CN",
			want:   map[string]string{"content": "content不能为空"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			if tt.locale != "" {
				ctx = WithLocale(ctx, tt.locale)
			}
			fields, err := v.Check(ctx, tt.form)
			require.NoError(t, err)
			assert.Equal(t, tt.want, fields)
		})
	}
}

func TestValidateStructNonStruct(t *testing.T) {
	v := NewCustomValidator()
	assert.NoError(t, v.ValidateStruct(nil))
	assert.NoError(t, v.ValidateStruct(42))
	assert.Error(t, v.ValidateStruct([]noteForm{{Excerpt: "a"}}))
}

func TestLocaleFromDefault(t *testing.T) {
	assert.Equal(t, "en", LocaleFrom(context.Background()))
	assert.Equal(t, "zh", LocaleFrom(WithLocale(context.Background(), "zh")))
}
