package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToHTML(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		contains []string
		excludes []string
	}{
		{
			name:     "emphasis",
			in:       "This is **bold** and *italic*.",
			contains: []string{"<strong>bold</strong>", "<em>italic</em>"},
		},
		{
			name:     "list",
			in:       "- milk\n- eggs\n",
			contains: []string{"<li>milk</li>", "<li>eggs</li>"},
		},
		{
			name:     "script stripped",
			in:       "hello <script>alert(1)</script>",
			contains: []string{"hello"},
			excludes: []string{"<script>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := string(ToHTML(tt.in))
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, out, s)
			}
		})
	}
}
