package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanEscapesDisallowedMarkup(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain text untouched",
			in:   "just some words",
			want: "just some words",
		},
		{
			name: "script tag escaped",
			in:   `<script>alert("hi")</script>`,
			want: "&lt;script&gt;alert(&quot;hi&quot;)&lt;/script&gt;",
		},
		{
			name: "allowed tag preserved",
			in:   "this is <b>bold</b>",
			want: "this is <b>bold</b>",
		},
		{
			name: "mixed allowed and disallowed",
			in:   `<i>italic</i> and <div>block</div>`,
			want: "<i>italic</i> and &lt;div&gt;block&lt;/div&gt;",
		},
		{
			name: "quotes escaped",
			in:   `say "hello"`,
			want: "say &quot;hello&quot;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.in))
		})
	}
}

func TestCloseTagsAutoCloses(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "unclosed bold",
			in:   "<b>loud",
			want: "<b>loud</b>",
		},
		{
			name: "nested unclosed",
			in:   "<b><i>both open",
			want: "<b><i>both open</i></b>",
		},
		{
			name: "properly closed left alone",
			in:   "<b>fine</b>",
			want: "<b>fine</b>",
		},
		{
			name: "mismatched closer does not pop",
			in:   "<b>text</i>",
			want: "<b>text</i></b>",
		},
		{
			name: "closer without opener left alone",
			in:   "text</b>",
			want: "text</b>",
		},
		{
			name: "interleaved closes only the match",
			in:   "<b><i>x</b>",
			want: "<b><i>x</b></i></b>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CloseTags(tt.in))
		})
	}
}
