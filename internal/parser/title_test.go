package parser

import "testing"

func TestTitle(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"atx heading after text", "some text\n\n# My Heading\nmore", "My Heading"},
		{"setext heading", "Alpha\n=====\n\nbody", "Alpha"},
		{"second level only", "## Sub\nbody", ""},
		{"no heading", "no heading", ""},
		{"front matter title wins", "---\ntitle: Front Title\n---\n# Heading\n", "Front Title"},
		{"front matter without title", "---\ntags: [a, b]\n---\n# Heading\n", "Heading"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Title(tt.content); got != tt.want {
				t.Errorf("Title(%q) = %q, want %q", tt.content, got, tt.want)
			}
		})
	}
}
