// Package parser holds the note markup patterns and extracts wikilinks from
// raw note text.
package parser

import (
	"regexp"
	"strings"
)

// NoteExt is the file extension every note carries on disk.
const NoteExt = ".md"

var (
	// WikilinkRe matches [[Name]] and captures Name.
	WikilinkRe = regexp.MustCompile(`\[\[(.*?)\]\]`)
	// AliasRe matches [Label]([[Name]]) and captures Label and Name.
	AliasRe = regexp.MustCompile(`\[([^\[\]]*?)\]\(\[\[(.*?)\]\]\)`)
	// ItalicRe matches __text__ and captures text.
	ItalicRe = regexp.MustCompile(`__(.+?)__`)
	// HighlightRe matches ^^text^^ and captures text.
	HighlightRe = regexp.MustCompile(`\^\^(.+?)\^\^`)
)

// Links returns the distinct note names referenced by wikilinks in text,
// in first-seen order. Names are kept verbatim: no trimming, no case folding.
func Links(text string) []string {
	matches := WikilinkRe.FindAllStringSubmatch(text, -1)
	seen := make(map[string]struct{}, len(matches))
	var out []string
	for _, m := range matches {
		name := m[1]
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// NotePaths returns Links(text) mapped to note file names.
func NotePaths(text string) []string {
	names := Links(text)
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = n + NoteExt
	}
	return out
}

// NoteFile maps a user-supplied note name to its file name. Names already
// carrying the extension are returned unchanged.
func NoteFile(name string) string {
	if strings.HasSuffix(name, NoteExt) {
		return name
	}
	return name + NoteExt
}

// NoteName strips the note extension from a file name.
func NoteName(file string) string {
	return strings.TrimSuffix(file, NoteExt)
}
