// Package rewrite turns note markup into web-publishable Markdown: wikilinks
// and aliased links become hyperlinks (or plain text when the target is not
// exported), __italics__ become _italics_ and ^^highlights^^ become <mark>.
package rewrite

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/starford/roamshare/internal/parser"
)

// Text produced by the link passes is held behind a pair of private-use
// runes until the emphasis passes are done. The pair is chosen per call so
// that it never occurs in the input.
const (
	privateUseFirst = '\uE000'
	privateUseLast  = '\uF8FF'
)

func sentinels(text string) (begin, end rune) {
	for begin = privateUseFirst; begin < privateUseLast; begin += 2 {
		end = begin + 1
		if !strings.ContainsRune(text, begin) && !strings.ContainsRune(text, end) {
			return begin, end
		}
	}
	return -1, -1
}

// Urlize lower-cases name and replaces spaces with hyphens.
func Urlize(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "-")
}

// LinkPath joins prefix and the urlized target with a single slash.
func LinkPath(prefix, target string) string {
	slug := Urlize(target)
	if prefix == "" {
		return slug
	}
	return strings.TrimSuffix(prefix, "/") + "/" + slug
}

// Rewrite applies the four markup passes to text in order: aliased links,
// bare wikilinks, italics, highlights. exported holds the note names (no
// extension) that will be present in the published set. A nil prefix
// disables rewriting and returns text unchanged.
func Rewrite(text string, exported map[string]struct{}, prefix *string) string {
	if prefix == nil {
		return text
	}

	begin, end := sentinels(text)
	var held []string
	hold := func(out string) string {
		if begin < 0 {
			return out
		}
		held = append(held, out)
		return string(begin) + strconv.Itoa(len(held)-1) + string(end)
	}

	text = replaceSubmatch(parser.AliasRe, text, func(m []string) string {
		label, target := m[1], m[2]
		if target == "" {
			return m[0]
		}
		if _, ok := exported[target]; ok {
			return hold("[" + label + "](" + LinkPath(*prefix, target) + ")")
		}
		return hold(label)
	})

	text = replaceSubmatch(parser.WikilinkRe, text, func(m []string) string {
		target := m[1]
		if target == "" {
			return m[0]
		}
		if _, ok := exported[target]; ok {
			return hold("[" + target + "](" + LinkPath(*prefix, target) + ")")
		}
		return hold(target)
	})

	text = parser.ItalicRe.ReplaceAllString(text, "_${1}_")
	text = parser.HighlightRe.ReplaceAllString(text, "<mark>${1}</mark>")

	if len(held) == 0 {
		return text
	}
	return release(text, begin, end, held)
}

// release swaps every held placeholder back for its text.
func release(text string, begin, end rune, held []string) string {
	var b strings.Builder
	b.Grow(len(text))
	for {
		i := strings.IndexRune(text, begin)
		if i < 0 {
			b.WriteString(text)
			return b.String()
		}
		b.WriteString(text[:i])
		text = text[i+utf8.RuneLen(begin):]

		j := strings.IndexRune(text, end)
		if j < 0 {
			b.WriteRune(begin)
			continue
		}
		n, err := strconv.Atoi(text[:j])
		if err != nil || n < 0 || n >= len(held) {
			b.WriteRune(begin)
			continue
		}
		b.WriteString(held[n])
		text = text[j+utf8.RuneLen(end):]
	}
}

// replaceSubmatch is ReplaceAllStringFunc with access to capture groups.
func replaceSubmatch(re *regexp.Regexp, s string, fn func([]string) string) string {
	idx := re.FindAllStringSubmatchIndex(s, -1)
	if len(idx) == 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	last := 0
	for _, loc := range idx {
		groups := make([]string, len(loc)/2)
		for g := range groups {
			if loc[2*g] >= 0 {
				groups[g] = s[loc[2*g]:loc[2*g+1]]
			}
		}
		b.WriteString(s[last:loc[0]])
		b.WriteString(fn(groups))
		last = loc[1]
	}
	b.WriteString(s[last:])
	return b.String()
}

// Rewriter binds a link prefix so callers can rewrite many notes against one
// export set.
type Rewriter struct {
	prefix   *string
	exported map[string]struct{}
}

// New returns a Rewriter. A nil prefix yields a pass-through rewriter.
func New(prefix *string, exported map[string]struct{}) *Rewriter {
	return &Rewriter{prefix: prefix, exported: exported}
}

// Enabled reports whether the rewriter changes anything.
func (r *Rewriter) Enabled() bool {
	return r != nil && r.prefix != nil
}

// Rewrite rewrites a single note.
func (r *Rewriter) Rewrite(text string) string {
	if !r.Enabled() {
		return text
	}
	return Rewrite(text, r.exported, r.prefix)
}
