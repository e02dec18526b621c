package findash

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

var multiSpace = regexp.MustCompile(`\s+`)

// CleanText normalizes headline and summary text coming from news feeds.
//
// Normalizations performed:
// - HTML markup stripped (text content kept, script/style dropped)
// - HTML entities decoded
// - Unicode spaces (NBSP, en/em quads, ...) turned into regular spaces
// - Zero-width and format characters removed
// - Runs of whitespace collapsed, ends trimmed
func CleanText(s string) string {
	if s == "" {
		return ""
	}
	if strings.ContainsRune(s, '<') {
		s = stripMarkup(s)
	} else {
		s = html.UnescapeString(s)
	}
	s = normalizeWhitespace(s)
	s = removeInvisibleChars(s)
	s = multiSpace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// stripMarkup extracts the text content of an HTML fragment. The tokenizer
// decodes entities in text tokens.
func stripMarkup(s string) string {
	z := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF or malformed input; both end the fragment
			return b.String()
		case html.StartTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "script", "style":
				skip++
			case "br", "p", "div", "li":
				b.WriteByte(' ')
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "script", "style":
				if skip > 0 {
					skip--
				}
			case "p", "div", "li":
				b.WriteByte(' ')
			}
		case html.SelfClosingTagToken:
			b.WriteByte(' ')
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		}
	}
}

// normalizeWhitespace converts various Unicode whitespace characters to regular spaces
func normalizeWhitespace(text string) string {
	var result strings.Builder
	result.Grow(len(text))

	for _, r := range text {
		switch r {
		case '\u00A0', '\u202F', '\u205F', '\u3000':
			result.WriteRune(' ')
		default:
			if r >= '\u2000' && r <= '\u200A' {
				result.WriteRune(' ')
				continue
			}
			result.WriteRune(r)
		}
	}

	return result.String()
}

// removeInvisibleChars removes zero-width and other invisible characters
func removeInvisibleChars(text string) string {
	var result strings.Builder
	result.Grow(len(text))

	for _, r := range text {
		switch r {
		case '\u200B', '\u200C', '\u200D', '\uFEFF', '\u180E':
			continue
		}
		if unicode.Is(unicode.Cf, r) {
			continue
		}
		result.WriteRune(r)
	}

	return result.String()
}
