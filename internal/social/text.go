package social

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

type elementKind int

const (
	inlineElement elementKind = iota + 1
	blockElement
	rawElement
)

// tagPattern matches something shaped like an HTML tag. Only names listed in
// elementKinds are treated as markup; "x<y and y>z" stays literal.
var tagPattern = regexp.MustCompile(`<(/?)([a-zA-Z][a-zA-Z0-9]*)(?:\s[^<>]*)?/?>`)

var elementKinds = map[atom.Atom]elementKind{
	atom.A: inlineElement, atom.Abbr: inlineElement, atom.B: inlineElement, atom.Cite: inlineElement,
	atom.Code: inlineElement, atom.Del: inlineElement, atom.Em: inlineElement, atom.Font: inlineElement,
	atom.I: inlineElement, atom.Img: inlineElement, atom.Ins: inlineElement, atom.Kbd: inlineElement,
	atom.Label: inlineElement, atom.Mark: inlineElement, atom.Q: inlineElement, atom.S: inlineElement,
	atom.Small: inlineElement, atom.Span: inlineElement, atom.Strong: inlineElement, atom.Sub: inlineElement,
	atom.Sup: inlineElement, atom.Time: inlineElement, atom.U: inlineElement,

	atom.Article: blockElement, atom.Aside: blockElement, atom.Blockquote: blockElement, atom.Br: blockElement,
	atom.Dd: blockElement, atom.Div: blockElement, atom.Dl: blockElement, atom.Dt: blockElement,
	atom.Figcaption: blockElement, atom.Figure: blockElement, atom.Footer: blockElement, atom.H1: blockElement,
	atom.H2: blockElement, atom.H3: blockElement, atom.H4: blockElement, atom.H5: blockElement,
	atom.H6: blockElement, atom.Header: blockElement, atom.Hr: blockElement, atom.Li: blockElement,
	atom.Main: blockElement, atom.Nav: blockElement, atom.Ol: blockElement, atom.P: blockElement,
	atom.Pre: blockElement, atom.Section: blockElement, atom.Table: blockElement, atom.Td: blockElement,
	atom.Th: blockElement, atom.Tr: blockElement, atom.Ul: blockElement,

	atom.Iframe: rawElement, atom.Noscript: rawElement, atom.Script: rawElement, atom.Style: rawElement,
	atom.Template: rawElement, atom.Textarea: rawElement, atom.Title: rawElement,
}

// sanitizeText reduces user input to plain text. Recognised HTML tags are
// removed (block elements and <br> leave a space), script and style bodies are
// discarded and runs of whitespace collapse to one space. Input without any
// recognised tag is kept as written, entities included.
func sanitizeText(input string) string {
	var (
		b      strings.Builder
		markup bool
		skip   atom.Atom
		last   int
	)

	for _, loc := range tagPattern.FindAllStringSubmatchIndex(input, -1) {
		name := atom.Lookup([]byte(strings.ToLower(input[loc[4]:loc[5]])))
		kind, ok := elementKinds[name]
		if !ok {
			continue
		}
		markup = true
		if skip == 0 {
			b.WriteString(input[last:loc[0]])
		}
		last = loc[1]

		closing := loc[3] > loc[2]
		selfClosing := strings.HasSuffix(input[loc[0]:loc[1]], "/>")
		switch {
		case skip != 0:
			if closing && name == skip {
				skip = 0
			}
		case kind == rawElement:
			if !closing && !selfClosing {
				skip = name
			}
		case kind == blockElement:
			b.WriteString(" ")
		}
	}
	if skip == 0 {
		b.WriteString(input[last:])
	}

	out := b.String()
	if markup {
		out = html.UnescapeString(out)
	}
	return strings.Join(strings.Fields(out), " ")
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

func snippet(s string, n int) string {
	if runeLen(s) <= n {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:n])) + "…"
}
