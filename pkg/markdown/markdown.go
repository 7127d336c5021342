// Package markdown converts a small markdown subset to HTML with an ordered
// list of line and inline substitutions. It is not a general parser: rules
// run in a fixed order and later rules see the output of earlier ones.
package markdown

import (
	"regexp"
	"strconv"
	"strings"
)

type lineKind uint8

const (
	lineText lineKind = iota
	lineBlank
	lineBlock
	lineUL
	lineOL
)

type lineRule struct {
	name string
	re   *regexp.Regexp
	kind lineKind
	html func(m []string) string
}

type inlineRule struct {
	name string
	re   *regexp.Regexp
	repl string
}

// lineRules run first, in order, against each raw line.
var lineRules = []lineRule{
	{"heading", regexp.MustCompile(`^(#{1,6})\s+(.*?)\s*#*$`), lineBlock, func(m []string) string {
		n := strconv.Itoa(len(m[1]))
		return "<h" + n + ">" + m[2] + "</h" + n + ">"
	}},
	{"blockquote", regexp.MustCompile(`^>\s?(.*)$`), lineBlock, func(m []string) string {
		return "<blockquote>" + m[1] + "</blockquote>"
	}},
	{"unordered", regexp.MustCompile(`^\s*[-*+]\s+(.*)$`), lineUL, func(m []string) string {
		return "<li>" + m[1] + "</li>"
	}},
	{"ordered", regexp.MustCompile(`^\s*\d+[.)]\s+(.*)$`), lineOL, func(m []string) string {
		return "<li>" + m[1] + "</li>"
	}},
}

// inlineRules run after line rules, in order. Bold precedes italics so
// that ** is not read as two emphasis markers.
var inlineRules = []inlineRule{
	{"link", regexp.MustCompile(`\[([^\]]+)\]\(([^)\s]+)\)`), `<a href="$2">$1</a>`},
	{"bold", regexp.MustCompile(`\*\*(.+?)\*\*`), `<strong>$1</strong>`},
	{"bold-underscore", regexp.MustCompile(`__(.+?)__`), `<strong>$1</strong>`},
	{"italic", regexp.MustCompile(`\*([^*\s][^*]*?)\*`), `<em>$1</em>`},
	{"italic-underscore", regexp.MustCompile(`\b_([^_\s][^_]*?)_\b`), `<em>$1</em>`},
}

type line struct {
	kind lineKind
	text string
}

// ToHTML converts markdown text to HTML.
func ToHTML(src string) string {
	src = strings.ReplaceAll(src, "\r\n", "\n")
	raw := strings.Split(src, "\n")

	lines := make([]line, 0, len(raw))
	for _, l := range raw {
		lines = append(lines, classify(l))
	}
	for i := range lines {
		lines[i].text = inline(lines[i].text)
	}

	var b strings.Builder
	var para []string
	blanks := 0
	list := lineText

	flushPara := func() {
		if len(para) > 0 {
			b.WriteString("<p>" + strings.Join(para, " ") + "</p>\n")
			para = para[:0]
		}
	}
	closeList := func() {
		switch list {
		case lineUL:
			b.WriteString("</ul>\n")
		case lineOL:
			b.WriteString("</ol>\n")
		}
		list = lineText
	}

	for _, l := range lines {
		if l.kind == lineBlank {
			blanks++
			flushPara()
			closeList()
			continue
		}
		if blanks > 1 {
			b.WriteString("<br>\n")
		}
		blanks = 0
		switch l.kind {
		case lineText:
			closeList()
			para = append(para, strings.TrimSpace(l.text))
		case lineBlock:
			flushPara()
			closeList()
			b.WriteString(l.text + "\n")
		case lineUL, lineOL:
			flushPara()
			if list != l.kind {
				closeList()
				if l.kind == lineUL {
					b.WriteString("<ul>\n")
				} else {
					b.WriteString("<ol>\n")
				}
				list = l.kind
			}
			b.WriteString(l.text + "\n")
		}
	}
	flushPara()
	closeList()
	return strings.TrimSuffix(b.String(), "\n")
}

func classify(raw string) line {
	if strings.TrimSpace(raw) == "" {
		return line{kind: lineBlank}
	}
	for _, r := range lineRules {
		if m := r.re.FindStringSubmatch(raw); m != nil {
			return line{kind: r.kind, text: r.html(m)}
		}
	}
	return line{kind: lineText, text: raw}
}

func inline(s string) string {
	for _, r := range inlineRules {
		s = r.re.ReplaceAllString(s, r.repl)
	}
	return s
}
