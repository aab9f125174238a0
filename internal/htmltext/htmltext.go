// Package htmltext converts HTML fragments into plain text.
//
// Normalize is used for synopsis and feed descriptions: tags are removed,
// entities decoded and whitespace collapsed, with paragraph breaks kept as a
// blank line. Lines is used where line structure matters, such as the
// <address> block of a production page, and breaks at every <br>.
package htmltext

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ParagraphBreak separates paragraphs in Normalize output
const ParagraphBreak = "\n\n"

var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"dd": true, "div": true, "dl": true, "dt": true, "figcaption": true,
	"figure": true, "footer": true, "h1": true, "h2": true, "h3": true,
	"h4": true, "h5": true, "h6": true, "header": true, "hr": true,
	"li": true, "main": true, "nav": true, "ol": true, "p": true,
	"pre": true, "section": true, "table": true, "tr": true, "ul": true,
}

var skippedElements = map[string]bool{
	"script": true, "style": true, "noscript": true, "template": true,
}

var (
	whitespaceRun = regexp.MustCompile(`[\s\x{00A0}]+`)
	blankLine     = regexp.MustCompile(`[ \t\r\f\v]*\n[ \t\r\f\v]*\n\s*`)
	newline       = regexp.MustCompile(`\r?\n`)
)

// maxPasses bounds the decode loop in Normalize. Every pass that changes the
// text makes it shorter, so real input settles in two or three.
const maxPasses = 8

// Normalize returns the plain text of an HTML fragment. Paragraphs are joined
// by ParagraphBreak and all other whitespace collapses to single spaces.
// Escaped markup and entities are decoded until nothing changes, so
// normalizing already-normalized text returns it unchanged.
func Normalize(markup string) string {
	text := strings.Join(flatten(markup, false), ParagraphBreak)
	for i := 1; i < maxPasses; i++ {
		next := strings.Join(flatten(text, false), ParagraphBreak)
		if next == text {
			break
		}
		text = next
	}
	return text
}

// Lines returns the non-empty lines of an HTML fragment, breaking at <br>,
// at newlines in text and at block element boundaries. Each line is
// whitespace-collapsed.
func Lines(markup string) []string {
	return flatten(markup, true)
}

// Collapse trims s and collapses every whitespace run to a single space.
func Collapse(s string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

// flatten walks the fragment and returns its text blocks. With breakOnBR,
// <br> and newlines end a block; otherwise <br> is a space and only blank
// lines inside text nodes end a block.
func flatten(markup string, breakOnBR bool) []string {
	if strings.TrimSpace(markup) == "" {
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		// Best effort: the tokenizer failed, keep the input as text.
		return splitText(markup, breakOnBR)
	}

	f := &flattener{breakOnBR: breakOnBR}
	for _, n := range doc.Nodes {
		f.walk(n)
	}
	f.flush()
	return f.blocks
}

type flattener struct {
	breakOnBR bool
	blocks    []string
	current   strings.Builder
}

func (f *flattener) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		f.text(n.Data)
		return
	case html.ElementNode:
		if skippedElements[n.Data] {
			return
		}
		if n.Data == "br" {
			if f.breakOnBR {
				f.flush()
			} else {
				f.current.WriteByte(' ')
			}
			return
		}
	case html.CommentNode, html.DoctypeNode:
		return
	}

	block := n.Type == html.ElementNode && blockElements[n.Data]
	if block {
		f.flush()
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		f.walk(c)
	}
	if block {
		f.flush()
	}
}

func (f *flattener) text(s string) {
	sep := blankLine
	if f.breakOnBR {
		sep = newline
	}
	parts := sep.Split(s, -1)
	for i, part := range parts {
		if i > 0 {
			f.flush()
		}
		f.current.WriteString(part)
	}
}

func (f *flattener) flush() {
	if block := Collapse(f.current.String()); block != "" {
		f.blocks = append(f.blocks, block)
	}
	f.current.Reset()
}

func splitText(s string, breakOnBR bool) []string {
	sep := blankLine
	if breakOnBR {
		sep = newline
	}
	var out []string
	for _, part := range sep.Split(s, -1) {
		if block := Collapse(part); block != "" {
			out = append(out, block)
		}
	}
	return out
}
