// Package feed parses the CTX Live Theatre RSS feed into items.
package feed

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/mmcdole/gofeed"
)

// Item is one feed entry
type Item struct {
	Title       string
	Link        string
	Categories  []string
	Description string // raw HTML
}

// HasCategory reports whether the item is tagged with category.
func (i Item) HasCategory(category string) bool {
	for _, c := range i.Categories {
		if c == category {
			return true
		}
	}
	return false
}

type Parser struct {
	gofeedParser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
	}
}

// Parse decodes an RSS or Atom document. A document gofeed cannot read is an
// error; an empty channel is not.
func (p *Parser) Parse(data []byte) ([]Item, error) {
	parsed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	items := make([]Item, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item == nil {
			continue
		}
		items = append(items, normalizeItem(item))
	}
	return items, nil
}

func normalizeItem(item *gofeed.Item) Item {
	normalized := Item{
		Title:       strings.TrimSpace(item.Title),
		Link:        strings.TrimSpace(item.Link),
		Description: strings.TrimSpace(item.Description),
	}
	for _, c := range item.Categories {
		if c = strings.TrimSpace(c); c != "" {
			normalized.Categories = append(normalized.Categories, c)
		}
	}
	return normalized
}

// Parse is shorthand for NewParser().Parse(data).
func Parse(data []byte) ([]Item, error) {
	return NewParser().Parse(data)
}
