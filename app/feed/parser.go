package feed

import (
	"bytes"
	"cmp"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/mmcdole/gofeed"
)

// Parser turns RSS, Atom and JSON Feed documents into feed items.
type Parser struct {
	gofeedParser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
	}
}

func (p *Parser) Run(data []byte) ([]Item, error) {
	parsed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	items := make([]Item, 0, len(parsed.Items))
	for _, entry := range parsed.Items {
		if entry == nil {
			continue
		}
		item, ok := p.normalizeItem(entry)
		if !ok {
			continue
		}
		items = append(items, item)
	}

	return items, nil
}

// normalizeItem reports false for entries that carry no usable image.
func (p *Parser) normalizeItem(entry *gofeed.Item) (Item, bool) {
	imageURL := p.extractImageURL(entry)
	if imageURL == nil {
		return Item{}, false
	}

	description := cmp.Or(entry.Description, entry.Title)

	item := Item{
		ID:          p.generateID(entry),
		Description: NormalizeText(&description),
		ImageURL:    imageURL,
	}

	if location := p.extractLocation(entry); location != "" {
		item.Location = NormalizeText(&location)
	}

	return item, true
}

func (p *Parser) generateID(entry *gofeed.Item) uuid.UUID {
	key := cmp.Or(entry.GUID, entry.Link, entry.Title)
	if id, err := uuid.Parse(strings.TrimPrefix(key, "urn:uuid:")); err == nil {
		return id
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(key))
}

func (p *Parser) extractImageURL(entry *gofeed.Item) *url.URL {
	candidates := make([]string, 0, len(entry.Enclosures)+1)
	if entry.Image != nil {
		candidates = append(candidates, entry.Image.URL)
	}
	for _, enclosure := range entry.Enclosures {
		if enclosure != nil && strings.HasPrefix(enclosure.Type, "image/") {
			candidates = append(candidates, enclosure.URL)
		}
	}

	for _, candidate := range candidates {
		u, err := url.Parse(strings.TrimSpace(candidate))
		if err == nil && u.Scheme != "" && u.Host != "" {
			return u
		}
	}
	return nil
}

// extractLocation reads a georss/geo style extension when the entry has one.
func (p *Parser) extractLocation(entry *gofeed.Item) string {
	for _, namespace := range []string{"georss", "geo"} {
		elements, ok := entry.Extensions[namespace]
		if !ok {
			continue
		}
		for _, name := range []string{"featurename", "name", "point"} {
			if values := elements[name]; len(values) > 0 {
				return values[0].Value
			}
		}
	}
	return ""
}
