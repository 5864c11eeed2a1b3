package feed

import (
	"bytes"
	"cmp"
	"fmt"

	"github.com/mmcdole/gofeed"
)

// Parser reads a generated document back into items.
type Parser struct {
	gofeedParser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
	}
}

func (p *Parser) Run(data []byte) (*Metadata, []Item, error) {
	feed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	metadata := &Metadata{
		Title:       feed.Title,
		Link:        feed.Link,
		Description: feed.Description,
		Language:    feed.Language,
		Generator:   feed.Generator,
		BuildDate:   feed.UpdatedParsed,
	}

	items := make([]Item, 0, len(feed.Items))
	for _, item := range feed.Items {
		items = append(items, p.normalizeItem(item))
	}

	return metadata, items, nil
}

func (p *Parser) normalizeItem(item *gofeed.Item) Item {
	normalized := Item{
		Title:       item.Title,
		Link:        item.Link,
		GUID:        cmp.Or(item.GUID, item.Link),
		Description: item.Description,
		ContentHTML: item.Content,
		Categories:  item.Categories,
	}

	if item.PublishedParsed != nil {
		normalized.PublishedAt = item.PublishedParsed.UTC()
	}

	if item.Image != nil {
		normalized.ThumbnailURL = item.Image.URL
	}

	if len(item.Enclosures) > 0 && item.Enclosures[0] != nil {
		normalized.EnclosureURL = item.Enclosures[0].URL
	}

	return normalized
}
