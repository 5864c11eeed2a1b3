package feed

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"slices"
	"strings"
	"time"
)

const DefaultMaxItems = 50

const (
	enclosureType = "audio/mpeg"
	thumbnailType = "image/jpeg"
)

type Generator struct {
	maxItems int
}

func NewGenerator(maxItems int) *Generator {
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}
	return &Generator{maxItems: maxItems}
}

// Run renders channel and items as an RSS 2.0 document. Items are ordered
// newest first (ties keep their input order) and cut to the generator limit.
func (g *Generator) Run(channel Channel, items []Item) (string, error) {
	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<rss version="2.0"`)
	buf.WriteString("\n" + `  xmlns:content="http://purl.org/rss/1.0/modules/content/"`)
	buf.WriteString("\n" + `  xmlns:dc="http://purl.org/dc/elements/1.1/"`)
	buf.WriteString("\n" + `  xmlns:media="http://search.yahoo.com/mrss/"`)
	buf.WriteString("\n" + `  xmlns:atom="http://www.w3.org/2005/Atom">`)
	buf.WriteString("\n  <channel>\n")

	g.writeElement(&buf, "title", channel.Title, 4)
	g.writeElement(&buf, "link", channel.Link, 4)
	g.writeElement(&buf, "description", channel.Description, 4)
	g.writeElement(&buf, "language", channel.Language, 4)
	g.writeElement(&buf, "generator", channel.Generator, 4)

	if channel.SelfLink != "" {
		buf.WriteString(fmt.Sprintf("    <atom:link href=\"%s\" rel=\"self\" type=\"application/rss+xml\"/>\n",
			escape(channel.SelfLink)))
	}

	g.writeElement(&buf, "lastBuildDate", FormatDate(channel.BuildDate), 4)

	for _, item := range g.Select(items) {
		g.writeItem(&buf, item)
	}

	buf.WriteString("  </channel>\n</rss>\n")

	return buf.String(), nil
}

// Limit is the most items a document holds.
func (g *Generator) Limit() int {
	return g.maxItems
}

// Select returns the items that make it into the document, newest first.
func (g *Generator) Select(items []Item) []Item {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b Item) int {
		return b.PublishedAt.Compare(a.PublishedAt)
	})

	if len(sorted) > g.maxItems {
		sorted = sorted[:g.maxItems]
	}
	return sorted
}

func (g *Generator) writeItem(buf *bytes.Buffer, item Item) {
	buf.WriteString("    <item>\n")

	g.writeElement(buf, "title", item.Title, 6)
	g.writeElement(buf, "link", item.Link, 6)

	if item.GUID != "" {
		buf.WriteString("      <guid isPermaLink=\"true\">")
		xml.EscapeText(buf, []byte(item.GUID))
		buf.WriteString("</guid>\n")
	}

	g.writeElement(buf, "pubDate", FormatDate(item.PublishedAt), 6)
	g.writeElement(buf, "description", item.Description, 6)

	if item.ContentHTML != "" {
		buf.WriteString("      <content:encoded><![CDATA[")
		buf.WriteString(strings.ReplaceAll(item.ContentHTML, "]]>", "]]]]><![CDATA[>"))
		buf.WriteString("]]></content:encoded>\n")
	}

	for _, category := range item.Categories {
		g.writeElement(buf, "category", category, 6)
	}

	if item.ThumbnailURL != "" {
		url := escape(item.ThumbnailURL)
		buf.WriteString(fmt.Sprintf("      <media:content url=\"%s\" type=\"%s\" medium=\"image\"/>\n", url, thumbnailType))
		buf.WriteString(fmt.Sprintf("      <media:thumbnail url=\"%s\"/>\n", url))
	}

	// Audio size is not probed; RSS requires the attribute, so it is always 0.
	if item.EnclosureURL != "" {
		buf.WriteString(fmt.Sprintf("      <enclosure url=\"%s\" type=\"%s\" length=\"0\"/>\n",
			escape(item.EnclosureURL), enclosureType))
	}

	buf.WriteString("    </item>\n")
}

func (g *Generator) writeElement(buf *bytes.Buffer, tag, content string, indent int) {
	if content == "" {
		return
	}

	for i := 0; i < indent; i++ {
		buf.WriteByte(' ')
	}

	buf.WriteString("<")
	buf.WriteString(tag)
	buf.WriteString(">")
	xml.EscapeText(buf, []byte(content))
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteString(">\n")
}

// FormatDate renders t in RFC 822 style, always in UTC.
func FormatDate(t time.Time) string {
	return t.UTC().Format(time.RFC1123Z)
}

func escape(s string) string {
	var sb strings.Builder
	xml.EscapeText(&sb, []byte(s))
	return sb.String()
}
