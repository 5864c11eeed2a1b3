package feed

import (
	"encoding/xml"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
)

func testChannel() Channel {
	return Channel{
		Title:       "Test Feed",
		Link:        "https://example.com",
		Description: "Test Description",
		Language:    "es",
		Generator:   "todo-feed/test",
		SelfLink:    "https://example.com/feed.xml",
		BuildDate:   time.Date(2024, 2, 1, 9, 30, 0, 0, time.UTC),
	}
}

func TestGenerateRSS(t *testing.T) {
	generator := NewGenerator(DefaultMaxItems)

	published := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	items := []Item{
		{
			Title:        "Hola",
			Link:         "https://example.com/hola",
			GUID:         "https://example.com/hola",
			PublishedAt:  published,
			Description:  "intro",
			ContentHTML:  "<h2>intro</h2><p>Body</p>",
			Categories:   []string{"Capítulo 1", "Libro A"},
			ThumbnailURL: "https://example.com/cover.jpg",
			EnclosureURL: "https://example.com/episode.mp3",
		},
	}

	rss, err := generator.Run(testChannel(), items)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	expected := []string{
		`<?xml version="1.0" encoding="UTF-8"?>`,
		`<rss version="2.0"`,
		`xmlns:content="http://purl.org/rss/1.0/modules/content/"`,
		`xmlns:dc="http://purl.org/dc/elements/1.1/"`,
		`xmlns:media="http://search.yahoo.com/mrss/"`,
		`xmlns:atom="http://www.w3.org/2005/Atom"`,
		"<title>Test Feed</title>",
		"<link>https://example.com</link>",
		"<description>Test Description</description>",
		"<language>es</language>",
		"<generator>todo-feed/test</generator>",
		`<atom:link href="https://example.com/feed.xml" rel="self" type="application/rss+xml"/>`,
		"<lastBuildDate>Thu, 01 Feb 2024 09:30:00 +0000</lastBuildDate>",
		"<title>Hola</title>",
		"<link>https://example.com/hola</link>",
		`<guid isPermaLink="true">https://example.com/hola</guid>`,
		"<pubDate>Mon, 01 Jan 2024 00:00:00 +0000</pubDate>",
		"<description>intro</description>",
		"<content:encoded><![CDATA[<h2>intro</h2><p>Body</p>]]></content:encoded>",
		"<category>Capítulo 1</category>",
		"<category>Libro A</category>",
		`<media:content url="https://example.com/cover.jpg" type="image/jpeg" medium="image"/>`,
		`<media:thumbnail url="https://example.com/cover.jpg"/>`,
		`<enclosure url="https://example.com/episode.mp3" type="audio/mpeg" length="0"/>`,
		"</channel>",
		"</rss>",
	}

	for _, want := range expected {
		if !strings.Contains(rss, want) {
			t.Errorf("RSS should contain %q", want)
		}
	}
}

func TestGenerateItemElementOrder(t *testing.T) {
	generator := NewGenerator(DefaultMaxItems)

	items := []Item{{
		Title:        "Ordered",
		Link:         "https://example.com/ordered",
		GUID:         "https://example.com/ordered",
		PublishedAt:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Description:  "desc",
		ContentHTML:  "<p>x</p>",
		Categories:   []string{"A"},
		ThumbnailURL: "https://example.com/a.jpg",
		EnclosureURL: "https://example.com/a.mp3",
	}}

	rss, err := generator.Run(testChannel(), items)
	if err != nil {
		t.Fatal(err)
	}

	item := rss[strings.Index(rss, "<item>"):]
	order := []string{"<title>", "<link>", "<guid", "<pubDate>", "<description>",
		"<content:encoded>", "<category>", "<media:content", "<media:thumbnail", "<enclosure"}

	last := -1
	for _, tag := range order {
		idx := strings.Index(item, tag)
		if idx == -1 {
			t.Fatalf("Item should contain %s", tag)
		}
		if idx < last {
			t.Errorf("Element %s is out of order", tag)
		}
		last = idx
	}
}

func TestGenerateOmitsOptionalElements(t *testing.T) {
	generator := NewGenerator(DefaultMaxItems)

	items := []Item{{
		Title:       DefaultTitle,
		Link:        "https://example.com",
		GUID:        "https://example.com",
		PublishedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Description: DefaultDescription,
	}}

	rss, err := generator.Run(testChannel(), items)
	if err != nil {
		t.Fatal(err)
	}

	for _, unwanted := range []string{"<content:encoded>", "<category>", "<media:content", "<media:thumbnail", "<enclosure"} {
		if strings.Contains(rss, unwanted) {
			t.Errorf("RSS should not contain %s for an item without it", unwanted)
		}
	}
}

func TestGenerateWithSpecialCharacters(t *testing.T) {
	generator := NewGenerator(DefaultMaxItems)

	channel := testChannel()
	channel.Title = "Feed with <special> & \"characters\""

	items := []Item{
		{
			Title:        "Item with <tags> & \"quotes\" 'single'",
			Link:         "https://example.com/a?b=1&c=2",
			GUID:         "https://example.com/a?b=1&c=2",
			Description:  "Description with <em>emphasis</em>",
			ContentHTML:  "Content with <strong>bold</strong> & special chars: <>&\"'",
			Categories:   []string{"Category & Ampersand"},
			ThumbnailURL: "https://example.com/img.jpg?w=1&h=\"2\"",
		},
	}

	rss, err := generator.Run(channel, items)
	if err != nil {
		t.Fatalf("Expected no error with special characters, got: %v", err)
	}

	if !strings.Contains(rss, "Feed with &lt;special&gt; &amp; &#34;characters&#34;") {
		t.Error("Feed title should have escaped special characters")
	}

	if !strings.Contains(rss, "Item with &lt;tags&gt; &amp; &#34;quotes&#34; &#39;single&#39;") {
		t.Error("Item title should have escaped special characters")
	}

	if !strings.Contains(rss, "<link>https://example.com/a?b=1&amp;c=2</link>") {
		t.Error("Item link should have escaped ampersand")
	}

	if !strings.Contains(rss, `<media:thumbnail url="https://example.com/img.jpg?w=1&amp;h=&#34;2&#34;"/>`) {
		t.Error("Attribute values should be escaped")
	}

	if !strings.Contains(rss, "<content:encoded><![CDATA[Content with <strong>bold</strong> & special chars: <>&\"']]></content:encoded>") {
		t.Error("Item content should be in CDATA without escaping")
	}
}

func TestGenerateSplitsCDATATerminator(t *testing.T) {
	generator := NewGenerator(DefaultMaxItems)

	items := []Item{{
		Title:       "CDATA",
		Link:        "https://example.com/cdata",
		GUID:        "https://example.com/cdata",
		PublishedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Description: "desc",
		ContentHTML: "<p>a]]>b</p>",
	}}

	rss, err := generator.Run(testChannel(), items)
	if err != nil {
		t.Fatal(err)
	}

	var doc struct {
		Items []struct {
			Content string `xml:"http://purl.org/rss/1.0/modules/content/ encoded"`
		} `xml:"channel>item"`
	}
	if err := xml.Unmarshal([]byte(rss), &doc); err != nil {
		t.Fatalf("Generated feed should be well formed, got: %v", err)
	}
	if len(doc.Items) != 1 || doc.Items[0].Content != "<p>a]]>b</p>" {
		t.Errorf("Expected content to survive CDATA splitting, got %+v", doc.Items)
	}
}

func TestGenerateSortsNewestFirst(t *testing.T) {
	generator := NewGenerator(DefaultMaxItems)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	items := []Item{
		{Title: "oldest", PublishedAt: base},
		{Title: "newest", PublishedAt: base.Add(48 * time.Hour)},
		{Title: "tie-first", PublishedAt: base.Add(24 * time.Hour)},
		{Title: "tie-second", PublishedAt: base.Add(24 * time.Hour)},
	}

	selected := generator.Select(items)

	expected := []string{"newest", "tie-first", "tie-second", "oldest"}
	if len(selected) != len(expected) {
		t.Fatalf("Expected %d items, got %d", len(expected), len(selected))
	}
	for i, title := range expected {
		if selected[i].Title != title {
			t.Errorf("Position %d: expected '%s', got '%s'", i, title, selected[i].Title)
		}
	}

	if items[0].Title != "oldest" {
		t.Error("Select should not reorder the input slice")
	}
}

func TestGenerateLimitsItems(t *testing.T) {
	generator := NewGenerator(DefaultMaxItems)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	items := make([]Item, 0, 75)
	for i := 0; i < 75; i++ {
		items = append(items, Item{
			Title:       fmt.Sprintf("Item %d", i),
			Link:        fmt.Sprintf("https://example.com/%d", i),
			GUID:        fmt.Sprintf("https://example.com/%d", i),
			PublishedAt: base.Add(time.Duration(i) * time.Hour),
			Description: "desc",
		})
	}

	rss, err := generator.Run(testChannel(), items)
	if err != nil {
		t.Fatal(err)
	}

	if count := strings.Count(rss, "<item>"); count != 50 {
		t.Errorf("Expected 50 items, got %d", count)
	}

	if !strings.Contains(rss, "<title>Item 74</title>") {
		t.Error("Newest item should be kept")
	}
	if strings.Contains(rss, "<title>Item 24</title>") {
		t.Error("Item 24 is older than the newest 50 and should be dropped")
	}
}

func TestGenerateCustomLimit(t *testing.T) {
	generator := NewGenerator(2)

	items := []Item{{Title: "a"}, {Title: "b"}, {Title: "c"}}
	if selected := generator.Select(items); len(selected) != 2 {
		t.Errorf("Expected 2 items, got %d", len(selected))
	}

	if generator.Limit() != 2 {
		t.Errorf("Expected limit 2, got %d", generator.Limit())
	}
	if NewGenerator(0).maxItems != DefaultMaxItems {
		t.Error("Non-positive limit should fall back to the default")
	}
}

func TestGenerateRoundTripWithGofeed(t *testing.T) {
	generator := NewGenerator(DefaultMaxItems)

	values := []string{
		"Plain title",
		"Ampersand & co",
		"<angle> brackets",
		`"double" and 'single' quotes`,
		"Ñandú, acentos: áéíóú",
	}

	items := make([]Item, 0, len(values))
	for i, v := range values {
		items = append(items, Item{
			Title:       v,
			Link:        fmt.Sprintf("https://example.com/%d?x=%s", i, v),
			GUID:        fmt.Sprintf("https://example.com/%d", i),
			PublishedAt: time.Date(2024, 1, 10-i, 0, 0, 0, 0, time.UTC),
			Description: v,
			Categories:  []string{v},
		})
	}

	rss, err := generator.Run(testChannel(), items)
	if err != nil {
		t.Fatal(err)
	}

	parsed, err := gofeed.NewParser().ParseString(rss)
	if err != nil {
		t.Fatalf("Generated feed should parse, got: %v", err)
	}

	if len(parsed.Items) != len(values) {
		t.Fatalf("Expected %d items, got %d", len(values), len(parsed.Items))
	}

	for i, v := range values {
		got := parsed.Items[i]
		if got.Title != v {
			t.Errorf("Title round trip: expected %q, got %q", v, got.Title)
		}
		if got.Description != v {
			t.Errorf("Description round trip: expected %q, got %q", v, got.Description)
		}
		if len(got.Categories) != 1 || got.Categories[0] != v {
			t.Errorf("Category round trip: expected [%q], got %v", v, got.Categories)
		}
	}
}

func TestFormatDate(t *testing.T) {
	offset := time.FixedZone("UTC-3", -3*60*60)
	got := FormatDate(time.Date(2024, 1, 1, 21, 0, 0, 0, offset))
	if got != "Tue, 02 Jan 2024 00:00:00 +0000" {
		t.Errorf("Expected date converted to UTC, got '%s'", got)
	}
}
