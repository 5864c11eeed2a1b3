package feed

import (
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	nethtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	DescriptionLimit = 300
	ellipsis         = "..."
)

type ContentCleaner struct {
	textPolicy *bluemonday.Policy
}

func NewContentCleaner() *ContentCleaner {
	return &ContentCleaner{
		textPolicy: bluemonday.StrictPolicy(),
	}
}

// Clean removes script and style blocks from an HTML fragment. Markup without
// either element is returned untouched.
func (c *ContentCleaner) Clean(raw string) (string, error) {
	if raw == "" {
		return "", nil
	}

	lower := strings.ToLower(raw)
	if !strings.Contains(lower, "<script") && !strings.Contains(lower, "<style") {
		return raw, nil
	}

	// A template context keeps head-only elements and stray table rows
	// where the author put them.
	context := &nethtml.Node{Type: nethtml.ElementNode, Data: "template", DataAtom: atom.Template}
	nodes, err := nethtml.ParseFragment(strings.NewReader(raw), context)
	if err != nil {
		return "", fmt.Errorf("failed to parse content HTML: %w", err)
	}

	root := &nethtml.Node{Type: nethtml.ElementNode, Data: "div", DataAtom: atom.Div}
	for _, n := range nodes {
		root.AppendChild(n)
	}

	fragment := goquery.NewDocumentFromNode(root).Selection
	fragment.Find("script, style").Remove()

	cleaned, err := fragment.Html()
	if err != nil {
		return "", fmt.Errorf("failed to render content HTML: %w", err)
	}

	return cleaned, nil
}

// Text extracts whitespace-normalized plain text from HTML.
func (c *ContentCleaner) Text(raw string) string {
	if raw == "" {
		return ""
	}

	// StrictPolicy output is entity-escaped.
	text := html.UnescapeString(c.textPolicy.Sanitize(raw))
	return strings.Join(strings.Fields(text), " ")
}

// Truncate cuts s to limit characters and appends an ellipsis when it was
// longer.
func Truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}

	runes := []rune(s)
	return string(runes[:limit]) + ellipsis
}
