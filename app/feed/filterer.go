package feed

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

var FilterFields = map[string]bool{
	"title":       true,
	"description": true,
	"content":     true,
	"link":        true,
	"categories":  true,
}

// rule is a Filter with its keywords case-folded once.
type rule struct {
	field    string
	includes []string
	excludes []string
}

type Filterer struct {
	rules   []rule
	cleaner *ContentCleaner
}

func NewFilterer(filters []Filter) *Filterer {
	fold := cases.Fold()

	rules := make([]rule, 0, len(filters))
	for _, filter := range filters {
		r := rule{field: filter.Field}
		for _, keyword := range filter.Includes {
			r.includes = append(r.includes, fold.String(keyword))
		}
		for _, keyword := range filter.Excludes {
			r.excludes = append(r.excludes, fold.String(keyword))
		}
		rules = append(rules, r)
	}

	return &Filterer{rules: rules, cleaner: NewContentCleaner()}
}

// Run returns the items that pass every filter, in their original order.
func (f *Filterer) Run(items []Item) []Item {
	if len(f.rules) == 0 {
		return items
	}

	kept := make([]Item, 0, len(items))
	for _, item := range items {
		if reason := f.rejects(item); reason != "" {
			slog.Debug("Item filtered out", "title", item.Title, "reason", reason)
			continue
		}
		kept = append(kept, item)
	}

	return kept
}

// rejects names the first rule the item fails, or returns "" when it passes.
func (f *Filterer) rejects(item Item) string {
	for _, r := range f.rules {
		values := f.values(item, r.field)

		if keyword, ok := r.firstMatch(values, r.excludes); ok {
			return fmt.Sprintf("%s matches excluded '%s'", r.field, keyword)
		}
		if len(r.includes) > 0 {
			if _, ok := r.firstMatch(values, r.includes); !ok {
				return fmt.Sprintf("%s matches none of %v", r.field, r.includes)
			}
		}
	}

	return ""
}

// values returns the case-folded strings a rule on field is checked against.
// Content is checked as plain text so markup never matches a keyword.
func (f *Filterer) values(item Item, field string) []string {
	var raw []string
	switch field {
	case "title":
		raw = []string{item.Title}
	case "description":
		raw = []string{item.Description}
	case "content":
		raw = []string{f.cleaner.Text(item.ContentHTML)}
	case "link":
		raw = []string{item.Link}
	case "categories":
		raw = item.Categories
	}

	fold := cases.Fold()
	values := make([]string, 0, len(raw))
	for _, v := range raw {
		values = append(values, fold.String(v))
	}
	return values
}

// firstMatch reports the first keyword found in values. Categories must match
// a whole category name; every other field matches on substrings.
func (r rule) firstMatch(values, keywords []string) (string, bool) {
	for _, keyword := range keywords {
		if r.field == "categories" {
			if slices.Contains(values, keyword) {
				return keyword, true
			}
			continue
		}
		for _, v := range values {
			if strings.Contains(v, keyword) {
				return keyword, true
			}
		}
	}
	return "", false
}
