package feed

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var dateLayouts = []string{
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999-0700",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02T15",
	"2006-01-02",
}

// Builder turns table rows into feed items. Rows without a usable date are
// stamped with the builder's run time.
type Builder struct {
	siteURL string
	now     time.Time
	cleaner *ContentCleaner
	lower   cases.Caser
}

func NewBuilder(siteURL string, now time.Time) *Builder {
	return &Builder{
		siteURL: strings.TrimSuffix(siteURL, "/"),
		now:     now.UTC(),
		cleaner: NewContentCleaner(),
		lower:   cases.Lower(language.Und),
	}
}

// Run builds the item for row. The boolean is false for drafts.
func (b *Builder) Run(row Row) (Item, bool) {
	if b.IsDraft(row) {
		return Item{}, false
	}

	link := b.link(row)
	item := Item{
		Title:        firstValue(row, titleFields, DefaultTitle),
		Link:         link,
		GUID:         link,
		PublishedAt:  b.publishedAt(row),
		Description:  b.description(row),
		ContentHTML:  b.contentHTML(row),
		Categories:   categories(row),
		ThumbnailURL: firstValue(row, imageFields, ""),
		EnclosureURL: value(row, FieldPodcast),
	}

	return item, true
}

func (b *Builder) IsDraft(row Row) bool {
	if flag, err := strconv.ParseBool(strings.TrimSpace(row[FieldDraft])); err == nil && flag {
		return true
	}

	status := b.lower.String(strings.TrimSpace(row[FieldStatus]))
	return draftStatuses[status]
}

func (b *Builder) link(row Row) string {
	slug := strings.TrimSpace(value(row, FieldSlug))
	if slug == "" {
		return b.siteURL
	}
	return b.siteURL + "/" + slug
}

func (b *Builder) publishedAt(row Row) time.Time {
	raw := firstValue(row, dateFields, "")
	if raw == "" {
		return b.now
	}

	parsed, err := ParseDate(raw)
	if err != nil {
		slog.Debug("Unparseable date, using run time", "value", raw, "error", err)
		return b.now
	}
	return parsed
}

func (b *Builder) description(row Row) string {
	if summary := value(row, FieldSummary); summary != "" {
		return summary
	}

	if content := firstValue(row, contentFields, ""); content != "" {
		if text := b.cleaner.Text(content); text != "" {
			return Truncate(text, DescriptionLimit)
		}
	}

	return firstValue(row, []string{FieldMeta}, DefaultDescription)
}

func (b *Builder) contentHTML(row Row) string {
	summary := value(row, FieldSummary)
	content := firstValue(row, contentFields, "")
	if summary == "" && content == "" {
		return ""
	}

	var sb strings.Builder
	if summary != "" {
		sb.WriteString("<h2>")
		sb.WriteString(summary)
		sb.WriteString("</h2>")
	}

	if content != "" {
		cleaned, err := b.cleaner.Clean(content)
		if err != nil {
			slog.Warn("Failed to clean content, keeping original", "error", err)
			cleaned = content
		}
		sb.WriteString(cleaned)
	}

	return sb.String()
}

func categories(row Row) []string {
	var result []string

	chapter := value(row, FieldChapter)
	if chapter != "" {
		result = append(result, chapter)
	}

	if book := value(row, FieldBook); book != "" && book != chapter {
		result = append(result, book)
	}

	return result
}

// ParseDate parses an ISO-8601 timestamp. A trailing Z is read as +00:00,
// timestamps without an offset are taken as UTC. The result is in UTC.
func ParseDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if strings.HasSuffix(s, "Z") || strings.HasSuffix(s, "z") {
		s = s[:len(s)-1] + "+00:00"
	}
	if len(s) > 10 && s[10] == ' ' {
		s = s[:10] + "T" + s[11:]
	}

	var err error
	for _, layout := range dateLayouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, err
}
