package feed

import (
	"time"
)

// Row is one record of the input table keyed by column name.
type Row map[string]string

type Item struct {
	Title        string
	Link         string
	GUID         string
	PublishedAt  time.Time
	Description  string
	ContentHTML  string   // Raw markup, written inside CDATA
	Categories   []string // At most two, no duplicates
	ThumbnailURL string
	EnclosureURL string
}

type Channel struct {
	Title       string
	Link        string
	Description string
	Language    string
	Generator   string
	SelfLink    string
	BuildDate   time.Time
}

// Metadata is what the parser reads back from a generated document.
type Metadata struct {
	Title       string
	Link        string
	Description string
	Language    string
	Generator   string
	BuildDate   *time.Time
}

type Filter struct {
	Field    string   `yaml:"field"`
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
}
