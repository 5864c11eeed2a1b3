package config

import "github.com/realestodo/todo-feed/app/feed"

// Settings is the human-editable settings file.
type Settings struct {
	Feed     FeedInfo      `yaml:"feed"`
	Files    FileInfo      `yaml:"files"`
	Settings FeedSettings  `yaml:"settings"`
	Filters  []feed.Filter `yaml:"filters,omitempty"`
}

// FeedInfo contains channel metadata
type FeedInfo struct {
	SiteURL     string `yaml:"site_url"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Language    string `yaml:"language"`
}

type FileInfo struct {
	CSV    string `yaml:"csv"`
	Output string `yaml:"output"`
}

type FeedSettings struct {
	MaxItems int `yaml:"max_items"`
}
