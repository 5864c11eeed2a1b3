package cfg

import "github.com/realestodo/todo-feed/app/feed"

type Cfg struct {
	// Channel
	SiteURL         string
	FeedTitle       string
	FeedDescription string
	Language        string

	// Files
	ConfigFile string
	CSVFile    string
	OutputFile string

	// Processing
	MaxItems int
	Filters  []feed.Filter

	// Application metadata
	Debug   bool
	Version string
}
