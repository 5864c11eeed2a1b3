package cfg

import (
	"cmp"
	"io"
	"log/slog"

	"github.com/realestodo/todo-feed/app/config"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

// Options are the global command-line options. Values left empty fall back
// to the settings file, then to built-in defaults.
type Options struct {
	// Files
	ConfigFile string `long:"config" short:"c" env:"FEED_CONFIG" default:"feed.yml" description:"Settings file (created on first run)"`
	CSVFile    string `long:"csv" short:"i" env:"CSV_FILE" description:"Input CSV export (default: Todo.csv)"`
	OutputFile string `long:"output" short:"o" env:"OUTPUT_FILE" description:"Output feed file (default: feed.xml)"`

	// Channel
	SiteURL         string `long:"site-url" description:"Public base URL of the site"`
	FeedTitle       string `long:"title" description:"Feed title"`
	FeedDescription string `long:"description" description:"Feed description"`

	Debug bool `long:"debug" description:"Enable debug logging"`
}

// Resolve merges options over settings.
func Resolve(opts *Options, settings *config.Settings) *Cfg {
	return &Cfg{
		SiteURL:         cmp.Or(opts.SiteURL, settings.Feed.SiteURL),
		FeedTitle:       cmp.Or(opts.FeedTitle, settings.Feed.Title),
		FeedDescription: cmp.Or(opts.FeedDescription, settings.Feed.Description),
		Language:        settings.Feed.Language,
		ConfigFile:      cmp.Or(opts.ConfigFile, config.DefaultPath),
		CSVFile:         cmp.Or(opts.CSVFile, settings.Files.CSV),
		OutputFile:      cmp.Or(opts.OutputFile, settings.Files.Output),
		MaxItems:        settings.Settings.MaxItems,
		Filters:         settings.Filters,
		Debug:           opts.Debug,
		Version:         GetVersion(),
	}
}

// Settings returns the effective values in settings file form.
func (c *Cfg) Settings() *config.Settings {
	s := &config.Settings{
		Feed: config.FeedInfo{
			SiteURL:     c.SiteURL,
			Title:       c.FeedTitle,
			Description: c.FeedDescription,
			Language:    c.Language,
		},
		Files: config.FileInfo{
			CSV:    c.CSVFile,
			Output: c.OutputFile,
		},
		Settings: config.FeedSettings{
			MaxItems: c.MaxItems,
		},
		Filters: c.Filters,
	}
	return s
}

func NewLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
