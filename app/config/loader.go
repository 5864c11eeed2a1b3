package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/realestodo/todo-feed/app/feed"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "feed.yml"

const header = `# RSS feed configuration
# Edit these values according to your needs

`

// Defaults returns the settings used when no settings file exists.
func Defaults() *Settings {
	s := &Settings{}
	setDefaults(s)
	return s
}

// Loader handles loading, validation and bootstrap of the settings file
type Loader struct {
	path string
}

func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

func (l *Loader) Path() string {
	return l.path
}

// Load reads the settings file. A missing file yields the defaults.
func (l *Loader) Load() (*Settings, error) {
	data, err := os.ReadFile(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("Settings file not found, using defaults", "path", l.path)
		return Defaults(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var settings Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	setDefaults(&settings)

	if err := validate(&settings); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", l.path, err)
	}

	slog.Debug("Settings loaded", "path", l.path, "site_url", settings.Feed.SiteURL, "filters", len(settings.Filters))
	return &settings, nil
}

// Bootstrap writes settings to the file unless it already exists. It reports
// whether the file was created.
func (l *Loader) Bootstrap(settings *Settings) (bool, error) {
	data, err := yaml.Marshal(settings)
	if err != nil {
		return false, fmt.Errorf("failed to encode YAML: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if errors.Is(err, fs.ErrExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to create %s: %w", l.path, err)
	}

	var buf bytes.Buffer
	buf.WriteString(header)
	buf.Write(data)

	if _, err := f.Write(buf.Bytes()); err != nil {
		f.Close()
		return false, fmt.Errorf("failed to write %s: %w", l.path, err)
	}
	if err := f.Close(); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", l.path, err)
	}

	return true, nil
}

func setDefaults(s *Settings) {
	if s.Feed.SiteURL == "" {
		s.Feed.SiteURL = "https://realestodo.com/todo"
	}
	if s.Feed.Title == "" {
		s.Feed.Title = "ATLAS DE TODO"
	}
	if s.Feed.Description == "" {
		s.Feed.Description = "Hackea el antropoceno; contempla el fin de los tiempos."
	}
	if s.Feed.Language == "" {
		s.Feed.Language = "es"
	}
	if s.Files.CSV == "" {
		s.Files.CSV = "Todo.csv"
	}
	if s.Files.Output == "" {
		s.Files.Output = "feed.xml"
	}
	if s.Settings.MaxItems == 0 {
		s.Settings.MaxItems = feed.DefaultMaxItems
	}
}

func validate(s *Settings) error {
	if s.Settings.MaxItems < 0 {
		return fmt.Errorf("max items must be non-negative")
	}

	for i, filter := range s.Filters {
		if !feed.FilterFields[filter.Field] {
			return fmt.Errorf("invalid filter field at index %d: %s", i, filter.Field)
		}
		if len(filter.Includes) == 0 && len(filter.Excludes) == 0 {
			return fmt.Errorf("filter at index %d must have at least one include or exclude rule", i)
		}
	}

	return nil
}
