package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/realestodo/todo-feed/app/cfg"
	"github.com/realestodo/todo-feed/app/feed"
	"github.com/realestodo/todo-feed/app/source"
)

// GenerateStats summarizes one feed generation run.
type GenerateStats struct {
	InputFile     string
	RowsRead      int
	DraftsSkipped int
	ItemsFiltered int
	ItemsWritten  int
}

type GenerateFeedTask struct {
	Task
	cfg       *cfg.Cfg
	builder   ItemBuilder
	filterer  *feed.Filterer
	generator FeedRenderer
	now       time.Time

	Stats GenerateStats
}

func NewGenerateFeedTask(c *cfg.Cfg, now time.Time) *GenerateFeedTask {
	return &GenerateFeedTask{
		Task:      NewTask(TaskTypeGenerateFeed, c.OutputFile),
		cfg:       c,
		builder:   feed.NewBuilder(c.SiteURL, now),
		filterer:  feed.NewFilterer(c.Filters),
		generator: feed.NewGenerator(c.MaxItems),
		now:       now,
	}
}

func (t *GenerateFeedTask) Execute(ctx context.Context) error {
	if err := checkContext(ctx); err != nil {
		return err
	}

	inputFile, err := source.Resolve(t.cfg.CSVFile)
	if err != nil {
		return err
	}
	t.Stats.InputFile = inputFile

	table, err := source.ReadFile(inputFile)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	if err := checkContext(ctx); err != nil {
		return err
	}

	rows := table.Rows()
	t.Stats.RowsRead = len(rows)

	items := make([]feed.Item, 0, len(rows))
	for _, row := range rows {
		item, ok := t.builder.Run(feed.Row(row))
		if !ok {
			t.Stats.DraftsSkipped++
			continue
		}
		items = append(items, item)
	}

	kept := t.filterer.Run(items)
	t.Stats.ItemsFiltered = len(items) - len(kept)

	document, err := t.generator.Run(t.channel(), kept)
	if err != nil {
		return fmt.Errorf("failed to generate feed: %w", err)
	}
	t.Stats.ItemsWritten = min(len(kept), t.generator.Limit())

	if err := checkContext(ctx); err != nil {
		return err
	}

	if err := writeFile(t.cfg.OutputFile, []byte(document)); err != nil {
		return err
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"input", inputFile,
		"output", t.cfg.OutputFile,
		"duration", t.GetDuration(),
		"rows", t.Stats.RowsRead,
		"drafts", t.Stats.DraftsSkipped,
		"filtered", t.Stats.ItemsFiltered,
		"items", t.Stats.ItemsWritten)

	return nil
}

func (t *GenerateFeedTask) channel() feed.Channel {
	site := strings.TrimSuffix(t.cfg.SiteURL, "/")

	return feed.Channel{
		Title:       t.cfg.FeedTitle,
		Link:        site,
		Description: t.cfg.FeedDescription,
		Language:    t.cfg.Language,
		Generator:   fmt.Sprintf("todo-feed/%s", t.cfg.Version),
		SelfLink:    site + "/" + filepath.Base(t.cfg.OutputFile),
		BuildDate:   t.now,
	}
}

// writeFile replaces path with data in one step; on failure the previous
// file, if any, is left as it was.
func writeFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
