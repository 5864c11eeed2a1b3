package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/realestodo/todo-feed/app/feed"
	"github.com/realestodo/todo-feed/app/inspect"
)

// CheckFeedTask reads a generated feed back and lists its items.
type CheckFeedTask struct {
	Task
	parser  *feed.Parser
	printer *inspect.Printer

	Metadata *feed.Metadata
	Items    []feed.Item
}

func NewCheckFeedTask(feedFile string, printer *inspect.Printer) *CheckFeedTask {
	return &CheckFeedTask{
		Task:    NewTask(TaskTypeCheckFeed, feedFile),
		parser:  feed.NewParser(),
		printer: printer,
	}
}

func (t *CheckFeedTask) Execute(ctx context.Context) error {
	if err := checkContext(ctx); err != nil {
		return err
	}

	data, err := os.ReadFile(t.Target)
	if err != nil {
		return fmt.Errorf("failed to read feed: %w", err)
	}

	metadata, items, err := t.parser.Run(data)
	if err != nil {
		return err
	}
	t.Metadata = metadata
	t.Items = items

	t.printer.Heading(fmt.Sprintf("%s (%d items)", metadata.Title, len(items)))

	rows := make([][]string, 0, len(items))
	for _, item := range items {
		published := ""
		if !item.PublishedAt.IsZero() {
			published = item.PublishedAt.Format("2006-01-02 15:04")
		}
		rows = append(rows, []string{published, item.Title, item.Link})
	}
	if err := t.printer.Table([]string{"Published", "Title", "Link"}, rows); err != nil {
		return err
	}

	slog.Debug("Task completed",
		"type", t.GetType(),
		"feed", t.Target,
		"duration", t.GetDuration(),
		"items", len(items))

	return nil
}
