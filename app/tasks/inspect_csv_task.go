package tasks

import (
	"context"
	"log/slog"

	"github.com/realestodo/todo-feed/app/inspect"
	"github.com/realestodo/todo-feed/app/source"
)

type InspectCSVTask struct {
	Task
	analyzer *inspect.Analyzer
	printer  *inspect.Printer

	Report *inspect.Report
}

func NewInspectCSVTask(csvFile string, printer *inspect.Printer) *InspectCSVTask {
	return &InspectCSVTask{
		Task:     NewTask(TaskTypeInspectCSV, csvFile),
		analyzer: inspect.NewAnalyzer(),
		printer:  printer,
	}
}

func (t *InspectCSVTask) Execute(ctx context.Context) error {
	if err := checkContext(ctx); err != nil {
		return err
	}

	path, err := source.Resolve(t.Target)
	if err != nil {
		return err
	}

	report, err := t.analyzer.Run(path)
	if err != nil {
		return err
	}
	t.Report = report

	if err := t.printer.Report(report); err != nil {
		return err
	}

	slog.Debug("Task completed",
		"type", t.GetType(),
		"input", path,
		"duration", t.GetDuration(),
		"columns", len(report.Columns),
		"rows", report.TotalRows)

	return nil
}
