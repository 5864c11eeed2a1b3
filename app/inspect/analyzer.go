package inspect

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/realestodo/todo-feed/app/feed"
	"github.com/realestodo/todo-feed/app/source"
)

const (
	rawLineCount   = 3
	rawLineWidth   = 200
	sampleRowCount = 3
	rowScanLimit   = 1001
	statsRowLimit  = 100
	valueWidth     = 100
	columnSamples  = 2
)

type Report struct {
	Path      string
	Size      int64
	RawLines  []string
	Columns   []string
	TotalRows int
	Samples   [][]Field
	Stats     []ColumnStats
	StatsRows int
}

type Field struct {
	Name  string
	Value string
}

type ColumnStats struct {
	Name      string
	NonEmpty  int
	MaxLength int
	Samples   []string
}

type Analyzer struct{}

func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Run analyzes the structure of the CSV file at path.
func (a *Analyzer) Run(path string) (*Report, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	report := &Report{Path: path, Size: info.Size(), StatsRows: statsRowLimit}

	report.RawLines, err = readRawLines(path, rawLineCount)
	if err != nil {
		return nil, err
	}

	r, err := source.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	table, err := source.Read(r, rowScanLimit)
	if err != nil {
		return nil, err
	}

	report.Columns = table.Header
	report.TotalRows = len(table.Records)

	for _, record := range table.Records[:min(sampleRowCount, len(table.Records))] {
		var fields []Field
		for i, name := range table.Header {
			if i >= len(record) {
				break
			}
			fields = append(fields, Field{Name: name, Value: feed.Truncate(record[i], valueWidth)})
		}
		report.Samples = append(report.Samples, fields)
	}

	report.Stats = columnStats(table, statsRowLimit)

	return report, nil
}

func readRawLines(path string, n int) ([]string, error) {
	r, err := source.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var lines []string
	br := bufio.NewReader(r)
	for len(lines) < n {
		line, err := br.ReadString('\n')
		if line != "" {
			lines = append(lines, feed.Truncate(strings.TrimRight(line, "\r\n"), rawLineWidth))
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	}

	return lines, nil
}

func columnStats(table *source.Table, limit int) []ColumnStats {
	rows := table.Rows()
	rows = rows[:min(limit, len(rows))]

	seen := make(map[string]bool, len(table.Header))
	var stats []ColumnStats
	for _, name := range table.Header {
		if seen[name] {
			continue
		}
		seen[name] = true

		s := ColumnStats{Name: name}
		for _, row := range rows {
			v := row[name]
			if v == "" {
				continue
			}
			s.NonEmpty++
			s.MaxLength = max(s.MaxLength, utf8.RuneCountInString(v))
			if len(s.Samples) < columnSamples {
				s.Samples = append(s.Samples, feed.Truncate(v, valueWidth))
			}
		}
		stats = append(stats, s)
	}

	return stats
}
