package inspect

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// Printer writes reports to a terminal.
type Printer struct {
	out     io.Writer
	heading *color.Color
}

func NewPrinter(out io.Writer, useColors bool) *Printer {
	heading := color.New(color.FgCyan, color.Bold)
	if useColors {
		heading.EnableColor()
	} else {
		heading.DisableColor()
	}
	return &Printer{out: out, heading: heading}
}

func (p *Printer) Heading(title string) {
	p.heading.Fprintln(p.out, title)
	fmt.Fprintln(p.out, strings.Repeat("-", 50))
}

func (p *Printer) Report(r *Report) error {
	p.heading.Fprintln(p.out, "CSV File Analysis")
	fmt.Fprintln(p.out, strings.Repeat("=", 50))
	fmt.Fprintf(p.out, "File: %s\n", r.Path)
	fmt.Fprintf(p.out, "File size: %d bytes (%.2f KB)\n\n", r.Size, float64(r.Size)/1024)

	p.Heading(fmt.Sprintf("First %d raw lines", len(r.RawLines)))
	for i, line := range r.RawLines {
		fmt.Fprintf(p.out, "Line %d: %s\n", i+1, line)
	}
	fmt.Fprintln(p.out)

	fmt.Fprintf(p.out, "Columns detected (%d): %s\n", len(r.Columns), strings.Join(r.Columns, ", "))
	fmt.Fprintf(p.out, "Total rows analyzed: %d\n\n", r.TotalRows)

	for i, fields := range r.Samples {
		p.Heading(fmt.Sprintf("Row %d", i+1))
		rows := make([][]string, 0, len(fields))
		for _, f := range fields {
			rows = append(rows, []string{f.Name, f.Value})
		}
		if err := p.Table([]string{"Column", "Value"}, rows); err != nil {
			return err
		}
		fmt.Fprintln(p.out)
	}

	p.Heading("Column Analysis")
	rows := make([][]string, 0, len(r.Stats))
	for _, s := range r.Stats {
		rows = append(rows, []string{
			s.Name,
			fmt.Sprintf("%d/%d", s.NonEmpty, r.StatsRows),
			strconv.Itoa(s.MaxLength),
			strings.Join(s.Samples, " | "),
		})
	}
	return p.Table([]string{"Column", "Non-empty", "Max length", "Samples"}, rows)
}

// Table renders rows as a borderless left-aligned table.
func (p *Printer) Table(headers []string, rows [][]string) error {
	table := tablewriter.NewTable(p.out,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoWrap: tw.WrapNone,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignLeft,
				},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoFormat: tw.On,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignLeft,
				},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{
					ShowHeader: tw.Off,
				},
			},
		}),
	)

	table.Header(headers)
	if err := table.Bulk(rows); err != nil {
		return fmt.Errorf("failed to build table: %w", err)
	}
	return table.Render()
}
