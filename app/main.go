package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/jessevdk/go-flags"
	"github.com/realestodo/todo-feed/app/cfg"
	"github.com/realestodo/todo-feed/app/config"
	"github.com/realestodo/todo-feed/app/inspect"
	"github.com/realestodo/todo-feed/app/tasks"
)

type application struct {
	ctx    context.Context
	opts   cfg.Options
	cfg    *cfg.Cfg
	loader *config.Loader
}

type generateCommand struct{ app *application }

type inspectCommand struct{ app *application }

type initCommand struct{ app *application }

type checkCommand struct{ app *application }

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &application{ctx: ctx}

	parser := flags.NewParser(&app.opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.SubcommandsOptional = true
	parser.CommandHandler = func(command flags.Commander, args []string) error {
		if err := app.setup(); err != nil {
			return err
		}
		return command.Execute(args)
	}

	parser.AddCommand("generate", "Generate the RSS feed (default)",
		"Builds the feed from the CSV export and writes it to the output file.", &generateCommand{app})
	parser.AddCommand("inspect", "Analyze the structure of a CSV export",
		"Prints columns, sample rows and per-column statistics of a CSV file (default: the configured input).", &inspectCommand{app})
	parser.AddCommand("init", "Write the settings file",
		"Creates the settings file with the current values. An existing file is never overwritten.", &initCommand{app})
	parser.AddCommand("check", "List the items of a generated feed",
		"Reads a generated feed (default: the configured output) and prints its items.", &checkCommand{app})

	_, err := parser.Parse()
	if err == nil && parser.Active == nil {
		if err = app.setup(); err == nil {
			err = app.generate()
		}
	}

	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) {
			if flagsErr.Type == flags.ErrHelp {
				fmt.Fprintln(os.Stdout, flagsErr.Message)
				return
			}
			fmt.Fprintln(os.Stderr, flagsErr.Message)
			os.Exit(2)
		}
		slog.Error("Run failed", "error", err)
		os.Exit(1)
	}
}

func (a *application) setup() error {
	slog.SetDefault(cfg.NewLogger(os.Stderr, a.opts.Debug))

	a.loader = config.NewLoader(a.opts.ConfigFile)
	settings, err := a.loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	a.cfg = cfg.Resolve(&a.opts, settings)
	slog.Debug("Configuration loaded",
		"version", a.cfg.Version,
		"csv", a.cfg.CSVFile,
		"output", a.cfg.OutputFile,
		"site_url", a.cfg.SiteURL)

	return nil
}

func (a *application) generate() error {
	task := tasks.NewGenerateFeedTask(a.cfg, time.Now())
	if err := tasks.Run(a.ctx, task); err != nil {
		return err
	}

	fmt.Printf("RSS feed generated successfully!\n")
	fmt.Printf("  Output file: %s\n", a.cfg.OutputFile)
	fmt.Printf("  Total items: %d\n", task.Stats.ItemsWritten)

	return a.bootstrap()
}

func (a *application) bootstrap() error {
	created, err := a.loader.Bootstrap(a.cfg.Settings())
	if err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if created {
		fmt.Printf("Configuration file created: %s\n", a.loader.Path())
		fmt.Println("Please edit the configuration with your actual values.")
	}
	return nil
}

func (a *application) printer() *inspect.Printer {
	return inspect.NewPrinter(os.Stdout, !color.NoColor)
}

func (c *generateCommand) Execute(args []string) error {
	return c.app.generate()
}

func (c *inspectCommand) Execute(args []string) error {
	csvFile := c.app.cfg.CSVFile
	if len(args) > 0 {
		csvFile = args[0]
	}
	return tasks.Run(c.app.ctx, tasks.NewInspectCSVTask(csvFile, c.app.printer()))
}

func (c *initCommand) Execute(args []string) error {
	created, err := c.app.loader.Bootstrap(c.app.cfg.Settings())
	if err != nil {
		return err
	}
	if !created {
		fmt.Printf("Configuration file already exists: %s\n", c.app.loader.Path())
		return nil
	}
	fmt.Printf("Configuration file created: %s\n", c.app.loader.Path())
	return nil
}

func (c *checkCommand) Execute(args []string) error {
	feedFile := c.app.cfg.OutputFile
	if len(args) > 0 {
		feedFile = args[0]
	}
	return tasks.Run(c.app.ctx, tasks.NewCheckFeedTask(feedFile, c.app.printer()))
}
