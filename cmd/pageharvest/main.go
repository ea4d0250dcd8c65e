package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/gogibeta/pageharvest"
	"github.com/gogibeta/pageharvest/extract"
	"github.com/gogibeta/pageharvest/gjson"
	"github.com/gogibeta/pageharvest/goquery"
	phhttp "github.com/gogibeta/pageharvest/http"
	"github.com/gogibeta/pageharvest/rod"
	phslog "github.com/gogibeta/pageharvest/slog"
	"golang.org/x/time/rate"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Browser backs all extractions. Set by Run, released by Close.
	Browser pageharvest.Browser
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.Browser != nil {
		return m.Browser.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("pageharvest"),
		kong.Description("Extracts page images from hosted documents."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'pageharvest --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	deps.Logger = logger

	// Every command drives the browser, so launch it up front.
	browser, err := rod.NewBrowser(rod.WithMaxSessions(cli.MaxSessions))
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
		return fmt.Errorf("failed to start browser: %w", err)
	}
	m.Browser = rod.NewLoggingBrowser(browser, logger)
	defer m.Close()

	deps.Service = buildService(m.Browser, cli, logger)
	if cli.CacheURL != "" {
		deps.Cache = phhttp.NewCacheClient(cli.CacheURL)
	}

	return kongCtx.Run(deps)
}

// buildService wires the extraction pipeline: every evidence channel
// registered, quick regexp channels re-run on each scroll cycle.
func buildService(browser pageharvest.Browser, cli *CLI, logger *slog.Logger) pageharvest.Service {
	registry := extract.NewRegistry()
	registry.RegisterQuick(extract.NewImageURLExtractor())
	registry.RegisterQuick(extract.NewScriptPairsExtractor())
	registry.RegisterQuick(extract.NewPageCountExtractor())
	registry.Register(goquery.NewDOMExtractor())
	registry.Register(gjson.NewStateExtractor())

	svc := &extract.Service{
		Browser:   browser,
		Navigator: extract.NewNavigator(cli.Site),
		Harvester: extract.NewHarvester(registry),
		ImageHost: cli.ImageHost,
		Limiter:   rate.NewLimiter(rate.Limit(cli.RPS), 1),
	}
	return phslog.NewLoggingService(svc, logger)
}
