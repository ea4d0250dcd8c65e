package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/gogibeta/pageharvest"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdout  io.Writer
	Stderr  io.Writer
	Logger  *slog.Logger
	Service pageharvest.Service
	Cache   pageharvest.Cache
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Site        string  `default:"https://www.scribd.com" env:"PAGEHARVEST_SITE" help:"Document-hosting site base URL"`
	ImageHost   string  `name:"image-host" default:"html.scribdassets.com" env:"PAGEHARVEST_IMAGE_HOST" help:"Image-hosting domain for constructed page URLs"`
	CacheURL    string  `name:"cache-url" env:"PAGEHARVEST_CACHE_URL" help:"Remote cache service base URL (enables result forwarding)"`
	RPS         float64 `default:"1" env:"PAGEHARVEST_RPS" help:"Extraction rate limit per second"`
	MaxSessions int64   `name:"max-sessions" default:"50" help:"Browser sessions before the engine is recycled"`
	Verbose     bool    `short:"v" help:"Enable debug logging"`

	Serve   ServeCmd   `cmd:"" help:"Run the extraction HTTP service"`
	Extract ExtractCmd `cmd:"" help:"Extract one document and print the result as JSON"`
	Batch   BatchCmd   `cmd:"" help:"Extract documents listed in a file, one URL per line"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Host string `default:"127.0.0.1" env:"PAGEHARVEST_HOST" help:"Address to bind to"`
	Port string `default:"8080" env:"PAGEHARVEST_PORT" help:"Port to listen on"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	URL  string `arg:"" help:"Document URL"`
	Save bool   `help:"Forward the result to the cache service"`
}

// BatchCmd is the "batch" subcommand.
type BatchCmd struct {
	File string `arg:"" type:"existingfile" help:"File with one document URL per line"`
	Save bool   `help:"Forward successful results to the cache service"`
}
