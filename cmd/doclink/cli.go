package main

import (
	"context"
	"io"
	"time"

	"github.com/fwojciec/doclink"
	"github.com/fwojciec/doclink/pipeline"
	"github.com/fwojciec/doclink/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx          context.Context
	Stdout       io.Writer
	Stderr       io.Writer
	DB           *sqlite.DB
	Store        doclink.CacheStore
	Cache        doclink.LinkCache
	Ledger       *doclink.TokenLedger
	Pipeline     *pipeline.Pipeline
	TokenCounter doclink.TokenCounter
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Enable debug logging"`

	Link     LinkCmd     `cmd:"" help:"Parse documents and link prose to code"`
	Estimate EstimateCmd `cmd:"" help:"Project the token cost of linking documents"`
	Stats    StatsCmd    `cmd:"" help:"Show link cache statistics"`
	Purge    PurgeCmd    `cmd:"" help:"Remove expired link cache entries"`
}

// LinkCmd is the "link" subcommand.
type LinkCmd struct {
	Paths           []string      `arg:"" help:"Markdown files or directories to process"`
	Output          string        `short:"o" help:"Write linked trees as JSON to this file (default stdout)"`
	Model           string        `default:"gemini-2.5-flash" help:"Gemini model for reasoning calls"`
	Threshold       float64       `default:"0.8" help:"Minimum confidence for accepting a link"`
	BatchSize       int           `default:"5" help:"Sections per reasoning call"`
	Retries         int           `default:"3" help:"Retries per reasoning call"`
	Concurrency     int           `short:"c" default:"3" help:"Concurrent reasoning calls"`
	MaxSectionChars int           `default:"8000" help:"Maximum characters per section"`
	TTL             time.Duration `default:"24h" help:"Cache entry lifetime"`
	RPS             float64       `default:"1" help:"Reasoning calls per second"`
}

// EstimateCmd is the "estimate" subcommand.
type EstimateCmd struct {
	Paths           []string `arg:"" help:"Markdown files or directories to estimate"`
	Model           string   `default:"gemini-2.5-flash" help:"Model whose pricing to project"`
	MaxSectionChars int      `default:"8000" help:"Maximum characters per section"`
}

// StatsCmd is the "stats" subcommand.
type StatsCmd struct{}

// PurgeCmd is the "purge" subcommand.
type PurgeCmd struct{}
