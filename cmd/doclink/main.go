package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/doclink"
	"github.com/fwojciec/doclink/cache"
	"github.com/fwojciec/doclink/gemini"
	"github.com/fwojciec/doclink/goldmark"
	"github.com/fwojciec/doclink/link"
	"github.com/fwojciec/doclink/pipeline"
	docslog "github.com/fwojciec/doclink/slog"
	"github.com/fwojciec/doclink/sqlite"
	"google.golang.org/genai"
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
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database backing the link cache.
	DB *sqlite.DB
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
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
		kong.Name("doclink"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'doclink --help' to see available commands")
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

	// Open database
	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set DOCLINK_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	deps.DB = m.DB
	deps.Store = sqlite.NewCacheStore(m.DB)
	deps.Cache = docslog.NewLoggingCache(cache.New(deps.Store, gemini.PromptSchemaVersion), logger)

	if cmd == "link" {
		cfg := doclink.Config{
			Model:               cli.Link.Model,
			ConfidenceThreshold: cli.Link.Threshold,
			BatchSize:           cli.Link.BatchSize,
			MaxRetries:          cli.Link.Retries,
			CacheTTL:            cli.Link.TTL,
			MaxSectionChars:     cli.Link.MaxSectionChars,
			Concurrency:         cli.Link.Concurrency,
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		apiKey := os.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
			return fmt.Errorf("GEMINI_API_KEY not set. Get a key at https://aistudio.google.com/apikey")
		}

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
			return fmt.Errorf("failed to connect to Gemini API: %w", err)
		}

		deps.Ledger = doclink.NewTokenLedger()
		deps.Pipeline = &pipeline.Pipeline{
			Parsers: map[doclink.Format]doclink.Parser{
				doclink.FormatMarkdown: goldmark.NewParser(),
			},
			Linker: &link.Linker{
				Reasoner:            docslog.NewLoggingReasoner(gemini.NewReasoner(client, cfg.Model), logger),
				Cache:               deps.Cache,
				Ledger:              deps.Ledger,
				Limiter:             link.NewLimiter(cli.Link.RPS),
				Model:               cfg.Model,
				SchemaVersion:       gemini.PromptSchemaVersion,
				BatchSize:           cfg.BatchSize,
				Concurrency:         cfg.Concurrency,
				ConfidenceThreshold: cfg.ConfidenceThreshold,
				CacheTTL:            cfg.CacheTTL,
				RetryDelays:         retryDelays(cfg.MaxRetries),
				Logger:              logger,
			},
			Ledger:          deps.Ledger,
			MaxSectionChars: cfg.MaxSectionChars,
			Logger:          logger,
		}
	}

	if cmd == "estimate" {
		counter, err := gemini.NewTokenCounter(tokenizerModel)
		if err != nil {
			return fmt.Errorf("failed to create token counter: %w", err)
		}
		deps.TokenCounter = counter
		deps.Pipeline = &pipeline.Pipeline{
			Parsers: map[doclink.Format]doclink.Parser{
				doclink.FormatMarkdown: goldmark.NewParser(),
			},
			MaxSectionChars: cli.Estimate.MaxSectionChars,
			Logger:          logger,
		}
	}

	return kongCtx.Run(deps)
}

// tokenizerModel is used for local token counting. The tokenizer module
// lags behind the newest generation models.
const tokenizerModel = "gemini-2.0-flash"

// retryDelays builds n exponential backoff delays starting at one second.
func retryDelays(n int) []time.Duration {
	delays := make([]time.Duration, 0, n)
	d := time.Second
	for i := 0; i < n; i++ {
		delays = append(delays, d)
		d *= 2
	}
	return delays
}

func defaultDBPath() string {
	if path := os.Getenv("DOCLINK_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "doclink.db"
	}
	dir := filepath.Join(home, ".doclink")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "doclink.db")
}
