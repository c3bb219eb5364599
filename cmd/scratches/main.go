package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/scratches"
	"github.com/fwojciec/scratches/clip"
	"github.com/fwojciec/scratches/cloudsync"
	"github.com/fwojciec/scratches/gemini"
	"github.com/fwojciec/scratches/goquery"
	"github.com/fwojciec/scratches/htmltomarkdown"
	schttp "github.com/fwojciec/scratches/http"
	"github.com/fwojciec/scratches/readability"
	"github.com/fwojciec/scratches/rod"
	scslog "github.com/fwojciec/scratches/slog"
	"github.com/fwojciec/scratches/sqlite"
	"google.golang.org/genai"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// SQLite database used by the local settings store.
	DB *sqlite.DB

	// Stdin is read by commands that accept input from a pipe.
	Stdin io.Reader
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{Stdin: os.Stdin}
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
		Stdin:  m.Stdin,
		Now:    time.Now,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("scratches"),
		kong.Description("Clip readable web pages into your notes"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'scratches --help' to see available commands")
	}

	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	deps.Logger = logger
	deps.Scheme = cli.Scheme
	deps.Opener = NewExecOpener()

	dbPath := cli.DB
	if dbPath == "" {
		dbPath = defaultDBPath()
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}
	m.DB = sqlite.NewDB(dbPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set SCRATCHES_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", dbPath, err)
	}
	defer m.Close()

	local := sqlite.NewSettingsStore(m.DB, sqlite.DefaultProfile)
	svc := cloudsync.NewService(local, nil, local)
	svc.Logger = logger
	if cli.SyncURL != "" {
		svc.Cloud = schttp.NewSettingsClient(cli.SyncURL, schttp.WithToken(cli.SyncToken))
	}
	deps.Settings = scslog.NewLoggingSettingsService(svc, logger)

	switch command := strings.Fields(kongCtx.Command())[0]; command {
	case "clip":
		var fetcher scratches.Fetcher
		if cli.Clip.Browser {
			f, err := rod.NewFetcher(rod.WithTimeout(cli.Clip.Timeout))
			if err != nil {
				fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
				return fmt.Errorf("failed to start browser: %w", err)
			}
			fetcher = f
		} else {
			fetcher = schttp.NewFetcher(schttp.WithTimeout(cli.Clip.Timeout))
		}
		fetcher = scslog.NewLoggingFetcher(fetcher, logger)
		defer fetcher.Close()

		deps.Extractor = newExtractor(logger)
		deps.Clipper = &clip.Clipper{
			Fetcher:     fetcher,
			Extractor:   deps.Extractor,
			RateLimiter: clip.NewDomainLimiter(clip.DefaultRequestsPerSecond),
			Concurrency: cli.Clip.Concurrency,
			Logger:      logger,
		}

	case "extract":
		deps.Extractor = newExtractor(logger)

	case "suggest":
		if cli.GeminiAPIKey == "" {
			fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
			return fmt.Errorf("GEMINI_API_KEY not set. Get a key at https://aistudio.google.com/apikey")
		}
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cli.GeminiAPIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
			return fmt.Errorf("failed to connect to Gemini API: %w", err)
		}
		deps.Finder = scslog.NewLoggingSelectorFinder(newSelectorFinder(client, logger), logger)
	}

	return kongCtx.Run(deps)
}

// newExtractor builds the full extraction pipeline.
func newExtractor(logger *slog.Logger) scratches.Extractor {
	e := goquery.NewExtractor(
		goquery.WithConverter(htmltomarkdown.NewConverter()),
		goquery.WithTitleResolver(readability.NewTitleResolver()),
		goquery.WithLogger(logger),
	)
	return scslog.NewLoggingExtractor(e, logger)
}

// newSelectorFinder builds a finder that fetches pages over plain HTTP. The
// token counter is optional: without it prompts are only capped by length.
func newSelectorFinder(client *genai.Client, logger *slog.Logger) *gemini.SelectorFinder {
	opts := []gemini.Option{gemini.WithLogger(logger)}
	if tc, err := gemini.NewTokenCounter(gemini.DefaultModel); err != nil {
		logger.Warn("token counting unavailable", "model", gemini.DefaultModel, "err", err)
	} else {
		opts = append(opts, gemini.WithTokenCounter(tc))
	}
	return gemini.NewSelectorFinder(client, schttp.NewFetcher(), opts...)
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "scratches.db"
	}
	return filepath.Join(home, ".scratches", "scratches.db")
}
