// Command selectorfinder serves selector suggestions over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/scratches"
	"github.com/fwojciec/scratches/gemini"
	scgin "github.com/fwojciec/scratches/gin"
	schttp "github.com/fwojciec/scratches/http"
	"github.com/fwojciec/scratches/rod"
	scslog "github.com/fwojciec/scratches/slog"
	"google.golang.org/genai"
)

// ShutdownTimeout is how long in-flight requests get to finish.
const ShutdownTimeout = 5 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := NewMain().Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Config is the server configuration, read from flags and the environment.
type Config struct {
	Addr              string        `env:"SCRATCHES_ADDR" default:"127.0.0.1:8787" help:"Listen address"`
	GeminiAPIKey      string        `name:"gemini-api-key" env:"GEMINI_API_KEY" help:"Gemini API key"`
	Model             string        `env:"SCRATCHES_MODEL" default:"gemini-2.5-flash" help:"Gemini model"`
	APIKeys           []string      `name:"api-key" env:"SCRATCHES_API_KEYS" help:"Accepted client API keys; none disables auth"`
	RequestsPerSecond float64       `name:"rps" env:"SCRATCHES_RPS" default:"1" help:"Requests per second per client; 0 disables limiting"`
	Burst             int           `env:"SCRATCHES_BURST" default:"5" help:"Rate limit burst"`
	Browser           bool          `help:"Render pages in headless Chrome"`
	FetchTimeout      time.Duration `default:"15s" help:"Page fetch timeout"`
	NoTokenCount      bool          `help:"Cap prompts by length only, without loading the tokenizer"`
	Mode              string        `env:"GIN_MODE" default:"release" enum:"debug,release,test" help:"Router mode"`
	Verbose           bool          `short:"v" help:"Log debug output"`
}

// Main represents the program.
type Main struct {
	// Listening is called with the server address once it accepts requests.
	Listening func(addr string)
}

// NewMain returns a new instance of Main.
func NewMain() *Main {
	return &Main{}
}

// Run starts the server and blocks until ctx is canceled.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var cfg Config
	parser, err := kong.New(&cfg,
		kong.Name("selectorfinder"),
		kong.Description("Suggest content selectors for web pages over HTTP"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}
	if _, err := parser.Parse(args); err != nil {
		return err
	}
	if cfg.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY not set. Get a key at https://aistudio.google.com/apikey")
	}

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(stderr, &slog.HandlerOptions{Level: level}))

	var fetcher scratches.Fetcher
	if cfg.Browser {
		f, err := rod.NewFetcher(rod.WithTimeout(cfg.FetchTimeout))
		if err != nil {
			return fmt.Errorf("failed to start browser: %w", err)
		}
		fetcher = f
	} else {
		fetcher = schttp.NewFetcher(schttp.WithTimeout(cfg.FetchTimeout))
	}
	fetcher = scslog.NewLoggingFetcher(fetcher, logger)
	defer fetcher.Close()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to Gemini API: %w", err)
	}

	opts := []gemini.Option{gemini.WithModel(cfg.Model), gemini.WithLogger(logger)}
	if !cfg.NoTokenCount {
		if tc, err := gemini.NewTokenCounter(cfg.Model); err != nil {
			logger.Warn("token counting unavailable", "model", cfg.Model, "err", err)
		} else {
			opts = append(opts, gemini.WithTokenCounter(tc))
		}
	}
	finder := scslog.NewLoggingSelectorFinder(gemini.NewSelectorFinder(client, fetcher, opts...), logger)

	router := scgin.NewRouter(finder, scgin.Config{
		Mode:              cfg.Mode,
		APIKeys:           cfg.APIKeys,
		RequestsPerSecond: cfg.RequestsPerSecond,
		Burst:             cfg.Burst,
		Logger:            logger,
	})

	return serve(ctx, cfg.Addr, router, logger, m.Listening)
}

// serve runs handler on addr until ctx is canceled, then shuts down
// gracefully.
func serve(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger, listening func(string)) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "addr", addr)
		if listening != nil {
			listening(addr)
		}
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	return nil
}
