// Command scratches-mcp exposes clipping and selector suggestion as MCP
// tools over stdio.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fwojciec/scratches/clip"
	"github.com/fwojciec/scratches/cloudsync"
	"github.com/fwojciec/scratches/gemini"
	"github.com/fwojciec/scratches/goquery"
	"github.com/fwojciec/scratches/htmltomarkdown"
	schttp "github.com/fwojciec/scratches/http"
	"github.com/fwojciec/scratches/readability"
	scslog "github.com/fwojciec/scratches/slog"
	"github.com/fwojciec/scratches/sqlite"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"google.golang.org/genai"
)

// Version is reported to MCP clients.
const Version = "0.1.0"

func main() {
	if err := run(context.Background(), os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stderr io.Writer) error {
	// stdout carries the protocol, so logs go to stderr.
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	dbPath := os.Getenv("SCRATCHES_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		dbPath = filepath.Join(home, ".scratches", "scratches.db")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}
	db := sqlite.NewDB(dbPath)
	if err := db.Open(); err != nil {
		return fmt.Errorf("failed to open database at %q: %w", dbPath, err)
	}
	defer db.Close()

	local := sqlite.NewSettingsStore(db, sqlite.DefaultProfile)
	svc := cloudsync.NewService(local, nil, local)
	svc.Logger = logger
	if syncURL := os.Getenv("SCRATCHES_SYNC_URL"); syncURL != "" {
		svc.Cloud = schttp.NewSettingsClient(syncURL, schttp.WithToken(os.Getenv("SCRATCHES_SYNC_TOKEN")))
	}

	fetcher := scslog.NewLoggingFetcher(schttp.NewFetcher(), logger)
	defer fetcher.Close()

	extractor := scslog.NewLoggingExtractor(goquery.NewExtractor(
		goquery.WithConverter(htmltomarkdown.NewConverter()),
		goquery.WithTitleResolver(readability.NewTitleResolver()),
		goquery.WithLogger(logger),
	), logger)

	tools := &Tools{
		Settings: scslog.NewLoggingSettingsService(svc, logger),
		Clipper: &clip.Clipper{
			Fetcher:     fetcher,
			Extractor:   extractor,
			RateLimiter: clip.NewDomainLimiter(clip.DefaultRequestsPerSecond),
			Logger:      logger,
		},
		Now:    time.Now,
		Scheme: os.Getenv("SCRATCHES_SCHEME"),
	}

	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return fmt.Errorf("failed to connect to Gemini API: %w", err)
		}
		tools.Finder = scslog.NewLoggingSelectorFinder(
			gemini.NewSelectorFinder(client, fetcher, gemini.WithLogger(logger)), logger)
	}

	return server.ServeStdio(NewServer(tools))
}

// NewServer registers the tools backed by t. suggest_selectors is only
// registered when t has a Finder.
func NewServer(t *Tools) *server.MCPServer {
	s := server.NewMCPServer(
		"scratches",
		Version,
		server.WithToolCapabilities(false),
	)

	s.AddTool(mcp.NewTool("clip_url",
		mcp.WithDescription("Fetch a web page and return its main content as a markdown document, formatted with the user's clipping template."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The URL of the page to clip"),
		),
		mcp.WithBoolean("handoff_url",
			mcp.Description("Return the note app hand-off URL instead of the document"),
		),
	), t.ClipURL)

	if t.Finder != nil {
		s.AddTool(mcp.NewTool("suggest_selectors",
			mcp.WithDescription("Suggest a CSS content selector and removal selectors for a page, for use in the clipper's custom selector settings."),
			mcp.WithString("url",
				mcp.Required(),
				mcp.Description("The URL of a typical article on the site"),
			),
		), t.SuggestSelectors)
	}

	return s
}
