package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/scratches"
	"github.com/fwojciec/scratches/clip"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Stdin     io.Reader
	Logger    *slog.Logger
	Now       func() time.Time
	Scheme    string
	Settings  scratches.SettingsService
	Extractor scratches.Extractor
	Clipper   *clip.Clipper
	Finder    scratches.SelectorFinder
	Opener    scratches.Opener
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose      bool   `short:"v" help:"Log debug output to stderr"`
	DB           string `name:"db" env:"SCRATCHES_DB" help:"Settings database path (default: ~/.scratches/scratches.db)"`
	Scheme       string `env:"SCRATCHES_SCHEME" default:"drafts" help:"URL scheme of the note app"`
	SyncURL      string `name:"sync-url" env:"SCRATCHES_SYNC_URL" help:"Settings sync endpoint"`
	SyncToken    string `name:"sync-token" env:"SCRATCHES_SYNC_TOKEN" help:"Bearer token for the sync endpoint"`
	GeminiAPIKey string `name:"gemini-api-key" env:"GEMINI_API_KEY" help:"Gemini API key for selector suggestions"`

	Clip     ClipCmd     `cmd:"" help:"Clip one or more web pages"`
	Extract  ExtractCmd  `cmd:"" help:"Extract a document from saved HTML"`
	Settings SettingsCmd `cmd:"" help:"Show or change settings"`
	Suggest  SuggestCmd  `cmd:"" help:"Suggest content selectors for a site"`
}

// ClipCmd is the "clip" subcommand.
type ClipCmd struct {
	URLs        []string      `arg:"" name:"url" help:"Page URLs to clip"`
	Browser     bool          `short:"b" help:"Render pages in headless Chrome"`
	Selection   string        `short:"s" help:"Clip this text instead of the page content (single URL only)"`
	Title       string        `short:"t" help:"Title used with --selection"`
	Open        bool          `short:"o" help:"Send the document to the note app"`
	URLOnly     bool          `name:"url-only" help:"Print the hand-off URL instead of the document"`
	Concurrency int           `short:"c" default:"4" help:"Concurrent fetch limit"`
	Timeout     time.Duration `default:"10s" help:"Fetch timeout per page"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	File      string `arg:"" optional:"" help:"HTML file to read (default: stdin)"`
	URL       string `help:"Address of the page"`
	Title     string `help:"Title to use instead of the one in the markup"`
	Selection string `help:"Selected text; skips page extraction"`
	Plain     bool   `help:"Quick plain-text capture without scoring or markdown"`
	Budget    int    `default:"5000" help:"Character budget for --plain"`
}

// SettingsCmd groups the settings subcommands.
type SettingsCmd struct {
	Show      SettingsShowCmd   `cmd:"" default:"1" help:"Print the current settings"`
	Reset     SettingsResetCmd  `cmd:"" help:"Restore the default settings"`
	Import    SettingsImportCmd `cmd:"" help:"Import settings from a JSON file"`
	Preset    SettingsPresetCmd `cmd:"" help:"Use a built-in content selector preset"`
	Selectors SelectorListCmd   `cmd:"" help:"Edit content selectors"`
	Filters   FilterListCmd     `cmd:"" help:"Edit removal filters"`
}

// SettingsShowCmd is the "settings show" subcommand.
type SettingsShowCmd struct{}

// SettingsResetCmd is the "settings reset" subcommand.
type SettingsResetCmd struct {
	Force bool `help:"Confirm reset"`
}

// SettingsImportCmd is the "settings import" subcommand.
type SettingsImportCmd struct {
	File string `arg:"" help:"Settings JSON file, or - for stdin"`
}

// SettingsPresetCmd is the "settings preset" subcommand.
type SettingsPresetCmd struct {
	Name string `arg:"" optional:"" help:"Preset name; omit to list presets"`
}

// SelectorListCmd groups the content selector subcommands.
type SelectorListCmd struct {
	Add SelectorAddCmd    `cmd:"" help:"Add content selectors"`
	Rm  SelectorRemoveCmd `cmd:"" help:"Remove content selectors"`
}

// SelectorAddCmd is the "settings selectors add" subcommand.
type SelectorAddCmd struct {
	Selectors []string `arg:"" name:"selector" help:"CSS selectors"`
}

// SelectorRemoveCmd is the "settings selectors rm" subcommand.
type SelectorRemoveCmd struct {
	Selectors []string `arg:"" name:"selector" help:"CSS selectors"`
}

// FilterListCmd groups the removal filter subcommands.
type FilterListCmd struct {
	Add FilterAddCmd    `cmd:"" help:"Add removal filters"`
	Rm  FilterRemoveCmd `cmd:"" help:"Remove removal filters"`
}

// FilterAddCmd is the "settings filters add" subcommand.
type FilterAddCmd struct {
	Selectors []string `arg:"" name:"selector" help:"CSS selectors"`
}

// FilterRemoveCmd is the "settings filters rm" subcommand.
type FilterRemoveCmd struct {
	Selectors []string `arg:"" name:"selector" help:"CSS selectors"`
}

// SuggestCmd is the "suggest" subcommand.
type SuggestCmd struct {
	URL   string `arg:"" help:"Page URL to analyze"`
	Apply bool   `help:"Add the suggestion to the settings"`
}
