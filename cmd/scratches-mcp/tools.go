package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fwojciec/scratches"
	"github.com/fwojciec/scratches/clip"
	"github.com/mark3labs/mcp-go/mcp"
)

// Tools holds the services behind the MCP tools.
type Tools struct {
	Settings scratches.SettingsService
	Clipper  *clip.Clipper
	Finder   scratches.SelectorFinder
	Now      func() time.Time

	// Scheme is the note app URL scheme. Defaults to scratches.DefaultScheme.
	Scheme string
}

// ClipURL handles the clip_url tool.
func (t *Tools) ClipURL(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rawURL, err := request.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError("url is required"), nil
	}

	loaded, err := t.Settings.LoadSettings(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load settings: %v", err)), nil
	}

	c := t.Clipper.Clip(ctx, rawURL, loaded.Settings)
	if c.Err != nil {
		return mcp.NewToolResultError(c.Result.Body), nil
	}

	text := scratches.FormatDocument(loaded.Settings.OutputFormat, c.Document(), t.Now())
	if request.GetBool("handoff_url", false) {
		text = scratches.HandoffURL(t.Scheme, text, loaded.Settings.OutputFormat.DefaultTag)
	}
	return mcp.NewToolResultText(text), nil
}

// SuggestSelectors handles the suggest_selectors tool. The result is the
// suggestion as JSON.
func (t *Tools) SuggestSelectors(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rawURL, err := request.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError("url is required"), nil
	}

	suggestion, err := t.Finder.SuggestSelectors(ctx, rawURL)
	if err != nil {
		return mcp.NewToolResultError(scratches.ErrorMessage(err)), nil
	}

	data, err := json.MarshalIndent(suggestion, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode suggestion: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
