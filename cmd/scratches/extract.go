package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fwojciec/scratches"
	"github.com/fwojciec/scratches/goquery"
)

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	html, err := readInput(deps, c.File)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", scratches.ErrorMessage(err))
		return err
	}

	loaded, err := deps.Settings.LoadSettings(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", scratches.ErrorMessage(err))
		return err
	}

	req := &scratches.ExtractRequest{
		URL:       c.URL,
		HTML:      string(html),
		Title:     c.Title,
		Selection: c.Selection,
	}

	var result *scratches.ExtractionResult
	if c.Plain {
		result = goquery.Capture(req, c.Budget)
	} else {
		result = deps.Extractor.Extract(req, loaded.Settings)
	}
	if result.Source == scratches.SourceError {
		fmt.Fprintf(deps.Stderr, "warning: %s\n", result.Body)
	}

	doc := scratches.DocumentFromResult(result)
	fmt.Fprintln(deps.Stdout, scratches.FormatDocument(loaded.Settings.OutputFormat, doc, deps.Now()))
	return nil
}

// readInput reads path, or stdin when path is empty or "-".
func readInput(deps *Dependencies, path string) ([]byte, error) {
	if path == "" || path == "-" {
		if deps.Stdin == nil {
			return nil, scratches.Errorf(scratches.EINVALID, "no input")
		}
		return io.ReadAll(deps.Stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}
