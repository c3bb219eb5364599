package main_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwojciec/scratches"
	main "github.com/fwojciec/scratches/cmd/scratches"
	"github.com/fwojciec/scratches/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("passes the file and flags to the extractor", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "page.html")
		require.NoError(t, os.WriteFile(path, []byte("<p>hello</p>"), 0o644))

		deps, stdout, _, _ := settingsDeps(scratches.DefaultSettings(), false)
		deps.Now = fixedNow
		var got *scratches.ExtractRequest
		deps.Extractor = &mock.Extractor{
			ExtractFn: func(req *scratches.ExtractRequest, _ scratches.Settings) *scratches.ExtractionResult {
				got = req
				return &scratches.ExtractionResult{Title: "Given", URL: req.URL, Body: "hello", Source: scratches.SourcePage}
			},
		}

		err := (&main.ExtractCmd{File: path, URL: "https://example.com/p", Title: "Given"}).Run(deps)

		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "<p>hello</p>", got.HTML)
		assert.Equal(t, "Given", got.Title)
		assert.Equal(t, "# Given\n\nhttps://example.com/p\n\n---\n\nhello\n", stdout.String())
	})

	t.Run("plain capture skips the extractor", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _, _ := settingsDeps(scratches.DefaultSettings(), false)
		deps.Now = fixedNow
		deps.Stdin = strings.NewReader(`<html><body><main><p>Quick text</p></main></body></html>`)

		err := (&main.ExtractCmd{Plain: true, Budget: 5000, URL: "https://example.com/q"}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Quick text")
	})

	t.Run("extraction failure is a warning", func(t *testing.T) {
		t.Parallel()

		deps, stdout, stderr, _ := settingsDeps(scratches.DefaultSettings(), false)
		deps.Now = fixedNow
		deps.Stdin = strings.NewReader("<p>x</p>")
		deps.Extractor = &mock.Extractor{
			ExtractFn: func(req *scratches.ExtractRequest, _ scratches.Settings) *scratches.ExtractionResult {
				return &scratches.ExtractionResult{URL: req.URL, Body: scratches.ExtractFailedPrefix + "boom", Source: scratches.SourceError}
			},
		}

		err := (&main.ExtractCmd{URL: "https://example.com/x"}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stderr.String(), "warning: Content extraction failed: boom")
		assert.Contains(t, stdout.String(), "Content extraction failed: boom")
	})

	t.Run("missing file is an error", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr, _ := settingsDeps(scratches.DefaultSettings(), false)

		err := (&main.ExtractCmd{File: filepath.Join(t.TempDir(), "missing.html")}).Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "error:")
	})
}
