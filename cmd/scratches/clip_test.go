package main_test

import (
	"bytes"
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/scratches"
	"github.com/fwojciec/scratches/clip"
	main "github.com/fwojciec/scratches/cmd/scratches"
	"github.com/fwojciec/scratches/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNow() time.Time {
	return time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
}

func loadedDefaults() *mock.SettingsService {
	return &mock.SettingsService{
		LoadSettingsFn: func(_ context.Context) (*scratches.LoadedSettings, error) {
			return &scratches.LoadedSettings{Settings: scratches.DefaultSettings(), Source: scratches.SettingsFromDefaults}, nil
		},
	}
}

func newClipDeps(stdout, stderr *bytes.Buffer) *main.Dependencies {
	fetcher := &mock.Fetcher{
		FetchFn: func(_ context.Context, u string) (*scratches.Page, error) {
			if strings.Contains(u, "broken") {
				return nil, scratches.Errorf(scratches.EINVALID, "HTTP 404")
			}
			return &scratches.Page{URL: u, HTML: "<p>" + u + "</p>"}, nil
		},
	}
	extractor := &mock.Extractor{
		ExtractFn: func(req *scratches.ExtractRequest, _ scratches.Settings) *scratches.ExtractionResult {
			if req.Selection != "" {
				return &scratches.ExtractionResult{Title: req.URL, URL: req.URL, Body: req.Selection, Source: scratches.SourceSelection}
			}
			return &scratches.ExtractionResult{Title: "Page", URL: req.URL, Body: "body of " + req.URL, Source: scratches.SourcePage}
		},
	}
	return &main.Dependencies{
		Ctx:       context.Background(),
		Stdout:    stdout,
		Stderr:    stderr,
		Now:       fixedNow,
		Scheme:    "drafts",
		Settings:  loadedDefaults(),
		Extractor: extractor,
		Clipper: &clip.Clipper{
			Fetcher:     fetcher,
			Extractor:   extractor,
			RetryDelays: []time.Duration{},
		},
	}
}

func TestClipCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints documents in input order", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		deps := newClipDeps(stdout, stderr)
		cmd := &main.ClipCmd{URLs: []string{"https://a.example/1", "https://b.example/2"}}

		err := cmd.Run(deps)

		require.NoError(t, err)
		out := stdout.String()
		first := strings.Index(out, "body of https://a.example/1")
		second := strings.Index(out, "body of https://b.example/2")
		require.GreaterOrEqual(t, first, 0)
		assert.Greater(t, second, first)
		assert.Contains(t, stderr.String(), "2 clipped, 0 failed")
	})

	t.Run("failed fetch becomes an error document", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		deps := newClipDeps(stdout, stderr)
		cmd := &main.ClipCmd{URLs: []string{"https://broken.example/x"}}

		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), scratches.ExtractFailedPrefix)
		assert.Contains(t, stderr.String(), "0 clipped, 1 failed")
		assert.Contains(t, stderr.String(), "HTTP 404")
	})

	t.Run("selection skips fetching", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		deps := newClipDeps(stdout, stderr)
		deps.Clipper = nil
		cmd := &main.ClipCmd{URLs: []string{"https://a.example/1"}, Selection: "Just this bit"}

		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Just this bit")
	})

	t.Run("selection with several URLs is rejected", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		deps := newClipDeps(stdout, stderr)
		cmd := &main.ClipCmd{URLs: []string{"https://a.example/1", "https://a.example/2"}, Selection: "x"}

		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, scratches.EINVALID, scratches.ErrorCode(err))
		assert.Contains(t, stderr.String(), "error:")
	})

	t.Run("url-only prints the hand-off URL", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		deps := newClipDeps(stdout, stderr)
		cmd := &main.ClipCmd{URLs: []string{"https://a.example/1"}, URLOnly: true}

		err := cmd.Run(deps)

		require.NoError(t, err)
		line := strings.TrimSpace(stdout.String())
		require.True(t, strings.HasPrefix(line, "drafts://x-callback-url/create?text="), line)
		u, err := url.Parse(line)
		require.NoError(t, err)
		assert.Contains(t, u.Query().Get("text"), "body of https://a.example/1")
	})

	t.Run("open hands the URL to the opener", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		deps := newClipDeps(stdout, stderr)
		var opened string
		deps.Opener = &mock.Opener{
			OpenFn: func(_ context.Context, u string) error {
				opened = u
				return nil
			},
		}
		cmd := &main.ClipCmd{URLs: []string{"https://a.example/1"}, Open: true}

		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(opened, "drafts://x-callback-url/create?text="))
		assert.Contains(t, stdout.String(), "Sent to drafts")
	})

	t.Run("opener failure is reported", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		deps := newClipDeps(stdout, stderr)
		deps.Opener = &mock.Opener{
			OpenFn: func(_ context.Context, _ string) error {
				return errors.New("no handler for scheme")
			},
		}
		cmd := &main.ClipCmd{URLs: []string{"https://a.example/1"}, Open: true}

		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "could not open drafts app")
	})

	t.Run("returns error when settings cannot be loaded", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		deps := newClipDeps(stdout, stderr)
		deps.Settings = &mock.SettingsService{
			LoadSettingsFn: func(_ context.Context) (*scratches.LoadedSettings, error) {
				return nil, errors.New("disk on fire")
			},
		}
		cmd := &main.ClipCmd{URLs: []string{"https://a.example/1"}}

		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Empty(t, stdout.String())
	})
}
