package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/scratches"
	"github.com/fwojciec/scratches/mock"
	scratchesslog "github.com/fwojciec/scratches/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, nil)), &buf
}

func TestLoggingFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("logs fetch with bytes and duration", func(t *testing.T) {
		t.Parallel()

		logger, buf := newLogger()
		inner := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (*scratches.Page, error) {
				return &scratches.Page{URL: url, HTML: "<html>content</html>"}, nil
			},
		}

		fetcher := scratchesslog.NewLoggingFetcher(inner, logger)
		page, err := fetcher.Fetch(context.Background(), "https://example.com/post")

		require.NoError(t, err)
		assert.Equal(t, "<html>content</html>", page.HTML)
		output := buf.String()
		assert.Contains(t, output, "msg=fetch")
		assert.Contains(t, output, "url=https://example.com/post")
		assert.Contains(t, output, "bytes=20")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		logger, buf := newLogger()
		inner := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (*scratches.Page, error) {
				return nil, errors.New("network error")
			},
		}

		fetcher := scratchesslog.NewLoggingFetcher(inner, logger)
		_, err := fetcher.Fetch(context.Background(), "https://example.com/post")

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "bytes=0")
		assert.Contains(t, output, "err=\"network error\"")
	})

	t.Run("delegates close", func(t *testing.T) {
		t.Parallel()

		logger, _ := newLogger()
		closed := false
		inner := &mock.Fetcher{
			CloseFn: func() error {
				closed = true
				return nil
			},
		}

		require.NoError(t, scratchesslog.NewLoggingFetcher(inner, logger).Close())
		assert.True(t, closed)
	})
}

func TestLoggingExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("logs source and size at info", func(t *testing.T) {
		t.Parallel()

		logger, buf := newLogger()
		inner := &mock.Extractor{
			ExtractFn: func(req *scratches.ExtractRequest, settings scratches.Settings) *scratches.ExtractionResult {
				return &scratches.ExtractionResult{URL: req.URL, Body: "héllo", Source: scratches.SourcePage}
			},
		}

		ext := scratchesslog.NewLoggingExtractor(inner, logger)
		result := ext.Extract(&scratches.ExtractRequest{URL: "https://example.com/a"}, scratches.DefaultSettings())

		assert.Equal(t, "héllo", result.Body)
		output := buf.String()
		assert.Contains(t, output, "level=INFO")
		assert.Contains(t, output, "msg=extract")
		assert.Contains(t, output, "source=page")
		assert.Contains(t, output, "strategy=default")
		assert.Contains(t, output, "chars=5")
	})

	t.Run("logs failed extractions at warn", func(t *testing.T) {
		t.Parallel()

		logger, buf := newLogger()
		inner := &mock.Extractor{
			ExtractFn: func(req *scratches.ExtractRequest, settings scratches.Settings) *scratches.ExtractionResult {
				return scratches.FailedResult(req, errors.New("boom"))
			},
		}

		ext := scratchesslog.NewLoggingExtractor(inner, logger)
		result := ext.Extract(&scratches.ExtractRequest{URL: "https://example.com/a"}, scratches.DefaultSettings())

		assert.Equal(t, scratches.SourceError, result.Source)
		assert.Contains(t, buf.String(), "level=WARN")
		assert.Contains(t, buf.String(), "source=error")
	})
}

func TestLoggingSettingsService(t *testing.T) {
	t.Parallel()

	t.Run("logs load source", func(t *testing.T) {
		t.Parallel()

		logger, buf := newLogger()
		inner := &mock.SettingsService{
			LoadSettingsFn: func(ctx context.Context) (*scratches.LoadedSettings, error) {
				return &scratches.LoadedSettings{Settings: scratches.DefaultSettings(), Source: scratches.SettingsFromLocal}, nil
			},
		}

		svc := scratchesslog.NewLoggingSettingsService(inner, logger)
		loaded, err := svc.LoadSettings(context.Background())

		require.NoError(t, err)
		assert.Equal(t, scratches.SettingsFromLocal, loaded.Source)
		assert.Contains(t, buf.String(), "msg=\"load settings\"")
		assert.Contains(t, buf.String(), "source=local")
	})

	t.Run("logs save outcome", func(t *testing.T) {
		t.Parallel()

		logger, buf := newLogger()
		inner := &mock.SettingsService{
			SaveSettingsFn: func(ctx context.Context, s scratches.Settings) (*scratches.SaveResult, error) {
				return &scratches.SaveResult{SavedToCloud: true}, nil
			},
		}

		svc := scratchesslog.NewLoggingSettingsService(inner, logger)
		_, err := svc.SaveSettings(context.Background(), scratches.DefaultSettings())

		require.NoError(t, err)
		assert.Contains(t, buf.String(), "msg=\"save settings\"")
		assert.Contains(t, buf.String(), "cloud=true")
	})

	t.Run("logs save errors", func(t *testing.T) {
		t.Parallel()

		logger, buf := newLogger()
		inner := &mock.SettingsService{
			SaveSettingsFn: func(ctx context.Context, s scratches.Settings) (*scratches.SaveResult, error) {
				return nil, scratches.Errorf(scratches.EINVALID, "bad ratio")
			},
		}

		svc := scratchesslog.NewLoggingSettingsService(inner, logger)
		_, err := svc.SaveSettings(context.Background(), scratches.DefaultSettings())

		require.Error(t, err)
		assert.Contains(t, buf.String(), "cloud=false")
		assert.Contains(t, buf.String(), "err=")
	})
}

func TestLoggingSelectorFinder_SuggestSelectors(t *testing.T) {
	t.Parallel()

	logger, buf := newLogger()
	inner := &mock.SelectorFinder{
		SuggestSelectorsFn: func(ctx context.Context, pageURL string) (*scratches.SelectorSuggestion, error) {
			return &scratches.SelectorSuggestion{ContentSelector: "article", ElementsToRemove: []string{".ad", ".share"}}, nil
		},
	}

	finder := scratchesslog.NewLoggingSelectorFinder(inner, logger)
	s, err := finder.SuggestSelectors(context.Background(), "https://example.com/a")

	require.NoError(t, err)
	assert.Equal(t, "article", s.ContentSelector)
	output := buf.String()
	assert.Contains(t, output, "msg=\"suggest selectors\"")
	assert.Contains(t, output, "content=article")
	assert.Contains(t, output, "removals=2")
}
