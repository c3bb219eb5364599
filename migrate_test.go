package scratches_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/scratches"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateSettings(t *testing.T) {
	t.Parallel()

	t.Run("inserts timestamp immediately after url", func(t *testing.T) {
		t.Parallel()

		out := scratches.MigrateSettings(map[string]any{
			"outputFormat": map[string]any{"includeTimestamp": true},
		})

		tmpl := out["outputFormat"].(map[string]any)["template"].(string)
		assert.Equal(t, "{formattedTitle}\n\n{url}\n{timestamp}\n\n---\n\n{content}", tmpl)
		assert.Equal(t, strings.Index(tmpl, "{url}")+len("{url}\n"), strings.Index(tmpl, "{timestamp}"))
	})

	t.Run("reads legacy flags at the top level", func(t *testing.T) {
		t.Parallel()

		out := scratches.MigrateSettings(map[string]any{
			"includeSource":    false,
			"includeSeparator": true,
		})

		tmpl := out["outputFormat"].(map[string]any)["template"].(string)
		assert.Equal(t, "{formattedTitle}\n\n---\n\n{content}", tmpl)
		assert.NotContains(t, out, "includeSource")
		assert.NotContains(t, out, "includeSeparator")
	})

	t.Run("timestamp without source keeps its line", func(t *testing.T) {
		t.Parallel()

		out := scratches.MigrateSettings(map[string]any{
			"outputFormat": map[string]any{"includeSource": false, "includeTimestamp": true},
		})

		tmpl := out["outputFormat"].(map[string]any)["template"].(string)
		assert.Equal(t, "{formattedTitle}\n\n{timestamp}\n\n---\n\n{content}", tmpl)
	})

	t.Run("keeps an existing template and drops stale flags", func(t *testing.T) {
		t.Parallel()

		out := scratches.MigrateSettings(map[string]any{
			"outputFormat": map[string]any{
				"template":      "{content}",
				"includeSource": false,
			},
		})

		of := out["outputFormat"].(map[string]any)
		assert.Equal(t, "{content}", of["template"])
		assert.NotContains(t, of, "includeSource")
	})

	t.Run("defaults title format to h1", func(t *testing.T) {
		t.Parallel()

		out := scratches.MigrateSettings(map[string]any{})

		assert.Equal(t, "h1", out["outputFormat"].(map[string]any)["titleFormat"])
	})

	t.Run("does not modify its input", func(t *testing.T) {
		t.Parallel()

		in := map[string]any{"outputFormat": map[string]any{"includeTimestamp": true}}
		scratches.MigrateSettings(in)

		assert.Equal(t, map[string]any{"outputFormat": map[string]any{"includeTimestamp": true}}, in)
	})

	t.Run("is idempotent and keeps sections", func(t *testing.T) {
		t.Parallel()

		inputs := []map[string]any{
			{},
			{"includeTimestamp": true},
			{"includeSource": false, "includeSeparator": false, "includeTimestamp": true},
			{"outputFormat": map[string]any{"template": "{title}", "titleFormat": "bold"}},
			{"outputFormat": "garbage"},
			{
				"contentExtraction": map[string]any{"strategy": "custom", "customSelectors": []any{"main"}},
				"advancedFiltering": map[string]any{"minContentLength": 10.0},
			},
		}

		for _, in := range inputs {
			once := scratches.MigrateSettings(in)
			twice := scratches.MigrateSettings(once)
			assert.Equal(t, once, twice)
			for k := range in {
				if k == "includeSource" || k == "includeSeparator" || k == "includeTimestamp" {
					continue
				}
				assert.Contains(t, once, k)
			}
		}
	})
}

func TestMergeSettings(t *testing.T) {
	t.Parallel()

	t.Run("empty stored equals defaults", func(t *testing.T) {
		t.Parallel()

		s, err := scratches.MergeSettings(scratches.DefaultSettings(), map[string]any{})

		require.NoError(t, err)
		assert.Equal(t, scratches.DefaultSettings(), s)
	})

	t.Run("arrays replace rather than concatenate", func(t *testing.T) {
		t.Parallel()

		s, err := scratches.MergeSettings(scratches.DefaultSettings(), map[string]any{
			"advancedFiltering": map[string]any{"customFilters": []any{".promo"}},
		})

		require.NoError(t, err)
		assert.Equal(t, []string{".promo"}, s.AdvancedFiltering.CustomFilters)
		assert.Equal(t, scratches.DefaultMinContentLength, s.AdvancedFiltering.MinContentLength)
	})

	t.Run("objects merge recursively", func(t *testing.T) {
		t.Parallel()

		s, err := scratches.MergeSettings(scratches.DefaultSettings(), map[string]any{
			"outputFormat": map[string]any{"defaultTag": "web"},
		})

		require.NoError(t, err)
		assert.Equal(t, "web", s.OutputFormat.DefaultTag)
		assert.Equal(t, scratches.DefaultTemplate, s.OutputFormat.Template)
		assert.Equal(t, scratches.TitleH1, s.OutputFormat.TitleFormat)
	})

	t.Run("scalar cannot replace a section", func(t *testing.T) {
		t.Parallel()

		s, err := scratches.MergeSettings(scratches.DefaultSettings(), map[string]any{
			"contentExtraction": "oops",
		})

		require.NoError(t, err)
		assert.Equal(t, scratches.DefaultSettings().ContentExtraction, s.ContentExtraction)
	})

	t.Run("wrong scalar type is invalid", func(t *testing.T) {
		t.Parallel()

		_, err := scratches.MergeSettings(scratches.DefaultSettings(), map[string]any{
			"advancedFiltering": map[string]any{"minContentLength": "lots"},
		})

		require.Error(t, err)
		assert.Equal(t, scratches.EINVALID, scratches.ErrorCode(err))
	})
}
