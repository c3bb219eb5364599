package goquery_test

import (
	"strings"
	"testing"

	gq "github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/scratches/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var defaultScoreOptions = goquery.ScoreOptions{MinContentLength: 150, MaxLinkRatio: 0.5}

func compile(t *testing.T, selectors ...string) []goquery.Filter {
	t.Helper()
	filters, _ := goquery.CompileFilters(selectors)
	return filters
}

func TestSelectMainContent(t *testing.T) {
	t.Parallel()

	t.Run("selects article with long paragraph", func(t *testing.T) {
		t.Parallel()

		doc := parseDoc(t, `<body><article><p>`+longParagraph+`</p></article></body>`)

		best := goquery.SelectMainContent(doc, compile(t, "article", "main"), defaultScoreOptions)

		require.NotNil(t, best)
		assert.Equal(t, "article", gq.NodeName(best.Selection))
		assert.Equal(t, "article", best.Selector)
		assert.Equal(t, len(longParagraph)+goquery.BonusArticleTag, best.Score)
	})

	t.Run("rejects text shorter than minimum", func(t *testing.T) {
		t.Parallel()

		doc := parseDoc(t, `<body><article><p>Too short.</p></article></body>`)

		assert.Nil(t, goquery.SelectMainContent(doc, compile(t, "article"), defaultScoreOptions))
	})

	t.Run("rejects link ratio at threshold", func(t *testing.T) {
		t.Parallel()

		half := strings.Repeat("a", 100)
		doc := parseDoc(t, `<body><div class="links">`+half+`<a href="/x">`+half+`</a></div></body>`)

		opts := goquery.ScoreOptions{MinContentLength: 10, MaxLinkRatio: 0.5}
		assert.Nil(t, goquery.SelectMainContent(doc, compile(t, ".links"), opts))

		opts.MaxLinkRatio = 0.51
		assert.NotNil(t, goquery.SelectMainContent(doc, compile(t, ".links"), opts))
	})

	t.Run("empty element has link ratio of one", func(t *testing.T) {
		t.Parallel()

		doc := parseDoc(t, `<body><main></main></body>`)

		opts := goquery.ScoreOptions{MinContentLength: 0, MaxLinkRatio: 1}
		assert.Nil(t, goquery.SelectMainContent(doc, compile(t, "main"), opts))
	})

	t.Run("first candidate wins ties", func(t *testing.T) {
		t.Parallel()

		doc := parseDoc(t, `<body>
			<div class="a" id="first"><p>`+longParagraph+`</p></div>
			<div class="a" id="second"><p>`+longParagraph+`</p></div>
		</body>`)

		best := goquery.SelectMainContent(doc, compile(t, "#second", ".a"), defaultScoreOptions)

		require.NotNil(t, best)
		id, _ := best.Selection.Attr("id")
		assert.Equal(t, "second", id, "selector order comes before document order")

		best = goquery.SelectMainContent(doc, compile(t, ".a"), defaultScoreOptions)
		require.NotNil(t, best)
		id, _ = best.Selection.Attr("id")
		assert.Equal(t, "first", id)
	})

	t.Run("bonuses and penalties decide between candidates", func(t *testing.T) {
		t.Parallel()

		longer := longParagraph + " " + longParagraph
		doc := parseDoc(t, `<body>
			<div class="site-header" id="chrome"><p>`+longer+`</p></div>
			<div role="main" id="main"><p>`+longParagraph+`</p></div>
		</body>`)

		best := goquery.SelectMainContent(doc, compile(t, "div"), defaultScoreOptions)

		require.NotNil(t, best)
		id, _ := best.Selection.Attr("id")
		assert.Equal(t, "main", id)
	})

	t.Run("skips malformed selectors", func(t *testing.T) {
		t.Parallel()

		doc := parseDoc(t, `<body><article><p>`+longParagraph+`</p></article></body>`)
		filters, invalid := goquery.CompileFilters([]string{":::bad", "article"})

		best := goquery.SelectMainContent(doc, filters, defaultScoreOptions)

		assert.Equal(t, []string{":::bad"}, invalid)
		require.NotNil(t, best)
	})

	t.Run("ignores script text", func(t *testing.T) {
		t.Parallel()

		doc := parseDoc(t, `<body><main><script>`+strings.Repeat("x", 500)+`</script><p>short</p></main></body>`)

		assert.Nil(t, goquery.SelectMainContent(doc, compile(t, "main"), defaultScoreOptions))
	})
}

func TestScoreElement(t *testing.T) {
	t.Parallel()

	opts := goquery.ScoreOptions{MinContentLength: 1, MaxLinkRatio: 1}
	text := strings.Repeat("b", 10)

	tests := []struct {
		name   string
		markup string
		want   int
	}{
		{"plain", `<div id="x">` + text + `</div>`, 10},
		{"article tag", `<article id="x">` + text + `</article>`, 10 + goquery.BonusArticleTag},
		{"role main", `<div id="x" role="main">` + text + `</div>`, 10 + goquery.BonusRoleMain},
		{"itemtype", `<div id="x" itemtype="https://schema.org/Article">` + text + `</div>`, 10 + goquery.BonusItemType},
		{"content class", `<div id="x" class="entry-body">` + text + `</div>`, 10 + goquery.BonusContentClass},
		{"nav class", `<div id="x" class="main-menu">` + text + `</div>`, 10 + goquery.PenaltyNavClass},
		{"counts characters not bytes", `<div id="x">` + strings.Repeat("é", 10) + `</div>`, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			score, ok := goquery.ScoreElement(findNode(t, tt.markup, "#x"), opts)

			require.True(t, ok)
			assert.Equal(t, tt.want, score)
		})
	}
}
