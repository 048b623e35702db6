package goquery_test

import (
	"testing"

	"github.com/mkowal/inkport"
	"github.com/mkowal/inkport/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func convert(t *testing.T, fragment string) []inkport.Block {
	t.Helper()
	blocks, err := goquery.NewConverter().Convert(fragment)
	require.NoError(t, err)
	return blocks
}

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	t.Run("classifies headings paragraphs and quotes", func(t *testing.T) {
		t.Parallel()

		blocks := convert(t, `<h2>Title</h2><p>Body.</p><blockquote>Said.</blockquote>`)

		require.Len(t, blocks, 3)
		assert.Equal(t, inkport.StyleH2, blocks[0].Style)
		assert.Equal(t, "Title", blocks[0].PlainText())
		assert.Equal(t, inkport.StyleNormal, blocks[1].Style)
		assert.Equal(t, inkport.StyleBlockquote, blocks[2].Style)
	})

	t.Run("never emits a text block with zero spans", func(t *testing.T) {
		t.Parallel()

		blocks := convert(t, `<p>   </p><p></p><div>real</div><h3> </h3>`)

		require.Len(t, blocks, 1)
		assert.Equal(t, "real", blocks[0].PlainText())
		for _, b := range blocks {
			assert.NotEmpty(t, b.Children)
		}
	})

	t.Run("flattens lists to one block per item", func(t *testing.T) {
		t.Parallel()

		blocks := convert(t, `<ul><li>one</li><li>two</li></ul><ol><li>first</li></ol>`)

		require.Len(t, blocks, 3)
		assert.Equal(t, inkport.ListBullet, blocks[0].ListItem)
		assert.Equal(t, inkport.ListBullet, blocks[1].ListItem)
		assert.Equal(t, inkport.ListNumber, blocks[2].ListItem)
		assert.Equal(t, "first", blocks[2].PlainText())
	})

	t.Run("converts images with src or data-src", func(t *testing.T) {
		t.Parallel()

		blocks := convert(t, `<img src="https://example.com/a.png" alt="A"><img data-src="https://example.com/b.png"><img>`)

		require.Len(t, blocks, 2)
		assert.Equal(t, "https://example.com/a.png", blocks[0].Asset.URL)
		assert.Equal(t, "A", blocks[0].Alt)
		assert.Equal(t, "https://example.com/b.png", blocks[1].Asset.URL)
	})

	t.Run("converts pre code with language sniffing", func(t *testing.T) {
		t.Parallel()

		blocks := convert(t, `<pre><code class="language-go">fmt.Println("hi")</code></pre><pre><code>plain</code></pre><pre><code>   </code></pre>`)

		require.Len(t, blocks, 2)
		assert.Equal(t, inkport.TypeCode, blocks[0].Type)
		assert.Equal(t, "go", blocks[0].Language)
		assert.Equal(t, `fmt.Println("hi")`, blocks[0].Code)
		assert.Equal(t, "text", blocks[1].Language)
	})

	t.Run("ignores unknown top-level tags", func(t *testing.T) {
		t.Parallel()

		blocks := convert(t, `<table><tr><td>cell</td></tr></table><p>kept</p>`)

		require.Len(t, blocks, 1)
		assert.Equal(t, "kept", blocks[0].PlainText())
	})

	t.Run("falls back to one inline run when no blocks are found", func(t *testing.T) {
		t.Parallel()

		blocks := convert(t, `just <strong>loose</strong> text`)

		require.Len(t, blocks, 1)
		assert.Equal(t, inkport.StyleNormal, blocks[0].Style)
		assert.Equal(t, "just loose text", blocks[0].PlainText())
	})

	t.Run("empty fragment yields no blocks", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, convert(t, ""))
		assert.Empty(t, convert(t, "  \n "))
	})
}

func TestConverter_InlineParsing(t *testing.T) {
	t.Parallel()

	t.Run("preserves spacing around inline links", func(t *testing.T) {
		t.Parallel()

		blocks := convert(t, `<p>Hello <a href="https://x.com">world</a>!</p>`)

		require.Len(t, blocks, 1)
		b := blocks[0]
		require.Len(t, b.Children, 3)
		assert.Equal(t, "Hello ", b.Children[0].Text)
		assert.Equal(t, "world", b.Children[1].Text)
		assert.Equal(t, "!", b.Children[2].Text)

		require.Len(t, b.MarkDefs, 1)
		assert.Equal(t, "link-0", b.MarkDefs[0].Key)
		assert.Equal(t, "https://x.com", b.MarkDefs[0].Href)
		assert.Equal(t, []string{"link-0"}, b.Children[1].Marks)
		assert.Empty(t, b.Children[0].Marks)
	})

	t.Run("nested tags accumulate marks", func(t *testing.T) {
		t.Parallel()

		blocks := convert(t, `<p><strong><em>both</em></strong> and <code>mono</code></p>`)

		require.Len(t, blocks, 1)
		b := blocks[0]
		require.Len(t, b.Children, 3)
		assert.Equal(t, []string{"strong", "em"}, b.Children[0].Marks)
		assert.Equal(t, " and ", b.Children[1].Text)
		assert.Equal(t, []string{"code"}, b.Children[2].Marks)
	})

	t.Run("link marks compose with inherited styles", func(t *testing.T) {
		t.Parallel()

		blocks := convert(t, `<p><strong>see <a href="https://x.com">this</a></strong></p>`)

		require.Len(t, blocks, 1)
		b := blocks[0]
		require.Len(t, b.Children, 2)
		assert.Equal(t, []string{"strong"}, b.Children[0].Marks)
		assert.Equal(t, []string{"strong", "link-0"}, b.Children[1].Marks)
	})

	t.Run("sole text child is fully trimmed", func(t *testing.T) {
		t.Parallel()

		blocks := convert(t, "<p>\n  padded  \n</p>")

		require.Len(t, blocks, 1)
		assert.Equal(t, "padded", blocks[0].PlainText())
	})

	t.Run("anchor without href is a plain container", func(t *testing.T) {
		t.Parallel()

		blocks := convert(t, `<p><a>no link</a></p>`)

		require.Len(t, blocks, 1)
		assert.Empty(t, blocks[0].MarkDefs)
		assert.Empty(t, blocks[0].Children[0].Marks)
		assert.Equal(t, "no link", blocks[0].PlainText())
	})

	t.Run("br emits a newline span", func(t *testing.T) {
		t.Parallel()

		blocks := convert(t, `<p>one<br>two</p>`)

		require.Len(t, blocks, 1)
		require.Len(t, blocks[0].Children, 3)
		assert.Equal(t, "\n", blocks[0].Children[1].Text)
		assert.Empty(t, blocks[0].Children[1].Marks)
	})

	t.Run("unrecognized inline elements are transparent", func(t *testing.T) {
		t.Parallel()

		blocks := convert(t, `<p><span>wrapped <u>text</u></span></p>`)

		require.Len(t, blocks, 1)
		assert.Equal(t, "wrapped text", blocks[0].PlainText())
	})

	t.Run("each block numbers its links from zero", func(t *testing.T) {
		t.Parallel()

		blocks := convert(t, `<p><a href="https://a.com">a</a></p><p><a href="https://b.com">b</a></p>`)

		require.Len(t, blocks, 2)
		assert.Equal(t, "link-0", blocks[0].MarkDefs[0].Key)
		assert.Equal(t, "link-0", blocks[1].MarkDefs[0].Key)
		assert.Equal(t, "https://b.com", blocks[1].MarkDefs[0].Href)
	})
}

func TestConverter_PlainTextMode(t *testing.T) {
	t.Parallel()

	conv := &goquery.Converter{PreserveFormatting: false}

	blocks, err := conv.Convert(`<h2>A <em>styled</em> heading</h2><p>body <strong>kept</strong></p>`)

	require.NoError(t, err)
	require.Len(t, blocks, 2)
	require.Len(t, blocks[0].Children, 1)
	assert.Equal(t, "A styled heading", blocks[0].Children[0].Text)
	assert.Empty(t, blocks[0].Children[0].Marks)
	// Paragraph formatting is unaffected by the flag.
	require.Len(t, blocks[1].Children, 2)
	assert.Equal(t, []string{"strong"}, blocks[1].Children[1].Marks)
}

// Rendering a converted document and re-parsing the rendered HTML must
// preserve block structure and plain text.
func TestConverter_RenderRoundTrip(t *testing.T) {
	t.Parallel()

	source := `<h2>A heading</h2>` +
		`<p>Hello <a href="https://x.com">world</a>!</p>` +
		`<ul><li>one</li><li>two</li></ul>` +
		`<blockquote>Someone said this.</blockquote>` +
		`<pre><code class="language-go">x := 1</code></pre>`

	first := convert(t, source)
	second := convert(t, inkport.RenderHTML(first))

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].Type, second[i].Type, "block %d type", i)
		assert.Equal(t, first[i].Style, second[i].Style, "block %d style", i)
		assert.Equal(t, first[i].ListItem, second[i].ListItem, "block %d list item", i)
		assert.Equal(t, first[i].PlainText(), second[i].PlainText(), "block %d text", i)
	}
}
