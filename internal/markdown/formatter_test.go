package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatEmpty(t *testing.T) {
	assert.Equal(t, "", Format(""))
}

func TestFormatPlainTextPassthrough(t *testing.T) {
	assert.Equal(t, "just a sentence", Format("just a sentence"))
	assert.Equal(t, "line one<br>line two", Format("line one\nline two"))
}

func TestFormatEscapesAngleBrackets(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"script tag", "<script>alert(1)</script>"},
		{"angle in prose", "a < b and b > c"},
		{"angle inside bold", "**<b>bold</b>**"},
		{"angle inside code", "`x < 1`"},
		{"angle inside fence", "```\nif x < 1 {\n}\n```"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Format(tt.input)
			// Strip everything the formatter introduced; no raw angle
			// bracket from the input may survive.
			for _, tag := range []string{
				"<pre>", "</pre>", "<code>", "</code>", "<strong>", "</strong>",
				"<h3>", "</h3>", "<h4>", "</h4>", "<h5>", "</h5>",
				"<ol>", "</ol>", "<ul>", "</ul>", "<li>", "</li>",
				"<table>", "</table>", "<tr>", "</tr>", "<th>", "</th>",
				"<td>", "</td>", "<br>",
			} {
				got = strings.ReplaceAll(got, tag, "")
			}
			assert.NotContains(t, got, "<")
			assert.NotContains(t, got, ">")
		})
	}
}

func TestFormatBold(t *testing.T) {
	got := Format("**bold**")
	assert.Equal(t, "<strong>bold</strong>", got)
	assert.NotContains(t, got, "*")
}

func TestFormatBoldNonGreedy(t *testing.T) {
	assert.Equal(t, "<strong>a</strong> and <strong>b</strong>", Format("**a** and **b**"))
}

func TestFormatInlineCode(t *testing.T) {
	got := Format("run `make build` now")
	assert.Equal(t, "run <code>make build</code> now", got)
	assert.NotContains(t, got, "`")
}

func TestFormatFencedCode(t *testing.T) {
	got := Format("```\nfoo\nbar\n```")
	assert.Contains(t, got, "<pre><code>")
	assert.Contains(t, got, "</code></pre>")
	assert.NotContains(t, got, "```")
}

func TestFormatMultipleFences(t *testing.T) {
	got := Format("```a``` mid ```b```")
	assert.Equal(t, "<pre><code>a</code></pre> mid <pre><code>b</code></pre>", got)
}

func TestFormatInlineCodeSkipsFencedOutput(t *testing.T) {
	// The backtick inside the fence must stay literal; only the span
	// outside is an inline code candidate.
	got := Format("```echo `date` ``` and `x`")
	require.Contains(t, got, "<pre><code>echo `date` </code></pre>")
	assert.Contains(t, got, "<code>x</code>")
}

func TestFormatHeadings(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"# Title", "<h3>Title</h3>"},
		{"## Section", "<h4>Section</h4>"},
		{"### Sub", "<h5>Sub</h5>"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Format(tt.input))
	}
}

func TestFormatHeadingLongestPrefixFirst(t *testing.T) {
	got := Format("### deep\n# top")
	assert.Contains(t, got, "<h5>deep</h5>")
	assert.Contains(t, got, "<h3>top</h3>")
	assert.NotContains(t, got, "<h3>## deep</h3>")
}

func TestFormatOrderedList(t *testing.T) {
	got := Format("1. a\n2. b")
	assert.Equal(t, "<ol><li>a</li><li>b</li></ol>", got)
}

func TestFormatOrderedListClosesAtEnd(t *testing.T) {
	// Unterminated run at end of input still yields a closed wrapper.
	got := Format("intro\n1. only item")
	assert.Equal(t, "intro<br><ol><li>only item</li></ol>", got)
	assert.Equal(t, strings.Count(got, "<ol>"), strings.Count(got, "</ol>"))
}

func TestFormatUnorderedListWithTrailingText(t *testing.T) {
	got := Format("- a\n- b\nc")
	assert.Equal(t, "<ul><li>a</li><li>b</li></ul><br>c", got)
}

func TestFormatBulletVariants(t *testing.T) {
	for _, input := range []string{"- x\n- y", "* x\n* y", "• x\n• y"} {
		got := Format(input)
		assert.Equal(t, "<ul><li>x</li><li>y</li></ul>", got, "input %q", input)
	}
}

func TestFormatBoldInsideListItem(t *testing.T) {
	got := Format("- **hot** item")
	assert.Equal(t, "<ul><li><strong>hot</strong> item</li></ul>", got)
}

func TestFormatTable(t *testing.T) {
	got := Format("h1|h2\n---|---\nv1|v2")
	assert.Equal(t,
		"<table><tr><th>h1</th><th>h2</th></tr><tr><td>v1</td><td>v2</td></tr></table>",
		got)
	// Separator row must not surface as a rendered row.
	assert.NotContains(t, got, "---")
}

func TestFormatTableEdgePipes(t *testing.T) {
	got := Format("| h1 | h2 |\n|---|---|\n| v1 | v2 |")
	assert.Contains(t, got, "<th>h1</th><th>h2</th>")
	assert.Contains(t, got, "<td>v1</td><td>v2</td>")
}

func TestFormatTableClosedByPlainLine(t *testing.T) {
	got := Format("a|b\n---|---\nc|d\ntail")
	require.True(t, strings.HasSuffix(got, "</table><br>tail"), "got %q", got)
}

func TestFormatInlineCodeInsideTableCell(t *testing.T) {
	got := Format("name|cmd\n---|---\nbuild|`make`")
	assert.Contains(t, got, "<td><code>make</code></td>")
}

func TestFormatLineBreaksLast(t *testing.T) {
	// Grouping operates on raw newlines; no <br> may appear inside a
	// list wrapper.
	got := Format("1. a\n2. b\ndone")
	assert.Equal(t, "<ol><li>a</li><li>b</li></ol><br>done", got)
}

func TestFormatNotIdempotent(t *testing.T) {
	// Re-running the formatter on its own output is out of contract:
	// the second pass double-escapes the markup of the first.
	once := Format("**b**")
	twice := Format(once)
	assert.NotEqual(t, once, twice)
	assert.Contains(t, twice, "&lt;")
}

func TestFormatWhitespaceOnly(t *testing.T) {
	assert.Equal(t, "   ", Format("   "))
}
