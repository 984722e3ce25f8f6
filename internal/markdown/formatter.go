// Package markdown converts the lightweight markdown produced by the
// model backend into HTML fragments safe to place in a chat bubble.
//
// The conversion is a fixed pipeline of pure string transforms applied
// left to right. Ordering is significant: escaping runs first and
// exactly once, structural transforms never re-enter spans produced by
// an earlier stage, and newline-to-<br> conversion is strictly last so
// that list and table grouping always operates on raw newlines.
package markdown

import (
	"regexp"
	"strings"
)

var (
	fencedRe     = regexp.MustCompile("(?s)```(.*?)```")
	inlineCodeRe = regexp.MustCompile("`([^`\n]+?)`")
	boldRe       = regexp.MustCompile(`\*\*(.*?)\*\*`)

	// Longest prefix first so ### is not consumed by the # rule.
	h5Re = regexp.MustCompile(`(?m)^### (.*)$`)
	h4Re = regexp.MustCompile(`(?m)^## (.*)$`)
	h3Re = regexp.MustCompile(`(?m)^# (.*)$`)

	orderedTriggerRe = regexp.MustCompile(`\d+\.\s`)
	orderedItemRe    = regexp.MustCompile(`^\d+\.\s+(.*)`)
	unorderedItemRe  = regexp.MustCompile(`^[-*•]\s+(.*)`)
)

// Format converts one raw chat reply into an HTML fragment. It has no
// side effects and never fails; malformed markdown degrades to
// partially formatted output. Re-running Format on its own output is
// not supported and may double-escape.
func Format(raw string) string {
	if raw == "" {
		return ""
	}

	s := escapeAngles(raw)
	s = convertFencedCode(s)
	s = convertInlineCode(s)
	s = convertBold(s)
	s = convertHeadings(s)
	s = convertOrderedLists(s)
	s = convertUnorderedLists(s)
	s = convertTables(s)

	// Line breaks last: the grouping stages above split on raw
	// newlines, never on the visual token.
	return strings.ReplaceAll(s, "\n", "<br>")
}

// escapeAngles neutralizes every literal angle bracket before any
// structural transform can introduce markup of its own.
func escapeAngles(s string) string {
	s = strings.ReplaceAll(s, "<", "&lt;")
	return strings.ReplaceAll(s, ">", "&gt;")
}

func convertFencedCode(s string) string {
	return fencedRe.ReplaceAllString(s, "<pre><code>$1</code></pre>")
}

// convertInlineCode rewrites single-backtick spans, skipping over text
// already converted to fenced blocks so their content stays opaque.
func convertInlineCode(s string) string {
	if !strings.Contains(s, "`") {
		return s
	}

	var b strings.Builder
	for len(s) > 0 {
		open := strings.Index(s, "<pre><code>")
		if open < 0 {
			b.WriteString(inlineCodeRe.ReplaceAllString(s, "<code>$1</code>"))
			break
		}
		b.WriteString(inlineCodeRe.ReplaceAllString(s[:open], "<code>$1</code>"))

		rest := s[open:]
		end := strings.Index(rest, "</code></pre>")
		if end < 0 {
			b.WriteString(rest)
			break
		}
		end += len("</code></pre>")
		b.WriteString(rest[:end])
		s = rest[end:]
	}
	return b.String()
}

func convertBold(s string) string {
	return boldRe.ReplaceAllString(s, "<strong>$1</strong>")
}

func convertHeadings(s string) string {
	s = h5Re.ReplaceAllString(s, "<h5>$1</h5>")
	s = h4Re.ReplaceAllString(s, "<h4>$1</h4>")
	return h3Re.ReplaceAllString(s, "<h3>$1</h3>")
}

// convertOrderedLists groups consecutive "1. item" lines into a single
// <ol> emitted as one output line. The wrapper closes on the first
// non-matching line, or at end of input if the run reaches it.
func convertOrderedLists(s string) string {
	if !orderedTriggerRe.MatchString(s) {
		return s
	}
	return groupLines(s, orderedItemRe, "<ol>", "</ol>")
}

// convertUnorderedLists does the same grouping for -, * and • bullets.
// It runs on the output of the ordered-list stage, splitting on the
// same raw newlines.
func convertUnorderedLists(s string) string {
	if !strings.Contains(s, "•") && !strings.Contains(s, "- ") && !strings.Contains(s, "* ") {
		return s
	}
	return groupLines(s, unorderedItemRe, "<ul>", "</ul>")
}

// groupLines rewrites runs of lines matching itemRe into a wrapped
// list. The marker prefix is stripped from each item's text.
func groupLines(s string, itemRe *regexp.Regexp, openTag, closeTag string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))

	var list strings.Builder
	inList := false

	flush := func() {
		if inList {
			list.WriteString(closeTag)
			out = append(out, list.String())
			list.Reset()
			inList = false
		}
	}

	for _, line := range lines {
		if m := itemRe.FindStringSubmatch(line); m != nil {
			if !inList {
				list.WriteString(openTag)
				inList = true
			}
			list.WriteString("<li>")
			list.WriteString(m[1])
			list.WriteString("</li>")
			continue
		}
		flush()
		out = append(out, line)
	}
	flush()

	return strings.Join(out, "\n")
}

// convertTables rewrites runs of pipe-delimited lines into a <table>.
// Only attempted when the text carries both a pipe and a "---"
// header separator. The first pipe line of a run becomes the header
// row, the separator line is consumed, and every following pipe line
// becomes a body row until a non-pipe line closes the table.
func convertTables(s string) string {
	if !strings.Contains(s, "|") || !strings.Contains(s, "---") {
		return s
	}

	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))

	var table strings.Builder
	inTable := false

	flush := func() {
		if inTable {
			table.WriteString("</table>")
			out = append(out, table.String())
			table.Reset()
			inTable = false
		}
	}

	for _, line := range lines {
		if !strings.Contains(line, "|") {
			flush()
			out = append(out, line)
			continue
		}

		if inTable && strings.Contains(line, "---") {
			// Header/body separator row, never rendered.
			continue
		}

		cell := "td"
		if !inTable {
			table.WriteString("<table>")
			inTable = true
			cell = "th"
		}

		table.WriteString("<tr>")
		for _, c := range splitCells(line) {
			table.WriteString("<" + cell + ">")
			table.WriteString(c)
			table.WriteString("</" + cell + ">")
		}
		table.WriteString("</tr>")
	}
	flush()

	return strings.Join(out, "\n")
}

// splitCells splits a table row on pipes, trims each cell, and drops
// the empty edge cells produced by leading or trailing pipes. Empty
// interior cells are kept.
func splitCells(line string) []string {
	parts := strings.Split(line, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) > 0 && parts[0] == "" {
		parts = parts[1:]
	}
	if len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return parts
}
