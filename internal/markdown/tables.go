package markdown

import (
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"golang.org/x/net/html"
)

var (
	// Non-greedy: the first </table> closes the match, so nested tables
	// are left partially converted.
	tablePattern = regexp.MustCompile(`(?is)<table\b[^>]*>.*?</table>`)
	rowPattern   = regexp.MustCompile(`(?is)<tr\b[^>]*>(.*?)</tr>`)
	cellPattern  = regexp.MustCompile(`(?is)<(?:th|td)\b[^>]*>(.*?)</(?:th|td)>`)
	tagPattern   = regexp.MustCompile(`(?s)<[^>]*>`)
	spacePattern = regexp.MustCompile(`\s+`)
)

// ConvertTables replaces every HTML table with a GFM markdown table.
// The first row becomes the header. Tables without any parsable row are
// left untouched.
func ConvertTables(s string) string {
	if !strings.Contains(strings.ToLower(s), "<table") {
		return s
	}
	return tablePattern.ReplaceAllStringFunc(s, func(table string) string {
		rows := parseRows(table)
		if len(rows) == 0 {
			return table
		}
		return "\n\n" + formatTable(rows) + "\n\n"
	})
}

func parseRows(table string) [][]string {
	var rows [][]string
	for _, rm := range rowPattern.FindAllStringSubmatch(table, -1) {
		var cells []string
		for _, cm := range cellPattern.FindAllStringSubmatch(rm[1], -1) {
			cells = append(cells, cellText(cm[1]))
		}
		if len(cells) > 0 {
			rows = append(rows, cells)
		}
	}
	return rows
}

// cellText converts the inline HTML of one cell to single-line markdown.
func cellText(inner string) string {
	text := strings.TrimSpace(inner)
	if text == "" {
		return ""
	}

	converted := ""
	if doc, err := html.Parse(strings.NewReader(text)); err == nil {
		if md, err := htmltomarkdown.ConvertNode(doc); err == nil {
			converted = string(md)
		}
	}
	if converted == "" {
		converted = html.UnescapeString(tagPattern.ReplaceAllString(text, " "))
	}

	converted = spacePattern.ReplaceAllString(converted, " ")
	return escapePipes(strings.TrimSpace(converted))
}

func escapePipes(s string) string {
	if !strings.Contains(s, "|") {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '|' && (i == 0 || s[i-1] != '\\') {
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func formatTable(rows [][]string) string {
	width := 0
	for _, r := range rows {
		if len(r) > width {
			width = len(r)
		}
	}

	var b strings.Builder
	writeRow := func(cells []string) {
		b.WriteString("|")
		for i := 0; i < width; i++ {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			b.WriteString(" ")
			b.WriteString(cell)
			b.WriteString(" |")
		}
		b.WriteString("\n")
	}

	writeRow(rows[0])
	b.WriteString("|")
	for i := 0; i < width; i++ {
		b.WriteString(" --- |")
	}
	b.WriteString("\n")
	for _, r := range rows[1:] {
		writeRow(r)
	}
	return strings.TrimSuffix(b.String(), "\n")
}
