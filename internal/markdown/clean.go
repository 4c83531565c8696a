package markdown

import (
	"regexp"
	"strings"
)

var (
	commentPattern  = regexp.MustCompile(`(?s)<!--.*?-->`)
	interiorSpaces  = regexp.MustCompile(`[ \t]{2,}|\t`)
	leadingIndentRe = regexp.MustCompile(`^[ \t]*`)
)

// StripComments removes HTML comments, including the chunk anchors the
// extraction API embeds in its markdown.
func StripComments(s string) string {
	return commentPattern.ReplaceAllString(s, "")
}

// CollapseWhitespace collapses runs of spaces and tabs inside a line,
// trims trailing space, limits blank runs to one empty line and trims
// the result. Leading indentation is kept since markdown depends on it.
// Lines inside fenced code blocks are left as they are.
func CollapseWhitespace(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(s, "\n")
	out := lines[:0]
	inFence := false
	blanks := 0
	for _, line := range lines {
		if isFence(line) {
			inFence = !inFence
			blanks = 0
			out = append(out, strings.TrimRight(line, " \t"))
			continue
		}
		if inFence {
			out = append(out, line)
			continue
		}
		indent := leadingIndentRe.FindString(line)
		line = strings.TrimRight(indent+interiorSpaces.ReplaceAllString(line[len(indent):], " "), " \t")
		if line == "" {
			blanks++
			if blanks > 1 {
				continue
			}
		} else {
			blanks = 0
		}
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// isFence reports whether line opens or closes a fenced code block.
func isFence(line string) bool {
	line = strings.TrimSpace(line)
	return strings.HasPrefix(line, "```") || strings.HasPrefix(line, "~~~")
}

// Normalize strips comments, converts HTML tables and collapses whitespace.
// On markdown without tables or comments it equals CollapseWhitespace and is
// idempotent.
func Normalize(s string) string {
	return CollapseWhitespace(ConvertTables(StripComments(s)))
}
