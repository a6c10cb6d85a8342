package ocr

import (
	"regexp"
	"strings"
)

var (
	lineBreaks  = strings.NewReplacer("\r\n", "\n", "\r", "\n", "\t", " ")
	reSpaceRuns = regexp.MustCompile(` {2,}`)
)

// Normalize tidies recognizer output line by line. Runs of spaces collapse,
// ruled lines ("-----", "____") are blanked and at most one blank line is
// kept in a row. Line breaks survive since address and block parsing use them.
func Normalize(s string) string {
	if s == "" {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	blank := 0
	for _, line := range strings.Split(lineBreaks.Replace(s), "\n") {
		line = strings.TrimRight(reSpaceRuns.ReplaceAllString(line, " "), " ")
		if isRule(line) {
			line = ""
		}
		if line == "" {
			if blank++; blank > 1 {
				continue
			}
		} else {
			blank = 0
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return strings.TrimSpace(b.String())
}

// isRule reports table borders drawn with dashes or underscores.
func isRule(line string) bool {
	t := strings.TrimSpace(line)
	return len(t) >= 3 && strings.Trim(t, "_-") == ""
}
