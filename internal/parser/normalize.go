package parser

import (
	"regexp"
	"strings"
)

var (
	reCRLF       = regexp.MustCompile(`\r\n?`)
	reMultiBlank = regexp.MustCompile(`\n{3,}`)
)

// fullwidth -> halfwidth for the characters the matchers care about:
// digits, colon, slash, space. Kanji and kana pass through untouched.
func foldWidth(r rune) rune {
	switch {
	case r >= '０' && r <= '９':
		return r - '０' + '0'
	case r == '：':
		return ':'
	case r == '／':
		return '/'
	case r == '　':
		return ' '
	}
	return r
}

// NormalizeText collapses noisy whitespace and folds fullwidth digits,
// colons, slashes and spaces to their halfwidth forms so a single set of
// matchers covers both writings. Conservative: keeps line breaks.
func NormalizeText(s string) string {
	if s == "" {
		return s
	}
	s = reCRLF.ReplaceAllString(s, "\n")
	s = strings.Map(foldWidth, s)
	s = reMultiBlank.ReplaceAllString(s, "\n\n")
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " \t")
	}
	return strings.Join(lines, "\n")
}

// lineBounds returns the start and end byte offsets of the line
// containing pos in s.
func lineBounds(s string, pos int) (int, int) {
	start := strings.LastIndexByte(s[:pos], '\n') + 1
	end := strings.IndexByte(s[pos:], '\n')
	if end < 0 {
		end = len(s)
	} else {
		end += pos
	}
	return start, end
}
