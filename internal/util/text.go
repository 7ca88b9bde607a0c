package util

import (
	"regexp"
	"strings"
)

var (
	urlPattern   = regexp.MustCompile(`https?://\S+`)
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	phonePattern = regexp.MustCompile(`\+\d{1,3}[- ]?\d{1,4}[- ]?\d{1,4}[- ]?\d{1,9}`)

	camelBoundary   = regexp.MustCompile(`([a-z])([A-Z])`)
	acronymBoundary = regexp.MustCompile(`([A-Z])([A-Z][a-z])`)
	digitLetter     = regexp.MustCompile(`(\d)([A-Za-z])`)
	letterDigit     = regexp.MustCompile(`([A-Za-z])(\d)`)
	letterDash      = regexp.MustCompile(`([A-Za-z])([+\-–—])`)
	dashLetter      = regexp.MustCompile(`([+\-–—])([A-Za-z])`)
	punctLetter     = regexp.MustCompile(`([.!?,;])([A-Za-z])`)

	glyphSpacer = strings.NewReplacer("|", " | ", "•", " • ", ":", ": ")
	tightPunct  = strings.NewReplacer(" .", ".", " ,", ",")
)

// Protected substrings are swapped for runes from the Unicode private use area
// while the spacing rules run, then restored.
const (
	placeholderBase = 0xE000
	placeholderMax  = 0xF8FF
)

// NormalizeText cleans extractor output line by line: glued words are split,
// whitespace collapsed and empty lines dropped. E-mail addresses, URLs and
// phone numbers are passed through verbatim.
func NormalizeText(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = normalizeLine(line); line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}

func normalizeLine(line string) string {
	line = strings.Map(func(r rune) rune {
		if r >= placeholderBase && r <= placeholderMax {
			return -1
		}
		return r
	}, line)

	var kept []string
	protect := func(s string) string {
		if placeholderBase+len(kept) > placeholderMax {
			return s
		}
		kept = append(kept, s)
		return string(rune(placeholderBase + len(kept) - 1))
	}
	line = urlPattern.ReplaceAllStringFunc(line, protect)
	line = emailPattern.ReplaceAllStringFunc(line, protect)
	line = phonePattern.ReplaceAllStringFunc(line, protect)

	line = glyphSpacer.Replace(line)
	line = camelBoundary.ReplaceAllString(line, "$1 $2")
	line = acronymBoundary.ReplaceAllString(line, "$1 $2")
	line = digitLetter.ReplaceAllString(line, "$1 $2")
	line = letterDigit.ReplaceAllString(line, "$1 $2")
	line = letterDash.ReplaceAllString(line, "$1 $2")
	line = dashLetter.ReplaceAllString(line, "$1 $2")
	line = punctLetter.ReplaceAllString(line, "$1 $2")

	line = strings.Join(strings.Fields(line), " ")
	line = tightPunct.Replace(line)

	if len(kept) == 0 {
		return line
	}
	return restore(line, kept)
}

func restore(line string, kept []string) string {
	var b strings.Builder
	b.Grow(len(line))
	for _, r := range line {
		idx := int(r) - placeholderBase
		if idx >= 0 && idx < len(kept) {
			b.WriteString(kept[idx])
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FindEmail returns the first e-mail shaped substring of text, or "".
func FindEmail(text string) string {
	return emailPattern.FindString(text)
}

// Truncate cuts s to at most limit runes.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
