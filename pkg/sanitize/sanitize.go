// Package sanitize strips HTML, URLs, and PII from untrusted meeting and
// email bodies before they are persisted or handed to an LLM prompt. The
// pipeline is a fixed, strictly ordered sequence of steps; reordering them
// changes output and is load-bearing (entities must be decoded before the
// regex sweep runs, or an encoded email address survives).
package sanitize

import (
	"regexp"
	"strings"
)

var (
	styleScriptRe = regexp.MustCompile(`(?is)<(style|script)[^>]*>.*?</(style|script)>`)
	structuralRe  = regexp.MustCompile(`(?i)<(br\s*/?|/p|/div|/li|/h[1-6])>`)
	tagRe         = regexp.MustCompile(`<[^>]+>`)
	icalEscapeRe  = regexp.MustCompile(`\\([nN,;])`)

	urlRe       = regexp.MustCompile(`(?i)\b(https?://\S+|www\.\S+)`)
	mailtoRe    = regexp.MustCompile(`(?i)\bmailto:\S+`)
	emailRe     = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	phoneRe     = regexp.MustCompile(`\+?\d[\d\-. ()]{7,}\d`)
	longDigitRe = regexp.MustCompile(`\d{6,}`)
	wsRe        = regexp.MustCompile(`[ \t]+`)
	blankLineRe = regexp.MustCompile(`\n{3,}`)
)

// joinBlockKeywords are matched case-insensitively against a line; a match
// removes that line plus the preceding line and the two following lines.
var joinBlockKeywords = []string{
	"join microsoft teams meeting",
	"click here to join",
	"meeting id",
	"passcode",
	"dial-in",
	"conference id",
	"join teams meeting",
	"join zoom meeting",
	"one tap mobile",
	"call in",
}

// htmlEntities is the fixed decode table named in the component design.
// Numeric and hex entities are handled separately by decodeNumericEntities.
var htmlEntities = map[string]string{
	"&amp;":    "&",
	"&lt;":     "<",
	"&gt;":     ">",
	"&quot;":   `"`,
	"&#39;":    "'",
	"&apos;":   "'",
	"&nbsp;":   " ",
	"&ndash;":  "-",
	"&mdash;":  "-",
	"&hellip;": "...",
	"&rsquo;":  "'",
	"&lsquo;":  "'",
	"&rdquo;":  `"`,
	"&ldquo;":  `"`,
}

var numericEntityRe = regexp.MustCompile(`&#(x[0-9a-fA-F]+|\d+);`)

// Sanitize strips style/script blocks, converts structural tags to
// newlines, decodes entities, removes remaining tags, normalizes iCal
// escapes, deletes join-blocks, scrubs URLs/emails/phone numbers/long
// numeric ids, collapses whitespace, and truncates to maxChars. It never
// fails: any input, including the empty string, produces a string.
func Sanitize(raw string, maxChars int) string {
	s := raw

	s = styleScriptRe.ReplaceAllString(s, "")
	s = structuralRe.ReplaceAllString(s, "\n")
	s = decodeEntities(s)
	s = tagRe.ReplaceAllString(s, "")
	s = icalEscapeRe.ReplaceAllString(s, "$1")
	s = strings.ReplaceAll(s, `\n`, "\n")
	s = removeJoinBlocks(s)
	s = scrubIdentifiers(s)
	s = collapseWhitespace(s)
	s = truncate(s, maxChars)

	return s
}

func decodeEntities(s string) string {
	for entity, repl := range htmlEntities {
		s = strings.ReplaceAll(s, entity, repl)
	}
	s = numericEntityRe.ReplaceAllStringFunc(s, func(match string) string {
		inner := match[2 : len(match)-1]
		var r rune
		if len(inner) > 0 && (inner[0] == 'x' || inner[0] == 'X') {
			r = parseHexRune(inner[1:])
		} else {
			r = parseDecRune(inner)
		}
		if r == 0 {
			return match
		}
		return string(r)
	})
	return s
}

func parseHexRune(s string) rune {
	var v int64
	for _, c := range s {
		v *= 16
		switch {
		case c >= '0' && c <= '9':
			v += int64(c - '0')
		case c >= 'a' && c <= 'f':
			v += int64(c-'a') + 10
		case c >= 'A' && c <= 'F':
			v += int64(c-'A') + 10
		default:
			return 0
		}
	}
	return rune(v)
}

func parseDecRune(s string) rune {
	var v int64
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0
		}
		v = v*10 + int64(c-'0')
	}
	return rune(v)
}

// removeJoinBlocks deletes any line containing a join-block keyword, plus
// the preceding line and the two following lines.
func removeJoinBlocks(s string) string {
	lines := strings.Split(s, "\n")
	drop := make([]bool, len(lines))
	for i, line := range lines {
		lower := strings.ToLower(line)
		for _, kw := range joinBlockKeywords {
			if strings.Contains(lower, kw) {
				for j := i - 1; j <= i+2 && j < len(lines); j++ {
					if j >= 0 {
						drop[j] = true
					}
				}
				break
			}
		}
	}
	kept := make([]string, 0, len(lines))
	for i, line := range lines {
		if !drop[i] {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

func scrubIdentifiers(s string) string {
	s = urlRe.ReplaceAllString(s, " ")
	s = mailtoRe.ReplaceAllString(s, " ")
	s = emailRe.ReplaceAllString(s, " ")
	s = phoneRe.ReplaceAllString(s, " ")
	s = longDigitRe.ReplaceAllString(s, " ")
	return s
}

func collapseWhitespace(s string) string {
	s = wsRe.ReplaceAllString(s, " ")
	s = blankLineRe.ReplaceAllString(s, "\n\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	s = strings.Join(lines, "\n")
	return strings.TrimSpace(s)
}

func truncate(s string, maxChars int) string {
	if maxChars <= 0 || len(s) <= maxChars {
		return strings.TrimRight(s, " \t\n")
	}
	runes := []rune(s)
	if len(runes) <= maxChars {
		return strings.TrimRight(s, " \t\n")
	}
	return strings.TrimRight(string(runes[:maxChars]), " \t\n")
}
