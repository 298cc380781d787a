package contract

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	headingRegexp  = regexp.MustCompile(`(?m)^\s{0,3}#{1,6}\s`)
	boldRegexp     = regexp.MustCompile(`\*\*[^*\n]+\*\*|__[^_\n]+__`)
	linkRegexp     = regexp.MustCompile(`\[[^\]\n]+\]\([^)\n]+\)`)
	listLineRegexp = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)])\s+`)
	// Short labelled lines like "Intro:" or all-caps lines read as section
	// headings rather than spoken language.
	labelLineRegexp = regexp.MustCompile(`^[A-Z][A-Za-z0-9 ]{0,30}:$`)
)

// ctaKeywords are per-language markers of an identifiable call-to-action in
// a caption. Matching is case-insensitive substring search.
var ctaKeywords = map[string][]string{
	"en": {"follow", "comment", "share", "click", "link in bio", "dm ", "save this", "subscribe", "sign up", "join", "check out", "grab", "try it", "tag "},
	"id": {"ikuti", "komentar", "bagikan", "klik", "link di bio", "follow", "coba", "daftar", "cek", "simpan", "tandai", "dm "},
	"th": {"ติดตาม", "คอมเมนต์", "แชร์", "คลิก", "ลิงก์", "ทักแชท", "ลองเลย", "สมัคร", "กดไลก์", "เซฟโพสต์"},
}

// markdownMarker returns a detail string when the text carries markdown
// syntax; generated copy must be plain editable text.
func markdownMarker(text string) string {
	switch {
	case headingRegexp.MatchString(text):
		return "markdown heading marker"
	case boldRegexp.MatchString(text):
		return "markdown bold marker"
	case strings.Contains(text, "```"):
		return "markdown code fence"
	case strings.Contains(text, "`"):
		return "markdown inline code"
	case linkRegexp.MatchString(text):
		return "markdown link"
	}
	return ""
}

func containsEmoji(text string) bool {
	for _, r := range text {
		if isEmojiRune(r) {
			return true
		}
	}
	return false
}

func isEmojiRune(r rune) bool {
	switch {
	case r >= 0x1F300 && r <= 0x1FAFF: // pictographs, transport, supplemental
		return true
	case r >= 0x2600 && r <= 0x27BF: // misc symbols and dingbats
		return true
	case r == 0x2B50 || r == 0x2764 || r == 0xFE0F:
		return true
	}
	return false
}

func countListLines(text string) int {
	count := 0
	for _, line := range strings.Split(text, "\n") {
		if listLineRegexp.MatchString(line) {
			count++
		}
	}
	return count
}

func hasCallToAction(caption, lang string) bool {
	lowered := strings.ToLower(caption)
	keywords, ok := ctaKeywords[lang]
	if !ok {
		keywords = ctaKeywords["en"]
	}
	for _, kw := range keywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}

// sectionHeading returns the first line of the script that reads as a
// heading instead of natural spoken language.
func sectionHeading(script string) string {
	for _, line := range strings.Split(script, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if labelLineRegexp.MatchString(trimmed) {
			return trimmed
		}
		if isAllCapsLine(trimmed) {
			return trimmed
		}
	}
	return ""
}

func isAllCapsLine(line string) bool {
	letters := 0
	for _, r := range line {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsLower(r) {
				return false
			}
		}
	}
	return letters >= 3 && len([]rune(line)) <= 40
}
