package contract

import (
	"strings"
	"unicode"

	"golang.org/x/text/language"
)

// Language conformance is a best-effort programmatic check: script
// distribution for script-distinct targets (Thai vs Latin), plus stop-word
// dominance to separate English from Indonesian, which share a script.

const foreignScriptTolerance = 0.3

var stopwords = map[string][]string{
	"en": {"the", "and", "your", "with", "this", "that", "for", "you", "are", "how"},
	"id": {"yang", "dan", "untuk", "dengan", "ini", "itu", "kamu", "anda", "tidak", "bisa"},
}

// detectMismatch returns a non-empty detail when the text does not read as
// the expected language. Empty text is left to the completeness check.
func detectMismatch(text, lang string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	expected := expectedScript(lang)
	inScript, foreign := scriptCounts(text, expected)
	total := inScript + foreign
	if total == 0 {
		return ""
	}
	if float64(foreign)/float64(total) > foreignScriptTolerance {
		return "text is not written in the " + expected + " script expected for " + lang
	}
	if expected != "Latn" {
		return ""
	}
	// Latin-script targets: compare stop-word hits across the supported
	// Latin languages to catch English output for an Indonesian recipe and
	// the reverse.
	hits := make(map[string]int, len(stopwords))
	words := tokenSet(text)
	for candidate, list := range stopwords {
		for _, sw := range list {
			if _, ok := words[sw]; ok {
				hits[candidate]++
			}
		}
	}
	for candidate, n := range hits {
		if candidate == lang {
			continue
		}
		if n >= 2 && n > hits[lang] {
			return "text reads as " + candidate + ", expected " + lang
		}
	}
	return ""
}

// expectedScript resolves the likely script for a base language tag,
// falling back to Latin when the tag cannot be parsed.
func expectedScript(lang string) string {
	tag, err := language.Parse(lang)
	if err != nil {
		return "Latn"
	}
	script, _ := tag.Script()
	return script.String()
}

func scriptCounts(text, expected string) (inScript, foreign int) {
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		if runeScript(r) == expected {
			inScript++
		} else {
			foreign++
		}
	}
	return inScript, foreign
}

func runeScript(r rune) string {
	switch {
	case unicode.Is(unicode.Latin, r):
		return "Latn"
	case unicode.Is(unicode.Thai, r):
		return "Thai"
	default:
		return "Zzzz"
	}
}
