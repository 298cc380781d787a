package contract

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"server/internal/domain"
)

// FailureKind classifies a contract violation.
type FailureKind string

const (
	KindMalformedOutput       FailureKind = "MALFORMED_OUTPUT"
	KindIncompleteParts       FailureKind = "INCOMPLETE_PARTS"
	KindLanguageMismatch      FailureKind = "LANGUAGE_MISMATCH"
	KindStyleViolation        FailureKind = "STYLE_VIOLATION"
	KindInternalInconsistency FailureKind = "INTERNAL_INCONSISTENCY"
)

// Reason maps the failure kind to its caller-facing reason code.
func (k FailureKind) Reason() domain.RejectReason {
	return domain.RejectReason(k)
}

// Failure is one violation: what rule broke, on which field, and why.
type Failure struct {
	Kind   FailureKind `json:"kind"`
	Field  string      `json:"field"`
	Detail string      `json:"detail"`
}

// Verdict is the overall validation result.
type Verdict string

const (
	VerdictPass Verdict = "pass"
	VerdictFail Verdict = "fail"
)

// Outcome is the validator's result: a verdict plus the ordered failures
// behind it. Validation is a pure function of the raw response and recipe,
// so the same inputs always yield the same outcome.
type Outcome struct {
	Verdict  Verdict   `json:"verdict"`
	Failures []Failure `json:"failures,omitempty"`
	Content  *domain.Content
}

// Passed reports whether the response satisfied every check.
func (o Outcome) Passed() bool {
	return o.Verdict == VerdictPass
}

// Kinds returns the distinct failure kinds in order of first occurrence.
func (o Outcome) Kinds() []FailureKind {
	seen := make(map[FailureKind]struct{}, len(o.Failures))
	var kinds []FailureKind
	for _, f := range o.Failures {
		if _, ok := seen[f.Kind]; ok {
			continue
		}
		seen[f.Kind] = struct{}{}
		kinds = append(kinds, f.Kind)
	}
	return kinds
}

// Validator enforces the machine-checkable output contract on raw engine
// responses. Checks run in a fixed order and short-circuit on the first
// failing rule so one root cause is reported per attempt.
type Validator struct {
	// BulletThreshold is the number of list-like lines tolerated in a
	// single part before the output counts as bullet overload.
	BulletThreshold int
	// SimilarityThreshold is the token-overlap ratio above which two parts
	// count as duplicating each other's core claim.
	SimilarityThreshold float64
}

// NewValidator returns a Validator with the default thresholds.
func NewValidator() *Validator {
	return &Validator{BulletThreshold: 6, SimilarityThreshold: 0.8}
}

// Validate parses the raw response against the declared schema and content
// rules and classifies the result. No side effects.
func (v *Validator) Validate(raw string, recipe domain.Recipe) Outcome {
	content, failures := parseStructure(raw)
	if len(failures) > 0 {
		return Outcome{Verdict: VerdictFail, Failures: failures}
	}

	if failures := checkParts(content, recipe); len(failures) > 0 {
		return Outcome{Verdict: VerdictFail, Failures: failures}
	}
	if failures := checkLanguage(content, recipe); len(failures) > 0 {
		return Outcome{Verdict: VerdictFail, Failures: failures}
	}
	if failures := v.checkStyle(content, recipe); len(failures) > 0 {
		return Outcome{Verdict: VerdictFail, Failures: failures}
	}
	if failures := v.checkConsistency(content, recipe); len(failures) > 0 {
		return Outcome{Verdict: VerdictFail, Failures: failures}
	}

	return Outcome{Verdict: VerdictPass, Content: pruneContent(content, recipe)}
}

// parseStructure enforces check 1: the response must be exactly one JSON
// object whose known fields are strings, with no surrounding prose beyond an
// optional code fence.
func parseStructure(raw string) (*domain.Content, []Failure) {
	text := trimCodeFence(strings.TrimSpace(raw))
	if text == "" {
		return nil, []Failure{{Kind: KindMalformedOutput, Field: "", Detail: "empty response"}}
	}
	if !strings.HasPrefix(text, "{") {
		return nil, []Failure{{Kind: KindMalformedOutput, Field: "", Detail: "response is not a JSON object"}}
	}
	dec := json.NewDecoder(strings.NewReader(text))
	var fields map[string]json.RawMessage
	if err := dec.Decode(&fields); err != nil {
		return nil, []Failure{{Kind: KindMalformedOutput, Field: "", Detail: fmt.Sprintf("invalid JSON: %v", err)}}
	}
	if dec.More() {
		return nil, []Failure{{Kind: KindMalformedOutput, Field: "", Detail: "trailing content after JSON object"}}
	}
	content := &domain.Content{}
	for _, part := range []domain.Part{domain.PartHook, domain.PartOutline, domain.PartScript, domain.PartCaption} {
		rawField, ok := fields[string(part)]
		if !ok {
			continue
		}
		var value string
		if err := json.Unmarshal(rawField, &value); err != nil {
			return nil, []Failure{{Kind: KindMalformedOutput, Field: string(part), Detail: "field is not a string"}}
		}
		setPart(content, part, value)
	}
	return content, nil
}

// checkParts enforces check 2: every requested part present and non-empty.
func checkParts(content *domain.Content, recipe domain.Recipe) []Failure {
	var failures []Failure
	for _, part := range recipe.Parts {
		if strings.TrimSpace(content.PartValue(part)) == "" {
			failures = append(failures, Failure{
				Kind:   KindIncompleteParts,
				Field:  string(part),
				Detail: "requested part is missing or empty",
			})
		}
	}
	return failures
}

// checkLanguage enforces check 3 on every requested field.
func checkLanguage(content *domain.Content, recipe domain.Recipe) []Failure {
	var failures []Failure
	for _, part := range recipe.Parts {
		value := content.PartValue(part)
		if detail := detectMismatch(value, recipe.Language); detail != "" {
			failures = append(failures, Failure{
				Kind:   KindLanguageMismatch,
				Field:  string(part),
				Detail: detail,
			})
		}
	}
	return failures
}

// checkStyle enforces check 4: no markdown, emoji policy, bullet density,
// caption CTA and script heading rules.
func (v *Validator) checkStyle(content *domain.Content, recipe domain.Recipe) []Failure {
	var failures []Failure
	for _, part := range recipe.Parts {
		value := content.PartValue(part)
		if detail := markdownMarker(value); detail != "" {
			failures = append(failures, Failure{Kind: KindStyleViolation, Field: string(part), Detail: detail})
		}
		if !recipe.AllowEmoji && containsEmoji(value) {
			failures = append(failures, Failure{Kind: KindStyleViolation, Field: string(part), Detail: "emoji are not allowed"})
		}
		if n := countListLines(value); n > v.BulletThreshold {
			failures = append(failures, Failure{
				Kind:   KindStyleViolation,
				Field:  string(part),
				Detail: fmt.Sprintf("bullet overload: %d list-like lines (max %d)", n, v.BulletThreshold),
			})
		}
	}
	if recipe.Wants(domain.PartCaption) && !hasCallToAction(content.Caption, recipe.Language) {
		failures = append(failures, Failure{
			Kind:   KindStyleViolation,
			Field:  string(domain.PartCaption),
			Detail: "caption has no identifiable call-to-action",
		})
	}
	if recipe.Wants(domain.PartScript) {
		if line := sectionHeading(content.Script); line != "" {
			failures = append(failures, Failure{
				Kind:   KindStyleViolation,
				Field:  string(domain.PartScript),
				Detail: fmt.Sprintf("script contains section heading %q", line),
			})
		}
	}
	return failures
}

// checkConsistency enforces check 5: requested parts must not duplicate one
// another's core claim. Contradiction is not machine-checkable here; the
// composed contract instructs the engine against it.
func (v *Validator) checkConsistency(content *domain.Content, recipe domain.Recipe) []Failure {
	var failures []Failure
	for i := 0; i < len(recipe.Parts); i++ {
		for j := i + 1; j < len(recipe.Parts); j++ {
			a, b := recipe.Parts[i], recipe.Parts[j]
			sim := tokenOverlap(content.PartValue(a), content.PartValue(b))
			if sim > v.SimilarityThreshold {
				failures = append(failures, Failure{
					Kind:   KindInternalInconsistency,
					Field:  fmt.Sprintf("%s/%s", a, b),
					Detail: fmt.Sprintf("parts duplicate each other (overlap %.2f)", sim),
				})
			}
		}
	}
	return failures
}

func setPart(c *domain.Content, p domain.Part, value string) {
	switch p {
	case domain.PartHook:
		c.Hook = value
	case domain.PartOutline:
		c.Outline = value
	case domain.PartScript:
		c.Script = value
	case domain.PartCaption:
		c.Caption = value
	}
}

// pruneContent drops fields the recipe did not request so fabricated parts
// never reach the caller.
func pruneContent(c *domain.Content, recipe domain.Recipe) *domain.Content {
	out := &domain.Content{}
	for _, part := range recipe.Parts {
		setPart(out, part, c.PartValue(part))
	}
	return out
}

func trimCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```JSON")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}

func tokenOverlap(a, b string) float64 {
	ta := tokenSet(a)
	tb := tokenSet(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	intersect := 0
	for tok := range ta {
		if _, ok := tb[tok]; ok {
			intersect++
		}
	}
	union := len(ta) + len(tb) - intersect
	if union == 0 {
		return 0
	}
	return float64(intersect) / float64(union)
}

func tokenSet(text string) map[string]struct{} {
	tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	set := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		if len(tok) < 3 {
			continue
		}
		set[tok] = struct{}{}
	}
	return set
}
