package domain

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Part enumerates the content pieces a caller may request.
type Part string

const (
	PartHook    Part = "hook"
	PartOutline Part = "outline"
	PartScript  Part = "script"
	PartCaption Part = "caption"
)

// RecipeMode distinguishes fresh generation from editing a prior draft.
type RecipeMode string

const (
	ModeCreate RecipeMode = "create"
	ModeEdit   RecipeMode = "edit"
)

// SupportedLanguages is the closed set of output languages the studio
// produces. Keys are canonical BCP 47 base tags.
var SupportedLanguages = map[string]struct{}{
	"en": {},
	"id": {},
	"th": {},
}

var knownParts = map[Part]struct{}{
	PartHook:    {},
	PartOutline: {},
	PartScript:  {},
	PartCaption: {},
}

// Recipe is the caller's specification of what to generate.
type Recipe struct {
	Parts      []Part     `json:"parts"`
	Platform   string     `json:"platform"`
	Language   string     `json:"language"`
	Mode       RecipeMode `json:"mode"`
	PriorDraft string     `json:"prior_draft,omitempty"`
	AllowEmoji bool       `json:"allow_emoji,omitempty"`
}

// Normalize applies defaults and canonicalizes the language tag. The
// profile's preferred language fills a missing recipe language.
func (r *Recipe) Normalize(preferredLanguage string) {
	if r == nil {
		return
	}
	if r.Mode == "" {
		r.Mode = ModeCreate
	}
	if r.Language == "" {
		r.Language = preferredLanguage
	}
	if tag, err := language.Parse(r.Language); err == nil {
		base, _ := tag.Base()
		r.Language = base.String()
	}
	r.Platform = strings.ToLower(strings.TrimSpace(r.Platform))
}

// Validate enforces the recipe invariants: a non-empty part set of known
// parts, a supported language, and a prior draft when editing.
func (r Recipe) Validate() error {
	if len(r.Parts) == 0 {
		return fmt.Errorf("%w: parts must not be empty", ErrInvalidRecipe)
	}
	seen := make(map[Part]struct{}, len(r.Parts))
	for _, p := range r.Parts {
		if _, ok := knownParts[p]; !ok {
			return fmt.Errorf("%w: unknown part %q", ErrInvalidRecipe, p)
		}
		if _, dup := seen[p]; dup {
			return fmt.Errorf("%w: duplicate part %q", ErrInvalidRecipe, p)
		}
		seen[p] = struct{}{}
	}
	if _, ok := SupportedLanguages[r.Language]; !ok {
		return fmt.Errorf("%w: unsupported language %q", ErrInvalidRecipe, r.Language)
	}
	switch r.Mode {
	case ModeCreate, ModeEdit:
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidRecipe, r.Mode)
	}
	if r.Mode == ModeEdit && strings.TrimSpace(r.PriorDraft) == "" {
		return fmt.Errorf("%w: edit mode requires prior_draft", ErrInvalidRecipe)
	}
	return nil
}

// Wants reports whether the recipe requests the given part.
func (r Recipe) Wants(p Part) bool {
	for _, part := range r.Parts {
		if part == p {
			return true
		}
	}
	return false
}
