package prompt

import (
	"fmt"
	"strings"

	"server/internal/domain"
)

// Payload is the fully-instantiated instruction payload handed to the
// generation engine: the prompt text plus the language directive.
type Payload struct {
	Text     string
	Language string
}

// Composer builds engine instruction payloads from a profile, its recent
// history and the caller's recipe. Every payload carries the output-contract
// block; a payload without it is a composer defect, so the block is appended
// unconditionally rather than behind any branch.
type Composer struct {
	// HistoryWindow caps how many recent projects are echoed into the
	// prompt as context.
	HistoryWindow int
}

// NewComposer returns a Composer with the default history window.
func NewComposer() *Composer {
	return &Composer{HistoryWindow: 5}
}

var languageNames = map[string]string{
	"en": "English",
	"id": "Indonesian",
	"th": "Thai",
}

// Compose builds the instruction payload for one generation attempt.
func (c *Composer) Compose(profile domain.Profile, history []domain.ProjectSummary, recipe domain.Recipe) Payload {
	sb := &strings.Builder{}

	fmt.Fprintf(sb, "You are the content strategist behind %q, a %s brand. ", profile.BrandName, profile.Archetype)
	sb.WriteString("Your voice is Quiet Authority: confident, calm, identity-driven, never hype. ")
	fmt.Fprintf(sb, "Write for the %s platform.\n\n", recipe.Platform)

	fmt.Fprintf(sb, "Identity: archetype=%s, brand=%q", profile.Archetype, profile.BrandName)
	if len(profile.ToneMarkers) > 0 {
		fmt.Fprintf(sb, ", tone markers: %s", strings.Join(profile.ToneMarkers, ", "))
	}
	sb.WriteString(".\n")

	if window := c.historyWindow(); len(history) > 0 && window > 0 {
		sb.WriteString("Recent work, newest first:\n")
		for i, project := range history {
			if i >= window {
				break
			}
			fmt.Fprintf(sb, "- %s (%s): %s\n", project.Title, project.Platform, project.Summary)
		}
	}

	sb.WriteString("\nRules: plain editable text only. No markdown syntax of any kind. ")
	if recipe.AllowEmoji {
		sb.WriteString("Emoji are allowed sparingly. ")
	} else {
		sb.WriteString("No emoji. ")
	}
	sb.WriteString("No bullet walls. Scripts must read as natural spoken language without section headings. ")
	sb.WriteString("Captions must end with a clear call-to-action. ")
	sb.WriteString("Requested parts must reinforce one shared core claim without repeating each other.\n")

	if recipe.Mode == domain.ModeEdit {
		sb.WriteString("\nThis is an edit of an existing draft. Preserve the original intent and never weaken the authority or tone strength relative to the prior draft.\n")
		fmt.Fprintf(sb, "Prior draft:\n%s\n", recipe.PriorDraft)
	}

	sb.WriteString("\n")
	sb.WriteString(contractBlock(recipe))

	return Payload{Text: sb.String(), Language: recipe.Language}
}

// Repair appends a corrective instruction naming the specific failure kinds
// so the second attempt can fix them without the caller noticing a retry
// happened.
func (c *Composer) Repair(payload Payload, kinds []string) Payload {
	if len(kinds) == 0 {
		return payload
	}
	sb := &strings.Builder{}
	sb.WriteString(payload.Text)
	fmt.Fprintf(sb, "\nYour previous answer violated the output contract: %s. ", strings.Join(kinds, ", "))
	sb.WriteString("Produce a corrected answer that satisfies every rule above. Respond with the JSON object only.\n")
	return Payload{Text: sb.String(), Language: payload.Language}
}

// contractBlock declares the exact schema and language rule for the engine.
// It names only the requested fields so unrequested parts are never invited.
func contractBlock(recipe domain.Recipe) string {
	fields := make([]string, 0, len(recipe.Parts))
	for _, part := range recipe.Parts {
		fields = append(fields, fmt.Sprintf("%q:string", string(part)))
	}
	langName := languageNames[recipe.Language]
	if langName == "" {
		langName = recipe.Language
	}
	sb := &strings.Builder{}
	sb.WriteString("Respond strictly with a single JSON object matching this schema: ")
	fmt.Fprintf(sb, "{%s}", strings.Join(fields, ","))
	sb.WriteString(". No prose before or after the object, no code fences, no extra keys. ")
	fmt.Fprintf(sb, "Write every field entirely in %s.", langName)
	return sb.String()
}

func (c *Composer) historyWindow() int {
	if c.HistoryWindow <= 0 {
		return 0
	}
	return c.HistoryWindow
}
