package domain

import "time"

// ProfileArchetype enumerates supported onboarding personas.
type ProfileArchetype string

const (
	ArchetypeBusiness ProfileArchetype = "business"
	ArchetypeCreator  ProfileArchetype = "creator"
)

// Profile represents one onboarding persona for a user. A user may hold
// several profiles but at most one is active at a time; profiles are
// archived, never deleted.
type Profile struct {
	ID          string
	UserID      string
	Archetype   ProfileArchetype
	BrandName   string
	Language    string
	ToneMarkers []string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ArchivedAt  *time.Time
}

// ProjectSummary is one entry of a profile's recent history, newest first.
type ProjectSummary struct {
	ID        string
	Title     string
	Platform  string
	Summary   string
	CreatedAt time.Time
}
