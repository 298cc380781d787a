package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"server/internal/domain"
)

func TestProfileByIDNotFound(t *testing.T) {
	sql := &fakeSQL{row: simpleRow{}}
	r := NewProfileRepository(sql)

	_, err := r.ByID(context.Background(), "p1", "u1")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("ByID error = %v, want ErrNotFound", err)
	}
}

func TestProfileActiveScansRow(t *testing.T) {
	created := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	sql := &fakeSQL{row: simpleRow{scan: func(dest ...any) error {
		*(dest[0].(*string)) = "p1"
		*(dest[1].(*string)) = "u1"
		*(dest[2].(*domain.ProfileArchetype)) = domain.ArchetypeCreator
		*(dest[3].(*string)) = "Warung Kopi"
		*(dest[4].(*string)) = "id"
		*(dest[5].(*[]string)) = []string{"calm", "direct"}
		*(dest[6].(*bool)) = true
		*(dest[7].(*time.Time)) = created
		*(dest[8].(*time.Time)) = created
		return nil
	}}}
	r := NewProfileRepository(sql)

	p, err := r.Active(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Active returned error: %v", err)
	}
	if p.ID != "p1" || p.Archetype != domain.ArchetypeCreator || p.Language != "id" {
		t.Fatalf("unexpected profile: %+v", p)
	}
	if !p.Active {
		t.Fatal("profile should be active")
	}
	if len(p.ToneMarkers) != 2 {
		t.Fatalf("tone markers = %v", p.ToneMarkers)
	}
}

func TestProfileActivateNotFound(t *testing.T) {
	sql := &fakeSQL{row: simpleRow{}}
	r := NewProfileRepository(sql)

	if err := r.Activate(context.Background(), "missing", "u1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Activate error = %v, want ErrNotFound", err)
	}
}

func TestProfileArchiveNotFound(t *testing.T) {
	sql := &fakeSQL{row: simpleRow{}}
	r := NewProfileRepository(sql)

	if err := r.Archive(context.Background(), "missing", "u1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Archive error = %v, want ErrNotFound", err)
	}
}
