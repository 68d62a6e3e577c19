package cards

import (
	"errors"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	s, err := New()
	if err != nil {
		t.Fatalf("Failed to load cards: %v", err)
	}

	deck := s.List()
	if len(deck) != 6 {
		t.Fatalf("Expected 6 cards, got %d", len(deck))
	}
	if deck[0].Title != "On Morning Prayer" {
		t.Errorf("Expected first card 'On Morning Prayer', got %q", deck[0].Title)
	}
	if len(deck[0].MeditationPoints) != 3 {
		t.Errorf("Expected 3 meditation points, got %d", len(deck[0].MeditationPoints))
	}

	c, err := s.Get("6")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if c.Year != "1779" {
		t.Errorf("Expected year 1779, got %q", c.Year)
	}

	if _, err := s.Get("42"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestSaveProgress(t *testing.T) {
	s, err := New()
	if err != nil {
		t.Fatal(err)
	}
	fixed := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	if _, err := s.SaveProgress("2", "Doubt pushed me to read more.", false); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, err := s.SaveProgress("1", "Prayed before coffee.", true); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	p, err := s.SaveProgress("2", "Doubt pushed me to read more.", true)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !p.UpdatedAt.Equal(fixed) {
		t.Errorf("Expected timestamp %v, got %v", fixed, p.UpdatedAt)
	}

	progress := s.Progress()
	if len(progress) != 2 {
		t.Fatalf("Expected 2 progress entries, got %d", len(progress))
	}
	if progress[0].CardID != "1" || progress[1].CardID != "2" {
		t.Errorf("Expected entries ordered by card id, got %s, %s", progress[0].CardID, progress[1].CardID)
	}
	if s.Completed() != 2 {
		t.Errorf("Expected 2 completed, got %d", s.Completed())
	}

	if _, err := s.SaveProgress("missing", "", true); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
