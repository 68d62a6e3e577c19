package cards

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/christianbooksai/companion/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed cards.yaml
var seedCards []byte

var ErrNotFound = errors.New("card not found")

// Store holds the devotional deck and the reader's progress through it
type Store struct {
	cards    []models.DevotionalCard
	progress map[string]models.CardProgress
	mu       sync.RWMutex
	now      func() time.Time
}

// New loads the built-in deck
func New() (*Store, error) {
	var deck []models.DevotionalCard
	if err := yaml.Unmarshal(seedCards, &deck); err != nil {
		return nil, fmt.Errorf("failed to parse devotional cards: %w", err)
	}
	return NewWithCards(deck), nil
}

func NewWithCards(deck []models.DevotionalCard) *Store {
	return &Store{
		cards:    deck,
		progress: make(map[string]models.CardProgress),
		now:      time.Now,
	}
}

func (s *Store) List() []models.DevotionalCard {
	out := make([]models.DevotionalCard, len(s.cards))
	copy(out, s.cards)
	return out
}

func (s *Store) Get(id string) (models.DevotionalCard, error) {
	for _, c := range s.cards {
		if c.ID == id {
			return c, nil
		}
	}
	return models.DevotionalCard{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// SaveProgress records the reader's reflection on a card, replacing any
// earlier entry
func (s *Store) SaveProgress(id, reflection string, completed bool) (models.CardProgress, error) {
	if _, err := s.Get(id); err != nil {
		return models.CardProgress{}, err
	}

	p := models.CardProgress{
		CardID:     id,
		Reflection: reflection,
		Completed:  completed,
		UpdatedAt:  s.now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress[id] = p
	return p, nil
}

// Progress returns every saved entry ordered by card id
func (s *Store) Progress() []models.CardProgress {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.CardProgress, 0, len(s.progress))
	for _, p := range s.progress {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CardID < out[j].CardID
	})
	return out
}

// Completed counts cards marked as done
func (s *Store) Completed() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, p := range s.progress {
		if p.Completed {
			n++
		}
	}
	return n
}
