package board

import (
	_ "embed"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/christianbooksai/companion/internal/models"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

//go:embed questions.yaml
var seedQuestions []byte

var (
	ErrNotFound     = errors.New("question not found")
	ErrInvalidInput = errors.New("invalid input")
)

const (
	AllTopics     = "All Topics"
	DefaultTopic  = "Faith"
	DefaultAuthor = "You"

	SortRecent     = "Recent"
	SortTrending   = "Trending"
	SortUnanswered = "Unanswered"
)

var Topics = []string{AllTopics, "Theology", "Daily Life", "Scripture", "Relationships", "Prayer", "Church", DefaultTopic}

// Filter selects and orders questions. Empty fields match everything.
type Filter struct {
	Search string
	Topic  string
	Sort   string
}

// Store keeps board questions newest first
type Store struct {
	questions []*models.Question
	mu        sync.RWMutex
	now       func() time.Time
}

// New returns a board seeded with the starter questions
func New() (*Store, error) {
	var seed []models.Question
	if err := yaml.Unmarshal(seedQuestions, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed questions: %w", err)
	}
	return NewWithQuestions(seed), nil
}

func NewWithQuestions(seed []models.Question) *Store {
	s := &Store{now: time.Now}
	for i := range seed {
		q := seed[i]
		if q.Answers == nil {
			q.Answers = []models.Answer{}
		}
		s.questions = append(s.questions, &q)
	}
	return s
}

// Post adds a question at the top of the board
func (s *Store) Post(title, description, topic, author string) (models.Question, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if title == "" || description == "" {
		return models.Question{}, fmt.Errorf("%w: title and description are required", ErrInvalidInput)
	}
	if strings.TrimSpace(topic) == "" {
		topic = DefaultTopic
	}
	if strings.TrimSpace(author) == "" {
		author = DefaultAuthor
	}

	q := &models.Question{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		Topic:       topic,
		Author:      author,
		CreatedAt:   s.now().UTC(),
		Answers:     []models.Answer{},
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions = append([]*models.Question{q}, s.questions...)
	return clone(q), nil
}

// List returns copies of the matching questions
func (s *Store) List(f Filter) []models.Question {
	search := strings.ToLower(strings.TrimSpace(f.Search))

	s.mu.RLock()
	out := make([]models.Question, 0, len(s.questions))
	for _, q := range s.questions {
		if search != "" && !strings.Contains(strings.ToLower(q.Title), search) {
			continue
		}
		if f.Topic != "" && f.Topic != AllTopics && q.Topic != f.Topic {
			continue
		}
		out = append(out, clone(q))
	}
	s.mu.RUnlock()

	switch f.Sort {
	case SortTrending:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Upvotes > out[j].Upvotes
		})
	case SortUnanswered:
		sort.SliceStable(out, func(i, j int) bool {
			return len(out[i].Answers) < len(out[j].Answers)
		})
	}

	return out
}

func (s *Store) Get(id string) (models.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := s.find(id)
	if q == nil {
		return models.Question{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return clone(q), nil
}

// Answer appends a reply to the question
func (s *Store) Answer(id, author, content string) (models.Answer, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return models.Answer{}, fmt.Errorf("%w: answer content is required", ErrInvalidInput)
	}
	if strings.TrimSpace(author) == "" {
		author = DefaultAuthor
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	q := s.find(id)
	if q == nil {
		return models.Answer{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	a := models.Answer{
		ID:        uuid.NewString(),
		Author:    author,
		Content:   content,
		CreatedAt: s.now().UTC(),
	}
	q.Answers = append(q.Answers, a)
	return a, nil
}

// Upvote increments the question's vote count and returns the new total
func (s *Store) Upvote(id string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := s.find(id)
	if q == nil {
		return 0, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	q.Upvotes++
	return q.Upvotes, nil
}

func (s *Store) find(id string) *models.Question {
	for _, q := range s.questions {
		if q.ID == id {
			return q
		}
	}
	return nil
}

func clone(q *models.Question) models.Question {
	c := *q
	c.Answers = slices.Clone(q.Answers)
	if c.Answers == nil {
		c.Answers = []models.Answer{}
	}
	return c
}
