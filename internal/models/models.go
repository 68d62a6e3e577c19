package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// AIOverview is the prose answer shown above the recommendations
type AIOverview struct {
	Content string `json:"content"`
}

// SearchResponse is the payload exchanged between /api/search and the browser.
// Results is never nil once it has passed through the discovery service.
type SearchResponse struct {
	AIOverview AIOverview   `json:"aiOverview"`
	Results    []BookResult `json:"results"`
}

// BookResult is a recommended book as produced by the completion service,
// decorated with a cover image and, on the detail page, the deep-dive fields.
//
// Model output is forwarded as received: ID and Year stay raw JSON, and keys
// that are unknown or carry an unexpected type are kept in Extra. Only title
// and author must decode as strings.
type BookResult struct {
	ID         json.RawMessage
	Title      string
	Author     string
	Year       json.RawMessage
	Category   string
	Summary    string
	Image      string
	CoverImage string

	// Deep details, fetched on demand
	ApplicationParagraph string
	DevotionalQuestion   string
	PracticalTip         string
	Quotes               []string

	WhyWritten       string
	AIInterpretation string

	Extra map[string]json.RawMessage
}

// IDString returns the id as text: JSON strings unquoted, anything else verbatim
func (b BookResult) IDString() string {
	return rawText(b.ID)
}

func (b BookResult) YearString() string {
	return rawText(b.Year)
}

// RawString encodes s as a JSON string, or nil when s is empty
func RawString(s string) json.RawMessage {
	if s == "" {
		return nil
	}
	data, _ := json.Marshal(s)
	return data
}

func rawText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if raw[0] == '"' && json.Unmarshal(raw, &s) == nil {
		return s
	}
	return string(raw)
}

// Optional string fields; an off-type value is left in Extra untouched
func (b *BookResult) stringFields() map[string]*string {
	return map[string]*string{
		"category":             &b.Category,
		"summary":              &b.Summary,
		"image":                &b.Image,
		"coverImage":           &b.CoverImage,
		"applicationParagraph": &b.ApplicationParagraph,
		"devotionalQuestion":   &b.DevotionalQuestion,
		"practicalTip":         &b.PracticalTip,
		"whyWritten":           &b.WhyWritten,
		"aiInterpretation":     &b.AIInterpretation,
	}
}

func (b *BookResult) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if fields == nil {
		return fmt.Errorf("book result must be an object")
	}

	*b = BookResult{}

	for key, dst := range map[string]*string{"title": &b.Title, "author": &b.Author} {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			return fmt.Errorf("book %s must be a string: %w", key, err)
		}
		delete(fields, key)
	}

	if raw, ok := fields["id"]; ok {
		b.ID = raw
		delete(fields, "id")
	}
	if raw, ok := fields["year"]; ok {
		b.Year = raw
		delete(fields, "year")
	}

	for key, dst := range b.stringFields() {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		if json.Unmarshal(raw, dst) == nil {
			delete(fields, key)
		}
	}

	if raw, ok := fields["quotes"]; ok {
		var quotes []string
		if json.Unmarshal(raw, &quotes) == nil {
			b.Quotes = quotes
			delete(fields, "quotes")
		}
	}

	if len(fields) > 0 {
		b.Extra = fields
	}
	return nil
}

// MarshalJSON emits Extra first, then the typed fields over it. Title, author
// and image are always present; other fields only when set.
func (b BookResult) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(b.Extra)+12)
	for k, v := range b.Extra {
		out[k] = v
	}

	if len(b.ID) > 0 {
		out["id"] = b.ID
	}
	if len(b.Year) > 0 {
		out["year"] = b.Year
	}
	out["title"] = b.Title
	out["author"] = b.Author
	out["image"] = b.Image

	for key, v := range b.stringFields() {
		if key != "image" && *v != "" {
			out[key] = *v
		}
	}
	if b.Quotes != nil {
		out["quotes"] = b.Quotes
	}

	return json.Marshal(out)
}

// BookDetailsRequest is the body accepted by /api/book-details
type BookDetailsRequest struct {
	Query  string `json:"query"`
	Title  string `json:"title"`
	Author string `json:"author"`
}

// BookDetails holds the narrative fields returned by /api/book-details
type BookDetails struct {
	ApplicationParagraph string   `json:"applicationParagraph"`
	AIInterpretation     string   `json:"aiInterpretation"`
	Quotes               []string `json:"quotes"`
	DevotionalQuestion   string   `json:"devotionalQuestion"`
	PracticalTip         string   `json:"practicalTip"`
}

// ApplyDetails copies the deep-dive fields onto the book
func (b *BookResult) ApplyDetails(d *BookDetails) {
	if d == nil {
		return
	}
	b.ApplicationParagraph = d.ApplicationParagraph
	b.AIInterpretation = d.AIInterpretation
	b.Quotes = d.Quotes
	b.DevotionalQuestion = d.DevotionalQuestion
	b.PracticalTip = d.PracticalTip
}

// LibraryBook is an entry in the browsable library catalog
type LibraryBook struct {
	ID         string   `json:"id" yaml:"id" parquet:"id"`
	Title      string   `json:"title" yaml:"title" parquet:"title"`
	Author     string   `json:"author" yaml:"author" parquet:"author"`
	Summary    string   `json:"summary" yaml:"summary" parquet:"summary"`
	Cover      string   `json:"cover" yaml:"cover" parquet:"cover"`
	Tags       []string `json:"tags" yaml:"tags" parquet:"tags,list"`
	Popularity int      `json:"popularity" yaml:"popularity" parquet:"popularity"`
}

// DevotionalCard is a short excerpt with guided reflection material
type DevotionalCard struct {
	ID               string   `json:"id" yaml:"id"`
	Title            string   `json:"title" yaml:"title"`
	Author           string   `json:"author" yaml:"author"`
	Tags             []string `json:"tags" yaml:"tags"`
	Year             string   `json:"year,omitempty" yaml:"year"`
	OriginalExcerpt  string   `json:"originalExcerpt" yaml:"originalExcerpt"`
	ModernExcerpt    string   `json:"modernExcerpt" yaml:"modernExcerpt"`
	ContextNote      string   `json:"contextNote" yaml:"contextNote"`
	AIQuestion       string   `json:"aiQuestion" yaml:"aiQuestion"`
	ApplicationTip   string   `json:"applicationTip" yaml:"applicationTip"`
	MeditationPoints []string `json:"meditationPoints" yaml:"meditationPoints"`
}

// CardProgress tracks a reader's reflection on a devotional card
type CardProgress struct {
	CardID     string    `json:"cardId"`
	Reflection string    `json:"reflection"`
	Completed  bool      `json:"completed"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Question is a community Q&A board post
type Question struct {
	ID          string    `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description" yaml:"description"`
	Topic       string    `json:"topic" yaml:"topic"`
	Author      string    `json:"author" yaml:"author"`
	CreatedAt   time.Time `json:"createdAt" yaml:"createdAt"`
	Upvotes     int       `json:"upvotes" yaml:"upvotes"`
	Answers     []Answer  `json:"answers" yaml:"answers"`
}

// Answer is a reply to a board question
type Answer struct {
	ID        string    `json:"id" yaml:"id"`
	Author    string    `json:"author" yaml:"author"`
	Content   string    `json:"content" yaml:"content"`
	Likes     int       `json:"likes" yaml:"likes"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}
