package library

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/christianbooksai/companion/internal/models"
	"github.com/parquet-go/parquet-go"
)

func ids(books []models.LibraryBook) []string {
	out := make([]string, len(books))
	for i, b := range books {
		out[i] = b.ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestLoadDefault(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatalf("Failed to load default catalog: %v", err)
	}
	if c.Len() != 8 {
		t.Errorf("Expected 8 books, got %d", c.Len())
	}

	b, err := c.Get("7")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if b.Title != "Knowing God" {
		t.Errorf("Expected 'Knowing God', got %q", b.Title)
	}

	if _, err := c.Get("999"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestLoadFormats(t *testing.T) {
	dir := t.TempDir()
	books := []models.LibraryBook{
		{ID: "a", Title: "Orthodoxy", Author: "G.K. Chesterton", Tags: []string{"Theology", "Classics"}, Popularity: 3},
		{ID: "b", Title: "Celebration of Discipline", Author: "Richard Foster", Tags: []string{"Christian Life", "Modern"}, Popularity: 5},
	}

	yamlPath := filepath.Join(dir, "catalog.yml")
	yamlData := "- id: a\n  title: Orthodoxy\n  author: G.K. Chesterton\n  tags: [Theology, Classics]\n- id: b\n  title: Celebration of Discipline\n  author: Richard Foster\n  tags: [Christian Life, Modern]\n"
	if err := os.WriteFile(yamlPath, []byte(yamlData), 0o644); err != nil {
		t.Fatal(err)
	}

	jsonlPath := filepath.Join(dir, "catalog.jsonl")
	jsonlData := `{"id":"a","title":"Orthodoxy","author":"G.K. Chesterton","tags":["Theology","Classics"]}` + "\n\n" +
		`{"id":"b","title":"Celebration of Discipline","author":"Richard Foster","tags":["Christian Life","Modern"]}` + "\n"
	if err := os.WriteFile(jsonlPath, []byte(jsonlData), 0o644); err != nil {
		t.Fatal(err)
	}

	parquetPath := filepath.Join(dir, "catalog.parquet")
	if err := parquet.WriteFile(parquetPath, books); err != nil {
		t.Fatalf("Failed to write parquet fixture: %v", err)
	}

	for _, path := range []string{yamlPath, jsonlPath, parquetPath} {
		t.Run(filepath.Ext(path), func(t *testing.T) {
			c, err := Load(path)
			if err != nil {
				t.Fatalf("Failed to load %s: %v", path, err)
			}
			if c.Len() != 2 {
				t.Fatalf("Expected 2 books, got %d", c.Len())
			}
			b, err := c.Get("b")
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if b.Author != "Richard Foster" || len(b.Tags) != 2 || b.Tags[1] != "Modern" {
				t.Errorf("Unexpected book %+v", b)
			}
		})
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "catalog.csv")); err == nil {
		t.Error("Expected error for unsupported format")
	}
	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.jsonl")
	if err := os.WriteFile(bad, []byte("{not json}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil {
		t.Error("Expected error for malformed JSONL")
	}
}

func TestSearch(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		filter   Filter
		expected []string
	}{
		{
			name:     "no filter keeps catalog order",
			filter:   Filter{},
			expected: []string{"1", "2", "3", "4", "5", "6", "7", "8"},
		},
		{
			name:     "query matches author case-insensitively",
			filter:   Filter{Query: "LEWIS"},
			expected: []string{"2"},
		},
		{
			name:     "query matches summary",
			filter:   Filter{Query: "allegory"},
			expected: []string{"1"},
		},
		{
			name:     "category is any-of",
			filter:   Filter{Categories: []string{"Theology", "Church History"}},
			expected: []string{"1", "4", "6", "7"},
		},
		{
			name:     "facets combine",
			filter:   Filter{Categories: []string{"Christian Life"}, Eras: []string{"Classics"}},
			expected: []string{"5", "8"},
		},
		{
			name:     "difficulty",
			filter:   Filter{Difficulties: []string{"Beginner", "Advanced"}},
			expected: []string{"4", "7"},
		},
		{
			name:     "added reverses",
			filter:   Filter{Categories: []string{"Theology"}, Sort: SortAdded},
			expected: []string{"7", "4", "1"},
		},
		{
			name:     "popular orders by popularity",
			filter:   Filter{Eras: []string{"Modern"}, Sort: SortPopular},
			expected: []string{"2", "3", "6"},
		},
		{
			name:     "no matches",
			filter:   Filter{Query: "zzz"},
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Search(tt.filter)
			if got == nil {
				t.Fatal("Expected non-nil slice")
			}
			if !equalIDs(ids(got), tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, ids(got))
			}
		})
	}
}
