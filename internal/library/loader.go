package library

import (
	"bufio"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/christianbooksai/companion/internal/models"
	"github.com/parquet-go/parquet-go"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Load reads a catalog file, picking the format from its extension. An empty
// path loads the built-in catalog.
func Load(path string) (*Catalog, error) {
	var (
		books []models.LibraryBook
		err   error
	)

	if path == "" {
		books, err = parseYAML(defaultCatalog)
	} else {
		switch ext := strings.ToLower(filepath.Ext(path)); ext {
		case ".yaml", ".yml":
			books, err = loadYAML(path)
		case ".jsonl", ".json":
			books, err = loadJSONL(path)
		case ".parquet":
			books, err = loadParquet(path)
		default:
			return nil, fmt.Errorf("unsupported catalog format: %s (supported: .yaml, .jsonl, .parquet)", ext)
		}
	}
	if err != nil {
		return nil, err
	}

	slog.Debug("Library catalog loaded", "path", path, "books", len(books))
	return NewCatalog(books), nil
}

func loadYAML(path string) ([]models.LibraryBook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return parseYAML(data)
}

func parseYAML(data []byte) ([]models.LibraryBook, error) {
	var books []models.LibraryBook
	if err := yaml.Unmarshal(data, &books); err != nil {
		return nil, fmt.Errorf("failed to parse catalog YAML: %w", err)
	}
	return books, nil
}

func loadJSONL(path string) ([]models.LibraryBook, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer file.Close()

	var books []models.LibraryBook
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}

		var book models.LibraryBook
		if err := json.Unmarshal(line, &book); err != nil {
			return nil, fmt.Errorf("failed to parse JSON at line %d: %w", lineNum, err)
		}
		books = append(books, book)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading catalog: %w", err)
	}

	return books, nil
}

func loadParquet(path string) ([]models.LibraryBook, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	reader := parquet.NewGenericReader[models.LibraryBook](pf)
	defer reader.Close()

	books := make([]models.LibraryBook, 0, pf.NumRows())
	rows := make([]models.LibraryBook, 64)
	for {
		n, err := reader.Read(rows)
		books = append(books, rows[:n]...)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read parquet rows: %w", err)
		}
	}

	return books, nil
}
