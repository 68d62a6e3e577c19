package cmd

import (
	"fmt"
	"strings"

	"github.com/christianbooksai/companion/internal/library"
	"github.com/spf13/cobra"
)

func newLibraryCmd(opts *rootOptions) *cobra.Command {
	var (
		catalogPath  string
		categories   []string
		difficulties []string
		eras         []string
		sortBy       string
		asJSON       bool
	)

	cmd := &cobra.Command{
		Use:   "library [search]",
		Short: "Browse the curated library",
		Example: `  companion library lewis
  companion library --category Theology --era Classics --sort popular
  companion library --catalog books.parquet`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.cfg.LibraryCatalog
			if catalogPath != "" {
				path = catalogPath
			}

			catalog, err := library.Load(path)
			if err != nil {
				return err
			}

			books := catalog.Search(library.Filter{
				Query:        strings.Join(args, " "),
				Categories:   categories,
				Difficulties: difficulties,
				Eras:         eras,
				Sort:         sortBy,
			})

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, books)
			}
			for _, b := range books {
				fmt.Fprintf(out, "%-4s %s by %s [%s]\n", b.ID, b.Title, b.Author, strings.Join(b.Tags, ", "))
			}
			fmt.Fprintf(out, "%d of %d books\n", len(books), catalog.Len())
			return nil
		},
	}

	cmd.Flags().StringVar(&catalogPath, "catalog", "", "Catalog file (.yaml, .jsonl, .parquet); overrides LIBRARY_CATALOG")
	cmd.Flags().StringSliceVar(&categories, "category", nil, "Category filter: "+strings.Join(library.Categories, ", "))
	cmd.Flags().StringSliceVar(&difficulties, "difficulty", nil, "Difficulty filter: "+strings.Join(library.Difficulties, ", "))
	cmd.Flags().StringSliceVar(&eras, "era", nil, "Era filter: "+strings.Join(library.Eras, ", "))
	cmd.Flags().StringVar(&sortBy, "sort", library.SortRecommended, "Sort order (recommended, popular, added)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")

	return cmd
}
