package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/christianbooksai/companion/internal/browser"
	"github.com/christianbooksai/companion/internal/models"
	"github.com/spf13/cobra"
)

func newBrowseCmd(opts *rootOptions) *cobra.Command {
	var (
		server string
		bookID string
	)

	cmd := &cobra.Command{
		Use:   "browse <question>",
		Short: "Search a running server and open a book, as the web front end does",
		Long: `Browse calls a running companion server. It searches, then optionally opens
one result. The book page is resolved from the cached search, so opening a
book never repeats the search; its deep-dive fields are fetched on demand.`,
		Example: `  companion browse "How do I pray?" --book 2
  companion browse --server http://localhost:3000 "Hope in suffering"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			session := browser.NewSession(server, nil, nil)

			resp, err := session.Search(cmd.Context(), query)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if bookID == "" {
				printSearch(out, resp)
				for _, r := range resp.Results {
					fmt.Fprintf(out, "\n/book/%s?%s", r.IDString(), browser.RefFor(query, r).Values().Encode())
				}
				fmt.Fprintln(out)
				return nil
			}

			book, err := session.Book(cmd.Context(), browser.BookRef{ID: bookID, Query: query})
			if err != nil {
				return err
			}
			printBook(out, book)
			return nil
		},
	}

	cmd.Flags().StringVar(&server, "server", "http://localhost:8888", "Companion server base URL")
	cmd.Flags().StringVar(&bookID, "book", "", "Open the result with this id")

	return cmd
}

func printBook(w io.Writer, b *models.BookResult) {
	fmt.Fprintf(w, "%s by %s", b.Title, b.Author)
	if year := b.YearString(); year != "" {
		fmt.Fprintf(w, " (%s)", year)
	}
	fmt.Fprintf(w, "\n%s\ncover: %s\n\n", b.Summary, b.Image)
	printDetails(w, &models.BookDetails{
		ApplicationParagraph: b.ApplicationParagraph,
		AIInterpretation:     b.AIInterpretation,
		Quotes:               b.Quotes,
		DevotionalQuestion:   b.DevotionalQuestion,
		PracticalTip:         b.PracticalTip,
	})
}
