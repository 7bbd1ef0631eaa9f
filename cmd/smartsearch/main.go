package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/abrahamisaiah129/mima-official-sub000/internal/infrastructure/catalog"
	"github.com/abrahamisaiah129/mima-official-sub000/internal/usecase"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	defaults := usecase.DefaultMatchConfig()

	return &cli.App{
		Name:      "smartsearch",
		Usage:     "Run the storefront product search over a JSON catalog file",
		ArgsUsage: "QUERY...",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "catalog",
				Aliases:  []string{"c"},
				Usage:    "Path to a JSON catalog (array or {\"products\": [...]}), - for stdin",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print matching products as JSON",
			},
			&cli.IntFlag{
				Name:  "min-fuzzy-length",
				Usage: "Shortest word that may match with typos",
				Value: defaults.MinFuzzyLength,
			},
			&cli.IntFlag{
				Name:  "long-token-length",
				Usage: "Words longer than this get the long-word typo budget",
				Value: defaults.LongTokenLength,
			},
			&cli.IntFlag{
				Name:  "short-token-mistakes",
				Usage: "Typos allowed for short words",
				Value: defaults.ShortTokenMistakes,
			},
			&cli.IntFlag{
				Name:  "long-token-mistakes",
				Usage: "Typos allowed for long words",
				Value: defaults.LongTokenMistakes,
			},
		},
		Action: searchCommand,
	}
}

func searchCommand(c *cli.Context) error {
	data, err := readCatalog(c.String("catalog"), c.App.Reader)
	if err != nil {
		return err
	}

	products, rejected, err := catalog.ParseProducts(data)
	if err != nil {
		return fmt.Errorf("parse catalog: %w", err)
	}
	for _, rej := range rejected {
		fmt.Fprintf(c.App.ErrWriter, "skipping %v\n", rej)
	}

	matcher := usecase.NewMatcher(usecase.MatchConfig{
		MinFuzzyLength:     c.Int("min-fuzzy-length"),
		LongTokenLength:    c.Int("long-token-length"),
		ShortTokenMistakes: c.Int("short-token-mistakes"),
		LongTokenMistakes:  c.Int("long-token-mistakes"),
	})
	query := strings.Join(c.Args().Slice(), " ")
	matches := matcher.Match(products, query)

	if c.Bool("json") {
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(matches)
	}

	for _, p := range matches {
		fmt.Fprintf(c.App.Writer, "%s\t%s\n", p.Title, p.Category)
	}
	fmt.Fprintf(c.App.ErrWriter, "%d of %d products match %q\n", len(matches), len(products), query)
	return nil
}

func readCatalog(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return data, nil
}
