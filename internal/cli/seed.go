package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	jsoniter "github.com/json-iterator/go"

	"github.com/bookwise/library/internal/config"
	"github.com/bookwise/library/internal/database"
	"github.com/bookwise/library/internal/database/books"
	"github.com/bookwise/library/internal/services"
)

var seedJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// SeedCommand loads catalog entries from a JSON file
type SeedCommand struct {
	Database config.Database
	File     string
	Verbose  bool
	DryRun   bool
}

// NewSeedCommand creates a SeedCommand writing to the configured database
func NewSeedCommand(db config.Database) *SeedCommand {
	return &SeedCommand{Database: db}
}

// ParseFlags parses command line flags
func (cmd *SeedCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)

	fs.StringVar(&cmd.File, "file", "", "Path to a JSON array of books (required)")
	fs.StringVar(&cmd.Database.Path, "db", cmd.Database.Path, "Path to the SQLite database (ignored for postgres)")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Print every book as it is processed")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "Validate the file without writing to the database")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s seed -file books.json [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Add books to the catalog. Books already present (same title and author)\n")
		fmt.Fprintf(os.Stderr, "are skipped, so the command can be re-run safely.\n\n")
		fmt.Fprintf(os.Stderr, "Each entry uses the admin API fields:\n")
		fmt.Fprintf(os.Stderr, "  title, author, genre, rating, totalCopies, coverUrl, coverColor,\n")
		fmt.Fprintf(os.Stderr, "  videoUrl, description, summary\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if cmd.File == "" {
		return fmt.Errorf("-file is required")
	}
	return nil
}

// LoadSeedFile decodes a JSON array of books.
func LoadSeedFile(path string) ([]services.BookInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var inputs []services.BookInput
	if err := seedJSON.Unmarshal(data, &inputs); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	return inputs, nil
}

// Run executes the seed command
func (cmd *SeedCommand) Run(ctx context.Context) (services.ImportResult, error) {
	inputs, err := LoadSeedFile(cmd.File)
	if err != nil {
		return services.ImportResult{}, err
	}
	fmt.Printf("Found %d books in %s\n", len(inputs), cmd.File)

	if cmd.DryRun {
		var result services.ImportResult
		for i, in := range inputs {
			if err := in.Validate(); err != nil {
				fmt.Printf("  #%d %q: %v\n", i+1, in.Title, err)
				result.BooksFailed++
				continue
			}
			result.BooksCreated++
		}
		fmt.Printf("Dry run: %d valid, %d invalid\n", result.BooksCreated, result.BooksFailed)
		return result, nil
	}

	db, err := database.Open(cmd.Database)
	if err != nil {
		return services.ImportResult{}, fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	if cmd.Verbose {
		for _, in := range inputs {
			fmt.Printf("  → %q by %s (%d copies)\n", in.Title, in.Author, in.TotalCopies)
		}
	}

	catalog := services.NewCatalogService(books.NewRepository(db.DB))
	result, err := catalog.ImportBooks(ctx, inputs)
	if err != nil {
		return result, err
	}

	fmt.Println("\n=== Seed Summary ===")
	fmt.Printf("Created: %d\n", result.BooksCreated)
	fmt.Printf("Skipped: %d\n", result.BooksSkipped)
	fmt.Printf("Failed:  %d\n", result.BooksFailed)
	return result, nil
}
