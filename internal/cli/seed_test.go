package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookwise/library/internal/config"
	"github.com/bookwise/library/internal/database"
	"github.com/bookwise/library/internal/entities"
)

const seedFixture = `[
  {
    "title": "The Midnight Library",
    "author": "Matt Haig",
    "genre": "Fantasy / Fiction",
    "rating": 4.6,
    "totalCopies": 20,
    "coverUrl": "https://example.com/midnight.jpg",
    "coverColor": "#1C1F40",
    "videoUrl": "https://example.com/midnight.mp4",
    "description": "A dazzling novel about all the choices that go into a life well lived.",
    "summary": "Between life and death there is a library."
  },
  {
    "title": "Atomic Habits",
    "author": "James Clear",
    "genre": "Self-help / Productivity",
    "rating": 4.9,
    "totalCopies": 99,
    "coverColor": "#fffdf6"
  },
  {
    "title": "Broken Entry",
    "author": "Nobody",
    "genre": "Errata",
    "rating": 9,
    "totalCopies": 1
  }
]`

func writeSeedFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "books.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadSeedFile(t *testing.T) {
	t.Run("decodes the admin field names", func(t *testing.T) {
		inputs, err := LoadSeedFile(writeSeedFile(t, seedFixture))
		require.NoError(t, err)
		require.Len(t, inputs, 3)

		assert.Equal(t, "The Midnight Library", inputs[0].Title)
		assert.Equal(t, 20, inputs[0].TotalCopies)
		assert.Equal(t, "#1C1F40", inputs[0].CoverColor)
		assert.Equal(t, "https://example.com/midnight.mp4", inputs[0].VideoURL)
		assert.InDelta(t, 4.9, inputs[1].Rating, 0.001)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadSeedFile(filepath.Join(t.TempDir(), "nope.json"))
		assert.ErrorContains(t, err, "failed to read seed file")
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := LoadSeedFile(writeSeedFile(t, `{"title": `))
		assert.ErrorContains(t, err, "failed to parse seed file")
	})
}

func TestSeedCommand_ParseFlags(t *testing.T) {
	cmd := NewSeedCommand(config.Database{Driver: config.DatabaseDriverSQLite, Path: "default.db"})
	assert.Error(t, cmd.ParseFlags(nil))

	require.NoError(t, cmd.ParseFlags([]string{"-file", "books.json", "-db", "other.db", "-dry-run"}))
	assert.Equal(t, "books.json", cmd.File)
	assert.Equal(t, "other.db", cmd.Database.Path)
	assert.True(t, cmd.DryRun)
}

func TestSeedCommand_Run(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "seed.db")
	file := writeSeedFile(t, seedFixture)

	newCmd := func() *SeedCommand {
		cmd := NewSeedCommand(config.Database{Driver: config.DatabaseDriverSQLite, Path: dbPath})
		require.NoError(t, cmd.ParseFlags([]string{"-file", file}))
		return cmd
	}

	result, err := newCmd().Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.BooksCreated)
	assert.Equal(t, 1, result.BooksFailed)

	// running again only skips
	result, err = newCmd().Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, result.BooksCreated)
	assert.Equal(t, 2, result.BooksSkipped)

	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)
	defer db.Close()

	var stored entities.Book
	require.NoError(t, db.DB.First(&stored, "title = ?", "Atomic Habits").Error)
	assert.Equal(t, 99, stored.AvailableCopies)
	assert.Equal(t, "#fffdf6", stored.CoverColor)
}

func TestSeedCommand_DryRunWritesNothing(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "dry.db")
	cmd := NewSeedCommand(config.Database{Driver: config.DatabaseDriverSQLite, Path: dbPath})
	require.NoError(t, cmd.ParseFlags([]string{"-file", writeSeedFile(t, seedFixture), "-dry-run"}))

	result, err := cmd.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.BooksCreated)
	assert.Equal(t, 1, result.BooksFailed)

	_, err = os.Stat(dbPath)
	assert.True(t, os.IsNotExist(err))
}
