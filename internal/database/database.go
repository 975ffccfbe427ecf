package database

import (
	"fmt"
	"log"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/bookwise/library/internal/config"
	"github.com/bookwise/library/internal/entities"
)

// activeLoanIndex allows a single BORROWED record per (user, book). Both SQLite
// and Postgres support partial indexes with this syntax.
const activeLoanIndex = `CREATE UNIQUE INDEX IF NOT EXISTS ux_borrow_records_active
	ON borrow_records(user_id, book_id) WHERE status = 'BORROWED'`

// sqliteOptions are appended to every SQLite DSN.
const sqliteOptions = "_busy_timeout=5000&_foreign_keys=on&_journal_mode=WAL"

type Database struct {
	DB     *gorm.DB
	Driver config.DatabaseDriver
}

// NewDatabase opens (or creates) a SQLite database at dbPath.
func NewDatabase(dbPath string) (*Database, error) {
	return Open(config.Database{Driver: config.DatabaseDriverSQLite, Path: dbPath})
}

// Open connects to the configured database and migrates the schema.
func Open(cfg config.Database) (*Database, error) {
	var dialector gorm.Dialector
	target := cfg.Path

	switch cfg.Driver {
	case config.DatabaseDriverSQLite, "":
		dialector = sqlite.Open(sqliteDSN(cfg.Path))
		cfg.Driver = config.DatabaseDriverSQLite
	case config.DatabaseDriverPostgres:
		if cfg.DSN == "" {
			return nil, fmt.Errorf("postgres driver requires DATABASE_DSN")
		}
		dialector = postgres.Open(cfg.DSN)
		target = "postgres"
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.Driver == config.DatabaseDriverSQLite {
		// One connection: SQLite transactions queue instead of failing with SQLITE_BUSY.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to access connection pool: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := migrate(db); err != nil {
		return nil, err
	}

	log.Printf("Database initialized successfully at %s", target)

	return &Database{DB: db, Driver: cfg.Driver}, nil
}

func migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&entities.User{},
		&entities.Book{},
		&entities.BorrowRecord{},
		&entities.AuditEvent{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	if err := db.Exec(activeLoanIndex).Error; err != nil {
		return fmt.Errorf("failed to create active loan index: %w", err)
	}
	return nil
}

func sqliteDSN(path string) string {
	if path == "" {
		path = config.DefaultDatabasePath
	}
	if strings.Contains(path, "?") {
		return path + "&" + sqliteOptions
	}
	return path + "?" + sqliteOptions
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
