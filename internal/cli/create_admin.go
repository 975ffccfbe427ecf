package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/bookwise/library/internal/auth"
	"github.com/bookwise/library/internal/config"
	"github.com/bookwise/library/internal/database"
	"github.com/bookwise/library/internal/entities"
)

// CreateAdminCommand creates an approved administrator account, or promotes
// the account that already uses the email.
type CreateAdminCommand struct {
	Database     config.Database
	Auth         config.Auth
	Email        string
	FullName     string
	UniversityID int
	Card         string
	Password     string

	// ReadPassword prompts for the password when -password is not given.
	ReadPassword func(prompt string) (string, error)
}

// NewCreateAdminCommand creates a CreateAdminCommand for the configured database
func NewCreateAdminCommand(cfg *config.Config) *CreateAdminCommand {
	return &CreateAdminCommand{
		Database:     cfg.Database,
		Auth:         cfg.Auth,
		ReadPassword: readPassword,
	}
}

// ParseFlags parses command line flags
func (cmd *CreateAdminCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("create-admin", flag.ContinueOnError)

	fs.StringVar(&cmd.Email, "email", "", "Administrator email (required)")
	fs.StringVar(&cmd.FullName, "name", "Library Administrator", "Full name")
	fs.IntVar(&cmd.UniversityID, "university-id", 0, "University ID number (required)")
	fs.StringVar(&cmd.Card, "card", "staff", "University card reference")
	fs.StringVar(&cmd.Password, "password", "", "Password (prompted when omitted)")
	fs.StringVar(&cmd.Database.Path, "db", cmd.Database.Path, "Path to the SQLite database (ignored for postgres)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s create-admin -email admin@university.edu -university-id 1 [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Create an approved administrator. If the email is already registered the\n")
		fmt.Fprintf(os.Stderr, "account is promoted and approved instead.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if cmd.Email == "" {
		return fmt.Errorf("-email is required")
	}
	if cmd.UniversityID <= 0 {
		return fmt.Errorf("-university-id must be a positive number")
	}
	return nil
}

// Run executes the create-admin command
func (cmd *CreateAdminCommand) Run(ctx context.Context) (*entities.User, error) {
	password := cmd.Password
	if password == "" {
		var err error
		if password, err = cmd.ReadPassword("Password: "); err != nil {
			return nil, fmt.Errorf("failed to read password: %w", err)
		}
		confirm, err := cmd.ReadPassword("Confirm password: ")
		if err != nil {
			return nil, fmt.Errorf("failed to read password: %w", err)
		}
		if password != confirm {
			return nil, fmt.Errorf("passwords do not match")
		}
	}

	db, err := database.Open(cmd.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	service := auth.NewService(db.DB, cmd.Auth)
	user, err := service.CreateAdmin(ctx, auth.SignUpParams{
		FullName:       cmd.FullName,
		Email:          cmd.Email,
		UniversityID:   cmd.UniversityID,
		UniversityCard: cmd.Card,
		Password:       password,
	})
	if err != nil {
		return nil, err
	}

	fmt.Printf("Administrator ready: %s (%s)\n", user.Email, user.ID)
	return user, nil
}

func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}
