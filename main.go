package main

import (
	"context"
	"fmt"
	"os"

	"github.com/bookwise/library/internal/cli"
	"github.com/bookwise/library/internal/config"
	"github.com/bookwise/library/internal/entrypoint"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	// If no arguments or "serve" command, run the HTTP server
	if len(os.Args) < 2 || os.Args[1] == "serve" {
		cfg := config.NewConfig()
		entrypoint.Run(cfg, Version)
		return
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "seed":
		cfg := config.NewConfig()
		cmd := cli.NewSeedCommand(cfg.Database)
		if err := cmd.ParseFlags(args); err != nil {
			fail(err)
		}
		if _, err := cmd.Run(context.Background()); err != nil {
			fail(err)
		}

	case "create-admin":
		cfg := config.NewConfig()
		cmd := cli.NewCreateAdminCommand(cfg)
		if err := cmd.ParseFlags(args); err != nil {
			fail(err)
		}
		if _, err := cmd.Run(context.Background()); err != nil {
			fail(err)
		}

	case "version":
		fmt.Printf("%s (%s)\n", Version, Commit)

	case "-h", "--help", "help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [options]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  serve          Start the HTTP server (default if no command given)\n")
	fmt.Fprintf(os.Stderr, "  seed           Add books to the catalog from a JSON file\n")
	fmt.Fprintf(os.Stderr, "  create-admin   Create or promote an administrator account\n")
	fmt.Fprintf(os.Stderr, "  version        Print the build version\n")
	fmt.Fprintf(os.Stderr, "\nUse '%s <command> -h' for help on a specific command.\n", os.Args[0])
}
