package main

import (
	"fmt"
	"os"

	"github.com/hpungsan/jot/internal/assist"
	"github.com/hpungsan/jot/internal/config"
	"github.com/hpungsan/jot/internal/db"
	"github.com/hpungsan/jot/internal/logger"
	"github.com/hpungsan/jot/internal/mcp"
	"github.com/hpungsan/jot/internal/metrics"
	"github.com/hpungsan/jot/internal/ops"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"create": true, "fetch": true, "update": true, "delete": true,
	"list": true, "search": true, "bookmark": true, "check": true,
	"folders": true, "folder-add": true, "folder-update": true,
	"folder-delete": true, "folder-reorder": true,
	"recent": true, "stats": true, "assist": true, "render": true,
	"export": true, "import": true, "purge": true, "serve": true,
	"help": true,
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode() bool {
	if len(os.Args) < 2 {
		return false // No args → MCP server
	}
	arg := os.Args[1]
	// Known subcommand → CLI
	if cliCommands[arg] {
		return true
	}
	// --help or --version → CLI
	if arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" {
		return true
	}
	return false // Default → MCP server
}

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion() bool {
	if len(os.Args) < 2 {
		return false
	}
	arg := os.Args[1]
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" || arg == "help"
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	stat, _ := os.Stdin.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// printBanner displays a friendly banner when run interactively without args.
func printBanner() {
	fmt.Println(`
       _       _
      (_) ___ | |_
      | |/ _ \| __|
      | | (_) | |_
     _/ |\___/ \__|
    |__/

  Memos with inline markup and writing assist

  Usage: jot <command> [options]
         jot --help

  MCP server mode requires piped input.`)
}

func main() {
	// No args + interactive terminal → show banner and exit
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	// Handle --help/--version before DB init (no DB needed)
	if isHelpOrVersion() {
		app := newCLIApp(nil, nil, nil, nil, nil)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	log := logger.Stderr()

	baseDir, err := ops.DefaultDataDir()
	if err != nil {
		log.Fatal("could not determine data directory", "error", err)
	}

	database, err := db.Init(baseDir)
	if err != nil {
		log.Fatal("failed to initialize database", "error", err)
	}
	defer database.Close()

	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	cfg, err := config.LoadWithRepo(baseDir, cwd)
	if err != nil {
		log.Fatal("failed to load config", "error", err)
	}
	db.ConfigurePool(database, cfg)

	transformer, err := assist.New(cfg.Assist, log)
	if err != nil {
		log.Fatal("failed to configure assist", "error", err)
	}
	rec := metrics.New(metrics.DefaultConfig())
	transformer = assist.Observed{Next: transformer, Recorder: rec}

	// CLI mode: known subcommand
	if isCLIMode() {
		app := newCLIApp(database, cfg, transformer, rec, log)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Unknown argument + terminal → show error (don't start MCP server)
	if len(os.Args) >= 2 && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'jot --help' for usage.\n")
		os.Exit(1)
	}

	// MCP server mode (default)
	if err := mcp.Run(database, cfg, transformer, Version); err != nil {
		log.Error("mcp server stopped", "error", err)
		os.Exit(1)
	}
}
