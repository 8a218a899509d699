// shellkit demo - an interactive shell built on the shellkit packages.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/jeranaias/shellkit/commands"
	"github.com/jeranaias/shellkit/config"
	"github.com/jeranaias/shellkit/history"
	"github.com/jeranaias/shellkit/reader"
	"github.com/jeranaias/shellkit/shell"
	"github.com/jeranaias/shellkit/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration at startup
	cfg := config.Global()
	if cfg.NoColor {
		styles.SetColorsEnabled(false)
	}

	// ==========================================================================
	// Persistent history (SQLite)
	// ==========================================================================
	store, err := history.Open(cfg.History.Database)
	if err != nil {
		return fmt.Errorf("failed to open history store: %w", err)
	}
	defer store.Close()

	// ==========================================================================
	// Line reader
	// ==========================================================================
	rd := reader.NewLiner(cfg.History.File)
	defer rd.Close()

	// ==========================================================================
	// Shell wiring
	// ==========================================================================
	s := shell.New(shell.Options{
		Reader:  rd,
		Output:  os.Stdout,
		Config:  cfg,
		History: store,
	})

	aliases := commands.NewAliasStage(10)
	aliases.Define("v", "version")
	s.Use(aliases)

	registerCommands(s, store)

	// Live-reload the prompt when the config file changes on disk.
	if path, err := config.ConfigPathTOML(); err == nil {
		if w, werr := config.Watch(path, func(fresh *config.Config) {
			config.SetGlobal(fresh)
			s.OnPrompt(func() string { return styles.Prompt.Render(fresh.Prompt) })
		}); werr == nil {
			defer w.Close()
		}
	}

	return s.Run()
}

// =============================================================================
// COMMAND SET
// =============================================================================

func registerCommands(s *shell.Shell, store *history.Store) {
	add := func(cmd commands.Command) {
		if err := s.Add(cmd); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not register %q: %v\n", cmd.Name(), err)
		}
	}

	add(commands.NewCommand("help", "List available commands",
		func(ctx commands.Context, args []string) (any, error) {
			prefix := strings.Join(args, " ")
			for _, d := range s.Describe(prefix) {
				fmt.Printf("  %-24s %s\n", styles.Header.Render(d.Name), d.Description)
			}
			return nil, nil
		}))

	add(commands.NewCommand("version", "Show version information",
		func(commands.Context, []string) (any, error) {
			fmt.Printf("shellkit %s (%s, built %s)\n", Version, GitCommit, BuildDate)
			return Version, nil
		}))

	add(commands.NewCommand("echo", "Print the arguments",
		func(_ commands.Context, args []string) (any, error) {
			line := strings.Join(args, " ")
			fmt.Println(line)
			return line, nil
		}))

	add(commands.NewCommand("history", "Show recent commands (optional count)",
		func(_ commands.Context, args []string) (any, error) {
			n := 20
			if len(args) > 0 {
				parsed, err := strconv.Atoi(args[0])
				if err != nil {
					return nil, fmt.Errorf("invalid count %q: %w", args[0], err)
				}
				n = parsed
			}
			entries, err := store.Recent(n)
			if err != nil {
				return nil, err
			}
			for _, e := range entries {
				fmt.Printf("  %s %s\n", styles.Muted.Render(e.CreatedAt.Format("15:04:05")), e.Line)
			}
			return entries, nil
		}))

	add(commands.NewCommand("history search", "Search history by prefix",
		func(_ commands.Context, args []string) (any, error) {
			if len(args) == 0 {
				return nil, fmt.Errorf("usage: history search <prefix>")
			}
			entries, err := store.Search(strings.Join(args, " "), 50)
			if err != nil {
				return nil, err
			}
			for _, e := range entries {
				fmt.Printf("  %s\n", e.Line)
			}
			return entries, nil
		}))

	add(commands.NewCommand("login", "Prompt for a secret without echo",
		func(_ commands.Context, args []string) (any, error) {
			secret, err := s.ReadSecret("password: ")
			if err != nil {
				return nil, err
			}
			fmt.Printf("received %d characters\n", len(secret))
			return nil, nil
		}))

	add(commands.NewCommand("exit", "Leave the shell",
		func(commands.Context, []string) (any, error) {
			s.Stop()
			return nil, nil
		}))
	add(commands.NewCommand("quit", "Leave the shell",
		func(commands.Context, []string) (any, error) {
			s.Stop()
			return nil, nil
		}))
}
