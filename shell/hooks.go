// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package shell

import (
	"fmt"

	"github.com/mattn/go-runewidth"

	"github.com/jeranaias/shellkit/commands"
	"github.com/jeranaias/shellkit/styles"
)

// =============================================================================
// NOTIFICATION HOOKS
// =============================================================================

// Hooks are the controller's notification points. Each point has zero or
// one subscriber; dispatch runs the subscriber if present, otherwise the
// built-in default, never both.
type Hooks struct {
	// BeforeExecute runs before a resolved command's action.
	// Default: echo the raw input dimmed.
	BeforeExecute func(raw string)

	// AfterExecute runs after a successful action with the raw input,
	// the produced result (nil if none) and the resolved command.
	// Default: print a non-nil result.
	AfterExecute func(raw string, result any, cmd commands.Command)

	// CommandNotFound runs when no registered command accepted the
	// input. Default: print a diagnostic with the raw input verbatim.
	CommandNotFound func(raw string)

	// Interrupt runs when the reader reports a break signal.
	Interrupt func()

	// Prompt supplies the prompt text for the next read.
	// Default: the configured prompt, styled.
	Prompt func() string

	// Alternatives displays a completion candidate list.
	// Default: a header with one bulleted line per candidate.
	Alternatives func(candidates []string)
}

// SetHooks replaces the whole hook table.
func (s *Shell) SetHooks(h Hooks) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = h
}

// OnCommandNotFound subscribes to the command-not-found notification.
func (s *Shell) OnCommandNotFound(fn func(raw string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks.CommandNotFound = fn
}

// OnBeforeExecute subscribes to the before-execute notification.
func (s *Shell) OnBeforeExecute(fn func(raw string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks.BeforeExecute = fn
}

// OnAfterExecute subscribes to the after-execute notification.
func (s *Shell) OnAfterExecute(fn func(raw string, result any, cmd commands.Command)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks.AfterExecute = fn
}

// OnInterrupt subscribes to the interrupt notification.
func (s *Shell) OnInterrupt(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks.Interrupt = fn
}

// OnPrompt subscribes to the prompt-requested notification.
func (s *Shell) OnPrompt(fn func() string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks.Prompt = fn
}

// OnAlternatives subscribes to the alternatives-ready notification.
func (s *Shell) OnAlternatives(fn func(candidates []string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks.Alternatives = fn
}

// =============================================================================
// DISPATCH
// =============================================================================

func (s *Shell) getHooks() Hooks {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hooks
}

func (s *Shell) dispatchBeforeExecute(raw string) {
	if fn := s.getHooks().BeforeExecute; fn != nil {
		fn(raw)
		return
	}
	fmt.Fprintln(s.out, styles.Muted.Render(raw))
}

func (s *Shell) dispatchAfterExecute(raw string, result any, cmd commands.Command) {
	if fn := s.getHooks().AfterExecute; fn != nil {
		fn(raw, result, cmd)
		return
	}
	if result != nil {
		fmt.Fprintf(s.out, "%v\n", result)
	}
}

func (s *Shell) dispatchNotFound(raw string) {
	if fn := s.getHooks().CommandNotFound; fn != nil {
		fn(raw)
		return
	}
	fmt.Fprintf(s.out, "%s %s\n", styles.Error.Render("command not found:"), raw)
}

func (s *Shell) dispatchInterrupt() {
	if fn := s.getHooks().Interrupt; fn != nil {
		fn()
		return
	}
	fmt.Fprintln(s.out, styles.Warning.Render("^C"))
}

func (s *Shell) dispatchPrompt() string {
	if fn := s.getHooks().Prompt; fn != nil {
		return fn()
	}
	return styles.Prompt.Render(s.cfg.Prompt)
}

func (s *Shell) dispatchAlternatives(candidates []string) {
	if fn := s.getHooks().Alternatives; fn != nil {
		fn(candidates)
		return
	}
	s.printAlternatives(candidates)
}

func (s *Shell) printError(err error) {
	fmt.Fprintf(s.out, "%s %v\n", styles.Error.Render("[error]"), err)
}

// printAlternatives is the built-in alternatives display: a header
// followed by one bulleted line per candidate, truncated to the
// terminal width.
func (s *Shell) printAlternatives(candidates []string) {
	width := styles.TerminalWidth()

	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, styles.Header.Render("Possible completions:"))
	for _, cand := range candidates {
		line := runewidth.Truncate(cand, width-4, "...")
		fmt.Fprintf(s.out, "  %s %s\n", styles.Muted.Render("•"), styles.Bullet.Render(line))
	}
}
