// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import "strings"

// =============================================================================
// COMMAND CAPABILITY
// =============================================================================

// Command is the capability set a host registers into the shell.
//
// Identity is the name: a registry holds at most one command per name.
// Accepts decides whether this command handles a token sequence; the
// registry never inspects tokens itself, so specificity between commands
// is entirely the predicate's responsibility.
type Command interface {
	// Name is the canonical name used for matching, listing and completion.
	// Multi-word names ("show version") match that many leading tokens.
	Name() string

	// Description is shown in listings and alternative displays.
	Description() string

	// Accepts reports whether this command handles the token sequence.
	Accepts(tokens []string) bool

	// Invoke runs the command with the remaining argument tokens.
	// A non-nil result is stored in the shell's last-result slot.
	Invoke(ctx Context, args []string) (any, error)

	// Complete proposes continuation strings for a partial input buffer.
	Complete(partial string) []string
}

// Context is the surface of the shell visible to command handlers and
// preprocessing stages. It is implemented by shell.Shell; every method is
// safe to call from inside a running handler.
type Context interface {
	// Execute tokenizes, preprocesses, resolves and runs a raw input line.
	Execute(input string) error

	// ExecuteTokens runs an already-tokenized input sequence.
	ExecuteTokens(tokens []string) error

	// Add registers a command.
	Add(cmd Command) error

	// Clear removes every registered command.
	Clear()

	// SetResult stores a value in the shared last-result slot.
	SetResult(v any)

	// LastResult returns the most recently stored result, or nil.
	LastResult() any
}

// HandlerFunc is the invocation logic of a literal-named command.
type HandlerFunc func(ctx Context, args []string) (any, error)

// Option configures a command built with NewCommand.
type Option func(*literalCommand)

// WithMatcher replaces the default leading-token name match with a custom
// acceptance predicate.
func WithMatcher(accepts func(tokens []string) bool) Option {
	return func(c *literalCommand) { c.accepts = accepts }
}

// WithCompleter adds extra completion proposals beyond the command name,
// typically argument values.
func WithCompleter(complete func(partial string) []string) Option {
	return func(c *literalCommand) { c.complete = complete }
}

// NewCommand returns a Command with a literal name and a handler function.
//
// The default predicate accepts any token sequence whose leading tokens
// equal the space-separated name, case-insensitively. The default
// completer proposes the full name whenever the partial buffer is a
// case-insensitive prefix of it.
func NewCommand(name, description string, handler HandlerFunc, opts ...Option) Command {
	c := &literalCommand{
		name:        name,
		description: description,
		handler:     handler,
		nameTokens:  strings.Fields(name),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type literalCommand struct {
	name        string
	description string
	nameTokens  []string
	handler     HandlerFunc
	accepts     func(tokens []string) bool
	complete    func(partial string) []string
}

func (c *literalCommand) Name() string        { return c.name }
func (c *literalCommand) Description() string { return c.description }

func (c *literalCommand) Accepts(tokens []string) bool {
	if c.accepts != nil {
		return c.accepts(tokens)
	}
	return matchName(c.nameTokens, tokens) == len(c.nameTokens) && len(c.nameTokens) > 0
}

func (c *literalCommand) Invoke(ctx Context, args []string) (any, error) {
	if c.handler == nil {
		return nil, nil
	}
	return c.handler(ctx, args)
}

func (c *literalCommand) Complete(partial string) []string {
	var proposals []string
	trimmed := strings.TrimLeft(partial, " \t")
	if strings.HasPrefix(strings.ToLower(c.name), strings.ToLower(trimmed)) {
		proposals = append(proposals, c.name)
	}
	if c.complete != nil {
		proposals = append(proposals, c.complete(partial)...)
	}
	return proposals
}

// matchName returns the number of leading tokens equal to the name tokens
// under case-insensitive comparison, or 0 when the name does not fully
// prefix the sequence.
func matchName(nameTokens, tokens []string) int {
	if len(nameTokens) == 0 || len(tokens) < len(nameTokens) {
		return 0
	}
	for i, nt := range nameTokens {
		if !strings.EqualFold(nt, tokens[i]) {
			return 0
		}
	}
	return len(nameTokens)
}
