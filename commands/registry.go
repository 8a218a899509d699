// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"
	"sort"
	"strings"
)

// =============================================================================
// COMMAND REGISTRY
// =============================================================================

// Registry holds registered commands in registration order.
//
// A Registry is a plain container with no lock of its own: the shell
// controller serializes access and replaces the whole container on clear,
// so a resolution that already captured a reference keeps working against
// the snapshot it saw.
type Registry struct {
	ordered []Command
	names   map[string]Command
}

// NewRegistry creates an empty command registry.
func NewRegistry() *Registry {
	return &Registry{
		names: make(map[string]Command),
	}
}

// Add registers a command. A blank name returns ErrEmptyName; a name that
// is already registered (case-insensitive) returns ErrDuplicateCommand.
func (r *Registry) Add(cmd Command) error {
	name := strings.TrimSpace(cmd.Name())
	if name == "" {
		return ErrEmptyName
	}
	key := strings.ToLower(name)
	if _, exists := r.names[key]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateCommand, name)
	}
	r.names[key] = cmd
	r.ordered = append(r.ordered, cmd)
	return nil
}

// Len returns the number of registered commands.
func (r *Registry) Len() int {
	return len(r.ordered)
}

// All returns the registered commands in registration order.
func (r *Registry) All() []Command {
	out := make([]Command, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// =============================================================================
// RESOLUTION
// =============================================================================

// Binding is a resolved command bound to the remaining argument tokens.
type Binding struct {
	cmd    Command
	args   []string
	tokens []string
}

// Command returns the resolved command.
func (b *Binding) Command() Command { return b.cmd }

// Args returns the argument tokens the command will run with.
func (b *Binding) Args() []string { return b.args }

// Tokens returns the full token sequence the binding resolved from,
// name tokens included.
func (b *Binding) Tokens() []string { return b.tokens }

// Run invokes the bound command. The binding keeps working even if the
// registry it came from has since been cleared or shadowed.
func (b *Binding) Run(ctx Context) (any, error) {
	return b.cmd.Invoke(ctx, b.args)
}

// Resolve scans the registered commands and returns the accepting one as a
// binding over the unconsumed argument tokens, or ErrNotFound.
//
// Resolution policy: among all commands whose predicate accepts the
// tokens, the command whose literal name matches the longest leading token
// run wins; ties, and commands matching on predicate alone, fall back to
// registration order.
func (r *Registry) Resolve(tokens []string) (*Binding, error) {
	var best Command
	bestLen := -1

	for _, cmd := range r.ordered {
		if !cmd.Accepts(tokens) {
			continue
		}
		n := matchName(strings.Fields(cmd.Name()), tokens)
		if n > bestLen {
			best = cmd
			bestLen = n
		}
	}

	if best == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, strings.Join(tokens, " "))
	}

	args := tokens[bestLen:]
	if len(args) == 0 {
		args = nil
	}
	return &Binding{
		cmd:    best,
		args:   args,
		tokens: tokens,
	}, nil
}

// =============================================================================
// COMPLETION AND LISTING
// =============================================================================

// Complete asks every registered command for continuation proposals
// consistent with the partial buffer, deduplicates them and returns the
// result in lexicographic order.
func (r *Registry) Complete(partial string) []string {
	seen := make(map[string]struct{})
	var out []string

	for _, cmd := range r.ordered {
		for _, proposal := range cmd.Complete(partial) {
			if proposal == "" {
				continue
			}
			if _, dup := seen[proposal]; dup {
				continue
			}
			seen[proposal] = struct{}{}
			out = append(out, proposal)
		}
	}

	sort.Strings(out)
	return out
}

// Description is one entry of a command listing.
type Description struct {
	Name        string
	Description string
}

// Describe returns name/description pairs for commands whose name starts
// with prefix (case-insensitive; empty prefix lists everything), sorted by
// name.
func (r *Registry) Describe(prefix string) []Description {
	prefix = strings.ToLower(prefix)
	var out []Description

	for _, cmd := range r.ordered {
		if prefix != "" && !strings.HasPrefix(strings.ToLower(cmd.Name()), prefix) {
			continue
		}
		out = append(out, Description{
			Name:        cmd.Name(),
			Description: cmd.Description(),
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
