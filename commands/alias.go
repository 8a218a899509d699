// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import "strings"

// =============================================================================
// ALIAS STAGE
// =============================================================================

// AliasSigil marks an alias invocation at the start of a line.
const AliasSigil = "!"

// AliasStage expands a leading alias token into its replacement tokens.
//
// An alias is invoked as "!name args..."; the stage replaces the "!name"
// token with the defined expansion and leaves the rest of the line alone.
// An unknown "!name" just loses its sigil. StripSyntax removes the sigil
// from a raw buffer so completion matches registered command names.
type AliasStage struct {
	priority int
	aliases  map[string][]string
}

// NewAliasStage creates an alias stage with the given pipeline priority.
func NewAliasStage(priority int) *AliasStage {
	return &AliasStage{
		priority: priority,
		aliases:  make(map[string][]string),
	}
}

// Define maps an alias name to its token expansion. Redefining replaces
// the previous expansion.
func (s *AliasStage) Define(name string, expansion ...string) {
	s.aliases[strings.ToLower(name)] = expansion
}

// Priority implements Stage.
func (s *AliasStage) Priority() int { return s.priority }

// Rewrite implements Stage.
func (s *AliasStage) Rewrite(_ Context, tokens []string) ([]string, error) {
	if len(tokens) == 0 || !strings.HasPrefix(tokens[0], AliasSigil) {
		return tokens, nil
	}

	name := strings.ToLower(strings.TrimPrefix(tokens[0], AliasSigil))
	expansion, ok := s.aliases[name]
	if !ok {
		// Unknown alias: drop the sigil and let resolution decide.
		out := append([]string{name}, tokens[1:]...)
		return out, nil
	}

	out := make([]string, 0, len(expansion)+len(tokens)-1)
	out = append(out, expansion...)
	out = append(out, tokens[1:]...)
	return out, nil
}

// StripSyntax implements Stage.
func (s *AliasStage) StripSyntax(buffer string) string {
	trimmed := strings.TrimLeft(buffer, " \t")
	if !strings.HasPrefix(trimmed, AliasSigil) {
		return buffer
	}
	return strings.TrimPrefix(trimmed, AliasSigil)
}
