// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the command resolution core of shellkit.
//
// This package holds everything a shell needs to turn a raw line into a
// runnable action: the quote-aware tokenizer, the command registry, the
// priority-ordered preprocessing pipeline, and the completion engine.
//
// # Key Types
//
//   - Command: capability set a host registers (name, predicate, handler)
//   - Registry: ordered command container with resolution and completion
//   - Binding: a resolved command bound to its remaining arguments
//   - Stage: a preprocessing pipeline stage with an integer priority
//   - Result: the outcome of a completion decision
//
// # Usage
//
// Resolve and run an input line:
//
//	tokens, err := commands.Tokenize(line)
//	binding, err := registry.Resolve(tokens)
//	result, err := binding.Run(ctx)
//
// Decide a completion:
//
//	res := commands.Decide(buffer, registry.Complete(buffer), commands.DefaultFormatter)
//	// res.Replace or res.Alternatives
//
// The Registry is not synchronized. The shell controller owns a single
// mutex and serializes every registry access; see the shell package.
package commands
