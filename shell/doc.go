// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package shell provides the interactive shell controller.
//
// A Shell orchestrates the read-resolve-execute loop: it obtains lines
// from a reader.LineReader, rewrites tokens through the preprocessing
// pipeline, resolves them against the command registry and executes the
// match. It owns the single mutex that guards all registry access and
// the one-shot completion overrides.
//
// # Usage
//
//	sh := shell.New(shell.Options{Reader: reader.NewLiner("")})
//	sh.Add(commands.NewCommand("version", "print the version", handler))
//	err := sh.Run()
//
// The lock is never held across command execution, so a handler may call
// Add, Clear or Execute on its own shell without deadlocking.
package shell
