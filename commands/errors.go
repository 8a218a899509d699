// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import "errors"

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNotFound means no registered command accepted the token sequence.
	ErrNotFound = errors.New("command not found")

	// ErrDuplicateCommand means a command with the same name is already
	// registered. Names are compared case-insensitively.
	ErrDuplicateCommand = errors.New("command already registered")

	// ErrEmptyName means a command was registered with a blank name.
	ErrEmptyName = errors.New("command name cannot be empty")

	// ErrUnbalancedQuote means a raw input line ended inside a quoted
	// region. The line is rejected before resolution.
	ErrUnbalancedQuote = errors.New("unbalanced quote")
)
