// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package reader provides the terminal line-reading collaborator for
// shellkit.
//
// The shell controller talks to a LineReader and nothing else; raw
// keystroke handling, cursor movement and masking live behind it. The
// shipped implementation wraps github.com/peterh/liner with history
// persistence and a completion bridge. Hosts embedding shellkit in a
// non-terminal environment supply their own LineReader.
package reader
