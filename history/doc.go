// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history provides persistent storage for executed input lines.
//
// The shell controller keeps its own in-memory history with the
// consecutive-duplicate contract; this package is the shipped
// implementation of the external History collaborator for hosts that
// want lines to survive the process. Entries are stored in a SQLite
// database, grouped by session.
package history
