// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for
// shellkit hosts.
//
// Supports both TOML and JSON formats, with sensible defaults,
// environment variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.shellkit/config.toml
//   - ~/.shellkit/config.json
//   - Built-in defaults
package config
