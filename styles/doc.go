// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the shared visual styling for shellkit's
// default output: the prompt, completion alternative listings and
// diagnostic messages.
//
// Colors use Lip Gloss AdaptiveColor for automatic light/dark detection.
// Output is automatically unstyled for non-TTY destinations and honors
// the NO_COLOR and FORCE_COLOR environment variables.
package styles
