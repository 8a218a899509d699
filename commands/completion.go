// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import "strings"

// =============================================================================
// COMPLETION ENGINE
// =============================================================================

// Result is the outcome of a completion decision. Exactly one of the two
// fields is populated; both empty means no completion output.
type Result struct {
	// Replace is a string to insert into the input buffer directly.
	Replace string

	// Alternatives is a candidate list to display, not to insert.
	Alternatives []string
}

// Formatter rewrites the candidate list before the completion decision.
type Formatter func(candidates []string) []string

// DefaultFormatter appends one trailing separator to a lone candidate,
// preparing the buffer for the next token, and passes multi-candidate
// lists through unchanged.
func DefaultFormatter(candidates []string) []string {
	if len(candidates) == 1 && !strings.HasSuffix(candidates[0], " ") {
		return []string{candidates[0] + " "}
	}
	return candidates
}

// CommonPrefix computes the longest string every candidate starts with
// under case-insensitive comparison, built up character by character. A
// single candidate is its own prefix; an empty list, or candidates with
// nothing in common, yield "".
//
// The returned prefix uses the first candidate's casing.
func CommonPrefix(candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	if len(candidates) == 1 {
		return candidates[0]
	}

	first := candidates[0]
	n := 0
	for n < len(first) {
		next := first[:n+1]
		for _, cand := range candidates[1:] {
			if len(cand) < len(next) || !strings.EqualFold(cand[:len(next)], next) {
				return first[:n]
			}
		}
		n++
	}
	return first
}

// Decide applies the completion policy for the current buffer and
// candidate set.
//
// The formatter runs first, exactly once, over the candidate list. Then:
// zero candidates produce no output; one candidate is reported for direct
// insertion; with several, the common prefix is inserted unless the buffer
// already ends with it (case-insensitive), in which case the full list is
// reported as alternatives. The end-of-buffer check is what stops an
// auto-fill loop once the buffer has absorbed the shared prefix.
func Decide(buffer string, candidates []string, format Formatter) Result {
	if format == nil {
		format = DefaultFormatter
	}
	candidates = format(candidates)

	switch len(candidates) {
	case 0:
		return Result{}
	case 1:
		return Result{Replace: candidates[0]}
	}

	prefix := CommonPrefix(candidates)
	if prefix != "" && !hasSuffixFold(buffer, prefix) {
		return Result{Replace: prefix}
	}
	return Result{Alternatives: candidates}
}

// hasSuffixFold reports whether s ends with suffix, case-insensitively.
func hasSuffixFold(s, suffix string) bool {
	if len(s) < len(suffix) {
		return false
	}
	return strings.EqualFold(s[len(s)-len(suffix):], suffix)
}
