// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"
	"strings"
	"unicode"
)

// =============================================================================
// TOKENIZER
// =============================================================================

// Tokenize splits an input line into tokens, respecting quotes.
// Supports both single and double quotes for tokens with spaces; the
// quotes themselves are removed. Backslash escapes quote characters and
// backslashes inside a quoted region. A line ending inside a quoted
// region returns ErrUnbalancedQuote.
func Tokenize(input string) ([]string, error) {
	var tokens []string
	var current strings.Builder
	var inSingleQuote, inDoubleQuote bool

	// Empty tokens from adjacent quotes ("" or '') are kept, so a quoted
	// empty string is a real argument.
	quoted := false

	for i := 0; i < len(input); i++ {
		char := rune(input[i])

		switch {
		case char == '\'' && !inDoubleQuote:
			inSingleQuote = !inSingleQuote
			quoted = true

		case char == '"' && !inSingleQuote:
			inDoubleQuote = !inDoubleQuote
			quoted = true

		case char == '\\' && i+1 < len(input) && (inDoubleQuote || inSingleQuote):
			next := rune(input[i+1])
			if next == '"' || next == '\'' || next == '\\' {
				current.WriteRune(next)
				i++
			} else {
				current.WriteRune(char)
			}

		case unicode.IsSpace(char) && !inSingleQuote && !inDoubleQuote:
			if current.Len() > 0 || quoted {
				tokens = append(tokens, current.String())
				current.Reset()
				quoted = false
			}

		default:
			current.WriteRune(char)
		}
	}

	if inSingleQuote || inDoubleQuote {
		return nil, fmt.Errorf("%w in %q", ErrUnbalancedQuote, input)
	}

	if current.Len() > 0 || quoted {
		tokens = append(tokens, current.String())
	}

	return tokens, nil
}
