// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package reader

import "errors"

// =============================================================================
// LINE READER CONTRACT
// =============================================================================

// ErrInterrupted is returned by ReadLine when the user pressed the break
// key at the prompt. The controller surfaces it as a notification and
// keeps reading.
var ErrInterrupted = errors.New("interrupted")

// CompleteFunc maps the current input buffer to a completion decision:
// either a direct replacement for the buffer, or a candidate list that
// was displayed to the user out of band. Both empty means no completion.
type CompleteFunc func(buffer string) (replace string, alternatives []string)

// LineReader is the terminal collaborator the shell controller reads
// from. Implementations own all raw terminal concerns.
type LineReader interface {
	// ReadLine blocks for one line of input, displaying prompt.
	// Returns io.EOF when input is exhausted and ErrInterrupted when
	// the break key was pressed (if the break toggle is on).
	ReadLine(prompt string) (string, error)

	// ReadMasked blocks for one line without echoing it, for secrets.
	ReadMasked(prompt string) (string, error)

	// SetComplete installs the tab-completion callback.
	SetComplete(fn CompleteFunc)

	// SetCtrlCAborts controls whether the break key interrupts the
	// pending read instead of being ignored.
	SetCtrlCAborts(on bool)

	// SetEOFExits controls whether the end-of-input key is reported as
	// io.EOF or swallowed.
	SetEOFExits(on bool)

	// SetAltEOFExits controls whether the platform's second
	// end-of-input key is also reported as io.EOF.
	SetAltEOFExits(on bool)

	// Close releases terminal state. The reader is unusable afterwards.
	Close() error
}
