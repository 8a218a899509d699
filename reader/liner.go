// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package reader

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
)

// =============================================================================
// LINER ADAPTER
// =============================================================================

// Liner is the default LineReader, built on github.com/peterh/liner.
// It provides readline-style editing, arrow-key history navigation and
// history persistence to a file.
type Liner struct {
	state       *liner.State
	historyFile string
	complete    CompleteFunc

	ctrlCAborts bool
	eofExits    bool
	altEOFExits bool
}

// NewLiner creates a liner-backed reader. historyFile may be empty to
// disable persistence; otherwise existing history is loaded immediately.
func NewLiner(historyFile string) *Liner {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)
	state.SetTabCompletionStyle(liner.TabCircular)

	l := &Liner{
		state:       state,
		historyFile: historyFile,
		ctrlCAborts: true,
		eofExits:    true,
		altEOFExits: true,
	}
	l.LoadHistory()

	l.state.SetCompleter(func(line string) []string {
		if l.complete == nil {
			return nil
		}
		replace, _ := l.complete(line)
		if replace == "" {
			// Alternatives were displayed by the callback; keep the
			// buffer as typed.
			return nil
		}
		return []string{replace}
	})

	return l
}

// ReadLine implements LineReader. Non-blank input is appended to the
// reader's navigation history.
func (l *Liner) ReadLine(prompt string) (string, error) {
	for {
		input, err := l.state.Prompt(prompt)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				if l.ctrlCAborts {
					return "", ErrInterrupted
				}
				continue
			}
			if errors.Is(err, io.EOF) {
				if l.eofExits || l.altEOFExits {
					return "", io.EOF
				}
				continue
			}
			return "", err
		}
		if strings.TrimSpace(input) != "" {
			l.state.AppendHistory(input)
		}
		return input, nil
	}
}

// ReadMasked implements LineReader using liner's password prompt.
func (l *Liner) ReadMasked(prompt string) (string, error) {
	input, err := l.state.PasswordPrompt(prompt)
	if errors.Is(err, liner.ErrPromptAborted) {
		return "", ErrInterrupted
	}
	return input, err
}

// SetComplete implements LineReader.
func (l *Liner) SetComplete(fn CompleteFunc) {
	l.complete = fn
}

// SetCtrlCAborts implements LineReader.
func (l *Liner) SetCtrlCAborts(on bool) {
	l.ctrlCAborts = on
	l.state.SetCtrlCAborts(on)
}

// SetEOFExits implements LineReader.
func (l *Liner) SetEOFExits(on bool) {
	l.eofExits = on
}

// SetAltEOFExits implements LineReader.
func (l *Liner) SetAltEOFExits(on bool) {
	l.altEOFExits = on
}

// LoadHistory reads persisted navigation history from the history file.
func (l *Liner) LoadHistory() {
	if l.historyFile == "" {
		return
	}
	if f, err := os.Open(l.historyFile); err == nil {
		l.state.ReadHistory(f)
		f.Close()
	}
}

// SaveHistory persists navigation history with owner-only permissions.
func (l *Liner) SaveHistory() {
	if l.historyFile == "" {
		return
	}
	f, err := os.OpenFile(l.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	l.state.WriteHistory(f)
}

// Close saves history and restores the terminal.
func (l *Liner) Close() error {
	l.SaveHistory()
	return l.state.Close()
}
