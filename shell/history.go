// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package shell

// =============================================================================
// IN-MEMORY HISTORY
// =============================================================================

// appendHistory stores one executed line. An input identical to the most
// recently stored entry is not re-appended; non-consecutive duplicates
// are kept. The configured limit drops the oldest entries first.
func (s *Shell) appendHistory(line string) {
	if line == "" {
		return
	}

	s.mu.Lock()
	if n := len(s.history); n > 0 && s.history[n-1] == line {
		s.mu.Unlock()
		return
	}
	s.history = append(s.history, line)
	if limit := s.cfg.History.Limit; limit > 0 && len(s.history) > limit {
		s.history = s.history[len(s.history)-limit:]
	}
	sink := s.sink
	s.mu.Unlock()

	if sink != nil {
		// Persistence failures never disturb the loop.
		_ = sink.Append(line)
	}
}

// History returns a copy of the stored input lines, oldest first.
func (s *Shell) History() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.history))
	copy(out, s.history)
	return out
}
