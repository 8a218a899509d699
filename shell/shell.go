// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package shell

import (
	"errors"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/jeranaias/shellkit/commands"
	"github.com/jeranaias/shellkit/config"
	"github.com/jeranaias/shellkit/reader"
)

// =============================================================================
// SHELL
// =============================================================================

// HistorySink receives every line the shell appends to its history,
// for persistence beyond the process. history.Store implements it.
type HistorySink interface {
	Append(line string) error
}

// Options configures a Shell. Every field is optional.
type Options struct {
	// Reader supplies input lines. Required for Run and ReadSecret;
	// Execute and the rest of the API work without one.
	Reader reader.LineReader

	// Output receives default hook output. Defaults to os.Stdout.
	Output io.Writer

	// Config tunes prompt, history limit and reader toggles.
	// Defaults to config.Default().
	Config *config.Config

	// History, when set, additionally receives every history append.
	History HistorySink
}

// Shell is the interactive shell controller.
//
// A single mutex guards the registry pointer, the pipeline, the one-shot
// completion overrides, the hook table and the history. The mutex is
// held only across those accesses, never across command execution.
type Shell struct {
	mu        sync.Mutex
	reg       *commands.Registry
	pipeline  *commands.Pipeline
	formatter commands.Formatter // one-shot, nil = default
	printer   func([]string)     // one-shot, nil = default
	hooks     Hooks
	history   []string
	stopped   bool

	lastResult any

	rd   reader.LineReader
	out  io.Writer
	cfg  *config.Config
	sink HistorySink
}

// New creates a Shell. Reader toggles from the config are forwarded to
// the reader, and the reader's tab-completion is wired to the shell's
// completion engine.
func New(opts Options) *Shell {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	s := &Shell{
		reg:      commands.NewRegistry(),
		pipeline: commands.NewPipeline(),
		rd:       opts.Reader,
		out:      out,
		cfg:      cfg,
		sink:     opts.History,
	}

	if s.rd != nil {
		s.rd.SetCtrlCAborts(cfg.Reader.CtrlCAborts)
		s.rd.SetEOFExits(cfg.Reader.EOFExits)
		s.rd.SetAltEOFExits(cfg.Reader.AltEOFExits)
		s.rd.SetComplete(s.complete)
	}

	return s
}

// =============================================================================
// COMMAND MANAGEMENT
// =============================================================================

// Add registers a command. Duplicate names are rejected with
// commands.ErrDuplicateCommand.
func (s *Shell) Add(cmd commands.Command) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reg.Add(cmd)
}

// Clear removes every registered command by swapping in a fresh
// registry. A resolution that already captured the old registry is
// unaffected and its binding still runs.
func (s *Shell) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reg = commands.NewRegistry()
}

// Use registers a preprocessing stage.
func (s *Shell) Use(stage commands.Stage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pipeline.Use(stage)
}

// IsResolvable reports whether a token sequence resolves to a command
// without executing it.
func (s *Shell) IsResolvable(tokens []string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.reg.Resolve(tokens)
	return err == nil
}

// Describe lists command descriptions, optionally filtered by a name
// prefix, sorted by name.
func (s *Shell) Describe(prefix string) []commands.Description {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reg.Describe(prefix)
}

// =============================================================================
// EXECUTION
// =============================================================================

// Execute tokenizes, preprocesses, resolves and runs one raw input
// line. Blank input is a no-op. A tokenization failure, a stage error,
// commands.ErrNotFound and any error from the command's own invocation
// are all returned to the caller; nothing is written to history.
func (s *Shell) Execute(input string) error {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil
	}
	tokens, err := commands.Tokenize(input)
	if err != nil {
		return err
	}
	return s.execute(input, tokens)
}

// ExecuteTokens runs an already-tokenized input sequence.
func (s *Shell) ExecuteTokens(tokens []string) error {
	if len(tokens) == 0 {
		return nil
	}
	return s.execute(strings.Join(tokens, " "), tokens)
}

// execute is the shared resolution path. The registry lock is released
// before the bound action runs, so handlers may reenter the shell.
func (s *Shell) execute(raw string, tokens []string) error {
	s.mu.Lock()
	stages := s.pipeline.Stages()
	s.mu.Unlock()

	var err error
	for _, stage := range stages {
		tokens, err = stage.Rewrite(s, tokens)
		if err != nil {
			return err
		}
	}

	s.mu.Lock()
	binding, err := s.reg.Resolve(tokens)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.dispatchBeforeExecute(raw)
	result, err := binding.Run(s)
	if err != nil {
		return err
	}
	if result != nil {
		s.SetResult(result)
	}
	s.dispatchAfterExecute(raw, result, binding.Command())
	return nil
}

// SetResult stores a value in the shared last-result slot.
func (s *Shell) SetResult(v any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastResult = v
}

// LastResult returns the most recently stored result, or nil.
func (s *Shell) LastResult() any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastResult
}

// =============================================================================
// COMPLETION
// =============================================================================

// SetCompletionFormatter installs a one-shot candidate transformation.
// It applies to exactly the next completion event, then the built-in
// default formatter is back in effect.
func (s *Shell) SetCompletionFormatter(fn commands.Formatter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.formatter = fn
}

// SetCompletionPrinter installs a one-shot alternatives display action,
// consumed by the next completion event.
func (s *Shell) SetCompletionPrinter(fn func(candidates []string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.printer = fn
}

// complete is the tab-completion entry point wired into the reader.
// The raw buffer is stripped of stage syntax, candidates are gathered
// from the registry, and the one-shot overrides are taken and cleared
// in the same critical section that reads the registry.
func (s *Shell) complete(buffer string) (string, []string) {
	s.mu.Lock()
	stripped := s.pipeline.Strip(buffer)
	cands := s.reg.Complete(stripped)
	format := s.formatter
	printer := s.printer
	s.formatter = nil
	s.printer = nil
	s.mu.Unlock()

	res := commands.Decide(buffer, cands, format)

	// The cap bounds the display only; it must not pre-empt the
	// decision, or an ambiguous buffer would auto-insert one arbitrary
	// candidate instead of listing.
	if max := s.cfg.Completion.MaxAlternatives; max > 0 && len(res.Alternatives) > max {
		res.Alternatives = res.Alternatives[:max]
	}

	if len(res.Alternatives) > 0 {
		if printer != nil {
			printer(res.Alternatives)
		} else {
			s.dispatchAlternatives(res.Alternatives)
		}
	}
	return res.Replace, res.Alternatives
}

// =============================================================================
// READ LOOP
// =============================================================================

// Run drives the read-resolve-execute loop until the reader reports
// end of input, Stop is called, or a command invocation fails.
//
// Per iteration: blank lines are discarded; a tokenization failure or an
// unresolvable command aborts only that line (the latter through the
// CommandNotFound hook); the trimmed line is appended to history either
// way. Stage and invocation errors propagate out of Run — whether to
// crash, log or restart is the host's decision.
func (s *Shell) Run() error {
	if s.rd == nil {
		return errors.New("shell has no line reader")
	}

	for {
		if s.isStopped() {
			return nil
		}

		line, err := s.rd.ReadLine(s.dispatchPrompt())
		if err != nil {
			if errors.Is(err, reader.ErrInterrupted) {
				s.dispatchInterrupt()
				continue
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		err = s.Execute(line)
		s.appendHistory(line)

		switch {
		case err == nil:
		case errors.Is(err, commands.ErrNotFound):
			s.dispatchNotFound(line)
		case errors.Is(err, commands.ErrUnbalancedQuote):
			s.printError(err)
		default:
			return err
		}
	}
}

// Stop makes Run return after the current iteration. Safe to call from
// inside a command handler.
func (s *Shell) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
}

func (s *Shell) isStopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

// ReadSecret reads one line in masked mode (no echo), bypassing
// tokenization, resolution and history entirely.
func (s *Shell) ReadSecret(prompt string) (string, error) {
	if s.rd == nil {
		return "", errors.New("shell has no line reader")
	}
	return s.rd.ReadMasked(prompt)
}
