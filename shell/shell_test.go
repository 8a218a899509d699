// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package shell

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"testing"

	"github.com/jeranaias/shellkit/commands"
	"github.com/jeranaias/shellkit/config"
	"github.com/jeranaias/shellkit/reader"
)

// =============================================================================
// SCRIPTED READER
// =============================================================================

// scriptEvent is one scripted ReadLine outcome.
type scriptEvent struct {
	line string
	err  error
}

// scriptReader feeds a fixed sequence of lines to the shell and records
// what the shell asked of it.
type scriptReader struct {
	events   []scriptEvent
	next     int
	masked   []string
	prompts  []string
	complete reader.CompleteFunc
}

func (r *scriptReader) ReadLine(prompt string) (string, error) {
	r.prompts = append(r.prompts, prompt)
	if r.next >= len(r.events) {
		return "", io.EOF
	}
	ev := r.events[r.next]
	r.next++
	return ev.line, ev.err
}

func (r *scriptReader) ReadMasked(string) (string, error) {
	if len(r.masked) == 0 {
		return "", io.EOF
	}
	m := r.masked[0]
	r.masked = r.masked[1:]
	return m, nil
}

func (r *scriptReader) SetComplete(fn reader.CompleteFunc) { r.complete = fn }
func (r *scriptReader) SetCtrlCAborts(bool)                {}
func (r *scriptReader) SetEOFExits(bool)                   {}
func (r *scriptReader) SetAltEOFExits(bool)                {}
func (r *scriptReader) Close() error                       { return nil }

func feed(lines ...string) *scriptReader {
	r := &scriptReader{}
	for _, l := range lines {
		r.events = append(r.events, scriptEvent{line: l})
	}
	return r
}

// record registers a command that appends its invocations to a slice.
func record(t *testing.T, s *Shell, name string, calls *[][]string) {
	t.Helper()
	err := s.Add(commands.NewCommand(name, "", func(_ commands.Context, args []string) (any, error) {
		*calls = append(*calls, args)
		return nil, nil
	}))
	if err != nil {
		t.Fatalf("Add(%s) returned error: %v", name, err)
	}
}

// =============================================================================
// COMMAND MANAGEMENT
// =============================================================================

func TestAddClearIsResolvable(t *testing.T) {
	s := New(Options{Output: io.Discard})
	var calls [][]string
	record(t, s, "show version", &calls)

	if !s.IsResolvable([]string{"show", "version"}) {
		t.Error("IsResolvable(show version) = false after Add")
	}
	if s.IsResolvable([]string{"hide"}) {
		t.Error("IsResolvable(hide) = true, want false")
	}

	s.Clear()
	if s.IsResolvable([]string{"show", "version"}) {
		t.Error("IsResolvable(show version) = true after Clear")
	}
}

func TestExecute(t *testing.T) {
	s := New(Options{Output: io.Discard})
	var calls [][]string
	record(t, s, "echo", &calls)

	if err := s.Execute(`echo hello "big world"`); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	want := [][]string{{"hello", "big world"}}
	if !reflect.DeepEqual(calls, want) {
		t.Errorf("handler calls = %v, want %v", calls, want)
	}

	// Blank input is a no-op.
	if err := s.Execute("   "); err != nil {
		t.Errorf("Execute(blank) returned error: %v", err)
	}
	if len(calls) != 1 {
		t.Errorf("blank input invoked a handler")
	}
}

func TestExecuteNotFound(t *testing.T) {
	s := New(Options{Output: io.Discard})
	err := s.Execute("no such thing")
	if !errors.Is(err, commands.ErrNotFound) {
		t.Errorf("Execute error = %v, want ErrNotFound", err)
	}
}

func TestExecuteStoresResult(t *testing.T) {
	s := New(Options{Output: io.Discard})
	err := s.Add(commands.NewCommand("calc", "", func(commands.Context, []string) (any, error) {
		return 42, nil
	}))
	if err != nil {
		t.Fatal(err)
	}

	if err := s.Execute("calc"); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if got := s.LastResult(); got != 42 {
		t.Errorf("LastResult() = %v, want 42", got)
	}
}

func TestExecuteInvocationErrorPropagates(t *testing.T) {
	boom := errors.New("handler failed")
	s := New(Options{Output: io.Discard})
	err := s.Add(commands.NewCommand("fail", "", func(commands.Context, []string) (any, error) {
		return nil, boom
	}))
	if err != nil {
		t.Fatal(err)
	}

	if err := s.Execute("fail"); !errors.Is(err, boom) {
		t.Errorf("Execute error = %v, want the handler's own error", err)
	}
}

// =============================================================================
// NOTIFICATION DEFAULTS
// =============================================================================

func TestDefaultAfterExecutePrintsResult(t *testing.T) {
	var out bytes.Buffer
	s := New(Options{Output: &out})
	err := s.Add(commands.NewCommand("calc", "", func(commands.Context, []string) (any, error) {
		return "forty-two", nil
	}))
	if err != nil {
		t.Fatal(err)
	}

	if err := s.Execute("calc"); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if !strings.Contains(out.String(), "forty-two") {
		t.Errorf("default after-execute output %q does not contain the result", out.String())
	}

	// A nil result prints nothing beyond the input echo.
	out.Reset()
	err = s.Add(commands.NewCommand("mute", "", func(commands.Context, []string) (any, error) {
		return nil, nil
	}))
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Execute("mute"); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "mute" {
		t.Errorf("output for a nil result = %q, want only the input echo", got)
	}
}

func TestDefaultBeforeExecuteEchoesInput(t *testing.T) {
	var out bytes.Buffer
	s := New(Options{Output: &out})
	var calls [][]string
	record(t, s, "ls", &calls)

	if err := s.Execute("ls -a"); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if !strings.Contains(out.String(), "ls -a") {
		t.Errorf("default before-execute output %q does not echo the input", out.String())
	}
}

func TestExecuteSubscribersSuppressDefaults(t *testing.T) {
	var out bytes.Buffer
	s := New(Options{Output: &out})
	err := s.Add(commands.NewCommand("calc", "", func(commands.Context, []string) (any, error) {
		return "forty-two", nil
	}))
	if err != nil {
		t.Fatal(err)
	}

	var before, after []string
	s.OnBeforeExecute(func(raw string) { before = append(before, raw) })
	s.OnAfterExecute(func(raw string, result any, _ commands.Command) {
		after = append(after, fmt.Sprintf("%s=%v", raw, result))
	})

	if err := s.Execute("calc"); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if !reflect.DeepEqual(before, []string{"calc"}) {
		t.Errorf("before-execute notifications = %v", before)
	}
	if !reflect.DeepEqual(after, []string{"calc=forty-two"}) {
		t.Errorf("after-execute notifications = %v", after)
	}
	// Subscribers replace the defaults, never both.
	if out.Len() != 0 {
		t.Errorf("default output printed alongside subscribers: %q", out.String())
	}
}

// =============================================================================
// REENTRANCY AND SNAPSHOT SEMANTICS
// =============================================================================

func TestHandlerMayReenterShell(t *testing.T) {
	s := New(Options{Output: io.Discard})
	var inner [][]string
	record(t, s, "inner", &inner)

	err := s.Add(commands.NewCommand("outer", "", func(ctx commands.Context, _ []string) (any, error) {
		// Reentrant use of the shell from inside a running handler:
		// none of these may deadlock on the controller's lock.
		if err := ctx.Execute("inner run"); err != nil {
			return nil, err
		}
		ctx.Clear()
		return ctx.Add(commands.NewCommand("late", "", func(commands.Context, []string) (any, error) {
			return nil, nil
		})), nil
	}))
	if err != nil {
		t.Fatal(err)
	}

	if err := s.Execute("outer"); err != nil {
		t.Fatalf("Execute(outer) returned error: %v", err)
	}
	if len(inner) != 1 {
		t.Errorf("inner handler ran %d times, want 1", len(inner))
	}
	if !s.IsResolvable([]string{"late"}) {
		t.Error("command added from inside a handler is not resolvable")
	}
	if s.IsResolvable([]string{"outer"}) {
		t.Error("Clear from inside a handler did not take effect")
	}
}

func TestBindingSurvivesClear(t *testing.T) {
	s := New(Options{Output: io.Discard})
	ran := false

	err := s.Add(commands.NewCommand("doomed", "", func(ctx commands.Context, _ []string) (any, error) {
		// The registry this binding came from is replaced mid-flight;
		// the bound action still runs to completion.
		ctx.Clear()
		ran = true
		return "done", nil
	}))
	if err != nil {
		t.Fatal(err)
	}

	if err := s.Execute("doomed"); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if !ran {
		t.Error("bound action did not run after Clear")
	}
	if got := s.LastResult(); got != "done" {
		t.Errorf("LastResult() = %v, want %q", got, "done")
	}
}

// =============================================================================
// PIPELINE WIRING
// =============================================================================

func TestAliasStageExpandsBeforeResolution(t *testing.T) {
	s := New(Options{Output: io.Discard})
	var calls [][]string
	record(t, s, "show version", &calls)

	alias := commands.NewAliasStage(10)
	alias.Define("sv", "show", "version")
	s.Use(alias)

	if err := s.Execute("!sv detail"); err != nil {
		t.Fatalf("Execute(!sv detail) returned error: %v", err)
	}
	want := [][]string{{"detail"}}
	if !reflect.DeepEqual(calls, want) {
		t.Errorf("handler calls = %v, want %v", calls, want)
	}
}

func TestStageErrorPropagatesFromExecute(t *testing.T) {
	s := New(Options{Output: io.Discard})
	boom := errors.New("stage broke")
	s.Use(failStage{err: boom})

	if err := s.Execute("anything"); !errors.Is(err, boom) {
		t.Errorf("Execute error = %v, want the stage's error", err)
	}
}

type failStage struct{ err error }

func (f failStage) Priority() int { return 1 }
func (f failStage) Rewrite(commands.Context, []string) ([]string, error) {
	return nil, f.err
}
func (f failStage) StripSyntax(b string) string { return b }

// =============================================================================
// READ LOOP
// =============================================================================

func TestRunLoop(t *testing.T) {
	rd := feed("ls", "", "   ", "ls", "pwd", "ls", "missing")
	var out bytes.Buffer

	s := New(Options{Reader: rd, Output: &out})
	var calls [][]string
	record(t, s, "ls", &calls)
	record(t, s, "pwd", &calls)

	if err := s.Run(); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	// Blank lines are discarded without execution or history append;
	// consecutive duplicates collapse; the not-found line is kept.
	wantHistory := []string{"ls", "pwd", "ls", "missing"}
	if !reflect.DeepEqual(s.History(), wantHistory) {
		t.Errorf("History() = %v, want %v", s.History(), wantHistory)
	}

	// The default not-found diagnostic references the raw input verbatim.
	if !strings.Contains(out.String(), "missing") {
		t.Errorf("not-found diagnostic %q does not mention the input", out.String())
	}

	if len(calls) != 4 {
		t.Errorf("handlers ran %d times, want 4", len(calls))
	}
}

func TestRunLoopNotFoundSubscriber(t *testing.T) {
	rd := feed("nope")
	var out bytes.Buffer
	s := New(Options{Reader: rd, Output: &out})

	var notified []string
	s.OnCommandNotFound(func(raw string) { notified = append(notified, raw) })

	if err := s.Run(); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if !reflect.DeepEqual(notified, []string{"nope"}) {
		t.Errorf("not-found notifications = %v", notified)
	}
	// Subscriber replaces the default, never both.
	if out.Len() != 0 {
		t.Errorf("default diagnostic printed alongside subscriber: %q", out.String())
	}
}

func TestRunLoopInterrupt(t *testing.T) {
	rd := &scriptReader{events: []scriptEvent{
		{err: reader.ErrInterrupted},
		{line: "ls"},
	}}
	s := New(Options{Reader: rd, Output: &bytes.Buffer{}})
	var calls [][]string
	record(t, s, "ls", &calls)

	interrupts := 0
	s.OnInterrupt(func() { interrupts++ })

	if err := s.Run(); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if interrupts != 1 {
		t.Errorf("interrupt notifications = %d, want 1", interrupts)
	}
	// The loop keeps reading after an interrupt.
	if len(calls) != 1 {
		t.Errorf("handlers ran %d times after interrupt, want 1", len(calls))
	}
}

func TestRunLoopTokenizeErrorContinues(t *testing.T) {
	rd := feed(`say "broken`, "ls")
	var out bytes.Buffer
	s := New(Options{Reader: rd, Output: &out})
	var calls [][]string
	record(t, s, "ls", &calls)

	if err := s.Run(); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(calls) != 1 {
		t.Errorf("loop did not continue past a tokenization error")
	}
	if !strings.Contains(out.String(), "unbalanced quote") {
		t.Errorf("no diagnostic for the malformed line: %q", out.String())
	}
}

func TestRunLoopInvocationErrorStopsLoop(t *testing.T) {
	boom := errors.New("fatal by choice")
	rd := feed("fail", "ls")
	s := New(Options{Reader: rd, Output: &bytes.Buffer{}})
	err := s.Add(commands.NewCommand("fail", "", func(commands.Context, []string) (any, error) {
		return nil, boom
	}))
	if err != nil {
		t.Fatal(err)
	}

	if err := s.Run(); !errors.Is(err, boom) {
		t.Errorf("Run error = %v, want the invocation error", err)
	}
	// The failing line still made it into history for its iteration.
	if !reflect.DeepEqual(s.History(), []string{"fail"}) {
		t.Errorf("History() = %v, want the failing line", s.History())
	}
}

func TestStopFromHandler(t *testing.T) {
	rd := feed("quit", "never")
	s := New(Options{Reader: rd, Output: &bytes.Buffer{}})
	var after [][]string
	record(t, s, "never", &after)

	err := s.Add(commands.NewCommand("quit", "", func(commands.Context, []string) (any, error) {
		s.Stop()
		return nil, nil
	}))
	if err != nil {
		t.Fatal(err)
	}

	if err := s.Run(); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(after) != 0 {
		t.Error("loop kept executing after Stop")
	}
}

func TestRunUsesConfiguredPrompt(t *testing.T) {
	cfg := config.Default()
	cfg.Prompt = "demo> "
	rd := feed()
	s := New(Options{Reader: rd, Output: &bytes.Buffer{}, Config: cfg})

	if err := s.Run(); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(rd.prompts) != 1 || !strings.Contains(rd.prompts[0], "demo> ") {
		t.Errorf("prompts = %v, want the configured prompt", rd.prompts)
	}
}

func TestReadSecretBypassesResolution(t *testing.T) {
	rd := feed()
	rd.masked = []string{"hunter2"}
	s := New(Options{Reader: rd, Output: &bytes.Buffer{}})

	secret, err := s.ReadSecret("password: ")
	if err != nil {
		t.Fatalf("ReadSecret returned error: %v", err)
	}
	if secret != "hunter2" {
		t.Errorf("ReadSecret = %q", secret)
	}
	if len(s.History()) != 0 {
		t.Error("masked input leaked into history")
	}
}
