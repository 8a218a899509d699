// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatchReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(`prompt = "one> "`), 0600); err != nil {
		t.Fatal(err)
	}

	reloads := make(chan *Config, 4)
	w, err := Watch(path, func(cfg *Config) { reloads <- cfg })
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte(`prompt = "two> "`), 0600); err != nil {
		t.Fatal(err)
	}

	select {
	case cfg := <-reloads:
		if cfg.Prompt != "two> " {
			t.Errorf("reloaded Prompt = %q, want %q", cfg.Prompt, "two> ")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after writing the watched file")
	}
}

func TestWatchIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(`prompt = "one> "`), 0600); err != nil {
		t.Fatal(err)
	}

	reloads := make(chan *Config, 4)
	w, err := Watch(path, func(cfg *Config) { reloads <- cfg })
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	defer w.Close()

	other := filepath.Join(dir, "unrelated.txt")
	if err := os.WriteFile(other, []byte("noise"), 0600); err != nil {
		t.Fatal(err)
	}

	select {
	case <-reloads:
		t.Error("watcher reloaded for an unrelated file")
	case <-time.After(2 * DefaultWatchDebounce):
	}
}

func TestWatchCloseDisarmsPendingReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(`prompt = "one> "`), 0600); err != nil {
		t.Fatal(err)
	}

	reloads := make(chan *Config, 4)
	w, err := Watch(path, func(cfg *Config) { reloads <- cfg })
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	// Arm the debounce, then close before it fires.
	w.schedule()
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	select {
	case <-reloads:
		t.Error("reload fired after Close")
	case <-time.After(2 * DefaultWatchDebounce):
	}
}

func TestWatchSkipsBrokenConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(`prompt = "one> "`), 0600); err != nil {
		t.Fatal(err)
	}

	reloads := make(chan *Config, 4)
	w, err := Watch(path, func(cfg *Config) { reloads <- cfg })
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte(`prompt = `), 0600); err != nil {
		t.Fatal(err)
	}

	select {
	case cfg := <-reloads:
		t.Errorf("watcher delivered a config from a broken file: %+v", cfg)
	case <-time.After(2 * DefaultWatchDebounce):
	}
}
