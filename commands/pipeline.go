// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import "sort"

// =============================================================================
// PREPROCESSING PIPELINE
// =============================================================================

// Stage is one preprocessing step applied before resolution.
//
// Stages are trusted extensions: an error from Rewrite propagates uncaught
// to whoever invoked the execution path.
type Stage interface {
	// Priority orders the pipeline; lower runs first. Stages sharing a
	// priority run in registration order.
	Priority() int

	// Rewrite transforms the token sequence during execution. A stage may
	// insert, remove or reorder tokens.
	Rewrite(ctx Context, tokens []string) ([]string, error)

	// StripSyntax removes this stage's buffer-level syntax from a raw
	// input buffer before a completion lookup.
	StripSyntax(buffer string) string
}

// Pipeline is an ordered list of preprocessing stages. Both the execution
// path and the completion-preparation path apply stages in the identical
// priority-ascending order.
type Pipeline struct {
	stages []Stage
}

// NewPipeline creates an empty pipeline.
func NewPipeline() *Pipeline {
	return &Pipeline{}
}

// Use registers a stage. The stage list is kept stably sorted by
// priority, so equal priorities preserve registration order.
func (p *Pipeline) Use(stage Stage) {
	p.stages = append(p.stages, stage)
	sort.SliceStable(p.stages, func(i, j int) bool {
		return p.stages[i].Priority() < p.stages[j].Priority()
	})
}

// Stages returns the stages in effective application order.
func (p *Pipeline) Stages() []Stage {
	out := make([]Stage, len(p.stages))
	copy(out, p.stages)
	return out
}

// Rewrite runs the execution path: each stage's token transform feeds the
// next stage's input. The first stage error aborts and propagates.
func (p *Pipeline) Rewrite(ctx Context, tokens []string) ([]string, error) {
	var err error
	for _, stage := range p.stages {
		tokens, err = stage.Rewrite(ctx, tokens)
		if err != nil {
			return nil, err
		}
	}
	return tokens, nil
}

// Strip runs the completion-preparation path: each stage removes its own
// raw syntax from the buffer, in the same order as Rewrite.
func (p *Pipeline) Strip(buffer string) string {
	for _, stage := range p.stages {
		buffer = stage.StripSyntax(buffer)
	}
	return buffer
}
