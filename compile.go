// Package compiler is rawc's library surface: read a stack of mods, run
// the Compiler pass, and write the category-grouped output. cmd/rawc is a
// thin CLI wrapper around Compile and Lint.
package compiler

import (
	"fmt"

	icompiler "github.com/dfmod/rawc/internal/compiler"
	"github.com/dfmod/rawc/internal/diag"
	"github.com/dfmod/rawc/internal/reader"
	"github.com/dfmod/rawc/internal/schema"
	"github.com/dfmod/rawc/internal/store"
	"github.com/dfmod/rawc/internal/writer"
)

// Option customizes a Compile run.
type Option func(*options)

type options struct {
	schema *schema.Schema
	diag   diag.Sink
}

// WithSchema overrides the default embedded category schema, e.g. with a
// schema.Default() result that has had Merge(override) applied for a
// total-conversion pack.
func WithSchema(sc *schema.Schema) Option {
	return func(o *options) { o.schema = sc }
}

// WithDiagSink routes every recoverable Reader/Compiler condition (§7) to
// sink instead of discarding it.
func WithDiagSink(sink diag.Sink) Option {
	return func(o *options) { o.diag = sink }
}

// Compile reads mods in order, compiles every object and template, and
// writes one file per non-empty super-category under outputPath.
func Compile(mods []reader.ModDescriptor, outputPath string, opts ...Option) error {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	sc := o.schema
	if sc == nil {
		var err error
		sc, err = schema.Default()
		if err != nil {
			return fmt.Errorf("loading default schema: %w", err)
		}
	}
	sink := o.diag
	if sink == nil {
		sink = diag.Discard{}
	}

	st := store.New()
	if err := reader.New(st, sc, sink).Read(mods); err != nil {
		return fmt.Errorf("reading mods: %w", err)
	}

	compiled, err := icompiler.New(st, sc, sink).Compile()
	if err != nil {
		return fmt.Errorf("compiling: %w", err)
	}

	if err := writer.Write(sc, compiled, writer.Dir{Path: outputPath}); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

// Lint runs the same Read+Compile pipeline but never writes output.
// Diagnostics go only to the sink; the returned error reports a fatal
// failure (a read error or a cyclic COPY_TAGS_FROM). Callers pass a
// *diag.Collector to inspect the diagnostics.
func Lint(mods []reader.ModDescriptor, opts ...Option) error {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	sc := o.schema
	if sc == nil {
		var err error
		sc, err = schema.Default()
		if err != nil {
			return fmt.Errorf("loading default schema: %w", err)
		}
	}
	sink := o.diag
	if sink == nil {
		sink = diag.Discard{}
	}

	st := store.New()
	if err := reader.New(st, sc, sink).Read(mods); err != nil {
		return fmt.Errorf("reading mods: %w", err)
	}
	if _, err := icompiler.New(st, sc, sink).Compile(); err != nil {
		return fmt.Errorf("compiling: %w", err)
	}
	return nil
}
