// Package diag defines the diagnostic record the Reader and Compiler pass
// emit for every recoverable condition in spec.md §7 ("log a warning... and
// continue"), and the Sink interface that receives them. The core never
// depends on a concrete sink; cmd/rawc wires one in.
package diag

// Kind names the recoverable condition a Diagnostic reports, matching the
// taxonomy in spec.md §7.
type Kind string

const (
	KindMissingObjectsFolder   Kind = "missing_objects_folder"
	KindDuplicateObjectID      Kind = "duplicate_object_id"
	KindUndefinedReference     Kind = "undefined_reference"
	KindMalformedConditional   Kind = "malformed_conditional_index"
	KindInvalidSpecTagName     Kind = "invalid_spec_tag_name"
	KindUnknownHeader          Kind = "unknown_header"
)

// Diagnostic is a single recoverable event, carrying enough provenance for
// an external tool (a GUI mod picker, a CI report) to locate it without
// re-running the compiler.
type Diagnostic struct {
	Kind       Kind
	ModName    string
	ModVersion string
	ObjectType string
	ObjectID   string
	SourceFile string
	Message    string
}

// Sink receives diagnostics as they occur. Implementations are only called
// sequentially by the core (§5) and need no internal locking.
type Sink interface {
	Record(d Diagnostic)
}

// Discard is a Sink that drops every diagnostic; it is the default when a
// caller of reader.New / compiler.Compile supplies none.
type Discard struct{}

func (Discard) Record(Diagnostic) {}

// Collector is an in-memory Sink, useful in tests and for the CLI's `lint`
// command, which wants the full list rather than a stream.
type Collector struct {
	Diagnostics []Diagnostic
}

func (c *Collector) Record(d Diagnostic) {
	c.Diagnostics = append(c.Diagnostics, d)
}
