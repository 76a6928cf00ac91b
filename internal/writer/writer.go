// Package writer implements the Writer (§4.6): one output file per
// non-synthetic super-category containing every non-removed compiled
// object in insertion order, with provenance comments, or no file at all
// if the category turned out empty.
package writer

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/dfmod/rawc/internal/lexer"
	"github.com/dfmod/rawc/internal/schema"
	"github.com/dfmod/rawc/internal/store"
)

// Sink is the small io/fs-shaped destination the Writer targets, so tests
// can exercise it against something other than the real filesystem.
type Sink interface {
	Create(name string) (io.WriteCloser, error)
	Remove(name string) error
}

// Write emits one "<stem>_compiled.txt" file per writable super-category in
// sc into sink. compiled is the Compiler pass's output, keyed by object
// type, each type's slice in source insertion order.
func Write(sc *schema.Schema, compiled map[string][]*store.CompiledObject, sink Sink) error {
	for _, super := range sc.OrderedSuperCategories() {
		stem, _ := sc.FileStem(super)
		name := stem + "_compiled.txt"

		var buf bytes.Buffer
		fmt.Fprintf(&buf, "%s_compiled\n\n[OBJECT:%s]\n", stem, super)

		count := 0
		for _, ot := range sc.SuperCategories[super].ObjectTypes {
			for _, obj := range compiled[ot] {
				if obj.IsRemoved {
					continue
				}
				fmt.Fprintf(&buf, "\n%s %s, %s\n", obj.Provenance.ModName, obj.Provenance.ModVersion, obj.Provenance.SourceFile)
				fmt.Fprintf(&buf, "[%s:%s]\n", obj.ObjectType, obj.ID)
				for _, tok := range obj.Tokens {
					buf.WriteByte('\t')
					buf.WriteByte('[')
					buf.WriteString(strings.Join(tok.Fragments, ":"))
					buf.WriteString("]\n")
				}
				count++
			}
		}

		if count == 0 {
			if err := sink.Remove(name); err != nil {
				return fmt.Errorf("removing empty %s: %w", name, err)
			}
			continue
		}

		fmt.Fprintf(&buf, "\n%d raw objects in this compiled file.", count)

		w, err := sink.Create(name)
		if err != nil {
			return fmt.Errorf("creating %s: %w", name, err)
		}
		if _, err := w.Write(lexer.EncodeLatin1(buf.String())); err != nil {
			w.Close()
			return fmt.Errorf("writing %s: %w", name, err)
		}
		if err := w.Close(); err != nil {
			return fmt.Errorf("closing %s: %w", name, err)
		}
	}
	return nil
}
