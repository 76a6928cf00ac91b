// Package compiler implements the Compiler Pass (§4.5): after all mods are
// read, every stored object and template is lazily, recursively compiled
// into a distinct "compiled" counterpart by replaying its embedded DSL
// against an output body with an insertion-index cursor.
package compiler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dfmod/rawc/internal/diag"
	"github.com/dfmod/rawc/internal/lexer"
	"github.com/dfmod/rawc/internal/schema"
	"github.com/dfmod/rawc/internal/store"
)

// CyclicCopyError reports a COPY_TAGS_FROM chain that would recurse into an
// object-type/id pair already mid-compilation (§4.5.3).
type CyclicCopyError struct {
	Chain []string
}

func (e *CyclicCopyError) Error() string {
	return "cyclic COPY_TAGS_FROM: " + strings.Join(e.Chain, " -> ")
}

type stackKey struct {
	kind string // "object" or "template"; same id in both namespaces isn't a cycle
	ot   string
	id   string
}

func (k stackKey) label() string { return k.ot + ":" + k.id }

// Compiler drives the pass over one Store, producing compiled objects and
// templates in distinct caches keyed by source identity (not by id alone,
// since a duplicate-id RawObject in the ordered list is compiled
// independently of whichever instance the id map currently addresses; see
// store's documented §9(a) ambiguity).
type Compiler struct {
	Store  *store.Store
	Schema *schema.Schema
	Diag   diag.Sink

	objCache   map[*store.RawObject]*store.CompiledObject
	tmplCache  map[*store.ObjectTemplate]*store.CompiledTemplate
	inProgress []stackKey
}

// New returns a Compiler over st using sc's category tables, reporting
// recoverable conditions (undefined references, malformed conditionals) to
// sink (diag.Discard{} if nil).
func New(st *store.Store, sc *schema.Schema, sink diag.Sink) *Compiler {
	if sink == nil {
		sink = diag.Discard{}
	}
	return &Compiler{
		Store:     st,
		Schema:    sc,
		Diag:      sink,
		objCache:  make(map[*store.RawObject]*store.CompiledObject),
		tmplCache: make(map[*store.ObjectTemplate]*store.CompiledTemplate),
	}
}

// Compile compiles every template then every normal object for each object
// type, in schema order (§5), and returns the compiled objects grouped by
// type in their source ordered-list order (the order the Writer needs).
func (c *Compiler) Compile() (map[string][]*store.CompiledObject, error) {
	for _, ot := range c.Schema.OrderedObjectTypes() {
		for _, tid := range c.Store.TemplateIDs(ot) {
			tmpl, _ := c.Store.LookupTemplate(ot, tid)
			if _, err := c.compileTemplateRaw(ot, tmpl); err != nil {
				return nil, err
			}
		}
		for _, raw := range c.Store.List(ot) {
			if _, err := c.compileRaw(ot, raw); err != nil {
				return nil, err
			}
		}
	}

	result := make(map[string][]*store.CompiledObject)
	for _, ot := range c.Schema.OrderedObjectTypes() {
		for _, raw := range c.Store.List(ot) {
			if compiled, ok := c.objCache[raw]; ok {
				result[ot] = append(result[ot], compiled)
			}
		}
	}
	return result, nil
}

func (c *Compiler) onStack(k stackKey) bool {
	for _, e := range c.inProgress {
		if e == k {
			return true
		}
	}
	return false
}

func (c *Compiler) push(k stackKey) { c.inProgress = append(c.inProgress, k) }
func (c *Compiler) pop()            { c.inProgress = c.inProgress[:len(c.inProgress)-1] }

func (c *Compiler) cyclicError(attempt stackKey) *CyclicCopyError {
	chain := make([]string, 0, len(c.inProgress)+1)
	for _, e := range c.inProgress {
		chain = append(chain, e.label())
	}
	chain = append(chain, attempt.label())
	return &CyclicCopyError{Chain: chain}
}

func (c *Compiler) undefinedRef(directive, objectType, id string) {
	c.Diag.Record(diag.Diagnostic{
		Kind:       diag.KindUndefinedReference,
		ObjectType: objectType,
		ObjectID:   id,
		Message:    fmt.Sprintf("%s: no %s:%s defined, treated as a no-op", directive, objectType, id),
	})
}

// compiledFor resolves (objectType, id) through the id map (the "current"
// object that address targets) and compiles it, recursing lazily and
// detecting cycles.
func (c *Compiler) compiledFor(objectType, id string) (*store.CompiledObject, error) {
	raw, ok := c.Store.Lookup(objectType, id)
	if !ok {
		return nil, nil
	}
	return c.compileRaw(objectType, raw)
}

func (c *Compiler) compiledTemplateFor(objectType, id string) (*store.CompiledTemplate, error) {
	tmpl, ok := c.Store.LookupTemplate(objectType, id)
	if !ok {
		return nil, nil
	}
	return c.compileTemplateRaw(objectType, tmpl)
}

// compileRaw compiles a single RawObject instance (§4.5): GO_TO_END/START/
// TAG move the cursor, COPY_TAGS_FROM splices in another compiled object's
// body, REMOVE_OBJECT marks the result removed, USE_OBJECT_TEMPLATE applies
// a compiled template, OT_ADD_TAG/OT_REMOVE_TAG/OT_CONVERT_TAG edit the
// body directly, and anything else is inserted literally at the cursor.
func (c *Compiler) compileRaw(objectType string, raw *store.RawObject) (*store.CompiledObject, error) {
	if compiled, ok := c.objCache[raw]; ok {
		return compiled, nil
	}
	key := stackKey{kind: "object", ot: objectType, id: raw.ID}
	if c.onStack(key) {
		return nil, c.cyclicError(key)
	}
	c.push(key)
	defer c.pop()

	compiled := &store.CompiledObject{ObjectType: objectType, ID: raw.ID, Provenance: raw.Provenance}
	var tokens []lexer.Token
	cursor := 0

	var convertOpen bool
	var convertMaster []string
	var convertTarget string

	for _, tok := range raw.Tokens {
		name := tok.Name()
		args := tok.Args()

		if convertOpen {
			switch name {
			case "OTCT_TARGET":
				convertTarget = strings.Join(args, ":")
			case "OTCT_REPLACEMENT":
				store.ApplyConvert(tokens, convertMaster, convertTarget, strings.Join(args, ":"))
				convertOpen = false
			default:
				convertOpen = false
			}
			continue
		}

		switch name {
		case "GO_TO_END":
			cursor = len(tokens)
		case "GO_TO_START":
			cursor = 0
		case "GO_TO_TAG":
			if idx, ok := gotoTagIndex(tokens, strings.Join(args, ":")); ok {
				cursor = idx
			}
		case "COPY_TAGS_FROM":
			if len(args) == 0 {
				continue
			}
			src, err := c.compiledFor(objectType, args[0])
			if err != nil {
				return nil, err
			}
			if src == nil {
				c.undefinedRef("COPY_TAGS_FROM", objectType, args[0])
				continue
			}
			copied := substituteArgs(src.Tokens, args[1:])
			tokens = insertAllAt(tokens, cursor, copied)
			cursor += len(copied)
		case "REMOVE_OBJECT":
			compiled.IsRemoved = true
		case "USE_OBJECT_TEMPLATE":
			if len(args) == 0 {
				continue
			}
			tmpl, err := c.compiledTemplateFor(objectType, args[0])
			if err != nil {
				return nil, err
			}
			if tmpl == nil {
				c.undefinedRef("USE_OBJECT_TEMPLATE", objectType, args[0])
				continue
			}
			tokens, cursor = c.applyTemplate(tokens, cursor, tmpl, args[1:])
		case "OT_ADD_TAG":
			tokens = insertAt(tokens, cursor, lexer.Token{Fragments: append([]string(nil), args...)})
			cursor++
		case "OT_REMOVE_TAG":
			tokens, cursor = removeMatchingClamped(tokens, args, cursor)
		case "OT_CONVERT_TAG":
			convertOpen = true
			convertMaster = append([]string(nil), args...)
			convertTarget = ""
		default:
			tokens = insertAt(tokens, cursor, tok)
			cursor++
		}
	}

	compiled.Tokens = tokens
	c.objCache[raw] = compiled
	return compiled, nil
}

// compileTemplateRaw compiles a template body: shared cursor directives and
// COPY_TAGS_FROM behave as in compileRaw, but every other token (including
// OT_ADD_TAG, OT_CONVERT_TAG, and the conditional OT_*_CTAG ops) is kept
// literally — a template's compiled body is the exact op sequence replayed
// by applyTemplate when the template is later consumed (§4.5).
func (c *Compiler) compileTemplateRaw(objectType string, tmpl *store.ObjectTemplate) (*store.CompiledTemplate, error) {
	if compiled, ok := c.tmplCache[tmpl]; ok {
		return compiled, nil
	}
	key := stackKey{kind: "template", ot: objectType, id: tmpl.ID}
	if c.onStack(key) {
		return nil, c.cyclicError(key)
	}
	c.push(key)
	defer c.pop()

	var tokens []lexer.Token
	cursor := 0

	for _, tok := range tmpl.Tokens {
		name := tok.Name()
		args := tok.Args()

		switch name {
		case "GO_TO_END":
			cursor = len(tokens)
		case "GO_TO_START":
			cursor = 0
		case "GO_TO_TAG":
			if idx, ok := gotoTagIndex(tokens, strings.Join(args, ":")); ok {
				cursor = idx
			}
		case "COPY_TAGS_FROM":
			if len(args) == 0 {
				continue
			}
			src, err := c.compiledTemplateFor(objectType, args[0])
			if err != nil {
				return nil, err
			}
			if src == nil {
				c.undefinedRef("COPY_TAGS_FROM", objectType, args[0])
				continue
			}
			copied := substituteArgs(src.Tokens, args[1:])
			tokens = insertAllAt(tokens, cursor, copied)
			cursor += len(copied)
		default:
			tokens = insertAt(tokens, cursor, tok)
			cursor++
		}
	}

	compiled := &store.CompiledTemplate{ObjectType: objectType, ID: tmpl.ID, Provenance: tmpl.Provenance, Tokens: tokens}
	c.tmplCache[tmpl] = compiled
	return compiled, nil
}

// applyTemplate consumes a compiled template against out at cursor k
// (§4.5.2): argument substitution first, then a left-to-right replay of its
// OT_* ops (including the conditional OT_ADD_CTAG/OT_REMOVE_CTAG/
// OT_CONVERT_CTAG variants) against out, with its own convert-block state
// local to this single application.
func (c *Compiler) applyTemplate(out []lexer.Token, k int, tmpl *store.CompiledTemplate, args []string) ([]lexer.Token, int) {
	body := substituteArgs(tmpl.Tokens, args)

	var convertOpen bool
	var convertMaster []string
	var convertTarget string

	for _, tok := range body {
		name := tok.Name()
		payload := tok.Args()

		if convertOpen {
			switch name {
			case "OTCT_TARGET":
				convertTarget = strings.Join(payload, ":")
			case "OTCT_REPLACEMENT":
				store.ApplyConvert(out, convertMaster, convertTarget, strings.Join(payload, ":"))
				convertOpen = false
			default:
				convertOpen = false
			}
			continue
		}

		switch name {
		case "OT_ADD_TAG":
			out = insertAt(out, k, lexer.Token{Fragments: append([]string(nil), payload...)})
			k++
		case "OT_REMOVE_TAG":
			out, k = removeMatchingClamped(out, payload, k)
		case "OT_CONVERT_TAG":
			convertOpen = true
			convertMaster = append([]string(nil), payload...)
			convertTarget = ""
		case "OT_ADD_CTAG", "OT_REMOVE_CTAG", "OT_CONVERT_CTAG":
			n, val, rest, ok := parseConditional(payload)
			if !ok {
				c.Diag.Record(diag.Diagnostic{
					Kind:    diag.KindMalformedConditional,
					Message: fmt.Sprintf("%s: %v has a non-integer condition index", name, payload),
				})
				continue
			}
			if n < 1 || n > len(args) || args[n-1] != val {
				continue
			}
			switch name {
			case "OT_ADD_CTAG":
				out = insertAt(out, k, lexer.Token{Fragments: append([]string(nil), rest...)})
				k++
			case "OT_REMOVE_CTAG":
				out, k = removeMatchingClamped(out, rest, k)
			case "OT_CONVERT_CTAG":
				convertOpen = true
				convertMaster = append([]string(nil), rest...)
				convertTarget = ""
			}
		default:
			// Outside a convert block, anything that isn't an OT_* op is
			// ignored: template bodies are defined to contain only OT ops.
		}
	}
	return out, k
}

// parseConditional splits a conditional-variant payload [n, val, rest...]
// into its 1-based index, comparison value, and remaining fragments.
func parseConditional(payload []string) (n int, val string, rest []string, ok bool) {
	if len(payload) < 2 {
		return 0, "", nil, false
	}
	idx, err := strconv.Atoi(payload[0])
	if err != nil {
		return 0, "", nil, false
	}
	return idx, payload[1], payload[2:], true
}
