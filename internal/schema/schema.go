// Package schema holds the compiler's fixed category tables: which object
// types belong to which super-category, what file each super-category is
// written to, the header load-order priority list, and the three directive
// name sets (special / template-op / edit). See spec.md §3 and §9.
package schema

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
)

//go:embed category.cue
var defaultCategoryCUE []byte

// SuperCategory is the set of object types that open-object headers of a
// given OBJECT:<super> route to, plus the stem used to name its output
// file. A SuperCategory with an empty FileStem is synthetic (EDIT,
// OBJECT_TEMPLATE) and is never written by the Writer.
type SuperCategory struct {
	ObjectTypes []string `json:"objectTypes"`
	FileStem    string   `json:"fileStem"`
}

// Schema is the decoded, queryable form of a category document.
type Schema struct {
	SuperCategories    map[string]SuperCategory `json:"superCategories"`
	SuperCategoryOrder []string                 `json:"superCategoryOrder"`
	HeaderPriority     []string                 `json:"headerPriority"`
	SpecialTokens      []string                 `json:"specialTokens"`
	TemplateOpTokens   []string                 `json:"templateOpTokens"`
	EditTokens         []string                 `json:"editTokens"`

	objectTypeSuper map[string]string
	specialSet      map[string]bool
	templateOpSet   map[string]bool
	editSet         map[string]bool
}

// Default decodes and validates the embedded category document.
func Default() (*Schema, error) {
	return decode(defaultCategoryCUE, "category.cue")
}

// LoadOverride decodes an override document in the same shape from path.
// It is meant to be merged onto Default() via Merge, matching the teacher
// schema package's Load/Merge split.
func LoadOverride(path string) (*Schema, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return decode(content, path)
}

func decode(src []byte, name string) (*Schema, error) {
	ctx := cuecontext.New()
	val := ctx.CompileBytes(src, cue.Filename(name))
	if err := val.Err(); err != nil {
		return nil, fmt.Errorf("schema: compile %s: %w", name, errors.Promote(err, "cue"))
	}
	if err := val.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("schema: validate %s: %w", name, errors.Promote(err, "cue"))
	}

	var s Schema
	if err := val.Decode(&s); err != nil {
		return nil, fmt.Errorf("schema: decode %s: %w", name, err)
	}
	s.reindex()
	return &s, nil
}

// Merge adds an override's super-categories and token sets onto s in place.
// A super-category present in both is unioned on ObjectTypes (not
// replaced), so an override can extend ITEM without restating every member;
// FileStem from the override wins if non-empty. Token sets are unioned.
func (s *Schema) Merge(other *Schema) {
	if other == nil {
		return
	}
	if s.SuperCategories == nil {
		s.SuperCategories = make(map[string]SuperCategory)
	}
	for name, sc := range other.SuperCategories {
		existing, ok := s.SuperCategories[name]
		if !ok {
			s.SuperCategories[name] = sc
			continue
		}
		seen := make(map[string]bool, len(existing.ObjectTypes))
		merged := append([]string(nil), existing.ObjectTypes...)
		for _, t := range existing.ObjectTypes {
			seen[t] = true
		}
		for _, t := range sc.ObjectTypes {
			if !seen[t] {
				merged = append(merged, t)
				seen[t] = true
			}
		}
		if sc.FileStem != "" {
			existing.FileStem = sc.FileStem
		}
		existing.ObjectTypes = merged
		s.SuperCategories[name] = existing
	}
	s.SuperCategoryOrder = unionStrings(s.SuperCategoryOrder, other.SuperCategoryOrder)
	s.HeaderPriority = unionStrings(s.HeaderPriority, other.HeaderPriority)
	s.SpecialTokens = unionStrings(s.SpecialTokens, other.SpecialTokens)
	s.TemplateOpTokens = unionStrings(s.TemplateOpTokens, other.TemplateOpTokens)
	s.EditTokens = unionStrings(s.EditTokens, other.EditTokens)
	s.reindex()
}

func unionStrings(a, b []string) []string {
	seen := make(map[string]bool, len(a))
	out := append([]string(nil), a...)
	for _, v := range a {
		seen[v] = true
	}
	for _, v := range b {
		if !seen[v] {
			out = append(out, v)
			seen[v] = true
		}
	}
	return out
}

func (s *Schema) reindex() {
	s.objectTypeSuper = make(map[string]string)
	for superName, sc := range s.SuperCategories {
		for _, ot := range sc.ObjectTypes {
			s.objectTypeSuper[ot] = superName
		}
	}
	s.specialSet = toSet(s.SpecialTokens)
	s.templateOpSet = toSet(s.TemplateOpTokens)
	s.editSet = toSet(s.EditTokens)
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

// ObjectTypesForSuper returns the object types routed to by OBJECT:<super>,
// plus {EDIT, OBJECT_TEMPLATE} which are always valid new-object headers
// (§4.4: "pos_object_types: ... initially {EDIT, OBJECT_TEMPLATE}, updated
// ... plus {EDIT, OBJECT_TEMPLATE} if present in the schema").
func (s *Schema) ObjectTypesForSuper(super string) []string {
	base := []string{"EDIT", "OBJECT_TEMPLATE"}
	sc, ok := s.SuperCategories[super]
	if !ok {
		return base
	}
	return append(append([]string(nil), sc.ObjectTypes...), base...)
}

// SuperCategoryOf returns the super-category an object type belongs to.
func (s *Schema) SuperCategoryOf(objectType string) (string, bool) {
	name, ok := s.objectTypeSuper[objectType]
	return name, ok
}

// FileStem returns the canonical output stem for a super-category.
func (s *Schema) FileStem(super string) (string, bool) {
	sc, ok := s.SuperCategories[super]
	return sc.FileStem, ok
}

// WritableSuperCategories lists every super-category the Writer should
// consider, excluding the synthetic EDIT and OBJECT_TEMPLATE ones. Order is
// not guaranteed; the Writer uses OrderedSuperCategories instead.
func (s *Schema) WritableSuperCategories() []string {
	var out []string
	for name, sc := range s.SuperCategories {
		if sc.FileStem != "" {
			out = append(out, name)
		}
	}
	return out
}

// OrderedSuperCategories returns the writable super-categories in
// superCategoryOrder order, the deterministic order the Writer groups files
// by (§4.6) and the Compiler pass visits object types in (§5). This is a
// distinct list from HeaderPriority: HeaderPriority holds file-header prefix
// strings consumed only by the File Sorter and does not share a namespace
// with super-category keys (§4.7).
func (s *Schema) OrderedSuperCategories() []string {
	var out []string
	seen := make(map[string]bool)
	for _, name := range s.SuperCategoryOrder {
		sc, ok := s.SuperCategories[name]
		if !ok || sc.FileStem == "" || seen[name] {
			continue
		}
		out = append(out, name)
		seen[name] = true
	}
	// Any writable super-category absent from superCategoryOrder (e.g. one
	// introduced by an override document without updating the order list)
	// is still emitted, sorted by name for determinism, so Merge callers
	// never silently lose a whole category's output.
	var extra []string
	for name, sc := range s.SuperCategories {
		if sc.FileStem == "" || seen[name] {
			continue
		}
		extra = append(extra, name)
	}
	sort.Strings(extra)
	out = append(out, extra...)
	return out
}

// OrderedObjectTypes flattens OrderedSuperCategories into a single object
// type list, preserving each super-category's declared member order.
func (s *Schema) OrderedObjectTypes() []string {
	var out []string
	for _, super := range s.OrderedSuperCategories() {
		out = append(out, s.SuperCategories[super].ObjectTypes...)
	}
	return out
}

func (s *Schema) IsSpecialToken(name string) bool    { return s.specialSet[name] }
func (s *Schema) IsTemplateOpToken(name string) bool { return s.templateOpSet[name] }
func (s *Schema) IsEditToken(name string) bool       { return s.editSet[name] }
