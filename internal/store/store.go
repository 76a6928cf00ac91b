// Package store implements the Object Store (§4.3): per-object-type
// catalogs of normal objects and object templates, each addressable by id.
package store

import "github.com/dfmod/rawc/internal/lexer"

// Provenance records where a token sequence came from, carried by both
// RawObject and ObjectTemplate (§3).
type Provenance struct {
	ModName    string
	ModVersion string
	SourceFile string
}

// RawObject is an addressable entity: an object-type tag, a string id, an
// ordered token body, provenance, and an is-removed flag (§3).
type RawObject struct {
	ObjectType string
	ID         string
	Tokens     []lexer.Token
	Provenance Provenance
	IsRemoved  bool
}

// ObjectTemplate has the same shape as RawObject but lives in a separate
// index; its body is predominantly OT_* operations (§3).
type ObjectTemplate struct {
	ObjectType string
	ID         string
	Tokens     []lexer.Token
	Provenance Provenance
}

// CompiledObject and CompiledTemplate are distinct types from RawObject and
// ObjectTemplate so the compiled index can never alias the source index
// (§3 lifecycle, §9 design note on the two-index store).
type CompiledObject struct {
	ObjectType string
	ID         string
	Tokens     []lexer.Token
	Provenance Provenance
	IsRemoved  bool
}

type CompiledTemplate struct {
	ObjectType string
	ID         string
	Tokens     []lexer.Token
	Provenance Provenance
}

// typeIndex is the two-parallel-structure catalog for a single object type:
// an ordered slice (first-insertion order, for deterministic output) and an
// id map (O(1) lookup).
type typeIndex struct {
	list []*RawObject
	byID map[string]*RawObject
}

func newTypeIndex() *typeIndex {
	return &typeIndex{byID: make(map[string]*RawObject)}
}

// Store is the Object Store: normal objects indexed per object type, and
// templates indexed per object type.
type Store struct {
	normal    map[string]*typeIndex
	templates map[string]map[string]*ObjectTemplate
}

func New() *Store {
	return &Store{
		normal:    make(map[string]*typeIndex),
		templates: make(map[string]map[string]*ObjectTemplate),
	}
}

func (s *Store) typeIndexFor(objectType string) *typeIndex {
	ti, ok := s.normal[objectType]
	if !ok {
		ti = newTypeIndex()
		s.normal[objectType] = ti
	}
	return ti
}

// InsertNormal appends obj to its type's ordered list and records it in the
// id map. If obj.ID collides with an existing id, the map entry moves to
// the new object but the list keeps the earlier reference — this is the
// documented last-write-wins-on-the-map, list-keeps-the-old behavior of
// §3/§7/§9(a); it is intentional, not a bug to fix. The duplicate bool
// return tells the caller (the Reader) whether to log the §7 warning.
func (s *Store) InsertNormal(obj *RawObject) (duplicate bool) {
	ti := s.typeIndexFor(obj.ObjectType)
	_, duplicate = ti.byID[obj.ID]
	ti.list = append(ti.list, obj)
	ti.byID[obj.ID] = obj
	return duplicate
}

// RemoveNormal removes obj from both the list and the id map of its type.
func (s *Store) RemoveNormal(obj *RawObject) {
	ti, ok := s.normal[obj.ObjectType]
	if !ok {
		return
	}
	if ti.byID[obj.ID] == obj {
		delete(ti.byID, obj.ID)
	}
	for i, o := range ti.list {
		if o == obj {
			ti.list = append(ti.list[:i], ti.list[i+1:]...)
			break
		}
	}
}

// Lookup returns the id-mapped object for (objectType, id) — this is the
// object later EDIT blocks and COPY_TAGS_FROM address, which may differ
// from the object occupying that id's slot in List (§9(a)).
func (s *Store) Lookup(objectType, id string) (*RawObject, bool) {
	ti, ok := s.normal[objectType]
	if !ok {
		return nil, false
	}
	obj, ok := ti.byID[id]
	return obj, ok
}

// List returns every object of a type in insertion order.
func (s *Store) List(objectType string) []*RawObject {
	ti, ok := s.normal[objectType]
	if !ok {
		return nil
	}
	return ti.list
}

// ObjectTypes returns every object type that has at least one normal object
// stored, in no particular order.
func (s *Store) ObjectTypes() []string {
	out := make([]string, 0, len(s.normal))
	for t := range s.normal {
		out = append(out, t)
	}
	return out
}

// InsertTemplate records a template in the id map only; templates are never
// written (§3 lifecycle) so they need no ordered list.
func (s *Store) InsertTemplate(tmpl *ObjectTemplate) {
	m, ok := s.templates[tmpl.ObjectType]
	if !ok {
		m = make(map[string]*ObjectTemplate)
		s.templates[tmpl.ObjectType] = m
	}
	m[tmpl.ID] = tmpl
}

// LookupTemplate returns the template stored for (objectType, id).
func (s *Store) LookupTemplate(objectType, id string) (*ObjectTemplate, bool) {
	m, ok := s.templates[objectType]
	if !ok {
		return nil, false
	}
	tmpl, ok := m[id]
	return tmpl, ok
}

// TemplateIDs returns every template id stored for objectType, in no
// particular order (templates have no ordered list; nothing reads them back
// in insertion order since they are never written, only consumed).
func (s *Store) TemplateIDs(objectType string) []string {
	m, ok := s.templates[objectType]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	return out
}
