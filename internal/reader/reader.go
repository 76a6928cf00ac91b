// Package reader implements the Reader/Editor (§4.4): a single streaming
// pass over a mod's sorted tokens that creates objects, creates templates,
// and applies EDIT directives against already-stored objects.
package reader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dfmod/rawc/internal/diag"
	"github.com/dfmod/rawc/internal/lexer"
	"github.com/dfmod/rawc/internal/schema"
	"github.com/dfmod/rawc/internal/sorter"
	"github.com/dfmod/rawc/internal/store"
)

// ModDescriptor is the core's documented mod input (§6, §9): a name,
// version, filesystem path, and the object file names under
// "<path>/objects". This is pre-filled by an external collaborator (the
// mod-metadata parser, a GUI mod picker, or cmd/rawc's manifest loader);
// the Reader never parses mod_info.txt itself.
type ModDescriptor struct {
	Name      string
	Version   string
	Path      string
	FileNames []string
}

// Reader drives the streaming Reader/Editor pass described in §4.4.
type Reader struct {
	Store  *store.Store
	Schema *schema.Schema
	Diag   diag.Sink
}

// New returns a Reader that populates store using sc's category tables,
// reporting recoverable conditions to sink (diag.Discard{} if sink is nil).
func New(st *store.Store, sc *schema.Schema, sink diag.Sink) *Reader {
	if sink == nil {
		sink = diag.Discard{}
	}
	return &Reader{Store: st, Schema: sc, Diag: sink}
}

// Read processes mods sequentially in the given order, each mod's files in
// sort order (§4.2, §5), populating r.Store.
func (r *Reader) Read(mods []ModDescriptor) error {
	for _, mod := range mods {
		if err := r.readMod(mod); err != nil {
			return fmt.Errorf("reading mod %s %s: %w", mod.Name, mod.Version, err)
		}
	}
	return nil
}

func (r *Reader) readMod(mod ModDescriptor) error {
	objectsDir := filepath.Join(mod.Path, "objects")
	if info, err := os.Stat(objectsDir); err != nil || !info.IsDir() {
		r.Diag.Record(diag.Diagnostic{
			Kind:       diag.KindMissingObjectsFolder,
			ModName:    mod.Name,
			ModVersion: mod.Version,
			Message:    fmt.Sprintf("mod %s %s has no objects folder; treated as empty", mod.Name, mod.Version),
		})
		return nil
	}

	sorted := sorter.Sort(r.Schema, mod.FileNames, func(name string) string {
		return sorter.FirstLine(filepath.Join(objectsDir, name))
	})

	for _, name := range sorted {
		content, err := os.ReadFile(filepath.Join(objectsDir, name))
		if err != nil {
			return fmt.Errorf("reading %s: %w", name, err)
		}
		tokens := lexer.Lex(lexer.DecodeLatin1(content))
		r.readFile(mod, name, tokens)
	}
	return nil
}

type fileMode int

const (
	modeNone fileMode = iota
	modeNew
	modeOT
	modeEdit
)

type editState struct {
	objectType    string
	selected      []*store.RawObject
	convertOpen   bool
	convertMaster []string
	convertTarget string
}

// readFile runs the single left-to-right token scan of §4.4 over one
// already-sorted, already-tokenized file.
func (r *Reader) readFile(mod ModDescriptor, fileName string, tokens []lexer.Token) {
	prov := store.Provenance{ModName: mod.Name, ModVersion: mod.Version, SourceFile: fileName}

	mode := modeNone
	posTypes := map[string]bool{"EDIT": true, "OBJECT_TEMPLATE": true}

	var newObj *store.RawObject
	var otObj *store.ObjectTemplate
	var edit editState

	commit := func() {
		switch mode {
		case modeNew:
			if newObj == nil {
				return
			}
			if dup := r.Store.InsertNormal(newObj); dup {
				r.Diag.Record(diag.Diagnostic{
					Kind:       diag.KindDuplicateObjectID,
					ModName:    mod.Name,
					ModVersion: mod.Version,
					ObjectType: newObj.ObjectType,
					ObjectID:   newObj.ID,
					SourceFile: fileName,
					Message:    fmt.Sprintf("duplicate %s id %q: id map now points at this definition, the ordered list keeps the earlier one as well", newObj.ObjectType, newObj.ID),
				})
			}
			newObj = nil
		case modeOT:
			if otObj != nil {
				r.Store.InsertTemplate(otObj)
			}
			otObj = nil
		}
	}

	for _, tok := range tokens {
		name := tok.Name()

		if name == "OBJECT" {
			args := tok.Args()
			super := ""
			if len(args) > 0 {
				super = args[0]
			}
			posTypes = toSet(r.Schema.ObjectTypesForSuper(super))
			continue
		}

		if posTypes[name] {
			commit()
			switch name {
			case "EDIT":
				frags := tok.Fragments
				objectType := ""
				var criteria []string
				if len(frags) > 1 {
					objectType = frags[1]
				}
				if len(frags) > 2 {
					criteria = frags[2:]
				}
				mode = modeEdit
				edit = editState{objectType: objectType, selected: r.selectObjects(objectType, criteria)}
			case "OBJECT_TEMPLATE":
				frags := tok.Fragments
				objectType, id := "", ""
				if len(frags) > 1 {
					objectType = frags[1]
				}
				if len(frags) > 2 {
					id = frags[2]
				}
				mode = modeOT
				otObj = &store.ObjectTemplate{ObjectType: objectType, ID: id, Provenance: prov}
			default:
				id := ""
				if args := tok.Args(); len(args) > 0 {
					id = args[0]
				}
				mode = modeNew
				newObj = &store.RawObject{ObjectType: name, ID: id, Provenance: prov}
			}
			continue
		}

		switch mode {
		case modeNew:
			if newObj != nil {
				newObj.Tokens = append(newObj.Tokens, tok)
			}
		case modeOT:
			if otObj == nil {
				continue
			}
			if r.Schema.IsTemplateOpToken(name) {
				otObj.Tokens = append(otObj.Tokens, tok)
			} else {
				otObj.Tokens = append(otObj.Tokens, wrapAddTag(tok))
			}
		case modeEdit:
			r.dispatchEdit(mod, fileName, &edit, tok)
		}
	}

	// Last-token-in-file is a virtual header: commit whatever is still open.
	commit()
}

func wrapAddTag(tok lexer.Token) lexer.Token {
	frags := make([]string, 0, len(tok.Fragments)+1)
	frags = append(frags, "OT_ADD_TAG")
	frags = append(frags, tok.Fragments...)
	return lexer.Token{Fragments: frags}
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

// dispatchEdit executes the EDIT sub-DSL (§4.4.1) for one body token
// against the currently selected objects.
func (r *Reader) dispatchEdit(mod ModDescriptor, fileName string, edit *editState, tok lexer.Token) {
	name := tok.Name()
	args := tok.Args()

	switch name {
	case "PLUS_SELECT":
		edit.selected = unionObjects(edit.selected, r.selectObjects(edit.objectType, args))
		edit.convertOpen = false
		return
	case "UNSELECT":
		edit.selected = subtractObjects(edit.selected, r.selectObjects(edit.objectType, args))
		edit.convertOpen = false
		return
	case "ADD_SPEC_TAG":
		edit.convertOpen = false
		if len(args) == 0 || !r.Schema.IsSpecialToken(args[0]) {
			r.invalidSpecTagName(mod, fileName, "ADD_SPEC_TAG", args)
			return
		}
		frags := append([]string{args[0]}, args[1:]...)
		for _, o := range edit.selected {
			o.Tokens = append(o.Tokens, lexer.Token{Fragments: frags})
		}
		return
	case "REMOVE_SPEC_TAG":
		edit.convertOpen = false
		if len(args) == 0 || !r.Schema.IsSpecialToken(args[0]) {
			r.invalidSpecTagName(mod, fileName, "REMOVE_SPEC_TAG", args)
			return
		}
		target := append([]string{args[0]}, args[1:]...)
		for _, o := range edit.selected {
			o.Tokens, _ = store.RemoveMatching(o.Tokens, target)
		}
		return
	case "CONVERT_SPEC_TAG":
		if len(args) == 0 || !r.Schema.IsSpecialToken(args[0]) {
			edit.convertOpen = false
			r.invalidSpecTagName(mod, fileName, "CONVERT_SPEC_TAG", args)
			return
		}
		edit.convertOpen = true
		edit.convertMaster = append([]string(nil), args...)
		edit.convertTarget = ""
		return
	case "CST_TARGET":
		if edit.convertOpen {
			edit.convertTarget = strings.Join(args, ":")
			return
		}
	case "CST_REPLACEMENT":
		if edit.convertOpen {
			replacement := strings.Join(args, ":")
			for _, o := range edit.selected {
				store.ApplyConvert(o.Tokens, edit.convertMaster, edit.convertTarget, replacement)
			}
			edit.convertOpen = false
			return
		}
	}

	// Any token that isn't one of the EDIT-DSL directives above terminates
	// an open convert block (§4.4.1).
	edit.convertOpen = false
	r.fallbackEditToken(edit, tok)
}

// fallbackEditToken implements: "any other token is appended to each
// currently selected object as [OT_ADD_TAG, ...original fragments...],
// unless the token is in the special-tokens set or template-operation set,
// in which case it is appended verbatim" (§4.4.1).
func (r *Reader) fallbackEditToken(edit *editState, tok lexer.Token) {
	name := tok.Name()
	if r.Schema.IsSpecialToken(name) || r.Schema.IsTemplateOpToken(name) {
		for _, o := range edit.selected {
			o.Tokens = append(o.Tokens, tok)
		}
		return
	}
	wrapped := wrapAddTag(tok)
	for _, o := range edit.selected {
		o.Tokens = append(o.Tokens, wrapped)
	}
}

func (r *Reader) invalidSpecTagName(mod ModDescriptor, fileName, directive string, args []string) {
	r.Diag.Record(diag.Diagnostic{
		Kind:       diag.KindInvalidSpecTagName,
		ModName:    mod.Name,
		ModVersion: mod.Version,
		SourceFile: fileName,
		Message:    fmt.Sprintf("%s: %v is not a recognized special-tag name", directive, args),
	})
}
