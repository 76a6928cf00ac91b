package reader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dfmod/rawc/internal/diag"
	"github.com/dfmod/rawc/internal/lexer"
	"github.com/dfmod/rawc/internal/schema"
	"github.com/dfmod/rawc/internal/store"
)

func writeMod(t *testing.T, files map[string]string) ModDescriptor {
	t.Helper()
	dir := t.TempDir()
	objectsDir := filepath.Join(dir, "objects")
	if err := os.MkdirAll(objectsDir, 0o755); err != nil {
		t.Fatal(err)
	}
	var names []string
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(objectsDir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		names = append(names, name)
	}
	return ModDescriptor{Name: "testmod", Version: "1.0", Path: dir, FileNames: names}
}

func newReader(t *testing.T) (*Reader, *diag.Collector) {
	t.Helper()
	sc, err := schema.Default()
	if err != nil {
		t.Fatalf("schema.Default: %v", err)
	}
	collector := &diag.Collector{}
	return New(store.New(), sc, collector), collector
}

func TestReadPlainObjectAndTemplate(t *testing.T) {
	r, _ := newReader(t)
	mod := writeMod(t, map[string]string{
		"template.txt": "o_template_demo\n[OBJECT:OBJECT_TEMPLATE]\n[OBJECT_TEMPLATE:CREATURE:TOUGH]\n[OT_ADD_TAG:BIOME:MOUNTAIN]\n[BIOME:FOREST]",
		"creature.txt": "creature_demo\n[OBJECT:CREATURE]\n[CREATURE:BEAR]\n[BIOME:FOREST]\n[USE_OBJECT_TEMPLATE:TOUGH]",
	})
	if err := r.Read([]ModDescriptor{mod}); err != nil {
		t.Fatalf("Read: %v", err)
	}

	tmpl, ok := r.Store.LookupTemplate("CREATURE", "TOUGH")
	if !ok {
		t.Fatalf("expected template TOUGH to be stored")
	}
	if len(tmpl.Tokens) != 2 {
		t.Fatalf("expected 2 template tokens, got %+v", tmpl.Tokens)
	}
	if tmpl.Tokens[0].Name() != "OT_ADD_TAG" {
		t.Errorf("expected explicit OT_ADD_TAG kept as-is, got %v", tmpl.Tokens[0])
	}
	if tmpl.Tokens[1].Name() != "OT_ADD_TAG" || tmpl.Tokens[1].Fragments[1] != "BIOME" {
		t.Errorf("expected bare BIOME wrapped as OT_ADD_TAG, got %v", tmpl.Tokens[1])
	}

	bear, ok := r.Store.Lookup("CREATURE", "BEAR")
	if !ok {
		t.Fatalf("expected CREATURE BEAR stored")
	}
	if len(bear.Tokens) != 2 {
		t.Fatalf("expected 2 raw tokens on BEAR (template not yet applied by Reader), got %+v", bear.Tokens)
	}
	if bear.Tokens[1].Name() != "USE_OBJECT_TEMPLATE" {
		t.Errorf("expected USE_OBJECT_TEMPLATE kept verbatim for the compiler pass, got %v", bear.Tokens[1])
	}
}

func TestReadEditSelectByClassAndUnselect(t *testing.T) {
	r, _ := newReader(t)
	mod := writeMod(t, map[string]string{
		"creature.txt": "creature_demo\n" +
			"[OBJECT:CREATURE]\n" +
			"[CREATURE:BEAR]\n[OBJECT_CLASS:MAMMAL]\n" +
			"[CREATURE:PIG]\n[OBJECT_CLASS:MAMMAL]\n" +
			"[CREATURE:SNAKE]\n[OBJECT_CLASS:REPTILE]\n" +
			"[EDIT:CREATURE:SEL_BY_CLASS:MAMMAL]\n[UNSELECT:SEL_BY_ID:PIG]\n[ATTRIBUTE:TOUGH]",
	})
	if err := r.Read([]ModDescriptor{mod}); err != nil {
		t.Fatalf("Read: %v", err)
	}

	bear, _ := r.Store.Lookup("CREATURE", "BEAR")
	pig, _ := r.Store.Lookup("CREATURE", "PIG")
	snake, _ := r.Store.Lookup("CREATURE", "SNAKE")

	if !hasToken(bear.Tokens, "ATTRIBUTE", "TOUGH") {
		t.Errorf("expected BEAR to gain ATTRIBUTE:TOUGH, got %+v", bear.Tokens)
	}
	if hasToken(pig.Tokens, "ATTRIBUTE", "TOUGH") {
		t.Errorf("expected PIG unchanged (unselected), got %+v", pig.Tokens)
	}
	if hasToken(snake.Tokens, "ATTRIBUTE", "TOUGH") {
		t.Errorf("expected SNAKE unchanged (wrong class), got %+v", snake.Tokens)
	}
}

func hasToken(tokens []lexer.Token, name, arg string) bool {
	for _, t := range tokens {
		if t.Name() == name && len(t.Args()) > 0 && t.Args()[0] == arg {
			return true
		}
	}
	return false
}

func TestReadDuplicateObjectIDOverwritesMapKeepsOldInList(t *testing.T) {
	r, collector := newReader(t)
	mod := writeMod(t, map[string]string{
		"creature.txt": "creature_demo\n[OBJECT:CREATURE]\n[CREATURE:BEAR]\n[A:1]\n[CREATURE:BEAR]\n[A:2]",
	})
	if err := r.Read([]ModDescriptor{mod}); err != nil {
		t.Fatalf("Read: %v", err)
	}

	list := r.Store.List("CREATURE")
	if len(list) != 2 {
		t.Fatalf("expected both definitions retained in the ordered list, got %d", len(list))
	}
	got, _ := r.Store.Lookup("CREATURE", "BEAR")
	if got != list[1] {
		t.Errorf("expected id map to point at the later definition")
	}
	if len(collector.Diagnostics) != 1 || collector.Diagnostics[0].Kind != diag.KindDuplicateObjectID {
		t.Errorf("expected a duplicate-id diagnostic, got %+v", collector.Diagnostics)
	}
}

func TestReadMissingObjectsFolderTreatedAsEmpty(t *testing.T) {
	r, collector := newReader(t)
	mod := ModDescriptor{Name: "ghost", Version: "1.0", Path: t.TempDir()}
	if err := r.Read([]ModDescriptor{mod}); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(collector.Diagnostics) != 1 || collector.Diagnostics[0].Kind != diag.KindMissingObjectsFolder {
		t.Fatalf("expected a missing-objects-folder diagnostic, got %+v", collector.Diagnostics)
	}
}
