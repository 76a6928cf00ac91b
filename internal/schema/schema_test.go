package schema

import "testing"

func TestDefaultDecodesCategoryTables(t *testing.T) {
	sc, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	super, ok := sc.SuperCategoryOf("CREATURE")
	if !ok || super != "CREATURE" {
		t.Fatalf("expected CREATURE object type to map to the CREATURE super-category, got %q, %v", super, ok)
	}
	stem, ok := sc.FileStem("CREATURE")
	if !ok || stem != "creature" {
		t.Fatalf("expected file stem %q, got %q, %v", "creature", stem, ok)
	}
	if !sc.IsSpecialToken("GO_TO_END") {
		t.Errorf("expected GO_TO_END to be a special token")
	}
	if !sc.IsTemplateOpToken("OT_ADD_TAG") {
		t.Errorf("expected OT_ADD_TAG to be a template-op token")
	}
	if !sc.IsEditToken("PLUS_SELECT") {
		t.Errorf("expected PLUS_SELECT to be an edit token")
	}
}

func TestObjectTypesForSuperIncludesSyntheticHeaders(t *testing.T) {
	sc, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	types := sc.ObjectTypesForSuper("ITEM")
	wantMembers := map[string]bool{"ITEM_WEAPON": true, "EDIT": true, "OBJECT_TEMPLATE": true}
	for name := range wantMembers {
		found := false
		for _, t2 := range types {
			if t2 == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected %s in ObjectTypesForSuper(ITEM), got %v", name, types)
		}
	}
}

func TestObjectTypesForSuperUnknownStillGetsSyntheticHeaders(t *testing.T) {
	sc, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	got := sc.ObjectTypesForSuper("NOT_A_REAL_SUPER")
	if len(got) != 2 || got[0] != "EDIT" || got[1] != "OBJECT_TEMPLATE" {
		t.Fatalf("expected just {EDIT, OBJECT_TEMPLATE}, got %v", got)
	}
}

func TestOrderedSuperCategoriesExcludesSynthetic(t *testing.T) {
	sc, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	out := sc.OrderedSuperCategories()
	if len(out) == 0 {
		t.Fatalf("expected a non-empty ordered super-category list")
	}
	for _, name := range out {
		if name == "EDIT" || name == "OBJECT_TEMPLATE" {
			t.Errorf("expected synthetic super-category %s excluded from Writer/Compiler order", name)
		}
	}
	seen := make(map[string]bool)
	for _, name := range out {
		if seen[name] {
			t.Fatalf("expected each super-category exactly once, saw %s twice in %v", name, out)
		}
		seen[name] = true
	}
	if !seen["CREATURE"] || !seen["ITEM"] || !seen["LANGUAGE"] {
		t.Errorf("expected CREATURE, ITEM, and LANGUAGE among the ordered super-categories, got %v", out)
	}
}

func TestOrderedObjectTypesFlattensInSuperCategoryOrder(t *testing.T) {
	sc, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	flat := sc.OrderedObjectTypes()
	foundCreature := false
	for _, ot := range flat {
		if ot == "CREATURE" {
			foundCreature = true
		}
	}
	if !foundCreature {
		t.Fatalf("expected CREATURE in the flattened object-type list, got %v", flat)
	}
}

func TestMergeUnionsObjectTypesAndTokenSets(t *testing.T) {
	base, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	override := &Schema{
		SuperCategories: map[string]SuperCategory{
			"ITEM": {ObjectTypes: []string{"ITEM_TOTEM"}},
		},
		SpecialTokens: []string{"GO_TO_END", "MOD_SPECIAL"},
	}
	override.reindex()
	base.Merge(override)

	found := false
	for _, ot := range base.SuperCategories["ITEM"].ObjectTypes {
		if ot == "ITEM_TOTEM" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected ITEM_TOTEM added to ITEM's object types, got %v", base.SuperCategories["ITEM"].ObjectTypes)
	}
	if stem, _ := base.FileStem("ITEM"); stem != "item" {
		t.Errorf("expected ITEM's file stem preserved from the default (override left it empty), got %q", stem)
	}
	if !base.IsSpecialToken("MOD_SPECIAL") {
		t.Errorf("expected MOD_SPECIAL unioned into the special-token set")
	}
	if !base.IsSpecialToken("GO_TO_END") {
		t.Errorf("expected the default special tokens preserved after merge")
	}
}
