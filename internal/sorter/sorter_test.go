package sorter

import (
	"testing"

	"github.com/dfmod/rawc/internal/schema"
)

func firstLines(m map[string]string) func(string) string {
	return func(name string) string { return m[name] }
}

func TestSortGroupsByHeaderPriorityOrder(t *testing.T) {
	sc, err := schema.Default()
	if err != nil {
		t.Fatalf("schema.Default: %v", err)
	}

	lines := map[string]string{
		"a.txt": "creature_a",
		"b.txt": "item_b",
		"c.txt": "creature_c",
		"d.txt": "o_template_d",
	}
	order := []string{"a.txt", "b.txt", "c.txt", "d.txt"}

	got := Sort(sc, order, firstLines(lines))
	want := []string{"d.txt", "b.txt", "a.txt", "c.txt"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSortDropsUnknownHeader(t *testing.T) {
	sc, _ := schema.Default()
	lines := map[string]string{
		"a.txt": "creature_a",
		"b.txt": "totally_unrelated_readme",
	}
	got := Sort(sc, []string{"a.txt", "b.txt"}, firstLines(lines))
	if len(got) != 1 || got[0] != "a.txt" {
		t.Fatalf("expected unknown-header file dropped, got %v", got)
	}
}

func TestSortPreservesWithinGroupOrder(t *testing.T) {
	sc, _ := schema.Default()
	lines := map[string]string{
		"z.txt": "creature_z",
		"a.txt": "creature_a",
	}
	got := Sort(sc, []string{"z.txt", "a.txt"}, firstLines(lines))
	want := []string{"z.txt", "a.txt"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expected input order preserved within group, got %v", got)
		}
	}
}
