package reader

import "github.com/dfmod/rawc/internal/store"

// selectObjects applies a selection-criteria fragment sequence (§4.4.2)
// against every stored object of objectType, returning the matches in
// store order.
func (r *Reader) selectObjects(objectType string, criteria []string) []*store.RawObject {
	all := r.Store.List(objectType)
	if len(criteria) == 0 {
		return nil
	}
	if criteria[0] == "ALL" {
		return append([]*store.RawObject(nil), all...)
	}

	candidates := append([]*store.RawObject(nil), all...)
	i := 0
	for i < len(criteria) {
		switch criteria[i] {
		case "SEL_BY_ID":
			if i+1 >= len(criteria) {
				return candidates
			}
			id := criteria[i+1]
			candidates = filterByID(candidates, id)
			i += 2
		case "SEL_BY_CLASS":
			if i+1 >= len(criteria) {
				return candidates
			}
			class := criteria[i+1]
			candidates = filterByClass(candidates, class)
			i += 2
		case "SEL_BY_TAG", "SEL_BY_TAG_PRECISE":
			precise := criteria[i] == "SEL_BY_TAG_PRECISE"
			i++
			start := i
			for i < len(criteria) && !isSelByClauseName(criteria[i]) {
				i++
			}
			candidates = filterByTag(candidates, criteria[start:i], precise)
		default:
			// Unrecognized clause name: not defined by spec.md. Stop
			// consuming criteria rather than loop forever, keeping
			// whatever narrowing has already happened.
			return candidates
		}
	}
	return candidates
}

func isSelByClauseName(s string) bool {
	switch s {
	case "SEL_BY_ID", "SEL_BY_CLASS", "SEL_BY_TAG", "SEL_BY_TAG_PRECISE":
		return true
	}
	return false
}

func filterByID(objs []*store.RawObject, id string) []*store.RawObject {
	var out []*store.RawObject
	for _, o := range objs {
		if o.ID == id {
			out = append(out, o)
		}
	}
	return out
}

func filterByClass(objs []*store.RawObject, class string) []*store.RawObject {
	var out []*store.RawObject
	for _, o := range objs {
		for _, t := range o.Tokens {
			if store.FragmentsEqual(t.Fragments, []string{"OBJECT_CLASS", class}) ||
				store.FragmentsEqual(t.Fragments, []string{"CREATURE_CLASS", class}) {
				out = append(out, o)
				break
			}
		}
	}
	return out
}

func filterByTag(objs []*store.RawObject, tag []string, precise bool) []*store.RawObject {
	var out []*store.RawObject
	for _, o := range objs {
		for _, t := range o.Tokens {
			match := false
			if precise {
				match = store.FragmentsEqual(t.Fragments, tag)
			} else {
				match = store.HasFragmentPrefix(t.Fragments, tag)
			}
			if match {
				out = append(out, o)
				break
			}
		}
	}
	return out
}

func unionObjects(base, add []*store.RawObject) []*store.RawObject {
	seen := make(map[*store.RawObject]bool, len(base))
	out := append([]*store.RawObject(nil), base...)
	for _, o := range base {
		seen[o] = true
	}
	for _, o := range add {
		if !seen[o] {
			out = append(out, o)
			seen[o] = true
		}
	}
	return out
}

func subtractObjects(base, remove []*store.RawObject) []*store.RawObject {
	removeSet := make(map[*store.RawObject]bool, len(remove))
	for _, o := range remove {
		removeSet[o] = true
	}
	var out []*store.RawObject
	for _, o := range base {
		if !removeSet[o] {
			out = append(out, o)
		}
	}
	return out
}
