// Package membership implements toggle semantics over the reference
// lists hanging off user documents (favorites, followed chefs). The
// functions are pure: handlers read the list, toggle in memory, and
// write the whole list back with a last-write-wins $set.
package membership

import "tasteknowledge/models"

// Contains reports whether the normalized list holds id.
func Contains(refs []models.Ref, id string) bool {
	for _, r := range refs {
		if string(r) == id {
			return true
		}
	}
	return false
}

// Toggle removes id when present and appends it when absent, returning
// the new list and the resulting membership. Duplicates of id collapse
// on removal; order of the surviving entries is preserved. The input
// slice is not mutated.
func Toggle(refs []models.Ref, id string) ([]models.Ref, bool) {
	if Contains(refs, id) {
		out := make([]models.Ref, 0, len(refs))
		for _, r := range refs {
			if string(r) != id {
				out = append(out, r)
			}
		}
		return out, false
	}
	out := make([]models.Ref, 0, len(refs)+1)
	out = append(out, refs...)
	out = append(out, models.Ref(id))
	return out, true
}

// IDs flattens a normalized list to plain hex strings, dropping empties
// left behind by unparsable legacy entries.
func IDs(refs []models.Ref) []string {
	out := make([]string, 0, len(refs))
	for _, r := range refs {
		if r != "" {
			out = append(out, string(r))
		}
	}
	return out
}
