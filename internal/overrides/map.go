// Package overrides stores sparse per-mockup override values. Mockups are
// addressed by their position in the mockup list, so every map in the
// application must be re-keyed through the same routine when a mockup is
// deleted from the middle of the list.
package overrides

import "sort"

// Map holds override values keyed by mockup index. The zero value is ready to
// use. Callers are responsible for bounds-checking indices against the current
// mockup count; the map itself only rejects negative keys.
type Map[V any] struct {
	entries map[int]V
}

// Set stores an override for the given mockup index, replacing any previous
// value. Negative indices are ignored.
func (m *Map[V]) Set(index int, value V) {
	if index < 0 {
		return
	}
	if m.entries == nil {
		m.entries = make(map[int]V)
	}
	m.entries[index] = value
}

// Get returns the override for the given mockup index, if one exists.
func (m *Map[V]) Get(index int) (V, bool) {
	v, ok := m.entries[index]
	return v, ok
}

// Has reports whether an override exists for the given mockup index.
func (m *Map[V]) Has(index int) bool {
	_, ok := m.entries[index]
	return ok
}

// Delete removes the override for the given mockup index, resetting that
// mockup to the global value. Missing entries are a no-op.
func (m *Map[V]) Delete(index int) {
	delete(m.entries, index)
}

// Len returns the number of stored overrides.
func (m *Map[V]) Len() int {
	return len(m.entries)
}

// Indices returns the stored mockup indices in ascending order.
func (m *Map[V]) Indices() []int {
	keys := make([]int, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// Clear removes all stored overrides.
func (m *Map[V]) Clear() {
	m.entries = nil
}

// OnEntryRemoved re-keys the map after the mockup at the given index was
// deleted: the override at that index is dropped, overrides at higher indices
// shift down by one, and lower indices are untouched. Every override map in
// the application must receive this call for the same deletion.
func (m *Map[V]) OnEntryRemoved(removed int) {
	if removed < 0 || len(m.entries) == 0 {
		return
	}
	shifted := make(map[int]V, len(m.entries))
	for k, v := range m.entries {
		switch {
		case k < removed:
			shifted[k] = v
		case k > removed:
			shifted[k-1] = v
		}
	}
	m.entries = shifted
}
