package overrides

import (
	"reflect"
	"testing"
)

func TestSetGetDelete(t *testing.T) {
	var m Map[string]

	if _, ok := m.Get(0); ok {
		t.Fatal("empty map should have no entries")
	}

	m.Set(2, "two")
	m.Set(5, "five")
	m.Set(2, "replaced")

	if v, ok := m.Get(2); !ok || v != "replaced" {
		t.Errorf("Get(2) = %q, %v; want \"replaced\", true", v, ok)
	}
	if m.Len() != 2 {
		t.Errorf("Len() = %d, want 2", m.Len())
	}

	m.Delete(2)
	if m.Has(2) {
		t.Error("Delete(2) left the entry behind")
	}
	m.Delete(99) // absent index is a no-op
	if m.Len() != 1 {
		t.Errorf("Len() = %d, want 1", m.Len())
	}
}

func TestSetNegativeIndexIgnored(t *testing.T) {
	var m Map[int]
	m.Set(-1, 42)
	if m.Len() != 0 {
		t.Error("negative index should not be stored")
	}
}

func TestIndicesSorted(t *testing.T) {
	var m Map[int]
	for _, k := range []int{7, 0, 3, 11} {
		m.Set(k, k*10)
	}
	want := []int{0, 3, 7, 11}
	if got := m.Indices(); !reflect.DeepEqual(got, want) {
		t.Errorf("Indices() = %v, want %v", got, want)
	}
}

func TestOnEntryRemoved(t *testing.T) {
	tests := []struct {
		name    string
		seed    map[int]int
		removed int
		want    map[int]int
	}{
		{
			"middle removal drops and shifts",
			map[int]int{0: 100, 1: 101, 2: 102, 4: 104},
			1,
			map[int]int{0: 100, 1: 102, 3: 104},
		},
		{
			"removing first shifts everything",
			map[int]int{0: 100, 1: 101, 2: 102},
			0,
			map[int]int{0: 101, 1: 102},
		},
		{
			"removing past the keys keeps all",
			map[int]int{0: 100, 1: 101},
			5,
			map[int]int{0: 100, 1: 101},
		},
		{
			"no entry at removed index still shifts higher keys",
			map[int]int{0: 100, 3: 103},
			1,
			map[int]int{0: 100, 2: 103},
		},
		{
			"negative index is ignored",
			map[int]int{0: 100},
			-1,
			map[int]int{0: 100},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m Map[int]
			for k, v := range tt.seed {
				m.Set(k, v)
			}
			m.OnEntryRemoved(tt.removed)

			got := make(map[int]int)
			for _, k := range m.Indices() {
				v, _ := m.Get(k)
				got[k] = v
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("after OnEntryRemoved(%d): %v, want %v", tt.removed, got, tt.want)
			}
		})
	}
}

func TestOnEntryRemovedRepeated(t *testing.T) {
	var m Map[string]
	m.Set(0, "a")
	m.Set(1, "b")
	m.Set(2, "c")
	m.Set(3, "d")

	// Deleting mockup 1 twice in a row collapses b then c.
	m.OnEntryRemoved(1)
	m.OnEntryRemoved(1)

	want := map[int]string{0: "a", 1: "d"}
	got := make(map[int]string)
	for _, k := range m.Indices() {
		v, _ := m.Get(k)
		got[k] = v
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("after two removals: %v, want %v", got, want)
	}
}

func TestClear(t *testing.T) {
	var m Map[int]
	m.Set(0, 1)
	m.Set(1, 2)
	m.Clear()
	if m.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", m.Len())
	}
	m.Set(0, 3) // map stays usable after Clear
	if v, ok := m.Get(0); !ok || v != 3 {
		t.Error("Set after Clear did not store")
	}
}
