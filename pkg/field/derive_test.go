package field

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDeriveLabelProps_ShrinkFollowsState(t *testing.T) {
	tests := []struct {
		dirty, focused bool
		want           bool
	}{
		{dirty: false, focused: false, want: false},
		{dirty: true, focused: false, want: true},
		{dirty: false, focused: true, want: true},
		{dirty: true, focused: true, want: true},
	}

	for _, tt := range tests {
		snap := Snapshot{Dirty: tt.dirty, Focused: tt.focused}
		got := DeriveLabelProps(LabelProps{}, Props{}, snap, "label")
		if got.Shrink == nil || *got.Shrink != tt.want {
			t.Fatalf("shrink(dirty=%v, focused=%v): want %v, got %v", tt.dirty, tt.focused, tt.want, got.Shrink)
		}
		if got.Focused != tt.focused {
			t.Fatalf("focused not propagated: want %v, got %v", tt.focused, got.Focused)
		}
	}
}

func TestDeriveLabelProps_ExplicitValuesWin(t *testing.T) {
	own := LabelProps{
		Class:    "caption",
		Error:    Bool(false),
		Required: Bool(false),
		Shrink:   Bool(false),
	}
	got := DeriveLabelProps(own, Props{Error: true, Required: true}, Snapshot{Dirty: true, Focused: true}, "label")

	want := LabelProps{
		Class:    "label caption",
		Error:    Bool(false),
		Required: Bool(false),
		Shrink:   Bool(false),
		Focused:  true,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("label props mismatch (-want +got):\n%s", diff)
	}
}

func TestDeriveLabelProps_DefaultsFromContainer(t *testing.T) {
	got := DeriveLabelProps(LabelProps{}, Props{Error: true, Required: true}, Snapshot{}, "label")

	want := LabelProps{
		Class:    "label",
		Error:    Bool(true),
		Required: Bool(true),
		Shrink:   Bool(false),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("label props mismatch (-want +got):\n%s", diff)
	}
}

func TestDeriveInputProps_ChainsContainerFirst(t *testing.T) {
	var order []string
	own := InputProps{
		Class:   "mine input",
		OnFocus: Handlers{func() { order = append(order, "child-focus") }},
		OnClean: Handlers{func() { order = append(order, "child-clean") }},
	}
	transitions := Transitions{
		Focus: func() { order = append(order, "container-focus") },
		Blur:  func() { order = append(order, "container-blur") },
		Dirty: func() { order = append(order, "container-dirty") },
		Clean: func() { order = append(order, "container-clean") },
	}

	got := DeriveInputProps(own, "input", transitions)
	if got.Class != "input mine" {
		t.Fatalf("class mismatch: want %q, got %q", "input mine", got.Class)
	}

	got.OnFocus.Fire()
	got.OnBlur.Fire()
	got.OnDirty.Fire()
	got.OnClean.Fire()

	want := []string{
		"container-focus", "child-focus",
		"container-blur",
		"container-dirty",
		"container-clean", "child-clean",
	}
	if diff := cmp.Diff(want, order); diff != "" {
		t.Fatalf("handler order mismatch (-want +got):\n%s", diff)
	}
	if len(own.OnFocus) != 1 {
		t.Fatalf("own handlers mutated: %d entries", len(own.OnFocus))
	}
}

func TestMergeClasses(t *testing.T) {
	tests := []struct {
		name  string
		lists []string
		want  string
	}{
		{name: "empty", lists: nil, want: ""},
		{name: "blank entries", lists: []string{"", "  ", "a"}, want: "a"},
		{name: "dedupe keeps first", lists: []string{"a b", "b c", "a"}, want: "a b c"},
		{name: "child last", lists: []string{"slot", "child extra"}, want: "slot child extra"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MergeClasses(tt.lists...); got != tt.want {
				t.Fatalf("merge mismatch: want %q, got %q", tt.want, got)
			}
		})
	}
}
