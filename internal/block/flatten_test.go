package block

import "testing"

func page(id string, pageNumber int, children ...*Block) *Block {
	return &Block{ID: id, Type: "Page", PageNumber: pageNumber, kind: KindPage, Children: children}
}

func text(id string, children ...*Block) *Block {
	return &Block{ID: id, Type: "Text", kind: KindText, Children: children}
}

func TestFlatten_AutoNumbering(t *testing.T) {
	roots := []*Block{
		page("p0", 0),
		page("p1", 0),
		page("p2", 0),
	}
	flat := Flatten(roots)
	if len(flat) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(flat))
	}
	for i, b := range flat {
		if b.PageIndex != i {
			t.Errorf("block %s: expected pageIndex %d, got %d", b.ID, i, b.PageIndex)
		}
	}
}

func TestFlatten_ExplicitNumbering(t *testing.T) {
	// Explicit 1-based page numbers 1, 3, 2 in document order.
	roots := []*Block{
		page("a", 1),
		page("b", 3),
		page("c", 2),
	}
	flat := Flatten(roots)

	want := map[string]int{"a": 0, "b": 2, "c": 1}
	for _, b := range flat {
		if b.PageIndex != want[b.ID] {
			t.Errorf("block %s: expected pageIndex %d, got %d", b.ID, want[b.ID], b.PageIndex)
		}
	}

	// A page appended after the explicit ones must continue past the max.
	roots = append(roots, page("d", 0))
	flat = Flatten(roots)
	if got := flat[3].PageIndex; got != 3 {
		t.Errorf("expected counter to end at 3, auto page got %d", got)
	}
}

func TestFlatten_MixedAutoExplicit(t *testing.T) {
	roots := []*Block{
		page("a", 0), // auto -> 0
		page("b", 5), // explicit -> 4, counter jumps to 5
		page("c", 0), // auto -> 5
	}
	flat := Flatten(roots)

	want := map[string]int{"a": 0, "b": 4, "c": 5}
	for _, b := range flat {
		if b.PageIndex != want[b.ID] {
			t.Errorf("block %s: expected pageIndex %d, got %d", b.ID, want[b.ID], b.PageIndex)
		}
	}
}

func TestFlatten_ExplicitBelowCounterKeepsLowerIndex(t *testing.T) {
	// Out-of-order explicit number less than the running counter is kept
	// as-is; no renumbering, no conflict flagging.
	roots := []*Block{
		page("a", 4),
		page("b", 2),
		page("c", 0),
	}
	flat := Flatten(roots)

	want := map[string]int{"a": 3, "b": 1, "c": 4}
	for _, b := range flat {
		if b.PageIndex != want[b.ID] {
			t.Errorf("block %s: expected pageIndex %d, got %d", b.ID, want[b.ID], b.PageIndex)
		}
	}
}

func TestFlatten_NonPageInheritance(t *testing.T) {
	roots := []*Block{
		page("p0", 0, text("t0")),
		page("p1", 0, text("t1", &Block{ID: "tab1", Type: "Table", kind: KindTable})),
		page("p2", 3, text("t2")),
	}
	flat := Flatten(roots)

	want := map[string]int{
		"p0": 0, "t0": 0,
		"p1": 1, "t1": 1, "tab1": 1,
		"p2": 2, "t2": 2,
	}
	if len(flat) != len(want) {
		t.Fatalf("expected %d blocks, got %d", len(want), len(flat))
	}
	for _, b := range flat {
		if b.PageIndex != want[b.ID] {
			t.Errorf("block %s: expected pageIndex %d, got %d", b.ID, want[b.ID], b.PageIndex)
		}
	}
}

func TestFlatten_NestedPageOverridesInheritance(t *testing.T) {
	// A Page block nested under another block takes its own index, and
	// its descendants inherit the new one.
	inner := page("inner", 0, text("deep"))
	roots := []*Block{
		page("outer", 0, text("t", inner)),
	}
	flat := Flatten(roots)

	want := map[string]int{"outer": 0, "t": 0, "inner": 1, "deep": 1}
	for _, b := range flat {
		if b.PageIndex != want[b.ID] {
			t.Errorf("block %s: expected pageIndex %d, got %d", b.ID, want[b.ID], b.PageIndex)
		}
	}
}

func TestFlatten_TopLevelNonPageDefaultsToZero(t *testing.T) {
	roots := []*Block{
		text("orphan"),
		page("p", 0),
	}
	flat := Flatten(roots)
	if flat[0].PageIndex != 0 {
		t.Errorf("expected orphan block at pageIndex 0, got %d", flat[0].PageIndex)
	}
	if flat[1].PageIndex != 0 {
		t.Errorf("expected first page at pageIndex 0, got %d", flat[1].PageIndex)
	}
}

func TestFlatten_Monotonicity(t *testing.T) {
	roots := []*Block{
		page("a", 2),
		page("b", 0, page("nested", 0)),
		page("c", 7),
		page("d", 0),
	}
	flat := Flatten(roots)

	for _, b := range flat {
		if b.Kind() == KindPage && b.PageIndex < 0 {
			t.Errorf("block %s: negative pageIndex %d", b.ID, b.PageIndex)
		}
	}
	// The running counter never decreases, so auto-numbered pages seen
	// later always get indices >= earlier auto-numbered ones.
	var autos []int
	for _, b := range flat {
		if b.Kind() == KindPage && b.PageNumber == 0 {
			autos = append(autos, b.PageIndex)
		}
	}
	for i := 1; i < len(autos); i++ {
		if autos[i] <= autos[i-1] {
			t.Errorf("auto-numbered pages not strictly increasing: %v", autos)
		}
	}
}

func TestFlatten_Completeness(t *testing.T) {
	roots := []*Block{
		page("p0", 0, text("a", text("b"), text("c")), text("d")),
		page("p1", 0),
		text("e"),
	}
	flat := Flatten(roots)
	if len(flat) != 7 {
		t.Fatalf("expected 7 blocks in flat output, got %d", len(flat))
	}
	seen := make(map[string]bool, len(flat))
	for _, b := range flat {
		seen[b.ID] = true
	}
	for _, id := range []string{"p0", "a", "b", "c", "d", "p1", "e"} {
		if !seen[id] {
			t.Errorf("block %s missing from flat output", id)
		}
	}
}

func TestFlatten_PreOrder(t *testing.T) {
	roots := []*Block{
		page("p", 0, text("child", text("grandchild")), text("sibling")),
	}
	flat := Flatten(roots)
	order := make([]string, 0, len(flat))
	for _, b := range flat {
		order = append(order, b.ID)
	}
	want := []string{"p", "child", "grandchild", "sibling"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected pre-order %v, got %v", want, order)
		}
	}
}

func TestFlatten_Idempotent(t *testing.T) {
	roots := []*Block{
		page("a", 0, text("t1")),
		page("b", 5, text("t2")),
		page("c", 0),
		text("orphan"),
	}
	first := Flatten(roots)
	got1 := make(map[string]int, len(first))
	for _, b := range first {
		got1[b.ID] = b.PageIndex
	}

	second := Flatten(roots)
	for _, b := range second {
		if b.PageIndex != got1[b.ID] {
			t.Errorf("block %s: pageIndex changed on rerun: %d -> %d", b.ID, got1[b.ID], b.PageIndex)
		}
	}
}

func TestFlatten_Empty(t *testing.T) {
	if flat := Flatten(nil); len(flat) != 0 {
		t.Errorf("expected empty output for nil forest, got %d blocks", len(flat))
	}
}
