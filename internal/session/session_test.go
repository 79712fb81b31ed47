package session

import (
	"testing"
	"time"

	"github.com/blockview/blockview/internal/block"
	"github.com/blockview/blockview/internal/chat"
)

func testDoc() *block.Document {
	p := block.New("/page/0", "Page")
	x := block.New("x", "Text")
	y := block.New("y", "Text")
	p.Children = []*block.Block{x, y}
	return block.NewDocument([]*block.Block{p})
}

func TestSelection_ReplacesPrior(t *testing.T) {
	doc := testDoc()
	var sel Selection

	sel.Select(doc.ByID("x"))
	if sel.CurrentID() != "x" {
		t.Fatalf("expected x selected, got %q", sel.CurrentID())
	}

	sel.Select(doc.ByID("y"))
	if sel.CurrentID() != "y" {
		t.Fatalf("expected y to replace x, got %q", sel.CurrentID())
	}
	if cur := sel.Current(); cur == nil || cur.ID != "y" {
		t.Errorf("Current() disagrees with CurrentID(): %+v", cur)
	}
}

func TestSelection_Clear(t *testing.T) {
	doc := testDoc()
	var sel Selection

	sel.Select(doc.ByID("x"))
	sel.Clear()
	if sel.Current() != nil {
		t.Error("expected no selection after Clear")
	}
	if sel.CurrentID() != "" {
		t.Errorf("expected empty id after Clear, got %q", sel.CurrentID())
	}
}

func TestSelection_ZeroValueUnselected(t *testing.T) {
	var sel Selection
	if sel.Current() != nil || sel.CurrentID() != "" {
		t.Error("expected zero-value selection to be empty")
	}
}

func TestSession_ConversationPerBlock(t *testing.T) {
	s := New("s1", "doc.pdf", "Doc", "hash", testDoc())

	s.Append("x", chat.Message{Role: "user", Content: "what is this?"})
	s.Append("x", chat.Message{Role: "assistant", Content: "a paragraph"})
	s.Append("y", chat.Message{Role: "user", Content: "and this?"})

	if got := len(s.History("x")); got != 2 {
		t.Errorf("expected 2 messages for block x, got %d", got)
	}
	if got := len(s.History("y")); got != 1 {
		t.Errorf("expected 1 message for block y, got %d", got)
	}
	if got := len(s.History("z")); got != 0 {
		t.Errorf("expected no messages for undiscussed block, got %d", got)
	}

	// History returns a copy; mutating it must not affect the session.
	h := s.History("x")
	h[0].Content = "tampered"
	if s.History("x")[0].Content == "tampered" {
		t.Error("History must return a copy")
	}
}

func TestStore_PutGetDelete(t *testing.T) {
	st := NewStore(time.Hour)
	s := New("s1", "doc.pdf", "", "hash", testDoc())
	st.Put(s)

	if got := st.Get("s1"); got != s {
		t.Fatalf("expected stored session, got %+v", got)
	}
	if got := st.Get("missing"); got != nil {
		t.Errorf("expected nil for unknown id, got %+v", got)
	}

	st.Delete("s1")
	if st.Get("s1") != nil {
		t.Error("expected session gone after delete")
	}
}

func TestStore_CleanupEvictsIdle(t *testing.T) {
	st := NewStore(10 * time.Millisecond)
	st.Put(New("old", "a.pdf", "", "h1", testDoc()))
	time.Sleep(25 * time.Millisecond)
	st.Put(New("fresh", "b.pdf", "", "h2", testDoc()))

	st.Cleanup()
	if st.Get("old") != nil {
		t.Error("expected idle session evicted")
	}
	if st.Get("fresh") == nil {
		t.Error("expected fresh session kept")
	}
	if st.Len() != 1 {
		t.Errorf("expected 1 session after cleanup, got %d", st.Len())
	}
}
