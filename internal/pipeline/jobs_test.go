package pipeline

import (
	"testing"
	"time"
)

func TestContentHashHex_Consistency(t *testing.T) {
	data := []byte("hello world")
	h1 := ContentHashHex(data)
	h2 := ContentHashHex(data)
	if h1 != h2 {
		t.Errorf("expected identical hashes, got %q and %q", h1, h2)
	}
	// SHA-256 of "hello world" is well-known.
	want := "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
	if h1 != want {
		t.Errorf("expected hash %q, got %q", want, h1)
	}
}

func TestContentHashHex_DifferentInputs(t *testing.T) {
	if ContentHashHex([]byte("aaa")) == ContentHashHex([]byte("bbb")) {
		t.Error("expected different hashes for different inputs")
	}
}

func TestJob_Lifecycle(t *testing.T) {
	job := NewJob("report.pdf", "Report", []byte("%PDF-1.4"))
	if job.ID == "" {
		t.Fatal("expected job id to be assigned")
	}
	if job.Status != StatusQueued {
		t.Fatalf("expected queued status, got %s", job.Status)
	}
	if string(job.FileData()) != "%PDF-1.4" {
		t.Error("expected upload bytes retained")
	}

	job.SetStatus(StatusValidating, "validating")
	if snap := job.Snapshot(); snap.Status != StatusValidating || snap.Phase != "validating" {
		t.Errorf("unexpected snapshot: %+v", snap)
	}

	job.Complete("sess1", 5, 42, false)
	snap := job.Snapshot()
	if snap.Status != StatusCompleted {
		t.Errorf("expected completed, got %s", snap.Status)
	}
	if snap.SessionID != "sess1" || snap.PageCount != 5 || snap.BlockCount != 42 {
		t.Errorf("unexpected completion data: %+v", snap)
	}

	job.ReleaseFileData()
	if job.FileData() != nil {
		t.Error("expected upload bytes released")
	}
}

func TestJob_Fail(t *testing.T) {
	job := NewJob("a.pdf", "", nil)
	job.Fail("validating", "not a pdf")
	snap := job.Snapshot()
	if snap.Status != StatusFailed {
		t.Errorf("expected failed status, got %s", snap.Status)
	}
	if snap.Error != "not a pdf" {
		t.Errorf("expected error message, got %q", snap.Error)
	}
}

func TestJobStore_PutGetCleanup(t *testing.T) {
	store := NewJobStore(10 * time.Millisecond)

	old := NewJob("old.pdf", "", nil)
	store.Put(old)
	if store.Get(old.ID) != old {
		t.Fatal("expected stored job")
	}

	time.Sleep(25 * time.Millisecond)
	fresh := NewJob("fresh.pdf", "", nil)
	store.Put(fresh)

	store.Cleanup()
	if store.Get(old.ID) != nil {
		t.Error("expected expired job evicted")
	}
	if store.Get(fresh.ID) == nil {
		t.Error("expected fresh job kept")
	}
}

func TestGenerateULID_UniqueLength(t *testing.T) {
	a := generateULID()
	b := generateULID()
	if len(a) != 26 || len(b) != 26 {
		t.Fatalf("expected 26-char ulids, got %q %q", a, b)
	}
	if a == b {
		t.Error("expected distinct ulids")
	}
}
