package state

import "testing"

func TestFrameBeginIsGuarded(t *testing.T) {
	var f Frame[int]
	if !f.Begin() {
		t.Fatal("first Begin() = false")
	}
	for i := 0; i < 3; i++ {
		if f.Begin() {
			t.Fatalf("Begin() #%d with a frame open = true", i+2)
		}
	}
	if !f.Begun() {
		t.Error("Begun() = false after Begin")
	}
}

func TestFrameClose(t *testing.T) {
	var f Frame[int]
	if f.Close() {
		t.Error("Close() without an open frame = true")
	}
	f.Begin()
	if !f.Close() {
		t.Error("Close() with an open frame = false")
	}
	if f.Begun() {
		t.Error("Begun() = true after Close")
	}
}

func TestFrameMailboxOverwrites(t *testing.T) {
	var f Frame[int]
	if f.Ready() || f.Take() != nil {
		t.Fatal("empty mailbox reports a pending frame")
	}

	first, second := 1, 2
	f.Stage(&first)
	f.Stage(&second)
	if !f.Ready() {
		t.Fatal("Ready() = false after Stage")
	}
	got := f.Take()
	if got == nil || *got != 2 {
		t.Fatalf("Take() = %v, want the most recent stage", got)
	}
	if f.Ready() || f.Take() != nil {
		t.Error("frame drawn more than once")
	}
}

func TestFrameReset(t *testing.T) {
	var f Frame[int]
	v := 7
	f.Begin()
	f.Stage(&v)
	f.Reset()
	if f.Begun() || f.Ready() {
		t.Errorf("after Reset begun=%v ready=%v, want false false", f.Begun(), f.Ready())
	}
}
