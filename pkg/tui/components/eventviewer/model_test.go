package eventviewer

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"tableflip.dev/pods/pkg/drag"
	"tableflip.dev/pods/pkg/episode"
	"tableflip.dev/pods/pkg/reorder"
	"tableflip.dev/pods/pkg/tui/events"
)

func TestRecordTalliesSaves(t *testing.T) {
	m := NewModel(10)
	m.SetSize(80, 10)

	ok := events.PersistedMsg{Component: "queue", Result: reorder.Result{Op: uuid.New(), IDs: []episode.ID{1, 2}}}
	bad := events.PersistedMsg{Component: "queue", Result: reorder.Result{Op: uuid.New(), Err: errors.New("boom")}}
	m.Record(ok, ok.Describe())
	m.Record(bad, bad.Describe())

	saved, failed := m.Saves()
	if saved != 1 || failed != 1 {
		t.Fatalf("Saves() = %d, %d, want 1, 1", saved, failed)
	}
	entries := m.Entries()
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	if entries[0].Level != LevelError || entries[0].Source != "queue" {
		t.Fatalf("newest entry = %+v, want queue error", entries[0])
	}
	if view := m.View(); !strings.Contains(view, "1 failed") {
		t.Fatalf("header missing failure tally:\n%s", view)
	}
}

func TestRecordSkipsEmptyDetail(t *testing.T) {
	m := NewModel(0)
	if m.Record(struct{}{}, "") {
		t.Fatal("Record accepted an entry without detail")
	}
	if len(m.Entries()) != 0 {
		t.Fatal("entries should be empty")
	}
}

func TestNoOpDropIsWarning(t *testing.T) {
	m := NewModel(10)
	msg := events.DropMsg{Component: "queue", Resolution: drag.Resolution{Dragged: 3, From: 1, To: 1}}
	m.Record(msg, msg.Describe())
	if got := m.Entries()[0].Level; got != LevelWarn {
		t.Fatalf("Level = %v, want LevelWarn", got)
	}
}

func TestAppendCapsEntries(t *testing.T) {
	m := NewModel(2)
	for _, s := range []string{"a", "b", "c"} {
		m.Append(Entry{Summary: s})
	}
	entries := m.Entries()
	if len(entries) != 2 || entries[0].Summary != "c" || entries[1].Summary != "b" {
		t.Fatalf("entries = %+v, want [c b]", entries)
	}
}
