package episode

import (
	"encoding/json"
	"testing"
)

func TestUnmarshalNullListenDuration(t *testing.T) {
	raw := `{"episodeid": 42, "episodetitle": "Pilot", "podcastname": "Show", "listenduration": null, "episodeduration": 600}`
	var e Episode
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if e.ID != 42 || e.Title != "Pilot" || e.PodcastName != "Show" {
		t.Fatalf("unexpected episode %+v", e)
	}
	if e.ListenSeconds != 0 {
		t.Fatalf("expected null listen duration to decode as 0, got %d", e.ListenSeconds)
	}

	raw = `{"episodeid": 7, "listenduration": 300, "episodeduration": 600}`
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if e.ListenSeconds != 300 {
		t.Fatalf("expected listen duration 300, got %d", e.ListenSeconds)
	}
	if got := e.Progress(); got != 0.5 {
		t.Fatalf("expected progress 0.5, got %v", got)
	}
}

func TestCloneDetachesQueuePosition(t *testing.T) {
	pos := int32(3)
	e := Episode{ID: 1, QueuePosition: &pos}
	c := e.Clone()
	*c.QueuePosition = 9
	if *e.QueuePosition != 3 {
		t.Fatalf("clone shares queue position with original")
	}
}

func TestIndexAndIDs(t *testing.T) {
	list := []Episode{{ID: 5}, {ID: 9}, {ID: 2}}
	if got := Index(list, 9); got != 1 {
		t.Fatalf("expected index 1, got %d", got)
	}
	if got := Index(list, 100); got != -1 {
		t.Fatalf("expected -1 for missing id, got %d", got)
	}
	ids := IDs(list)
	if len(ids) != 3 || ids[0] != 5 || ids[2] != 2 {
		t.Fatalf("unexpected ids %v", ids)
	}
}

func TestParseID(t *testing.T) {
	id, err := ParseID(" 123 ")
	if err != nil || id != 123 {
		t.Fatalf("ParseID = %v, %v", id, err)
	}
	if _, err := ParseID("abc"); err == nil {
		t.Fatalf("expected error for non-numeric id")
	}
}

func TestFormatDuration(t *testing.T) {
	cases := map[int32]string{0: "0:00", 65: "1:05", 3725: "1:02:05", -4: "0:00"}
	for in, want := range cases {
		if got := FormatDuration(in); got != want {
			t.Errorf("FormatDuration(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestPlainTextStripsMarkup(t *testing.T) {
	got := PlainText(`<p>Hosts &amp; guests</p><p>talk <b>Go</b></p><script>alert(1)</script>`)
	if got != "Hosts & guests talk Go" {
		t.Fatalf("unexpected plain text %q", got)
	}
	if got := (Episode{}).Summary(); got != "-" {
		t.Fatalf("expected placeholder summary, got %q", got)
	}
}
