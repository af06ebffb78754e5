package printers

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"

	"tableflip.dev/pods/pkg/episode"
)

func TestEpisodesTable(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	pp := PrettyPrint{ShowID: true, Out: &buf}
	pp.TitleWithCount("Queue", 2)
	pp.Episodes(
		episode.Episode{ID: 7, Title: "Pilot", PodcastName: "Show", Duration: 600, ListenSeconds: 300},
		episode.Episode{ID: 9, Title: "Finale", PodcastName: "Show", Duration: 3600, Completed: true},
	)
	out := buf.String()
	for _, want := range []string{"Queue - 2 episodes", "Pilot", "10:00", "■■■■■□□□□□", "Finale", "1:00:00", "done"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Index(out, "Pilot") > strings.Index(out, "Finale") {
		t.Fatalf("episodes out of order:\n%s", out)
	}
}

func TestEpisodesEmpty(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	pp := PrettyPrint{Out: &buf}
	pp.Episodes()
	if !strings.Contains(buf.String(), "none") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}
