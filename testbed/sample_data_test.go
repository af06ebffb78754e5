package main

import (
	"context"
	"testing"

	"tableflip.dev/pods/pkg/episode"
)

func TestSampleRemoteIsDeterministic(t *testing.T) {
	a := newSampleRemote(7, 25)
	b := newSampleRemote(7, 25)
	qa, _ := a.QueuedEpisodes(context.Background())
	qb, _ := b.QueuedEpisodes(context.Background())
	if len(qa) != 25 || len(qb) != 25 {
		t.Fatalf("queue lengths %d/%d", len(qa), len(qb))
	}
	for i := range qa {
		if qa[i].ID != qb[i].ID || qa[i].Title != qb[i].Title {
			t.Fatalf("episode %d differs: %+v vs %+v", i, qa[i], qb[i])
		}
	}
}

func TestSampleRemoteReorder(t *testing.T) {
	r := newSampleRemote(1, 3)
	q, _ := r.QueuedEpisodes(context.Background())
	ids := []episode.ID{q[2].ID, q[0].ID, q[1].ID}
	if err := r.ReorderQueue(context.Background(), ids); err != nil {
		t.Fatalf("reorder: %v", err)
	}
	q, _ = r.QueuedEpisodes(context.Background())
	if q[0].ID != ids[0] || *q[0].QueuePosition != 1 {
		t.Fatalf("unexpected queue head %+v", q[0])
	}

	r.fail = true
	if err := r.ReorderQueue(context.Background(), ids); err == nil {
		t.Fatal("expected simulated failure")
	}
}
