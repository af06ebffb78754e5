package queue

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"tableflip.dev/pods/pkg/episode"
)

func startOwner(t *testing.T, p *fakePersister) (*Owner, context.CancelFunc) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	o := NewOwner(newModel(p, &bytes.Buffer{}), WithFrame(time.Millisecond))
	o.Start(ctx)
	t.Cleanup(cancel)
	return o, cancel
}

func TestOwnerReorderPersists(t *testing.T) {
	p := &fakePersister{}
	o, _ := startOwner(t, p)
	ctx := context.Background()

	if err := o.Send(ctx, Resized{Width: 1024, Height: 2000}); err != nil {
		t.Fatal(err)
	}
	if err := o.Send(ctx, Loaded{Items: episodes(1, 2, 3, 4, 5)}); err != nil {
		t.Fatal(err)
	}
	if err := o.Send(ctx, DragDropped{ID: 1, Index: 3}); err != nil {
		t.Fatal(err)
	}
	o.Wait()

	v, err := o.View(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := []episode.ID{2, 3, 4, 1, 5}
	got := make([]episode.ID, 0, len(v.Rows))
	for _, r := range v.Rows {
		got = append(got, r.Item.ID)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("rows = %v, want %v", got, want)
	}
	if v.InFlight != 0 || v.LastPersist == nil || v.LastPersist.Err != nil {
		t.Fatalf("unexpected persistence state %+v", v)
	}
	if calls := p.Calls(); len(calls) != 1 || !reflect.DeepEqual(calls[0], want) {
		t.Fatalf("persisted %v", calls)
	}
}

func TestOwnerFramesApplyLatestOffset(t *testing.T) {
	o, _ := startOwner(t, &fakePersister{})
	ctx := context.Background()

	_ = o.Send(ctx, Resized{Width: 1024, Height: 800})
	_ = o.Send(ctx, Loaded{Items: episodes(ids(1000)...)})
	_ = o.Send(ctx, Scrolled{Offset: 237 * 10})
	_ = o.Send(ctx, Scrolled{Offset: 237 * 20})

	deadline := time.Now().Add(2 * time.Second)
	for {
		v, err := o.View(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if v.Window.Start == 18 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("window never moved, start = %d", v.Window.Start)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestOwnerStopsOnCancel(t *testing.T) {
	o, cancel := startOwner(t, &fakePersister{})
	ctx := context.Background()
	_ = o.Send(ctx, Loaded{Items: episodes(1, 2)})

	cancel()
	<-o.Done()

	if err := o.Send(ctx, Removed{ID: 1}); !errors.Is(err, ErrClosed) {
		t.Fatalf("Send after stop = %v, want ErrClosed", err)
	}
	if _, err := o.View(ctx); !errors.Is(err, ErrClosed) {
		t.Fatalf("View after stop = %v, want ErrClosed", err)
	}
}

func TestOwnerUpdateAppliesAndRunsEffects(t *testing.T) {
	p := &fakePersister{}
	o, _ := startOwner(t, p)
	ctx := context.Background()
	if err := o.Send(ctx, Loaded{Items: episodes(1, 2, 3)}); err != nil {
		t.Fatal(err)
	}

	var before, after int
	err := o.Update(ctx, func(m *Model, apply func(Command)) {
		before = m.Index(3)
		apply(DragDropped{ID: 3, Index: 0})
		after = m.Index(3)
	})
	if err != nil {
		t.Fatal(err)
	}
	if before != 2 || after != 0 {
		t.Fatalf("index before/after = %d/%d, want 2/0", before, after)
	}
	o.Wait()
	if calls := p.Calls(); len(calls) != 1 || !reflect.DeepEqual(calls[0], []episode.ID{3, 1, 2}) {
		t.Fatalf("persisted %v", calls)
	}
}
