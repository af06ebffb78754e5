package vlist

import (
	"math"
	"math/rand"
	"testing"
)

func TestComputeScenarioTopOfList(t *testing.T) {
	w := Compute(0, 138, 600, 2, 100)
	if w.Start != 0 {
		t.Fatalf("start = %d, want 0", w.Start)
	}
	if w.VisibleCount != 6 {
		t.Fatalf("visible count = %d, want 6", w.VisibleCount)
	}
	if w.End != 8 {
		t.Fatalf("end = %d, want 8", w.End)
	}
	if w.TopSpacer != 0 {
		t.Fatalf("top spacer = %v, want 0", w.TopSpacer)
	}
	if want := float64(100-8) * 138; w.BottomSpacer != want {
		t.Fatalf("bottom spacer = %v, want %v", w.BottomSpacer, want)
	}
}

func TestComputeScenarioNearBottom(t *testing.T) {
	w := Compute(1000, 238, 500, 2, 10)
	if w.Start != 2 {
		t.Fatalf("start = %d, want 2 (raw start 4 minus buffer)", w.Start)
	}
	if w.End != 10 {
		t.Fatalf("end = %d, want 10", w.End)
	}
	if w.BottomSpacer != 0 {
		t.Fatalf("bottom spacer = %v, want 0", w.BottomSpacer)
	}
	if w.TopSpacer != 2*238 {
		t.Fatalf("top spacer = %v, want %v", w.TopSpacer, 2*238.0)
	}
}

func TestComputeEmptyCollection(t *testing.T) {
	w := Compute(500, 138, 600, 2, 0)
	if w != (Window{}) {
		t.Fatalf("expected zero window, got %+v", w)
	}
}

func TestComputePanicsOnNonPositiveItemHeight(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for zero item height")
		}
	}()
	Compute(0, 0, 600, 2, 10)
}

func TestComputeScrolledPastEnd(t *testing.T) {
	w := Compute(10_000, 100, 300, 2, 5)
	if w.Start > w.End || w.End > 5 {
		t.Fatalf("window out of bounds: %+v", w)
	}
	if got := w.TopSpacer + w.BottomSpacer + float64(w.Len())*100; got != 500 {
		t.Fatalf("spacers do not conserve height: %v", got)
	}
}

func TestComputeProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	heights := []float64{138, 166, 237, 4, 5, 6, 1.5}
	for i := 0; i < 5000; i++ {
		length := rng.Intn(300)
		itemHeight := heights[rng.Intn(len(heights))]
		usable := rng.Float64() * 2000
		buffer := rng.Intn(5)
		offset := rng.Float64() * float64(length+5) * itemHeight

		w := Compute(offset, itemHeight, usable, buffer, length)
		if w.Start < 0 || w.Start > w.End || w.End > length {
			t.Fatalf("bounds violated for len=%d h=%v usable=%v off=%v: %+v", length, itemHeight, usable, offset, w)
		}
		visible := int(math.Ceil(usable/itemHeight)) + 1
		if w.Len() > visible+2*buffer {
			t.Fatalf("window too large: %d > %d", w.Len(), visible+2*buffer)
		}
		total := float64(length) * itemHeight
		got := w.TopSpacer + w.BottomSpacer + float64(w.Len())*itemHeight
		if math.Abs(got-total) > 1e-6*math.Max(1, total) {
			t.Fatalf("spacer conservation violated: %v != %v (%+v)", got, total, w)
		}
		if again := Compute(offset, itemHeight, usable, buffer, length); again != w {
			t.Fatalf("compute is not idempotent: %+v vs %+v", w, again)
		}
	}
}

func TestVirtualIndexClamps(t *testing.T) {
	if idx, ok := VirtualIndex(-40, 138, 10); !ok || idx != 0 {
		t.Fatalf("above the container: got %d, %v", idx, ok)
	}
	if idx, ok := VirtualIndex(1e6, 138, 10); !ok || idx != 9 {
		t.Fatalf("below the content: got %d, %v", idx, ok)
	}
	if idx, ok := VirtualIndex(300, 138, 10); !ok || idx != 2 {
		t.Fatalf("mid content: got %d, %v", idx, ok)
	}
	if _, ok := VirtualIndex(10, 138, 0); ok {
		t.Fatalf("empty collection must not resolve")
	}
}

func TestMaxOffset(t *testing.T) {
	if got := MaxOffset(100, 300, 2); got != 0 {
		t.Fatalf("short list max offset = %v, want 0", got)
	}
	if got := MaxOffset(100, 300, 10); got != 700 {
		t.Fatalf("max offset = %v, want 700", got)
	}
}
