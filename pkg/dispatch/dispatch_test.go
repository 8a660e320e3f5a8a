package dispatch

import (
	"fmt"
	"reflect"
	"sync"
	"testing"

	"github.com/teslashibe/go-gaze/pkg/gaze"
	"github.com/teslashibe/go-gaze/pkg/pointer"
)

func TestQueue_FIFO(t *testing.T) {
	q := NewQueue(4, nil)

	q.Push(gaze.Scroll(1))
	q.Push(gaze.Scroll(2))
	q.Push(gaze.Scroll(3))

	for want := 1; want <= 3; want++ {
		a, ok := q.TryPop()
		if !ok {
			t.Fatalf("expected action %d", want)
		}
		if a.Delta != want {
			t.Errorf("expected delta %d, got %d", want, a.Delta)
		}
	}

	if _, ok := q.TryPop(); ok {
		t.Error("expected empty queue")
	}
}

func TestQueue_BoundedDropsWhenFull(t *testing.T) {
	q := NewQueue(2, nil)

	if !q.Push(gaze.Scroll(1)) || !q.Push(gaze.Scroll(2)) {
		t.Fatal("expected first two pushes to succeed")
	}
	if q.Push(gaze.Scroll(3)) {
		t.Error("expected push to fail when full")
	}

	if q.Len() != 2 {
		t.Errorf("expected len 2, got %d", q.Len())
	}
	if q.Dropped() != 1 {
		t.Errorf("expected 1 dropped, got %d", q.Dropped())
	}

	// Oldest actions survive
	a, _ := q.TryPop()
	if a.Delta != 1 {
		t.Errorf("expected oldest action kept, got %d", a.Delta)
	}
}

func TestQueue_DefaultCapacity(t *testing.T) {
	q := NewQueue(0, nil)
	if q.Cap() != DefaultQueueCapacity {
		t.Errorf("expected capacity %d, got %d", DefaultQueueCapacity, q.Cap())
	}
}

func TestDispatcher_AppliesEachActionType(t *testing.T) {
	rec := pointer.NewRecorder()
	d := New(rec, nil, nil)

	d.Dispatch(
		gaze.MoveTo(10.4, 20.6),
		gaze.Click(gaze.ClickPrimary, gaze.SourceBlink),
		gaze.Click(gaze.ClickSecondary, gaze.SourceVoice),
		gaze.Click(gaze.ClickDouble, gaze.SourceVoice),
		gaze.Scroll(-300),
	)

	want := []string{
		"move 10 21",
		"click primary",
		"click secondary",
		"click double",
		"scroll -300",
	}
	if got := rec.Calls(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected calls %v, got %v", want, got)
	}

	stats := d.Stats()
	if stats.Moves != 1 || stats.Clicks != 3 || stats.Scrolls != 1 {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestDispatcher_DrainPreservesVoiceOrder(t *testing.T) {
	rec := pointer.NewRecorder()
	q := NewQueue(8, nil)
	d := New(rec, q, nil)

	q.Push(gaze.Scroll(300))
	q.Push(gaze.Click(gaze.ClickDouble, gaze.SourceVoice))
	q.Push(gaze.Scroll(-300))

	if n := d.Drain(); n != 3 {
		t.Fatalf("expected 3 drained, got %d", n)
	}

	want := []string{"scroll 300", "click double", "scroll -300"}
	if got := rec.Calls(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	if n := d.Drain(); n != 0 {
		t.Errorf("expected empty drain, got %d", n)
	}
}

func TestDispatcher_DrainWithoutQueue(t *testing.T) {
	d := New(pointer.NewRecorder(), nil, nil)
	if n := d.Drain(); n != 0 {
		t.Errorf("expected 0, got %d", n)
	}
}

func TestDispatcher_OnAction(t *testing.T) {
	d := New(pointer.NewRecorder(), nil, nil)

	var seen []gaze.Action
	d.OnAction = func(a gaze.Action) { seen = append(seen, a) }

	d.Dispatch(gaze.MoveTo(1, 2), gaze.Scroll(5))
	if len(seen) != 2 {
		t.Errorf("expected 2 callbacks, got %d", len(seen))
	}
}

func TestDispatcher_ConcurrentProducer(t *testing.T) {
	rec := pointer.NewRecorder()
	q := NewQueue(1024, nil)
	d := New(rec, q, nil)

	const n = 500
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			q.Push(gaze.Scroll(i))
		}
	}()

	drained := 0
	for drained < n {
		d.Dispatch(gaze.MoveTo(0, 0))
		drained += d.Drain()
	}
	wg.Wait()

	// Voice actions must arrive in generation order
	next := 0
	for _, call := range rec.Calls() {
		var delta int
		if _, err := fmt.Sscanf(call, "scroll %d", &delta); err != nil {
			continue
		}
		if delta != next {
			t.Fatalf("expected scroll %d, got %d", next, delta)
		}
		next++
	}
	if next != n {
		t.Errorf("expected %d scrolls, got %d", n, next)
	}
}
