package queue

import (
	"sync"
	"testing"
)

// pendingRecord stands in for a queued evidence record.
type pendingRecord struct {
	SimTime uint64
	Command string
}

func TestQueue_New(t *testing.T) {
	q := New[pendingRecord]()
	if q == nil {
		t.Fatal("expected non-nil queue")
	}
	if !q.Empty() {
		t.Error("expected empty queue")
	}
	if q.Len() != 0 {
		t.Errorf("expected length 0, got %d", q.Len())
	}
}

func TestQueue_Push(t *testing.T) {
	q := New[pendingRecord]()

	q.Push(pendingRecord{SimTime: 1, Command: "screenshot red_light_X0_Y0_Z0_T1"})
	if q.Len() != 1 {
		t.Errorf("expected length 1, got %d", q.Len())
	}

	q.Push(pendingRecord{SimTime: 2}, pendingRecord{SimTime: 3})
	if q.Len() != 3 {
		t.Errorf("expected length 3, got %d", q.Len())
	}
}

func TestQueue_Pop(t *testing.T) {
	q := New[pendingRecord]()

	// Pop from empty queue returns zero value
	result := q.Pop()
	if result.SimTime != 0 || result.Command != "" {
		t.Errorf("expected zero value, got %+v", result)
	}

	// Pop preserves FIFO order
	q.Push(
		pendingRecord{SimTime: 1, Command: "first"},
		pendingRecord{SimTime: 2, Command: "second"},
	)
	first := q.Pop()
	if first.SimTime != 1 || first.Command != "first" {
		t.Errorf("expected {1, first}, got %+v", first)
	}
	if q.Len() != 1 {
		t.Errorf("expected length 1, got %d", q.Len())
	}
}

func TestQueue_Empty(t *testing.T) {
	q := New[pendingRecord]()
	if !q.Empty() {
		t.Error("new queue should be empty")
	}

	q.Push(pendingRecord{SimTime: 1})
	if q.Empty() {
		t.Error("queue with one item should not be empty")
	}

	q.Pop()
	if !q.Empty() {
		t.Error("drained queue should be empty")
	}
}

func TestQueue_Clear(t *testing.T) {
	q := New[pendingRecord]()
	q.Push(pendingRecord{SimTime: 1}, pendingRecord{SimTime: 2})

	q.Clear()
	if !q.Empty() {
		t.Error("expected empty queue after Clear")
	}
	if q.Len() != 0 {
		t.Errorf("expected length 0, got %d", q.Len())
	}
}

func TestQueue_GetAndEmpty(t *testing.T) {
	q := New[pendingRecord]()
	q.Push(
		pendingRecord{SimTime: 1, Command: "a"},
		pendingRecord{SimTime: 2, Command: "b"},
		pendingRecord{SimTime: 3, Command: "c"},
	)

	items := q.GetAndEmpty()
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if items[0].Command != "a" || items[2].Command != "c" {
		t.Errorf("expected FIFO order, got %+v", items)
	}
	if !q.Empty() {
		t.Error("expected empty queue after GetAndEmpty")
	}

	// a second drain returns nothing
	if again := q.GetAndEmpty(); len(again) != 0 {
		t.Errorf("expected no items, got %d", len(again))
	}
}

func TestQueue_ConcurrentPush(t *testing.T) {
	q := New[pendingRecord]()
	const writers = 8
	const perWriter = 100

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(base uint64) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				q.Push(pendingRecord{SimTime: base + uint64(i)})
			}
		}(uint64(w * perWriter))
	}
	wg.Wait()

	if q.Len() != writers*perWriter {
		t.Errorf("expected %d items, got %d", writers*perWriter, q.Len())
	}
}

func TestQueue_ConcurrentPushAndDrain(t *testing.T) {
	q := New[pendingRecord]()
	const total = 500

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < total; i++ {
			q.Push(pendingRecord{SimTime: uint64(i)})
		}
	}()

	drained := 0
	done := make(chan struct{})
	go func() {
		defer close(done)
		for drained < total {
			drained += len(q.GetAndEmpty())
		}
	}()

	wg.Wait()
	<-done

	if drained != total {
		t.Errorf("expected to drain %d items, got %d", total, drained)
	}
	if !q.Empty() {
		t.Error("expected empty queue after drain")
	}
}
