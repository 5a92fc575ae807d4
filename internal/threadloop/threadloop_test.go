package threadloop

import (
	"math"
	"testing"
	"time"
)

type counterWorker struct {
	n int
}

func (w *counterWorker) Work() int {
	w.n++
	return w.n
}

func TestLoopDeliversResultsInOrder(t *testing.T) {
	loop := New[int](func() Worker[int] { return &counterWorker{} }, math.Inf(1))
	defer loop.Join()

	for want := 1; want <= 5; want++ {
		got, ok := loop.Recv()
		if !ok {
			t.Fatalf("Recv() returned !ok before receiving 5 results")
		}
		if got != want {
			t.Fatalf("Recv() = %d, want %d", got, want)
		}
	}
}

func TestLoopJoinStopsDelivery(t *testing.T) {
	loop := New[int](func() Worker[int] { return &counterWorker{} }, math.Inf(1))
	loop.Join()

	select {
	case <-loop.Exited():
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not exit after Join")
	}
}

func TestRecvTimeoutExpires(t *testing.T) {
	blocked := make(chan struct{})
	loop := New[int](func() Worker[int] {
		<-blocked
		return &counterWorker{}
	}, math.Inf(1))
	defer func() {
		close(blocked)
		loop.Join()
	}()

	_, ok := loop.RecvTimeout(20 * time.Millisecond)
	if ok {
		t.Fatal("RecvTimeout() = ok, want timeout")
	}
}
