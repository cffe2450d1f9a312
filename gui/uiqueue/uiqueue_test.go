package uiqueue

import (
	"sync"
	"testing"
)

func TestDrainRunsInOrder(t *testing.T) {
	q := New()
	var got []int
	for i := 0; i < 5; i++ {
		i := i
		q.Post(func() { got = append(got, i) })
	}
	if n := q.Drain(); n != 5 {
		t.Errorf("Drain() = %d, want 5", n)
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("got %v, want ascending order", got)
		}
	}
}

func TestDrainRunsNestedPosts(t *testing.T) {
	q := New()
	ran := false
	q.Post(func() {
		q.Post(func() { ran = true })
	})
	if n := q.Drain(); n != 2 {
		t.Errorf("Drain() = %d, want 2", n)
	}
	if !ran {
		t.Error("nested post did not run")
	}
}

func TestPostFromGoroutines(t *testing.T) {
	q := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			q.Post(func() {})
		}()
	}
	wg.Wait()

	select {
	case <-q.Ready():
	default:
		t.Fatal("Ready not signalled")
	}
	if n := q.Len(); n != 50 {
		t.Errorf("Len() = %d, want 50", n)
	}
	if n := q.Drain(); n != 50 {
		t.Errorf("Drain() = %d, want 50", n)
	}
}
