package uiloop_test

import (
	"sync"
	"testing"
	"time"

	"taskdeck/internal/uiloop"
)

func TestLoopRunsDispatchedFunctionsInOrder(t *testing.T) {
	loop := uiloop.New()

	var mu sync.Mutex
	var got []int
	done := make(chan struct{})

	for i := 1; i <= 5; i++ {
		i := i
		loop.Dispatch(func() {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
			if i == 5 {
				close(done)
			}
		})
	}

	go loop.Run()
	defer loop.Stop()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not run dispatched functions")
	}

	mu.Lock()
	defer mu.Unlock()
	for i, v := range got {
		if v != i+1 {
			t.Fatalf("out of order execution: got %v", got)
		}
	}
}

func TestLoopSerializesConcurrentDispatchers(t *testing.T) {
	loop := uiloop.New()
	go loop.Run()
	defer loop.Stop()

	// counter is only ever touched from the loop goroutine.
	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				loop.Dispatch(func() { counter++ })
			}
		}()
	}
	wg.Wait()

	result := make(chan int)
	loop.Dispatch(func() { result <- counter })

	select {
	case n := <-result:
		if n != 1000 {
			t.Fatalf("counter = %d, want 1000", n)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("loop stalled")
	}
}

func TestDispatchAfterStopDoesNotBlock(t *testing.T) {
	loop := uiloop.New()
	go loop.Run()
	loop.Stop()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			loop.Dispatch(func() {})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Dispatch blocked after Stop")
	}
}

func TestImmediateRunsInline(t *testing.T) {
	ran := false
	uiloop.Immediate{}.Dispatch(func() { ran = true })
	if !ran {
		t.Fatal("Immediate did not run the function")
	}
}
