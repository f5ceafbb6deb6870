package lockmgr

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRead_AllowsConcurrentReaders(t *testing.T) {
	m := New()

	r1 := m.Read()
	defer r1()

	acquired := make(chan struct{})
	go func() {
		r2 := m.Read()
		defer r2()
		close(acquired)
	}()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second reader blocked by first reader")
	}
}

func TestWrite_ExcludesReaders(t *testing.T) {
	m := New()

	release := m.Write()

	readDone := make(chan struct{})
	go func() {
		r := m.Read()
		r()
		close(readDone)
	}()

	select {
	case <-readDone:
		t.Fatal("reader acquired while writer held the guard")
	case <-time.After(50 * time.Millisecond):
	}

	release()

	select {
	case <-readDone:
	case <-time.After(time.Second):
		t.Fatal("reader never acquired after writer released")
	}
}

func TestWrite_SerializesWriters(t *testing.T) {
	m := New()

	const writers = 8
	counter := 0
	var wg sync.WaitGroup
	for range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release := m.Write()
			defer release()
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, writers, counter)
}
