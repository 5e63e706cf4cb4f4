package escrow

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequence_Next(t *testing.T) {
	s := NewSequence()
	assert.Equal(t, int64(0), s.Current())
	assert.Equal(t, int64(1), s.Next())
	assert.Equal(t, int64(2), s.Next())
	assert.Equal(t, int64(2), s.Current())
}

func TestSequence_ResumeAt(t *testing.T) {
	s := NewSequenceAt(41)
	assert.Equal(t, int64(41), s.Current())
	assert.Equal(t, int64(42), s.Next())
}

func TestSequence_ConcurrentUnique(t *testing.T) {
	s := NewSequence()

	const n = 100
	results := make(chan int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- s.Next()
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[int64]bool, n)
	for v := range results {
		assert.False(t, seen[v], "duplicate sequence value %d", v)
		seen[v] = true
	}
	assert.Len(t, seen, n)
	assert.Equal(t, int64(n), s.Current())
}

func TestFixedGenerator(t *testing.T) {
	g := NewFixedGenerator("a", "b")
	assert.Equal(t, "a", g.Generate())
	assert.Equal(t, "b", g.Generate())
	assert.Panics(t, func() { g.Generate() })
}

func TestUUIDv7Generator_Distinct(t *testing.T) {
	g := UUIDv7Generator{}
	first := g.Generate()
	second := g.Generate()
	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
}
