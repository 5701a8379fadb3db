package proxy

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFixedGeneratorOrder(t *testing.T) {
	gen := NewFixedGenerator("a", "b")
	assert.Equal(t, 2, gen.Remaining())
	assert.Equal(t, "a", gen.Generate())
	assert.Equal(t, "b", gen.Generate())
	assert.Equal(t, 0, gen.Remaining())
	assert.Panics(t, func() { gen.Generate() })
}

func TestFixedGeneratorConcurrent(t *testing.T) {
	uids := make([]string, 100)
	for i := range uids {
		uids[i] = string(rune('A' + i%26))
	}
	gen := NewFixedGenerator(uids...)

	var wg sync.WaitGroup
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			gen.Generate()
		}()
	}
	wg.Wait()
	assert.Equal(t, 0, gen.Remaining())
}

func TestUUIDGeneratorUnique(t *testing.T) {
	gen := UUIDGenerator{}
	seen := make(map[string]bool)
	for range 100 {
		uid := gen.Generate()
		assert.False(t, seen[uid])
		seen[uid] = true
	}
}
