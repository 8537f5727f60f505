package core

import "sync"

const (
	arenaChunkSize = 4096

	// Allocations above this size get their own slice instead of
	// wasting the tail of a pooled chunk.
	arenaLargeSize = arenaChunkSize / 4
)

var chunkPool = sync.Pool{
	New: func() any {
		b := make([]byte, arenaChunkSize)
		return &b
	},
}

// Arena is a per-request bump allocator. Everything allocated from it is
// released together by Release; slices handed out must not be used after
// that. An Arena is not safe for concurrent use.
type Arena struct {
	chunks []*[]byte
	cur    []byte
}

// Alloc returns a zero-length slice with capacity n.
func (a *Arena) Alloc(n int) []byte {
	if n <= 0 {
		return []byte{}
	}
	if n > arenaLargeSize {
		return make([]byte, 0, n)
	}

	if len(a.cur) < n {
		chunk := chunkPool.Get().(*[]byte)
		a.chunks = append(a.chunks, chunk)
		a.cur = (*chunk)[:arenaChunkSize]
	}

	b := a.cur[:0:n]
	a.cur = a.cur[n:]
	return b
}

// Copy returns an arena-owned copy of b.
func (a *Arena) Copy(b []byte) []byte {
	return append(a.Alloc(len(b)), b...)
}

// CopyString returns an arena-owned copy of s.
func (a *Arena) CopyString(s string) []byte {
	return append(a.Alloc(len(s)), s...)
}

// Release returns every chunk to the pool.
func (a *Arena) Release() {
	for i, chunk := range a.chunks {
		chunkPool.Put(chunk)
		a.chunks[i] = nil
	}
	a.chunks = a.chunks[:0]
	a.cur = nil
}
