package router

import "sync"

// hooks is a registration-ordered callback list whose entries can be
// removed by the function add returns.
type hooks[T any] struct {
	mu   sync.Mutex
	seq  int
	list []hookEntry[T]
}

type hookEntry[T any] struct {
	id int
	fn T
}

func (h *hooks[T]) add(fn T) func() {
	h.mu.Lock()
	h.seq++
	id := h.seq
	h.list = append(h.list, hookEntry[T]{id: id, fn: fn})
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		for i, e := range h.list {
			if e.id == id {
				h.list = append(h.list[:i:i], h.list[i+1:]...)
				return
			}
		}
	}
}

func (h *hooks[T]) snapshot() []T {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]T, len(h.list))
	for i, e := range h.list {
		out[i] = e.fn
	}
	return out
}
