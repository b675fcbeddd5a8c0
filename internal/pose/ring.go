package pose

// Ring is a fixed-capacity FIFO that overwrites its oldest entry once full.
type Ring[T any] struct {
	items []T
	head  int // next write position
	size  int
}

// NewRing creates a ring holding at most capacity items. A capacity below
// one is raised to one.
func NewRing[T any](capacity int) *Ring[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring[T]{items: make([]T, capacity)}
}

// Push appends v, evicting the oldest entry when the ring is full. It
// reports whether an entry was evicted.
func (r *Ring[T]) Push(v T) bool {
	evicted := r.size == len(r.items)
	r.items[r.head] = v
	r.head = (r.head + 1) % len(r.items)
	if !evicted {
		r.size++
	}
	return evicted
}

// Clear drops every entry.
func (r *Ring[T]) Clear() {
	var zero T
	for i := range r.items {
		r.items[i] = zero
	}
	r.head = 0
	r.size = 0
}

// Items returns the stored entries from oldest to newest.
func (r *Ring[T]) Items() []T {
	out := make([]T, r.size)
	start := (r.head - r.size + len(r.items)) % len(r.items)
	for i := 0; i < r.size; i++ {
		out[i] = r.items[(start+i)%len(r.items)]
	}
	return out
}

