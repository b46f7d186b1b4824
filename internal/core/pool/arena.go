package pool

// Arena is a fixed-capacity slot store with a free list. Slots are never
// removed, only flagged inactive and pushed back on the free list, so the
// hot loop never reallocates. A reused slot carries no identity from its
// previous occupant.
type Arena[T any] struct {
	slots    []T
	active   []bool
	freeList []int
}

// NewArena allocates capacity slots up front.
func NewArena[T any](capacity int) *Arena[T] {
	a := &Arena[T]{
		slots:    make([]T, capacity),
		active:   make([]bool, capacity),
		freeList: make([]int, 0, capacity),
	}
	a.Clear()
	return a
}

// Acquire takes a free slot, zeroes it and marks it active. ok is false when
// the arena is exhausted.
func (a *Arena[T]) Acquire() (idx int, slot *T, ok bool) {
	if len(a.freeList) == 0 {
		return -1, nil, false
	}
	idx = a.freeList[len(a.freeList)-1]
	a.freeList = a.freeList[:len(a.freeList)-1]
	var zero T
	a.slots[idx] = zero
	a.active[idx] = true
	return idx, &a.slots[idx], true
}

// Release returns a slot to the free list. Releasing an inactive or
// out-of-range slot is a no-op.
func (a *Arena[T]) Release(idx int) {
	if idx < 0 || idx >= len(a.slots) || !a.active[idx] {
		return
	}
	a.active[idx] = false
	a.freeList = append(a.freeList, idx)
}

// Get returns the slot at idx if it is active.
func (a *Arena[T]) Get(idx int) (*T, bool) {
	if idx < 0 || idx >= len(a.slots) || !a.active[idx] {
		return nil, false
	}
	return &a.slots[idx], true
}

// Each visits active slots in index order. fn may Release the visited slot.
func (a *Arena[T]) Each(fn func(idx int, slot *T)) {
	for i := range a.slots {
		if a.active[i] {
			fn(i, &a.slots[i])
		}
	}
}

// Len returns the number of active slots.
func (a *Arena[T]) Len() int { return len(a.slots) - len(a.freeList) }

// Cap returns the fixed capacity.
func (a *Arena[T]) Cap() int { return len(a.slots) }

// Clear deactivates every slot. The free list is rebuilt so the lowest
// index is handed out first.
func (a *Arena[T]) Clear() {
	a.freeList = a.freeList[:0]
	for i := len(a.slots) - 1; i >= 0; i-- {
		a.active[i] = false
		a.freeList = append(a.freeList, i)
	}
}
