package memory

// orderedSet is a set that remembers insertion order. Removal leaves a
// tombstone that is compacted away once tombstones outnumber live entries.
type orderedSet[T comparable] struct {
	entries []entry[T]
	pos     map[T]int
	dead    int
}

type entry[T comparable] struct {
	value T
	live  bool
}

func newOrderedSet[T comparable]() *orderedSet[T] {
	return &orderedSet[T]{pos: map[T]int{}}
}

// add inserts v and reports whether it was absent.
func (s *orderedSet[T]) add(v T) bool {
	if _, ok := s.pos[v]; ok {
		return false
	}
	s.pos[v] = len(s.entries)
	s.entries = append(s.entries, entry[T]{value: v, live: true})
	return true
}

// remove deletes v and reports whether it was present.
func (s *orderedSet[T]) remove(v T) bool {
	i, ok := s.pos[v]
	if !ok {
		return false
	}
	delete(s.pos, v)
	s.entries[i].live = false
	var zero T
	s.entries[i].value = zero
	s.dead++
	if s.dead > len(s.pos) && s.dead > 32 {
		s.compact()
	}
	return true
}

func (s *orderedSet[T]) has(v T) bool {
	_, ok := s.pos[v]
	return ok
}

func (s *orderedSet[T]) len() int { return len(s.pos) }

// values returns a copy of the live entries in insertion order.
func (s *orderedSet[T]) values() []T {
	out := make([]T, 0, len(s.pos))
	for _, e := range s.entries {
		if e.live {
			out = append(out, e.value)
		}
	}
	return out
}

func (s *orderedSet[T]) compact() {
	live := s.entries[:0]
	for _, e := range s.entries {
		if e.live {
			s.pos[e.value] = len(live)
			live = append(live, e)
		}
	}
	clear(s.entries[len(live):])
	s.entries = live
	s.dead = 0
}
