package agent

// DefaultSeenCapacity bounds the per-user set of processed message ids.
const DefaultSeenCapacity = 500

// SeenSet is an insertion-ordered set of message ids with a fixed capacity.
// When an add pushes the set over capacity, the oldest entries are evicted
// first. Not safe for concurrent use; each user's loop owns its own set.
type SeenSet struct {
	capacity int
	order    []string
	members  map[string]struct{}
}

// NewSeenSet creates a set with the given capacity, seeded with ids in
// insertion order (oldest first). A capacity of zero or less means
// DefaultSeenCapacity. Seed entries beyond capacity are evicted oldest-first,
// and duplicate seed ids keep their first position.
func NewSeenSet(capacity int, ids []string) *SeenSet {
	if capacity <= 0 {
		capacity = DefaultSeenCapacity
	}
	s := &SeenSet{
		capacity: capacity,
		members:  make(map[string]struct{}, capacity),
	}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Contains reports whether id has been seen.
func (s *SeenSet) Contains(id string) bool {
	_, ok := s.members[id]
	return ok
}

// Add marks id as seen. Re-adding an existing id is a no-op and does not
// refresh its age. Returns true if the id was newly added.
func (s *SeenSet) Add(id string) bool {
	if s.Contains(id) {
		return false
	}
	s.members[id] = struct{}{}
	s.order = append(s.order, id)
	if len(s.order) > s.capacity {
		evicted := s.order[0]
		s.order = s.order[1:]
		delete(s.members, evicted)
	}
	return true
}

// Len returns the number of ids currently tracked.
func (s *SeenSet) Len() int {
	return len(s.order)
}

// IDs returns the tracked ids in insertion order, oldest first.
func (s *SeenSet) IDs() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}
