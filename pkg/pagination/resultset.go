package pagination

// ResultSet is a set of version ids that remembers insertion order.
type ResultSet struct {
	seen map[string]struct{}
	ids  []string
}

// NewResultSet creates an empty result set.
func NewResultSet() *ResultSet {
	return &ResultSet{seen: make(map[string]struct{})}
}

// Add inserts ids and returns how many were not yet present.
func (s *ResultSet) Add(ids ...string) int {
	added := 0
	for _, id := range ids {
		if _, ok := s.seen[id]; ok {
			continue
		}
		s.seen[id] = struct{}{}
		s.ids = append(s.ids, id)
		added++
	}
	return added
}

// Len returns the number of distinct ids.
func (s *ResultSet) Len() int {
	return len(s.ids)
}

// IDs returns a copy of the ids in insertion order. It is never nil.
func (s *ResultSet) IDs() []string {
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}
