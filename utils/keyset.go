package utils

// KeySet records which row keys have already been seen and the first row
// each appeared in. It is not safe for concurrent use.
type KeySet struct {
	seen map[string]int
}

// NewKeySet creates an empty KeySet.
func NewKeySet() *KeySet {
	return &KeySet{seen: make(map[string]int)}
}

// Add returns true if the key was newly added, false if already present.
// The first row index recorded for a key is kept.
func (s *KeySet) Add(key string, row int) bool {
	if _, exists := s.seen[key]; exists {
		return false
	}
	s.seen[key] = row
	return true
}

// FirstRow returns the row index the key was first added with.
func (s *KeySet) FirstRow(key string) (int, bool) {
	row, ok := s.seen[key]
	return row, ok
}
