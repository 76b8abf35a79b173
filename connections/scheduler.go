package connections

import "mtroute/diagram"

// staleSet is an insertion-ordered set of connections whose routing inputs
// must be derived again before the next solve.
type staleSet struct {
	items []diagram.Connection
	index map[diagram.Connection]struct{}
}

func newStaleSet() *staleSet {
	return &staleSet{index: make(map[diagram.Connection]struct{})}
}

func (s *staleSet) add(conn diagram.Connection) {
	if _, ok := s.index[conn]; ok {
		return
	}
	s.index[conn] = struct{}{}
	s.items = append(s.items, conn)
}

func (s *staleSet) remove(conn diagram.Connection) {
	if _, ok := s.index[conn]; !ok {
		return
	}
	delete(s.index, conn)
	for i, c := range s.items {
		if c == conn {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}

func (s *staleSet) has(conn diagram.Connection) bool {
	_, ok := s.index[conn]
	return ok
}

func (s *staleSet) first() diagram.Connection {
	if len(s.items) == 0 {
		return nil
	}
	return s.items[0]
}

func (s *staleSet) len() int {
	return len(s.items)
}

// drain returns the current members and empties the set. Connections added
// while the result is processed land in the emptied set.
func (s *staleSet) drain() []diagram.Connection {
	items := s.items
	s.items = nil
	s.index = make(map[diagram.Connection]struct{})
	return items
}

// sessionState tells whether obstacle tracking is running.
type sessionState int

const (
	sessionInactive sessionState = iota
	sessionActive
)

func (s sessionState) String() string {
	switch s {
	case sessionInactive:
		return "inactive"
	case sessionActive:
		return "active"
	default:
		return "unknown"
	}
}

// Stats counts the work a Router has done.
type Stats struct {
	// Solves is the number of maze solve passes.
	Solves int

	// Published is the number of polylines handed to connections.
	Published int

	// Failed is the number of routes for which no legal path was found.
	Failed int

	// Activations is the number of times obstacle tracking was started.
	Activations int
}
