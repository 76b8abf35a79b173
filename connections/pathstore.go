package connections

import (
	"mtroute/core"
	"mtroute/diagram"
	"mtroute/pathfinding"
)

// pathStore maps connections to their routing state. Connections are kept in
// insertion order so the first tracked connection is stable.
type pathStore struct {
	maze  *pathfinding.MazeRouter
	paths map[diagram.Connection]*pathfinding.Path
	order []diagram.Connection
}

func newPathStore(maze *pathfinding.MazeRouter) *pathStore {
	return &pathStore{
		maze:  maze,
		paths: make(map[diagram.Connection]*pathfinding.Path),
	}
}

// ensure returns the path for conn, creating and registering one if needed.
func (s *pathStore) ensure(conn diagram.Connection) *pathfinding.Path {
	if p, ok := s.paths[conn]; ok {
		return p
	}
	p := pathfinding.NewPath(conn)
	s.paths[conn] = p
	s.order = append(s.order, conn)
	s.maze.AddPath(p)
	return p
}

func (s *pathStore) get(conn diagram.Connection) (*pathfinding.Path, bool) {
	p, ok := s.paths[conn]
	return p, ok
}

// remove detaches the path of conn and returns it, or nil if conn has none.
func (s *pathStore) remove(conn diagram.Connection) *pathfinding.Path {
	p, ok := s.paths[conn]
	if !ok {
		return nil
	}
	delete(s.paths, conn)
	for i, c := range s.order {
		if c == conn {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.maze.RemovePath(p)
	return p
}

// first returns the earliest tracked connection, or nil.
func (s *pathStore) first() diagram.Connection {
	if len(s.order) == 0 {
		return nil
	}
	return s.order[0]
}

func (s *pathStore) len() int {
	return len(s.order)
}

// clear removes every path from the maze router.
func (s *pathStore) clear() {
	for _, conn := range s.order {
		s.maze.RemovePath(s.paths[conn])
	}
	s.paths = make(map[diagram.Connection]*pathfinding.Path)
	s.order = nil
}

// derive updates the inputs of p from the anchors and constraint of conn.
// Changed inputs mark p dirty.
func derive(p *pathfinding.Path, conn diagram.Connection, bends []diagram.Bendpoint, resolve EndpointResolver) {
	p.SetStartPoint(resolve(conn.SourceAnchor()))
	p.SetEndPoint(resolve(conn.TargetAnchor()))
	if len(bends) == 0 {
		p.SetBendPoints(nil)
		return
	}
	points := make(core.PointList, len(bends))
	for i, b := range bends {
		points[i] = b.Location()
	}
	p.SetBendPoints(points)
}
