package sketch

import (
	"errors"

	"agriscope/land-portal/land-portal-backend/internal/geometry"
)

var (
	// ErrTooFewVertices is returned when a polygon with fewer than 3 vertices
	// is finalized.
	ErrTooFewVertices = errors.New("polygon requires at least 3 vertices")

	// ErrNoCentroid is returned when the center of the polygon cannot be
	// determined.
	ErrNoCentroid = errors.New("polygon centroid is undefined")
)

// Sketch holds a polygon under construction: an ordered vertex list plus a
// redo stack of vertices removed by Undo. Vertex order defines edge
// connectivity and is never re-sorted, so concave and self-intersecting
// shapes are accepted as drawn.
//
// Sketch is not safe for concurrent use; a drawing session is single-writer.
type Sketch struct {
	vertices []geometry.Vertex
	redo     []geometry.Vertex
}

// New creates a sketch seeded with an initial shape, e.g. one returned by a
// cadastral lookup. The initial slice is copied.
func New(initial []geometry.Vertex) *Sketch {
	s := &Sketch{}
	s.Reset(initial)
	return s
}

// AddVertex appends a vertex (a map click) and invalidates the redo stack.
func (s *Sketch) AddVertex(v geometry.Vertex) {
	s.vertices = append(s.vertices, v)
	s.redo = nil
}

// RemoveVertexAt removes the vertex at index (clicking an existing point
// marker). The removal is not redoable, so the redo stack is cleared too.
// Returns false if the index is out of range.
func (s *Sketch) RemoveVertexAt(index int) bool {
	if index < 0 || index >= len(s.vertices) {
		return false
	}
	s.vertices = append(s.vertices[:index], s.vertices[index+1:]...)
	s.redo = nil
	return true
}

// Undo moves the most recently added vertex onto the redo stack. Returns
// false when there is nothing to undo.
func (s *Sketch) Undo() bool {
	if len(s.vertices) == 0 {
		return false
	}
	last := s.vertices[len(s.vertices)-1]
	s.vertices = s.vertices[:len(s.vertices)-1]
	s.redo = append(s.redo, last)
	return true
}

// Redo re-appends the most recently undone vertex. Returns false when the
// redo stack is empty.
func (s *Sketch) Redo() bool {
	if len(s.redo) == 0 {
		return false
	}
	last := s.redo[len(s.redo)-1]
	s.redo = s.redo[:len(s.redo)-1]
	s.vertices = append(s.vertices, last)
	return true
}

// Reset replaces the polygon wholesale and drops any redo history.
func (s *Sketch) Reset(vertices []geometry.Vertex) {
	s.vertices = make([]geometry.Vertex, len(vertices))
	copy(s.vertices, vertices)
	s.redo = nil
}

// Vertices returns a copy of the current vertex list in insertion order.
func (s *Sketch) Vertices() []geometry.Vertex {
	out := make([]geometry.Vertex, len(s.vertices))
	copy(out, s.vertices)
	return out
}

// Len returns the current vertex count.
func (s *Sketch) Len() int {
	return len(s.vertices)
}

// AreaHa recomputes the polygon area. Derived values are never cached;
// polygons are tens of vertices at most, so recomputing on every change is
// cheaper than tracking staleness.
func (s *Sketch) AreaHa() float64 {
	return geometry.AreaHa(s.vertices)
}

// Centroid recomputes the polygon center.
func (s *Sketch) Centroid() (geometry.Vertex, bool) {
	return geometry.Centroid(s.vertices)
}

// FinalizedPolygon is the handoff produced by Finalize: a closed ring plus
// the derived values property creation consumes.
type FinalizedPolygon struct {
	Ring   []geometry.Vertex `json:"ring"`
	AreaHa float64           `json:"area_ha"`
	Center geometry.Vertex   `json:"center"`
}

// Finalize validates and closes the polygon for handoff. The sketch itself is
// left untouched, so the caller can resubmit the same shape after a transient
// upstream failure without redrawing.
func (s *Sketch) Finalize() (*FinalizedPolygon, error) {
	if len(s.vertices) < 3 {
		return nil, ErrTooFewVertices
	}

	center, ok := geometry.Centroid(s.vertices)
	if !ok {
		return nil, ErrNoCentroid
	}

	return &FinalizedPolygon{
		Ring:   geometry.CloseRing(s.vertices),
		AreaHa: geometry.AreaHa(s.vertices),
		Center: center,
	}, nil
}
