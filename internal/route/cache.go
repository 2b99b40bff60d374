package route

import (
	"github.com/felixgeelhaar/flowcanvas/internal/graph"
)

// Source is the read side of the graph the cache needs
type Source interface {
	Node(id string) (graph.Node, bool)
	Edges() []graph.Edge
	IncidentEdges(id string) []graph.EdgeKey
}

// Cache holds computed edge paths. Nothing is recomputed implicitly: callers
// mark edges dirty and then ask for a partial or full recompute.
type Cache struct {
	geo   Geometry
	paths map[graph.EdgeKey]Path
	dirty map[graph.EdgeKey]struct{}
}

// NewCache creates an empty cache
func NewCache(geo Geometry) *Cache {
	return &Cache{
		geo:   geo,
		paths: make(map[graph.EdgeKey]Path),
		dirty: make(map[graph.EdgeKey]struct{}),
	}
}

// Geometry returns the geometry used for anchors
func (c *Cache) Geometry() Geometry {
	return c.geo
}

// Path returns the cached path for key
func (c *Cache) Path(key graph.EdgeKey) (Path, bool) {
	p, ok := c.paths[key]
	return p, ok
}

// Len returns the number of cached paths
func (c *Cache) Len() int {
	return len(c.paths)
}

// Invalidate marks keys dirty
func (c *Cache) Invalidate(keys ...graph.EdgeKey) {
	for _, k := range keys {
		c.dirty[k] = struct{}{}
	}
}

// InvalidateNode marks every edge touching id dirty
func (c *Cache) InvalidateNode(src Source, id string) {
	c.Invalidate(src.IncidentEdges(id)...)
}

// DirtyCount returns the number of edges awaiting recompute
func (c *Cache) DirtyCount() int {
	return len(c.dirty)
}

// RecomputeDirty recomputes only the dirty edges and returns how many paths
// were rebuilt. Dirty keys whose edge no longer exists are evicted.
func (c *Cache) RecomputeDirty(src Source) int {
	n := 0
	for key := range c.dirty {
		if c.compute(src, key) {
			n++
		} else {
			delete(c.paths, key)
		}
	}
	c.dirty = make(map[graph.EdgeKey]struct{})
	return n
}

// RecomputeAll rebuilds every path from scratch and clears the dirty set
func (c *Cache) RecomputeAll(src Source) int {
	c.paths = make(map[graph.EdgeKey]Path)
	c.dirty = make(map[graph.EdgeKey]struct{})
	n := 0
	for _, e := range src.Edges() {
		if c.compute(src, e.Key) {
			n++
		}
	}
	return n
}

func (c *Cache) compute(src Source, key graph.EdgeKey) bool {
	from, ok := src.Node(key.From)
	if !ok {
		return false
	}
	to, ok := src.Node(key.To)
	if !ok {
		return false
	}
	c.paths[key] = NewPath(c.geo.OutputAnchor(from, key.FromPort), c.geo.InputAnchor(to, key.ToPort))
	return true
}
