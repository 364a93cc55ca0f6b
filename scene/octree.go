package scene

import "render-engine/math"

// Default octree tuning, overridable via Settings (graphics.octree_*).
const (
	DefaultOctreeMaxDepth = 8
	DefaultOctreeCapacity = 10
	octreeMinObjects      = 10 // below this count, queries fall back to a linear scan
)

// octreeEntry pairs a node with its cached world AABB at insertion time.
type octreeEntry struct {
	node *Node
	aabb AABB
}

// octreeNode is one cell of the spatial subdivision. Children are created
// lazily the first time a cell must split.
type octreeNode struct {
	bounds   AABB
	depth    int
	entries  []octreeEntry
	children *[8]*octreeNode // nil until this cell subdivides
}

// Octree is an 8-ary spatial index over a scene's visible GameObjects,
// used to accelerate frustum/AABB/sphere queries beyond a linear scan of
// every node. Rebuild is always explicit: moving a node does not
// invalidate the tree until Rebuild is called.
type Octree struct {
	root     *octreeNode
	maxDepth int
	capacity int
	count    int
}

// NewOctree creates an empty octree covering worldBounds.
func NewOctree(worldBounds AABB, maxDepth, capacity int) *Octree {
	if maxDepth < 1 {
		maxDepth = 1
	}
	if maxDepth > 16 {
		maxDepth = 16
	}
	if capacity < 1 {
		capacity = DefaultOctreeCapacity
	}
	return &Octree{
		root:     &octreeNode{bounds: worldBounds},
		maxDepth: maxDepth,
		capacity: capacity,
	}
}

// Clear empties the tree without changing its bounds or tuning.
func (o *Octree) Clear() {
	o.root = &octreeNode{bounds: o.root.bounds}
	o.count = 0
}

// Count returns the number of objects currently indexed.
func (o *Octree) Count() int { return o.count }

// Insert adds a node with a precomputed world AABB to the tree.
func (o *Octree) Insert(n *Node, worldAABB AABB) {
	o.count++
	insertEntry(o.root, octreeEntry{node: n, aabb: worldAABB}, o.maxDepth, o.capacity)
}

// Remove deletes a node from the tree by pointer identity. Returns true
// if the node was found and removed.
func (o *Octree) Remove(n *Node) bool {
	if removeEntry(o.root, n) {
		o.count--
		return true
	}
	return false
}

// Rebuild clears the tree and reinserts every (node, aabb) pair. Callers
// typically gather these via Scene.GetVisibleNodes + ComputeAABB once
// per frame or on an explicit "scene changed" signal — the octree never
// rebuilds itself automatically.
func (o *Octree) Rebuild(worldBounds AABB, entries map[*Node]AABB) {
	o.root = &octreeNode{bounds: worldBounds}
	o.count = 0
	for n, box := range entries {
		o.Insert(n, box)
	}
}

func insertEntry(cell *octreeNode, e octreeEntry, maxDepth, capacity int) {
	if cell.children != nil {
		idx := childIndexFor(cell.bounds, e.aabb)
		if idx >= 0 {
			insertEntry(cell.children[idx], e, maxDepth, capacity)
			return
		}
		// Straddles the split point: stays at this level.
		cell.entries = append(cell.entries, e)
		return
	}

	cell.entries = append(cell.entries, e)
	if len(cell.entries) <= capacity || cell.depth >= maxDepth {
		return
	}
	subdivide(cell)

	remaining := cell.entries[:0]
	for _, existing := range cell.entries {
		idx := childIndexFor(cell.bounds, existing.aabb)
		if idx >= 0 {
			insertEntry(cell.children[idx], existing, maxDepth, capacity)
		} else {
			remaining = append(remaining, existing)
		}
	}
	cell.entries = remaining
}

func subdivide(cell *octreeNode) {
	center := cell.bounds.Center()
	mn, mx := cell.bounds.Min, cell.bounds.Max
	var kids [8]*octreeNode
	for i := 0; i < 8; i++ {
		lo := math.Vec3{
			X: pick(i&1 == 0, mn.X, center.X),
			Y: pick(i&2 == 0, mn.Y, center.Y),
			Z: pick(i&4 == 0, mn.Z, center.Z),
		}
		hi := math.Vec3{
			X: pick(i&1 == 0, center.X, mx.X),
			Y: pick(i&2 == 0, center.Y, mx.Y),
			Z: pick(i&4 == 0, center.Z, mx.Z),
		}
		kids[i] = &octreeNode{bounds: AABB{Min: lo, Max: hi}, depth: cell.depth + 1}
	}
	cell.children = &kids
}

func pick(cond bool, a, b float32) float32 {
	if cond {
		return a
	}
	return b
}

// childIndexFor returns which of the 8 children of a cell with the given
// bounds fully contains box, or -1 if box straddles the split planes.
func childIndexFor(bounds AABB, box AABB) int {
	center := bounds.Center()
	idx := 0
	if box.Min.X >= center.X {
		idx |= 1
	} else if box.Max.X > center.X {
		return -1
	}
	if box.Min.Y >= center.Y {
		idx |= 2
	} else if box.Max.Y > center.Y {
		return -1
	}
	if box.Min.Z >= center.Z {
		idx |= 4
	} else if box.Max.Z > center.Z {
		return -1
	}
	return idx
}

func removeEntry(cell *octreeNode, n *Node) bool {
	for i, e := range cell.entries {
		if e.node == n {
			cell.entries = append(cell.entries[:i], cell.entries[i+1:]...)
			return true
		}
	}
	if cell.children == nil {
		return false
	}
	for _, c := range cell.children {
		if removeEntry(c, n) {
			return true
		}
	}
	return false
}

// QueryFrustum returns every indexed node whose world AABB intersects or
// is inside f, deduplicated by pointer identity. Falls back to a linear
// walk when the tree holds fewer than the auto-suppression threshold.
func (o *Octree) QueryFrustum(f *Frustum) []*Node {
	var out []*Node
	if o.count < octreeMinObjects {
		out = o.allNodes()
	} else {
		queryFrustum(o.root, f, &out)
	}
	seen := make(map[*Node]struct{}, len(out))
	uniq := out[:0]
	for _, n := range out {
		if _, dup := seen[n]; !dup {
			seen[n] = struct{}{}
			uniq = append(uniq, n)
		}
	}
	return uniq
}

func queryFrustum(cell *octreeNode, f *Frustum, out *[]*Node) {
	switch f.TestAABB(cell.bounds) {
	case Outside:
		return
	case Inside:
		collectAll(cell, out)
		return
	}
	for _, e := range cell.entries {
		switch f.TestAABB(e.aabb) {
		case Outside:
		default:
			*out = append(*out, e.node)
		}
	}
	if cell.children != nil {
		for _, c := range cell.children {
			queryFrustum(c, f, out)
		}
	}
}

func collectAll(cell *octreeNode, out *[]*Node) {
	for _, e := range cell.entries {
		*out = append(*out, e.node)
	}
	if cell.children != nil {
		for _, c := range cell.children {
			collectAll(c, out)
		}
	}
}

// QueryAABB returns every indexed node whose world AABB overlaps box.
func (o *Octree) QueryAABB(box AABB) []*Node {
	if o.count < octreeMinObjects {
		return o.allNodes()
	}
	var out []*Node
	queryAABB(o.root, box, &out)
	return out
}

func queryAABB(cell *octreeNode, box AABB, out *[]*Node) {
	if !aabbOverlap(cell.bounds, box) {
		return
	}
	for _, e := range cell.entries {
		if aabbOverlap(e.aabb, box) {
			*out = append(*out, e.node)
		}
	}
	if cell.children != nil {
		for _, c := range cell.children {
			queryAABB(c, box, out)
		}
	}
}

func aabbOverlap(a, b AABB) bool {
	return a.Min.X <= b.Max.X && a.Max.X >= b.Min.X &&
		a.Min.Y <= b.Max.Y && a.Max.Y >= b.Min.Y &&
		a.Min.Z <= b.Max.Z && a.Max.Z >= b.Min.Z
}

// QuerySphere returns every indexed node whose world AABB overlaps s.
func (o *Octree) QuerySphere(s Sphere) []*Node {
	if o.count < octreeMinObjects {
		return o.allNodes()
	}
	var out []*Node
	querySphere(o.root, s, &out)
	return out
}

func querySphere(cell *octreeNode, s Sphere, out *[]*Node) {
	if !aabbSphereOverlap(cell.bounds, s) {
		return
	}
	for _, e := range cell.entries {
		if aabbSphereOverlap(e.aabb, s) {
			*out = append(*out, e.node)
		}
	}
	if cell.children != nil {
		for _, c := range cell.children {
			querySphere(c, s, out)
		}
	}
}

func aabbSphereOverlap(box AABB, s Sphere) bool {
	closest := math.Vec3{
		X: clampf(s.Center.X, box.Min.X, box.Max.X),
		Y: clampf(s.Center.Y, box.Min.Y, box.Max.Y),
		Z: clampf(s.Center.Z, box.Min.Z, box.Max.Z),
	}
	return closest.Sub(s.Center).LengthSqr() <= s.Radius*s.Radius
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (o *Octree) allNodes() []*Node {
	var out []*Node
	collectAll(o.root, &out)
	return out
}
