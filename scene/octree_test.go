package scene

import (
	"testing"

	"render-engine/math"
)

func boxAt(x, y, z float32) AABB {
	return AABB{
		Min: math.Vec3{X: x - 0.5, Y: y - 0.5, Z: z - 0.5},
		Max: math.Vec3{X: x + 0.5, Y: y + 0.5, Z: z + 0.5},
	}
}

func TestOctreeInsertAndQueryAABB(t *testing.T) {
	world := AABB{Min: math.Vec3{X: -100, Y: -100, Z: -100}, Max: math.Vec3{X: 100, Y: 100, Z: 100}}
	o := NewOctree(world, DefaultOctreeMaxDepth, 2)

	near := NewNode("near")
	far := NewNode("far")
	o.Insert(near, boxAt(1, 1, 1))
	o.Insert(far, boxAt(90, 90, 90))

	if o.Count() != 2 {
		t.Errorf("expected count 2, got %d", o.Count())
	}

	results := o.QueryAABB(AABB{Min: math.Vec3{X: -5, Y: -5, Z: -5}, Max: math.Vec3{X: 5, Y: 5, Z: 5}})
	found := false
	for _, n := range results {
		if n == far {
			t.Error("expected far node not to match a query near the origin")
		}
		if n == near {
			found = true
		}
	}
	if !found {
		t.Error("expected near node to match the query box")
	}
}

func TestOctreeRemove(t *testing.T) {
	world := AABB{Min: math.Vec3{X: -10, Y: -10, Z: -10}, Max: math.Vec3{X: 10, Y: 10, Z: 10}}
	o := NewOctree(world, DefaultOctreeMaxDepth, DefaultOctreeCapacity)

	n := NewNode("n")
	o.Insert(n, boxAt(0, 0, 0))
	if !o.Remove(n) {
		t.Error("expected Remove to find the inserted node")
	}
	if o.Count() != 0 {
		t.Errorf("expected count 0 after remove, got %d", o.Count())
	}
	if o.Remove(n) {
		t.Error("expected second Remove of the same node to report not found")
	}
}

func TestOctreeAutoSuppressionBelowThreshold(t *testing.T) {
	world := AABB{Min: math.Vec3{X: -10, Y: -10, Z: -10}, Max: math.Vec3{X: 10, Y: 10, Z: 10}}
	o := NewOctree(world, DefaultOctreeMaxDepth, DefaultOctreeCapacity)

	// Fewer than octreeMinObjects: QueryAABB should fall back to
	// returning everything regardless of the query box.
	n := NewNode("n")
	o.Insert(n, boxAt(9, 9, 9))

	results := o.QueryAABB(AABB{Min: math.Vec3{X: -1, Y: -1, Z: -1}, Max: math.Vec3{X: 1, Y: 1, Z: 1}})
	if len(results) != 1 || results[0] != n {
		t.Errorf("expected linear fallback to return the single node regardless of overlap, got %v", results)
	}
}

func TestOctreeRebuildReplacesContents(t *testing.T) {
	world := AABB{Min: math.Vec3{X: -10, Y: -10, Z: -10}, Max: math.Vec3{X: 10, Y: 10, Z: 10}}
	o := NewOctree(world, DefaultOctreeMaxDepth, DefaultOctreeCapacity)

	stale := NewNode("stale")
	o.Insert(stale, boxAt(0, 0, 0))

	fresh := NewNode("fresh")
	o.Rebuild(world, map[*Node]AABB{fresh: boxAt(1, 1, 1)})

	if o.Count() != 1 {
		t.Errorf("expected count 1 after rebuild, got %d", o.Count())
	}
	all := o.allNodes()
	if len(all) != 1 || all[0] != fresh {
		t.Errorf("expected rebuild to drop stale entries, got %v", all)
	}
}

// octreeFrustumFixture builds a 5x5x2 grid of unit cubes (50 total, safely
// above octreeMinObjects) spread across a 40-unit world so every test
// frustum below clips through the middle of the grid rather than landing
// entirely inside or outside it.
func octreeFrustumFixture() (*Octree, []*Node, map[*Node]AABB) {
	world := AABB{Min: math.Vec3{X: -20, Y: -20, Z: -20}, Max: math.Vec3{X: 20, Y: 20, Z: 20}}
	o := NewOctree(world, DefaultOctreeMaxDepth, DefaultOctreeCapacity)

	var nodes []*Node
	boxes := make(map[*Node]AABB)
	for x := 0; x < 5; x++ {
		for z := 0; z < 5; z++ {
			for y := 0; y < 2; y++ {
				n := NewNode("cube")
				box := boxAt(float32(x)*4-8, float32(y)*4-2, float32(z)*4-8)
				o.Insert(n, box)
				nodes = append(nodes, n)
				boxes[n] = box
			}
		}
	}
	return o, nodes, boxes
}

// linearQueryFrustum is the brute-force reference QueryFrustum must match:
// every node whose box is not fully Outside f, tested one at a time with no
// spatial acceleration.
func linearQueryFrustum(f *Frustum, nodes []*Node, boxes map[*Node]AABB) map[*Node]bool {
	out := make(map[*Node]bool)
	for _, n := range nodes {
		if f.TestAABB(boxes[n]) != Outside {
			out[n] = true
		}
	}
	return out
}

func toSet(nodes []*Node) map[*Node]bool {
	out := make(map[*Node]bool, len(nodes))
	for _, n := range nodes {
		out[n] = true
	}
	return out
}

func TestOctreeQueryFrustumMatchesLinearScan(t *testing.T) {
	o, nodes, boxes := octreeFrustumFixture()
	if o.Count() < octreeMinObjects {
		t.Fatalf("fixture must exceed octreeMinObjects to exercise tree descent, got %d", o.Count())
	}

	poses := []struct {
		name             string
		eye, target      math.Vec3
		fovY, aspect     float32
		near, far        float32
	}{
		{"centered", math.Vec3{X: 0, Y: 0, Z: 30}, math.Vec3{X: 0, Y: 0, Z: 0}, 60, 16.0 / 9.0, 0.1, 100},
		{"from_above", math.Vec3{X: 0, Y: 30, Z: 0.001}, math.Vec3{X: 0, Y: 0, Z: 0}, 60, 16.0 / 9.0, 0.1, 100},
		{"from_side", math.Vec3{X: 30, Y: 0, Z: 0}, math.Vec3{X: 0, Y: 0, Z: 0}, 45, 4.0 / 3.0, 0.1, 100},
		{"narrow_fov_offset", math.Vec3{X: 15, Y: 10, Z: 15}, math.Vec3{X: -8, Y: -2, Z: -8}, 30, 16.0 / 9.0, 0.1, 60},
		{"close_near_plane", math.Vec3{X: 0, Y: 0, Z: 6}, math.Vec3{X: 0, Y: 0, Z: 0}, 90, 1.0, 0.1, 8},
	}

	for _, pose := range poses {
		view := math.Mat4LookAt(pose.eye, pose.target, math.Vec3{X: 0, Y: 1, Z: 0})
		proj := math.Mat4Perspective(pose.fovY, pose.aspect, pose.near, pose.far)
		vp := view.Mul(proj)
		f := FrustumFromVP(vp)

		got := toSet(o.QueryFrustum(&f))
		want := linearQueryFrustum(&f, nodes, boxes)

		for n := range want {
			if !got[n] {
				t.Errorf("pose %s: QueryFrustum missed node %s that the linear scan found", pose.name, n.Name)
			}
		}
		for n := range got {
			if !want[n] {
				t.Errorf("pose %s: QueryFrustum returned node %s that the linear scan rejected", pose.name, n.Name)
			}
		}
	}
}

func TestOctreeQuerySphere(t *testing.T) {
	world := AABB{Min: math.Vec3{X: -50, Y: -50, Z: -50}, Max: math.Vec3{X: 50, Y: 50, Z: 50}}
	o := NewOctree(world, DefaultOctreeMaxDepth, 1)
	for i := 0; i < 20; i++ {
		o.Insert(NewNode("obj"), boxAt(float32(i), 0, 0))
	}

	results := o.QuerySphere(Sphere{Center: math.Vec3{X: 0, Y: 0, Z: 0}, Radius: 2})
	if len(results) == 0 {
		t.Error("expected at least one node within the query sphere")
	}
	for _, n := range o.QuerySphere(Sphere{Center: math.Vec3{X: 1000, Y: 1000, Z: 1000}, Radius: 1}) {
		t.Errorf("expected no matches far from every inserted node, got %v", n.Name)
	}
}
