package scene

import (
	"testing"

	"render-engine/math"
)

// boxFrustum builds an axis-aligned frustum covering [-half, half] on
// every axis, for exercising TestAABB/TestSphere/TestPoint without a
// real projection matrix.
func boxFrustum(half float32) *Frustum {
	return &Frustum{Planes: [6]Plane{
		{Normal: math.Vec3{X: 1, Y: 0, Z: 0}, D: half},
		{Normal: math.Vec3{X: -1, Y: 0, Z: 0}, D: half},
		{Normal: math.Vec3{X: 0, Y: 1, Z: 0}, D: half},
		{Normal: math.Vec3{X: 0, Y: -1, Z: 0}, D: half},
		{Normal: math.Vec3{X: 0, Y: 0, Z: 1}, D: half},
		{Normal: math.Vec3{X: 0, Y: 0, Z: -1}, D: half},
	}}
}

func TestFrustumTestAABBInside(t *testing.T) {
	f := boxFrustum(10)
	box := AABB{Min: math.Vec3{X: -1, Y: -1, Z: -1}, Max: math.Vec3{X: 1, Y: 1, Z: 1}}
	if got := f.TestAABB(box); got != Inside {
		t.Errorf("expected Inside for a box well within the frustum, got %v", got)
	}
}

func TestFrustumTestAABBOutside(t *testing.T) {
	f := boxFrustum(10)
	box := AABB{Min: math.Vec3{X: 100, Y: 100, Z: 100}, Max: math.Vec3{X: 101, Y: 101, Z: 101}}
	if got := f.TestAABB(box); got != Outside {
		t.Errorf("expected Outside for a box far outside the frustum, got %v", got)
	}
}

func TestFrustumTestAABBIntersect(t *testing.T) {
	f := boxFrustum(10)
	box := AABB{Min: math.Vec3{X: 9, Y: -1, Z: -1}, Max: math.Vec3{X: 11, Y: 1, Z: 1}}
	if got := f.TestAABB(box); got != Intersect {
		t.Errorf("expected Intersect for a box straddling the boundary, got %v", got)
	}
}

func TestFrustumTestSphere(t *testing.T) {
	f := boxFrustum(10)
	inside := Sphere{Center: math.Vec3{X: 0, Y: 0, Z: 0}, Radius: 1}
	if got := f.TestSphere(inside); got != Inside {
		t.Errorf("expected Inside for a small centered sphere, got %v", got)
	}
	outside := Sphere{Center: math.Vec3{X: 1000, Y: 0, Z: 0}, Radius: 1}
	if got := f.TestSphere(outside); got != Outside {
		t.Errorf("expected Outside for a far sphere, got %v", got)
	}
}

func TestFrustumTestPoint(t *testing.T) {
	f := boxFrustum(10)
	if got := f.TestPoint(math.Vec3{X: 0, Y: 0, Z: 0}); got != Inside {
		t.Errorf("expected Inside for the origin, got %v", got)
	}
	if got := f.TestPoint(math.Vec3{X: 50, Y: 50, Z: 50}); got != Outside {
		t.Errorf("expected Outside for a far point, got %v", got)
	}
}

func TestAABBMergeAndCenter(t *testing.T) {
	a := AABB{Min: math.Vec3{X: -1, Y: -1, Z: -1}, Max: math.Vec3{X: 1, Y: 1, Z: 1}}
	b := AABB{Min: math.Vec3{X: 2, Y: 2, Z: 2}, Max: math.Vec3{X: 3, Y: 3, Z: 3}}
	merged := a.Merge(b)
	if merged.Min != (math.Vec3{X: -1, Y: -1, Z: -1}) || merged.Max != (math.Vec3{X: 3, Y: 3, Z: 3}) {
		t.Errorf("merge: expected bounds [-1,-1,-1]-[3,3,3], got %v-%v", merged.Min, merged.Max)
	}
	center := a.Center()
	if center != (math.Vec3{X: 0, Y: 0, Z: 0}) {
		t.Errorf("center: expected origin, got %v", center)
	}
}

func TestAABBContainsPoint(t *testing.T) {
	box := AABB{Min: math.Vec3{X: -1, Y: -1, Z: -1}, Max: math.Vec3{X: 1, Y: 1, Z: 1}}
	if !box.ContainsPoint(math.Vec3{X: 0, Y: 0, Z: 0}) {
		t.Error("expected origin to be contained")
	}
	if box.ContainsPoint(math.Vec3{X: 5, Y: 0, Z: 0}) {
		t.Error("expected far point not to be contained")
	}
}
