package geometry

import (
	"github.com/df07/go-haunted-house/pkg/core"
)

// BVHNode represents a node in the Bounding Volume Hierarchy
type BVHNode struct {
	BoundingBox core.AABB
	Left        *BVHNode
	Right       *BVHNode
	Triangles   []*Triangle // Leaf contents (nil for internal nodes)
}

// BVH represents a Bounding Volume Hierarchy over world-space triangles
type BVH struct {
	Root  *BVHNode
	Count int // Number of triangles in the hierarchy
}

// Leaf threshold: if we have this many or fewer triangles, store them in a leaf node
const leafThreshold = 8

// NewBVH constructs a BVH from a slice of triangles
func NewBVH(triangles []*Triangle) *BVH {
	if len(triangles) == 0 {
		return &BVH{}
	}

	// Copy so the caller's slice order is untouched by partitioning
	working := make([]*Triangle, len(triangles))
	copy(working, triangles)

	return &BVH{Root: buildBVH(working), Count: len(triangles)}
}

// buildBVH recursively splits at the spatial midpoint of the longest axis
func buildBVH(triangles []*Triangle) *BVHNode {
	box := triangles[0].BoundingBox()
	for _, t := range triangles[1:] {
		box = box.Union(t.BoundingBox())
	}

	if len(triangles) <= leafThreshold {
		return &BVHNode{BoundingBox: box, Triangles: triangles}
	}

	axis := box.LongestAxis()
	split := box.Center().Component(axis)
	if box.Size().Component(axis) <= 0 {
		return &BVHNode{BoundingBox: box, Triangles: triangles}
	}

	// In-place partition around the midpoint
	mid := 0
	for i, t := range triangles {
		if t.BoundingBox().Center().Component(axis) < split {
			triangles[i], triangles[mid] = triangles[mid], triangles[i]
			mid++
		}
	}

	// Everything on one side: fall back to an even count split
	if mid == 0 || mid == len(triangles) {
		mid = len(triangles) / 2
	}

	return &BVHNode{
		BoundingBox: box,
		Left:        buildBVH(triangles[:mid]),
		Right:       buildBVH(triangles[mid:]),
	}
}

// Hit finds the closest triangle hit in (tMin, tMax)
func (bvh *BVH) Hit(ray core.Ray, tMin, tMax float64, rec *HitRecord) bool {
	if bvh.Root == nil {
		return false
	}
	return bvh.hitNode(bvh.Root, ray, tMin, tMax, rec)
}

func (bvh *BVH) hitNode(node *BVHNode, ray core.Ray, tMin, tMax float64, rec *HitRecord) bool {
	if !node.BoundingBox.Hit(ray, tMin, tMax) {
		return false
	}

	if node.Triangles != nil {
		hitAnything := false
		closestSoFar := tMax
		for _, t := range node.Triangles {
			if t.Hit(ray, tMin, closestSoFar, rec) {
				hitAnything = true
				closestSoFar = rec.T
			}
		}
		return hitAnything
	}

	hitLeft := bvh.hitNode(node.Left, ray, tMin, tMax, rec)
	closestSoFar := tMax
	if hitLeft {
		closestSoFar = rec.T
	}
	hitRight := bvh.hitNode(node.Right, ray, tMin, closestSoFar, rec)
	return hitLeft || hitRight
}

// Occluded reports whether any triangle accepted by blocks lies on the ray in (tMin, tMax).
// A nil blocks accepts every hit.
func (bvh *BVH) Occluded(ray core.Ray, tMin, tMax float64, blocks func(*HitRecord) bool) bool {
	if bvh.Root == nil {
		return false
	}
	var rec HitRecord
	return bvh.occludedNode(bvh.Root, ray, tMin, tMax, blocks, &rec)
}

func (bvh *BVH) occludedNode(node *BVHNode, ray core.Ray, tMin, tMax float64, blocks func(*HitRecord) bool, rec *HitRecord) bool {
	if !node.BoundingBox.Hit(ray, tMin, tMax) {
		return false
	}

	if node.Triangles != nil {
		for _, t := range node.Triangles {
			if t.Hit(ray, tMin, tMax, rec) && (blocks == nil || blocks(rec)) {
				return true
			}
		}
		return false
	}

	return bvh.occludedNode(node.Left, ray, tMin, tMax, blocks, rec) ||
		bvh.occludedNode(node.Right, ray, tMin, tMax, blocks, rec)
}

// BoundingBox returns the bounds of every triangle, or an empty box
func (bvh *BVH) BoundingBox() core.AABB {
	if bvh.Root == nil {
		return core.AABB{}
	}
	return bvh.Root.BoundingBox
}
