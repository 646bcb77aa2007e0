package scene

import (
	"math/rand"

	"github.com/achilleasa/lumen/types"
)

// A BVH node stored in a contiguous node list. Branch nodes store the
// indices of their two children; leaf nodes store the index of a single
// primitive and have Left set to -1.
type BvhNode struct {
	Bounds AABB

	Left  int32
	Right int32

	Primitive int32
}

// Set left and right child node indices.
func (n *BvhNode) SetChildNodes(left, right uint32) {
	n.Left = int32(left)
	n.Right = int32(right)
	n.Primitive = -1
}

// Turn node into a leaf pointing to a primitive.
func (n *BvhNode) SetPrimitive(index uint32) {
	n.Left = -1
	n.Right = -1
	n.Primitive = int32(index)
}

// Returns true if this is a leaf node.
func (n *BvhNode) IsLeaf() bool {
	return n.Left < 0
}

// Structural BVH statistics.
type BvhStats struct {
	Nodes    int
	Leafs    int
	MaxDepth int

	// Surface area heuristic estimate of the expected traversal cost of a
	// random ray that hits the root bounds.
	SAHCost float64
}

// Relative costs used when estimating the SAH cost of a tree.
const (
	sahTraversalCost    = 1.0
	sahIntersectionCost = 1.0
)

// A bounding volume hierarchy over a set of primitives. The node at index 0
// is the tree root. A Bvh is immutable after construction and can be
// shared by concurrent readers.
type Bvh struct {
	Nodes      []BvhNode
	Primitives []Primitive
}

// Wrap a node list produced by a BVH builder.
func NewBvh(nodes []BvhNode, primitives []Primitive) *Bvh {
	return &Bvh{
		Nodes:      nodes,
		Primitives: primitives,
	}
}

// Find the nearest intersection. Traversal first gathers the primitives of
// every leaf whose box is hit by the ray and then tests each candidate,
// keeping the hit with the smallest t.
func (b *Bvh) Hit(ray types.Ray, tMin, tMax float64, rng *rand.Rand) (HitRecord, bool) {
	var closest HitRecord
	if len(b.Nodes) == 0 {
		return closest, false
	}

	var candidateBuf [64]int32
	candidates := b.collectCandidates(0, ray, tMin, tMax, candidateBuf[:0])

	hitAnything := false
	for _, primIndex := range candidates {
		rec, ok := b.Primitives[primIndex].Hit(ray, tMin, tMax, rng)
		if !ok {
			continue
		}
		if !hitAnything || rec.T < closest.T {
			closest = rec
			hitAnything = true
		}
	}
	return closest, hitAnything
}

// Get the indices of the primitives whose leaf boxes are intersected by ray.
func (b *Bvh) Candidates(ray types.Ray, tMin, tMax float64) []int32 {
	if len(b.Nodes) == 0 {
		return nil
	}
	return b.collectCandidates(0, ray, tMin, tMax, nil)
}

func (b *Bvh) collectCandidates(nodeIndex int32, ray types.Ray, tMin, tMax float64, out []int32) []int32 {
	node := &b.Nodes[nodeIndex]
	if !node.Bounds.Hit(ray, tMin, tMax) {
		return out
	}

	if node.IsLeaf() {
		return append(out, node.Primitive)
	}

	out = b.collectCandidates(node.Left, ray, tMin, tMax, out)
	return b.collectCandidates(node.Right, ray, tMin, tMax, out)
}

// The bounds of a BVH are the bounds of its root node.
func (b *Bvh) BBox(_, _ float64) (AABB, bool) {
	if len(b.Nodes) == 0 {
		return AABB{}, false
	}
	return b.Nodes[0].Bounds, true
}

func (b *Bvh) PdfValue(origin, dir types.Vec3, rng *rand.Rand) float64 {
	return PrimitiveList(b.Primitives).PdfValue(origin, dir, rng)
}

func (b *Bvh) Random(origin types.Vec3, rng *rand.Rand) types.Vec3 {
	return PrimitiveList(b.Primitives).Random(origin, rng)
}

// Get the depth of the tree. A tree with a single leaf has depth 0.
func (b *Bvh) Depth() int {
	return b.Stats().MaxDepth
}

// Collect structural statistics.
func (b *Bvh) Stats() BvhStats {
	var stats BvhStats
	if len(b.Nodes) != 0 {
		b.walk(0, 0, &stats)
		if rootArea := b.Nodes[0].Bounds.SurfaceArea(); rootArea > 0 {
			stats.SAHCost /= rootArea
		}
	}
	return stats
}

func (b *Bvh) walk(nodeIndex int32, depth int, stats *BvhStats) {
	stats.Nodes++
	if depth > stats.MaxDepth {
		stats.MaxDepth = depth
	}

	node := &b.Nodes[nodeIndex]
	if node.IsLeaf() {
		stats.Leafs++
		stats.SAHCost += sahIntersectionCost * node.Bounds.SurfaceArea()
		return
	}
	stats.SAHCost += sahTraversalCost * node.Bounds.SurfaceArea()
	b.walk(node.Left, depth+1, stats)
	b.walk(node.Right, depth+1, stats)
}
