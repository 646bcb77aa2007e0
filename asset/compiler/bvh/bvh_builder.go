package bvh

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/achilleasa/lumen/log"
	"github.com/achilleasa/lumen/scene"
)

type Axis uint8

const (
	XAxis Axis = iota
	YAxis
	ZAxis
)

var (
	ErrEmptyPrimitiveList = errors.New("bvh: cannot build a BVH without any primitives")
	ErrUnboundedPrimitive = errors.New("bvh: primitive has no bounding box")
)

// The BoundedVolume interface is implemented by all items that can be
// partitioned by the bvh builder.
type BoundedVolume interface {
	BBox() scene.AABB
}

type stats struct {
	totalItems int
	nodes      int
	leafs      int
	maxDepth   int
}

type workItem struct {
	index int
	bbox  scene.AABB
}

type builder struct {
	logger log.Logger

	// Bvh nodes stored as a contiguous list
	nodes []scene.BvhNode

	// Stats
	stats stats
}

// Construct a BVH from a set of bounded volumes.
//
// Every item bbox is evaluated once. Items are sorted by the minimum
// coordinate of their bbox along axis and the sorted list is recursively
// split at its midpoint, producing a balanced tree of depth ceil(log2(n))
// where each leaf points to exactly one item. The root node is always
// stored at index 0.
func Build(workList []BoundedVolume, axis Axis) []scene.BvhNode {
	b := &builder{
		logger: log.New("bvh builder"),
		nodes:  make([]scene.BvhNode, 0, 2*len(workList)),
		stats: stats{
			totalItems: len(workList),
		},
	}

	if len(workList) == 0 {
		return b.nodes
	}

	items := make([]workItem, len(workList))
	for index, item := range workList {
		items[index] = workItem{index: index, bbox: item.BBox()}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].bbox.Min[axis] < items[j].bbox.Min[axis]
	})

	start := time.Now()
	b.partition(items, 0)
	b.logger.Debugf(
		"BVH tree build time: %d ms, items: %d, maxDepth: %d, nodes: %d, leafs: %d",
		time.Since(start).Nanoseconds()/1e6,
		b.stats.totalItems, b.stats.maxDepth, b.stats.nodes, b.stats.leafs,
	)
	return b.nodes
}

// Partition worklist and return node index.
func (b *builder) partition(workList []workItem, depth int) uint32 {
	if depth > b.stats.maxDepth {
		b.stats.maxDepth = depth
	}

	nodeIndex := len(b.nodes)
	b.nodes = append(b.nodes, scene.BvhNode{})
	b.stats.nodes++

	if len(workList) == 1 {
		b.nodes[nodeIndex].Bounds = workList[0].bbox
		b.nodes[nodeIndex].SetPrimitive(uint32(workList[0].index))
		b.stats.leafs++
		return uint32(nodeIndex)
	}

	mid := len(workList) / 2
	leftNodeIndex := b.partition(workList[:mid], depth+1)
	rightNodeIndex := b.partition(workList[mid:], depth+1)

	node := &b.nodes[nodeIndex]
	node.Bounds = scene.Surround(b.nodes[leftNodeIndex].Bounds, b.nodes[rightNodeIndex].Bounds)
	node.SetChildNodes(leftNodeIndex, rightNodeIndex)
	return uint32(nodeIndex)
}

// Adapts a primitive to the BoundedVolume interface using the bbox
// it reports for a particular time interval.
type boundedPrimitive struct {
	bbox scene.AABB
}

func (p boundedPrimitive) BBox() scene.AABB {
	return p.bbox
}

// Build a BVH accelerator over a set of primitives whose bounds are evaluated
// over the time interval [t0, t1]. The split axis is selected at random once
// for the entire build.
//
// Building a BVH without any primitives or with primitives that cannot be
// bounded is an error.
func NewAccelerator(prims []scene.Primitive, t0, t1 float64, rng *rand.Rand) (*scene.Bvh, error) {
	if len(prims) == 0 {
		return nil, ErrEmptyPrimitiveList
	}

	workList := make([]BoundedVolume, len(prims))
	for index, prim := range prims {
		bbox, ok := prim.BBox(t0, t1)
		if !ok {
			return nil, fmt.Errorf("%w (primitive %d: %T)", ErrUnboundedPrimitive, index, prim)
		}
		workList[index] = boundedPrimitive{bbox: bbox}
	}

	axis := Axis(rng.Intn(3))
	primitives := make([]scene.Primitive, len(prims))
	copy(primitives, prims)
	return scene.NewBvh(Build(workList, axis), primitives), nil
}
