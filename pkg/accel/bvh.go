// Package accel implements the bounding volume hierarchy used to
// accelerate ray/primitive intersection queries.
package accel

import (
	"sort"

	"github.com/guglielmo-pathtracer/raytracer/pkg/core"
	"github.com/guglielmo-pathtracer/raytracer/pkg/primitive"
)

// SplitMethod selects how a BVH build node partitions its primitives.
type SplitMethod int

const (
	Middle SplitMethod = iota
	EqualCounts
	SAH
)

// TraversalMode selects what Intersect returns on the first candidate hit.
type TraversalMode int

const (
	// Closest finds the nearest intersection along the whole ray.
	Closest TraversalMode = iota
	// FirstWithinDistance returns as soon as any hit within maxDistance is
	// found, used for hard shadow tests.
	FirstWithinDistance
	// FirstNonTransparentWithinDistance is like FirstWithinDistance but
	// skips hits that IntersectFiltered's isOpaque reports as transparent.
	FirstNonTransparentWithinDistance
)

const stackDepth = 64

type buildPrimitiveInfo struct {
	index    int
	bounds   core.AABB
	centroid core.Vec3
}

type buildNode struct {
	bounds    core.AABB
	children  [2]*buildNode
	splitAxis int

	firstPrimitiveIndex int
	primitiveCount      int
}

func (n *buildNode) initLeaf(first, count int, bounds core.AABB) {
	n.firstPrimitiveIndex = first
	n.primitiveCount = count
	n.bounds = bounds
}

func (n *buildNode) initInternal(axis int, left, right *buildNode) {
	n.children[0] = left
	n.children[1] = right
	n.bounds = left.bounds.Union(right.bounds)
	n.splitAxis = axis
	n.primitiveCount = 0
}

// LinearNode is a pre-order-flattened BVH node suitable for iterative,
// allocation-free traversal.
type LinearNode struct {
	Bounds core.AABB

	// FirstPrimitiveIndex is valid when PrimitiveCount > 0 (leaf);
	// SecondChildOffset is valid when PrimitiveCount == 0 (internal node).
	FirstPrimitiveIndex int
	SecondChildOffset   int

	PrimitiveCount int
	SplitAxis      int
}

// BVH is a flattened bounding volume hierarchy over a fixed primitive set.
// Construction reorders the primitive slice into leaf-contiguous order;
// the reordered slice, not the caller's original, is what traversal reads.
type BVH struct {
	nodes      []LinearNode
	primitives []primitive.Primitive
}

// Build constructs a BVH over prims using the given split heuristic.
// sahBuckets is ignored for non-SAH methods.
func Build(prims []primitive.Primitive, method SplitMethod, sahBuckets int) *BVH {
	if sahBuckets <= 1 {
		sahBuckets = 12
	}
	if len(prims) == 0 {
		return &BVH{}
	}

	infos := make([]buildPrimitiveInfo, len(prims))
	for i, p := range prims {
		bounds := p.WorldAABB()
		infos[i] = buildPrimitiveInfo{index: i, bounds: bounds, centroid: bounds.Center()}
	}

	ordered := make([]primitive.Primitive, 0, len(prims))
	b := &builder{method: method, sahBuckets: sahBuckets, original: prims}
	root := b.build(infos, 0, len(infos), &ordered)

	bvh := &BVH{primitives: ordered}
	bvh.nodes = make([]LinearNode, b.totalNodes)
	offset := 0
	bvh.flatten(root, &offset)
	return bvh
}

type builder struct {
	method     SplitMethod
	sahBuckets int
	original   []primitive.Primitive
	totalNodes int
}

func (b *builder) build(infos []buildPrimitiveInfo, start, end int, ordered *[]primitive.Primitive) *buildNode {
	node := &buildNode{}
	b.totalNodes++

	bounds := core.EmptyAABB()
	for i := start; i < end; i++ {
		bounds = bounds.Union(infos[i].bounds)
	}

	count := end - start
	makeLeaf := func() *buildNode {
		first := len(*ordered)
		for i := start; i < end; i++ {
			*ordered = append(*ordered, b.original[infos[i].index])
		}
		node.initLeaf(first, count, bounds)
		return node
	}

	if count == 1 {
		return makeLeaf()
	}

	centroidBounds := core.EmptyAABB()
	for i := start; i < end; i++ {
		centroidBounds = centroidBounds.UnionPoint(infos[i].centroid)
	}
	axis := centroidBounds.LongestAxis()

	if centroidBounds.Max.Component(axis) == centroidBounds.Min.Component(axis) {
		return makeLeaf()
	}

	mid := (start + end) / 2
	slice := infos[start:end]

	switch b.method {
	case Middle:
		midPoint := (centroidBounds.Min.Component(axis) + centroidBounds.Max.Component(axis)) / 2
		p := partition(slice, func(pi buildPrimitiveInfo) bool { return pi.centroid.Component(axis) < midPoint })
		mid = start + p
		if mid == start || mid == end {
			mid = (start + end) / 2
			nthElement(slice, mid-start, axis)
		}
	case EqualCounts:
		nthElement(slice, mid-start, axis)
	default: // SAH
		if count <= 4 {
			nthElement(slice, mid-start, axis)
			break
		}
		splitIndex, ok := b.sahSplit(slice, centroidBounds, bounds, axis, count)
		if !ok {
			return makeLeaf()
		}
		mid = start + splitIndex
	}

	left := b.build(infos, start, mid, ordered)
	right := b.build(infos, mid, end, ordered)
	node.initInternal(axis, left, right)
	return node
}

// partition reorders s in place so every element satisfying pred precedes
// every element that doesn't, returning the split point (std::partition).
func partition(s []buildPrimitiveInfo, pred func(buildPrimitiveInfo) bool) int {
	i := 0
	for j := 0; j < len(s); j++ {
		if pred(s[j]) {
			s[i], s[j] = s[j], s[i]
			i++
		}
	}
	return i
}

// nthElement partially sorts s so that s[n] holds the value it would hold
// under a full sort by centroid[axis] (std::nth_element, approximated with
// a full sort since build-time primitive counts are modest).
func nthElement(s []buildPrimitiveInfo, n, axis int) {
	sort.Slice(s, func(i, j int) bool {
		return s[i].centroid.Component(axis) < s[j].centroid.Component(axis)
	})
	_ = n
}

type sahBucket struct {
	count  int
	bounds core.AABB
}

// sahSplit evaluates the surface-area-heuristic cost of every bucket
// boundary and partitions the slice at the cheapest one, reporting ok=false
// when a leaf is cheaper than any split.
func (b *builder) sahSplit(slice []buildPrimitiveInfo, centroidBounds, nodeBounds core.AABB, axis, count int) (int, bool) {
	nBuckets := b.sahBuckets
	buckets := make([]sahBucket, nBuckets)
	for i := range buckets {
		buckets[i].bounds = core.EmptyAABB()
	}

	bucketIndex := func(p buildPrimitiveInfo) int {
		off := centroidBounds.Offset(p.centroid).Component(axis)
		idx := int(float64(nBuckets) * off)
		if idx == nBuckets {
			idx = nBuckets - 1
		}
		if idx < 0 {
			idx = 0
		}
		return idx
	}

	for _, p := range slice {
		idx := bucketIndex(p)
		buckets[idx].count++
		buckets[idx].bounds = buckets[idx].bounds.Union(p.bounds)
	}

	costs := make([]float64, nBuckets-1)
	for i := 0; i < nBuckets-1; i++ {
		leftBox := core.EmptyAABB()
		rightBox := core.EmptyAABB()
		leftCount, rightCount := 0, 0
		for j := 0; j <= i; j++ {
			leftBox = leftBox.Union(buckets[j].bounds)
			leftCount += buckets[j].count
		}
		for j := i + 1; j < nBuckets; j++ {
			rightBox = rightBox.Union(buckets[j].bounds)
			rightCount += buckets[j].count
		}
		costs[i] = 0.125 + (float64(leftCount)*leftBox.SurfaceArea()+float64(rightCount)*rightBox.SurfaceArea())/nodeBounds.SurfaceArea()
	}

	minCost := costs[0]
	minBucket := 0
	for i := 1; i < len(costs); i++ {
		if costs[i] < minCost {
			minCost = costs[i]
			minBucket = i
		}
	}

	leafCost := float64(count)
	if minCost >= leafCost {
		return 0, false
	}

	splitIndex := partition(slice, func(p buildPrimitiveInfo) bool { return bucketIndex(p) <= minBucket })
	return splitIndex, true
}

func (bvh *BVH) flatten(node *buildNode, offset *int) int {
	linear := &bvh.nodes[*offset]
	linear.Bounds = node.bounds
	current := *offset
	*offset++

	if node.primitiveCount > 0 {
		linear.FirstPrimitiveIndex = node.firstPrimitiveIndex
		linear.PrimitiveCount = node.primitiveCount
		return current
	}

	linear.PrimitiveCount = 0
	linear.SplitAxis = node.splitAxis
	bvh.flatten(node.children[0], offset)
	linear.SecondChildOffset = bvh.flatten(node.children[1], offset)
	return current
}

// Intersect traverses the BVH iteratively with a fixed-depth stack,
// returning the result appropriate to mode. It is equivalent to calling
// IntersectFiltered with a nil filter.
func (bvh *BVH) Intersect(ray core.Ray, tMin, tMax float64, mode TraversalMode) (primitive.Interaction, bool) {
	return bvh.IntersectFiltered(ray, tMin, tMax, mode, nil)
}

// IntersectFiltered behaves like Intersect, but for
// FirstNonTransparentWithinDistance mode it additionally consults isOpaque
// (keyed by material index) to decide whether a hit should stop traversal;
// a nil isOpaque treats every hit as opaque.
func (bvh *BVH) IntersectFiltered(ray core.Ray, tMin, tMax float64, mode TraversalMode, isOpaque func(materialIndex int) bool) (primitive.Interaction, bool) {
	var closest primitive.Interaction
	found := false
	closestDist := tMax

	if len(bvh.nodes) == 0 {
		return closest, false
	}

	recip := core.NewVec3(1/ray.Direction.X, 1/ray.Direction.Y, 1/ray.Direction.Z)
	signs := [3]bool{recip.X < 0, recip.Y < 0, recip.Z < 0}

	var stack [stackDepth]int
	stackTop := 0
	current := 0

	for {
		node := &bvh.nodes[current]

		if node.Bounds.HitSlab(ray, recip, signs, tMin, closestDist) {
			if node.PrimitiveCount > 0 {
				for i := 0; i < node.PrimitiveCount; i++ {
					p := bvh.primitives[node.FirstPrimitiveIndex+i]
					inter, ok := p.Intersect(ray, tMin, closestDist)
					if !ok {
						continue
					}
					switch mode {
					case FirstNonTransparentWithinDistance:
						opaque := isOpaque == nil || isOpaque(inter.MaterialIndex)
						if inter.Distance < closestDist && opaque {
							return inter, true
						}
					case FirstWithinDistance:
						if inter.Distance <= closestDist {
							return inter, true
						}
					default: // Closest
						if inter.Distance < closestDist {
							closest = inter
							closestDist = inter.Distance
							found = true
						}
					}
				}

				if stackTop == 0 {
					break
				}
				stackTop--
				current = stack[stackTop]
			} else {
				if signs[node.SplitAxis] {
					stack[stackTop] = current + 1
					stackTop++
					current = node.SecondChildOffset
				} else {
					stack[stackTop] = node.SecondChildOffset
					stackTop++
					current = current + 1
				}
			}
		} else {
			if stackTop == 0 {
				break
			}
			stackTop--
			current = stack[stackTop]
		}
	}

	return closest, found
}

// NodeCount returns the number of flattened nodes, exposed for tests and
// diagnostics.
func (bvh *BVH) NodeCount() int { return len(bvh.nodes) }
