// Package photon implements the photon representation and the k-d tree
// used to answer nearest-neighbor queries for photon-mapped indirect
// lighting and caustics.
package photon

import "github.com/guglielmo-pathtracer/raytracer/pkg/core"

// Kind distinguishes the two photon maps the integrator builds.
type Kind int

const (
	Indirect Kind = iota
	Caustic
)

// Photon is a single deposited light-transport sample.
type Photon struct {
	Position  core.Vec3
	Direction core.Vec3 // incoming ray direction at the moment of deposit
	Intensity core.Vec3
	Kind      Kind
}

// Map is a static, balanced k-d tree over a fixed photon set, built once
// after emission and queried many times during shading.
type Map struct {
	nodes []kdNode
}

type kdNode struct {
	photon      Photon
	left, right int // -1 if absent
	axis        int
}

// Build constructs a balanced k-d tree by recursively splitting on the
// median of the coordinate that cycles with tree depth (x, y, z, x, ...).
// Returns an empty Map for an empty input.
func Build(photons []Photon) *Map {
	m := &Map{}
	if len(photons) == 0 {
		return m
	}
	m.nodes = make([]kdNode, 0, len(photons))
	buf := make([]Photon, len(photons))
	copy(buf, photons)
	m.build(buf, 0)
	return m
}

func (m *Map) build(photons []Photon, depth int) int {
	if len(photons) == 0 {
		return -1
	}
	axis := depth % 3

	quicksortByAxis(photons, axis)
	median := len(photons) / 2

	index := len(m.nodes)
	m.nodes = append(m.nodes, kdNode{photon: photons[median], axis: axis, left: -1, right: -1})

	left := m.build(photons[:median], depth+1)
	right := m.build(photons[median+1:], depth+1)
	m.nodes[index].left = left
	m.nodes[index].right = right
	return index
}

func axisValue(p Photon, axis int) float64 { return p.Position.Component(axis) }

// quicksortByAxis sorts in place by the given axis; implemented directly
// (rather than via sort.Slice) so Build has no allocation-heavy closures
// on the hot path of emitting hundreds of thousands of photons.
func quicksortByAxis(s []Photon, axis int) {
	if len(s) < 2 {
		return
	}
	pivot := axisValue(s[len(s)/2], axis)
	left, right := 0, len(s)-1
	for left <= right {
		for axisValue(s[left], axis) < pivot {
			left++
		}
		for axisValue(s[right], axis) > pivot {
			right--
		}
		if left <= right {
			s[left], s[right] = s[right], s[left]
			left++
			right--
		}
	}
	quicksortByAxis(s[:right+1], axis)
	quicksortByAxis(s[left:], axis)
}

type neighbor struct {
	photon Photon
	distSq float64
}

// maxHeap is a bounded max-heap on distSq, keeping the k closest photons
// seen so far at the root for O(log k) eviction.
type maxHeap struct {
	items []neighbor
	cap   int
}

func (h *maxHeap) push(n neighbor) {
	if len(h.items) < h.cap {
		h.items = append(h.items, n)
		h.up(len(h.items) - 1)
		return
	}
	if n.distSq >= h.items[0].distSq {
		return
	}
	h.items[0] = n
	h.down(0)
}

func (h *maxHeap) full() bool { return len(h.items) >= h.cap }

func (h *maxHeap) top() float64 {
	if len(h.items) == 0 {
		return 0
	}
	return h.items[0].distSq
}

func (h *maxHeap) up(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if h.items[parent].distSq >= h.items[i].distSq {
			break
		}
		h.items[parent], h.items[i] = h.items[i], h.items[parent]
		i = parent
	}
}

func (h *maxHeap) down(i int) {
	n := len(h.items)
	for {
		left, right := 2*i+1, 2*i+2
		largest := i
		if left < n && h.items[left].distSq > h.items[largest].distSq {
			largest = left
		}
		if right < n && h.items[right].distSq > h.items[largest].distSq {
			largest = right
		}
		if largest == i {
			break
		}
		h.items[i], h.items[largest] = h.items[largest], h.items[i]
		i = largest
	}
}

// KNearest returns up to k photons closest to query, nearest first.
func (m *Map) KNearest(query core.Vec3, k int) []Photon {
	if len(m.nodes) == 0 || k <= 0 {
		return nil
	}
	heap := &maxHeap{cap: k, items: make([]neighbor, 0, k)}
	m.search(0, query, heap)

	result := make([]Photon, len(heap.items))
	// heap.items is not sorted; selection into ascending order by distance.
	items := append([]neighbor(nil), heap.items...)
	for i := range result {
		minIdx := 0
		for j := 1; j < len(items); j++ {
			if items[j].distSq < items[minIdx].distSq {
				minIdx = j
			}
		}
		result[i] = items[minIdx].photon
		items = append(items[:minIdx], items[minIdx+1:]...)
	}
	return result
}

func (m *Map) search(index int, query core.Vec3, heap *maxHeap) {
	if index < 0 {
		return
	}
	node := &m.nodes[index]

	distSq := query.Subtract(node.photon.Position).LengthSquared()
	heap.push(neighbor{photon: node.photon, distSq: distSq})

	axisGap := query.Component(node.axis) - node.photon.Position.Component(node.axis)

	var first, second int
	if axisGap < 0 {
		first, second = node.left, node.right
	} else {
		first, second = node.right, node.left
	}

	m.search(first, query, heap)
	if !heap.full() || axisGap*axisGap < heap.top() {
		m.search(second, query, heap)
	}
}

// Size returns the number of photons stored in the map.
func (m *Map) Size() int { return len(m.nodes) }
