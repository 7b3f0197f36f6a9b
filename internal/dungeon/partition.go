package dungeon

import (
	"math/rand"

	"github.com/Ko-stant/melody-dungeon/internal/geometry"
)

// NodeID indexes a node in a Tree arena.
type NodeID int

const NoNode NodeID = -1

// Node is one region of the binary space partition.
type Node struct {
	Region geometry.Rect
	Left   NodeID
	Right  NodeID
	// Room indexes Tree.Rooms, -1 when the node has no room of its own.
	Room int
}

// Room is a rectangle carved into floor.
type Room struct {
	ID     int            `json:"id"`
	Bounds geometry.Rect  `json:"bounds"`
	Center geometry.Point `json:"center"`
}

func newRoom(id int, bounds geometry.Rect) Room {
	return Room{ID: id, Bounds: bounds, Center: bounds.Center()}
}

// Tree is a binary space partition stored as an arena. Node 0 is the root.
type Tree struct {
	Nodes []Node
	Rooms []Room
}

func NewTree(root geometry.Rect) *Tree {
	return &Tree{Nodes: []Node{{Region: root, Left: NoNode, Right: NoNode, Room: -1}}}
}

func (t *Tree) Root() NodeID { return 0 }

func (t *Tree) IsLeaf(id NodeID) bool {
	n := t.Nodes[id]
	return n.Left == NoNode && n.Right == NoNode
}

// Split divides a leaf in two and reports whether it did. Regions whose
// aspect ratio is at least 1.25 are cut across their long side; near-square
// regions pick the axis at random. A region smaller than 2*minSize along the
// chosen axis is refused.
func (t *Tree) Split(id NodeID, minSize int, rng *rand.Rand) bool {
	if !t.IsLeaf(id) {
		return false
	}
	r := t.Nodes[id].Region

	var topBottom bool
	switch {
	case r.Width > r.Height && float64(r.Width)/float64(r.Height) >= 1.25:
		topBottom = false
	case r.Height > r.Width && float64(r.Height)/float64(r.Width) >= 1.25:
		topBottom = true
	default:
		topBottom = rng.Intn(2) == 0
	}

	dim := r.Width
	if topBottom {
		dim = r.Height
	}
	span := dim - 2*minSize
	if span <= 0 {
		return false
	}
	pos := minSize + rng.Intn(span)

	var a, b geometry.Rect
	if topBottom {
		a = geometry.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: pos}
		b = geometry.Rect{X: r.X, Y: r.Y + pos, Width: r.Width, Height: r.Height - pos}
	} else {
		a = geometry.Rect{X: r.X, Y: r.Y, Width: pos, Height: r.Height}
		b = geometry.Rect{X: r.X + pos, Y: r.Y, Width: r.Width - pos, Height: r.Height}
	}

	left := t.add(a)
	right := t.add(b)
	t.Nodes[id].Left = left
	t.Nodes[id].Right = right
	return true
}

func (t *Tree) add(r geometry.Rect) NodeID {
	t.Nodes = append(t.Nodes, Node{Region: r, Left: NoNode, Right: NoNode, Room: -1})
	return NodeID(len(t.Nodes) - 1)
}

// Partition splits the tree one generation at a time: every node created in
// the previous pass gets one split attempt, for the given number of passes.
func (t *Tree) Partition(iterations, minSize int, rng *rand.Rand) {
	frontier := []NodeID{t.Root()}
	for range iterations {
		var next []NodeID
		for _, id := range frontier {
			if t.Split(id, minSize, rng) {
				next = append(next, t.Nodes[id].Left, t.Nodes[id].Right)
			}
		}
		frontier = next
	}
}

// Leaves returns leaf ids left subtree first.
func (t *Tree) Leaves() []NodeID {
	var out []NodeID
	var walk func(NodeID)
	walk = func(id NodeID) {
		if t.IsLeaf(id) {
			out = append(out, id)
			return
		}
		if l := t.Nodes[id].Left; l != NoNode {
			walk(l)
		}
		if r := t.Nodes[id].Right; r != NoNode {
			walk(r)
		}
	}
	walk(t.Root())
	return out
}

// PlaceRooms gives every leaf at most one room, keeping at least padding
// tiles between the room and the leaf edge. Leaves too small for a
// minRoomSize room get none.
func (t *Tree) PlaceRooms(minRoomSize, padding int, rng *rand.Rand) {
	for _, id := range t.Leaves() {
		bounds, ok := roomInLeaf(t.Nodes[id].Region, minRoomSize, padding, rng)
		if !ok {
			continue
		}
		room := newRoom(len(t.Rooms), bounds)
		t.Rooms = append(t.Rooms, room)
		t.Nodes[id].Room = room.ID
	}
}

// roomInLeaf sizes a room between minRoomSize and the padded leaf. A leaf
// exactly minRoomSize+2*padding wide leaves a zero span and still gets a
// minimum room; only a negative span skips the leaf.
func roomInLeaf(leaf geometry.Rect, minRoomSize, padding int, rng *rand.Rand) (geometry.Rect, bool) {
	spanW := leaf.Width - minRoomSize - 2*padding
	spanH := leaf.Height - minRoomSize - 2*padding
	if spanW < 0 || spanH < 0 {
		return geometry.Rect{}, false
	}
	w := minRoomSize + randUpTo(rng, spanW)
	h := minRoomSize + randUpTo(rng, spanH)
	x := leaf.X + padding + randUpTo(rng, leaf.Width-w-2*padding+1)
	y := leaf.Y + padding + randUpTo(rng, leaf.Height-h-2*padding+1)
	return geometry.Rect{X: x, Y: y, Width: w, Height: h}, true
}

// randUpTo returns a value in [0, n), or 0 when n <= 0.
func randUpTo(rng *rand.Rand, n int) int {
	if n <= 0 {
		return 0
	}
	return rng.Intn(n)
}

// RoomOf resolves the representative room of a subtree: the node's own room
// for a leaf, else the left child's, falling back to the right child's.
// It returns -1 when the subtree has no room.
func (t *Tree) RoomOf(id NodeID) int {
	if id == NoNode {
		return -1
	}
	n := t.Nodes[id]
	if n.Room != -1 {
		return n.Room
	}
	if r := t.RoomOf(n.Left); r != -1 {
		return r
	}
	return t.RoomOf(n.Right)
}
