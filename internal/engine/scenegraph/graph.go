package scenegraph

import "github.com/Faultbox/showroom/pkg/math"

// Graph is an arena of nodes rooted at a single group.
// Nodes may be detached from the tree and re-attached later; a detached
// subtree stays in the arena but is skipped by Walk.
type Graph struct {
	nodes  map[NodeID]*Node
	root   NodeID
	nextID NodeID
}

// New creates a graph holding only the root.
func New() *Graph {
	g := &Graph{nodes: make(map[NodeID]*Node)}
	root := NewGroup("scene")
	g.root = g.insert(root)
	root.attached = true
	return g
}

func (g *Graph) insert(n *Node) NodeID {
	g.nextID++
	n.id = g.nextID
	n.parent = 0
	n.children = nil
	g.nodes[n.id] = n
	return n.id
}

// Root returns the root identity.
func (g *Graph) Root() NodeID { return g.root }

// Len returns the number of nodes in the arena, root included.
func (g *Graph) Len() int { return len(g.nodes) }

// Add inserts n under parent and returns its identity.
// It returns 0 when parent does not exist.
func (g *Graph) Add(parent NodeID, n *Node) NodeID {
	p, ok := g.nodes[parent]
	if !ok || n == nil {
		return 0
	}
	id := g.insert(n)
	n.parent = parent
	n.attached = p.attached
	p.children = append(p.children, id)
	return id
}

// Instantiate copies a prefab tree under parent and returns the new root.
func (g *Graph) Instantiate(parent NodeID, p *Prefab) NodeID {
	n := NewGroup(p.Name)
	n.Transform = p.Transform
	if p.Mesh != nil {
		m := *p.Mesh
		n.Kind = KindMesh
		n.Mesh = &m
	}
	id := g.Add(parent, n)
	if id == 0 {
		return 0
	}
	for _, c := range p.Children {
		g.Instantiate(id, c)
	}
	return id
}

// Get returns the node for id.
func (g *Graph) Get(id NodeID) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Contains reports whether id is in the arena.
func (g *Graph) Contains(id NodeID) bool {
	_, ok := g.nodes[id]
	return ok
}

// InScene reports whether id is reachable from the root.
func (g *Graph) InScene(id NodeID) bool {
	n, ok := g.nodes[id]
	return ok && n.attached
}

// Children returns a copy of id's child list.
func (g *Graph) Children(id NodeID) []NodeID {
	n, ok := g.nodes[id]
	if !ok {
		return nil
	}
	return append([]NodeID(nil), n.children...)
}

// Remove deletes id and its subtree. Absent ids and the root are ignored.
func (g *Graph) Remove(id NodeID) {
	n, ok := g.nodes[id]
	if !ok || id == g.root {
		return
	}
	g.unlink(n)
	g.drop(n)
}

func (g *Graph) drop(n *Node) {
	for _, c := range n.children {
		if child, ok := g.nodes[c]; ok {
			g.drop(child)
		}
	}
	delete(g.nodes, n.id)
}

func (g *Graph) unlink(n *Node) {
	if p, ok := g.nodes[n.parent]; ok {
		for i, c := range p.children {
			if c == n.id {
				p.children = append(p.children[:i], p.children[i+1:]...)
				break
			}
		}
	}
	n.parent = 0
}

// Detach unlinks id from its parent but keeps its subtree in the arena.
// It reports whether the node was in the scene.
func (g *Graph) Detach(id NodeID) bool {
	n, ok := g.nodes[id]
	if !ok || id == g.root || !n.attached {
		return false
	}
	g.unlink(n)
	g.setAttached(n, false)
	return true
}

// Attach links a detached node under parent.
// It reports whether anything changed.
func (g *Graph) Attach(parent, id NodeID) bool {
	n, ok := g.nodes[id]
	p, pok := g.nodes[parent]
	if !ok || !pok || id == g.root || n.attached || g.isAncestor(id, parent) {
		return false
	}
	if n.parent != 0 {
		g.unlink(n)
	}
	n.parent = parent
	p.children = append(p.children, id)
	g.setAttached(n, p.attached)
	return true
}

func (g *Graph) isAncestor(a, b NodeID) bool {
	for cur := b; cur != 0; {
		if cur == a {
			return true
		}
		n, ok := g.nodes[cur]
		if !ok {
			return false
		}
		cur = n.parent
	}
	return false
}

func (g *Graph) setAttached(n *Node, v bool) {
	n.attached = v
	for _, c := range n.children {
		if child, ok := g.nodes[c]; ok {
			g.setAttached(child, v)
		}
	}
}

// WorldMatrix returns the product of id's and its ancestors' transforms.
func (g *Graph) WorldMatrix(id NodeID) math.Mat4 {
	m := math.Identity()
	for cur := id; cur != 0; {
		n, ok := g.nodes[cur]
		if !ok {
			break
		}
		m = n.Transform.Matrix().Mul(m)
		cur = n.parent
	}
	return m
}

// WorldPosition returns id's origin in world space.
func (g *Graph) WorldPosition(id NodeID) math.Vec3 {
	return g.WorldMatrix(id).Translation()
}

// WorldBounds returns the world-space box of every mesh in id's subtree.
func (g *Graph) WorldBounds(id NodeID) math.AABB {
	n, ok := g.nodes[id]
	if !ok {
		return math.EmptyAABB()
	}
	return g.bounds(n, g.WorldMatrix(n.parent))
}

func (g *Graph) bounds(n *Node, parentWorld math.Mat4) math.AABB {
	world := parentWorld.Mul(n.Transform.Matrix())
	b := math.EmptyAABB()
	if n.Mesh != nil {
		b = n.Mesh.Bounds().Transform(world)
	}
	for _, c := range n.children {
		if child, ok := g.nodes[c]; ok {
			b = b.Union(g.bounds(child, world))
		}
	}
	return b
}

// Walk visits attached nodes depth-first with their world matrices.
// Returning false from fn skips the node's children.
func (g *Graph) Walk(fn func(n *Node, world math.Mat4) bool) {
	g.walk(g.nodes[g.root], math.Identity(), fn)
}

func (g *Graph) walk(n *Node, parentWorld math.Mat4, fn func(*Node, math.Mat4) bool) {
	world := parentWorld.Mul(n.Transform.Matrix())
	if !fn(n, world) {
		return
	}
	for _, c := range n.children {
		if child, ok := g.nodes[c]; ok {
			g.walk(child, world, fn)
		}
	}
}

// WalkSubtree visits id and its descendants regardless of attachment.
func (g *Graph) WalkSubtree(id NodeID, fn func(n *Node)) {
	n, ok := g.nodes[id]
	if !ok {
		return
	}
	fn(n)
	for _, c := range n.children {
		g.WalkSubtree(c, fn)
	}
}

// FindDescendant returns the first node named name under root, depth-first.
// Names are only unique within an imported model, so search is scoped.
func (g *Graph) FindDescendant(root NodeID, name string) (NodeID, bool) {
	var found NodeID
	g.WalkSubtree(root, func(n *Node) {
		if found == 0 && n.Name == name {
			found = n.id
		}
	})
	return found, found != 0
}
