package scenegraph

import (
	"cmp"
	"slices"

	"go.uber.org/zap"

	"github.com/Faultbox/showroom/internal/engine/material"
	"github.com/Faultbox/showroom/internal/engine/params"
	"github.com/Faultbox/showroom/internal/engine/parts"
	"github.com/Faultbox/showroom/internal/logger"
	"github.com/Faultbox/showroom/pkg/math"
)

// Helper colours.
var (
	helperPartColor  = [3]float32{1, 1, 0}
	helperLegColor   = [3]float32{0, 0, 1}
	helperBackColor  = [3]float32{1, 0, 0}
	helperLightColor = [3]float32{1, 1, 1}
)

const (
	axesSize       = 500
	lightGizmoSize = 15
)

var fallbackMaterial = material.Key{Category: material.Colours, Name: "White"}

// Diff summarises one Apply.
type Diff struct {
	Added    []parts.ID
	Removed  []parts.ID
	Replaced []parts.ID
	Moved    []parts.ID
	// LegHeightChanged is set when the floor moved.
	LegHeightChanged bool
}

// Empty reports whether Apply changed nothing.
func (d Diff) Empty() bool {
	return len(d.Added)+len(d.Removed)+len(d.Replaced)+len(d.Moved) == 0 && !d.LegHeightChanged
}

// Manager keeps the graph consistent with the parameters and the active
// light rig. Part nodes are tracked by parts.ID, never by name.
type Manager struct {
	graph   *Graph
	catalog *material.Catalog
	log     *zap.Logger

	parts   map[parts.ID]NodeID
	helpers map[NodeID]NodeID // bound node -> helper node
	axes    NodeID

	mainLight NodeID
	discoRig  NodeID
	current   params.Geometry
	applied   bool
}

// NewManager creates a manager over graph. The catalog may be nil, in which
// case material keys are used unchecked.
func NewManager(graph *Graph, catalog *material.Catalog) *Manager {
	return &Manager{
		graph:   graph,
		catalog: catalog,
		log:     logger.Named("scene"),
		parts:   make(map[parts.ID]NodeID),
		helpers: make(map[NodeID]NodeID),
	}
}

// Graph returns the managed graph.
func (m *Manager) Graph() *Graph { return m.graph }

// Params returns the parameters of the last Apply.
func (m *Manager) Params() params.Geometry { return m.current }

// Apply derives the parts for g and patches the graph so the part set
// equals the derived set exactly.
func (m *Manager) Apply(g params.Geometry) Diff {
	g = g.Clamp()
	next := parts.Derive(g)
	var d Diff
	d.LegHeightChanged = m.applied && g.LegHeight != m.current.LegHeight

	// Stale parts and their helpers go first.
	for _, id := range sortedIDs(m.parts) {
		if _, keep := next[id]; keep {
			continue
		}
		nid := m.parts[id]
		m.removeHelper(nid)
		m.graph.Remove(nid)
		delete(m.parts, id)
		d.Removed = append(d.Removed, id)
	}

	for _, id := range sortedIDs(next) {
		p := next[id]
		nid, ok := m.parts[id]
		node, live := m.graph.Get(nid)
		if !ok || !live {
			m.parts[id] = m.graph.Add(m.graph.Root(), NewMesh(id.String(), m.meshFor(p), p.Transform))
			d.Added = append(d.Added, id)
			continue
		}
		if id.Kind == parts.DiscoBall {
			// Spin is animation state owned by the reactive driver.
			p.Transform.Rotation = node.Transform.Rotation
		}
		if node.Mesh.Shape != p.Shape {
			m.removeHelper(nid)
			node.Mesh = ptr(m.meshFor(p))
			node.Transform = p.Transform
			d.Replaced = append(d.Replaced, id)
			continue
		}
		if node.Transform != p.Transform {
			node.Transform = p.Transform
			d.Moved = append(d.Moved, id)
		}
		node.Mesh.Material = m.resolve(p.Material)
		node.Mesh.CastShadow = p.CastShadow
		node.Mesh.ReceiveShadow = p.ReceiveShadow
	}

	if light, ok := m.graph.Get(m.mainLight); ok {
		light.Transform.Position = math.Vec3{X: g.LightX, Y: g.LightY, Z: g.LightZ}
	}

	m.current = g
	m.applied = true
	m.syncAxes()
	m.syncHelpers()
	m.RefreshHelpers()

	if len(d.Added)+len(d.Removed)+len(d.Replaced) > 0 {
		m.log.Debug("parts applied",
			zap.Int("added", len(d.Added)),
			zap.Int("removed", len(d.Removed)),
			zap.Int("replaced", len(d.Replaced)),
			zap.Int("legs", g.LegCount))
	}
	return d
}

func ptr[T any](v T) *T { return &v }

func (m *Manager) meshFor(p parts.Part) Mesh {
	return Mesh{
		Shape:         p.Shape,
		Material:      m.resolve(p.Material),
		CastShadow:    p.CastShadow,
		ReceiveShadow: p.ReceiveShadow,
	}
}

func (m *Manager) resolve(key material.Key) material.Key {
	if m.catalog == nil {
		return key
	}
	if _, ok := m.catalog.Lookup(key); ok {
		return key
	}
	m.log.Warn("unknown material, using fallback", zap.Stringer("material", key))
	return fallbackMaterial
}

func sortedIDs[V any](set map[parts.ID]V) []parts.ID {
	ids := make([]parts.ID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b parts.ID) int {
		if c := cmp.Compare(a.Kind, b.Kind); c != 0 {
			return c
		}
		return cmp.Compare(a.Index, b.Index)
	})
	return ids
}

// Parts returns a copy of the part-to-node table.
func (m *Manager) Parts() map[parts.ID]NodeID {
	out := make(map[parts.ID]NodeID, len(m.parts))
	for id, nid := range m.parts {
		out[id] = nid
	}
	return out
}

// PartNode returns the node for a part, if present.
func (m *Manager) PartNode(id parts.ID) (*Node, bool) {
	nid, ok := m.parts[id]
	if !ok {
		return nil, false
	}
	return m.graph.Get(nid)
}

// SetMainLight registers the primary spot light node.
func (m *Manager) SetMainLight(id NodeID) { m.mainLight = id }

// SetDiscoRig registers the disco light group node.
func (m *Manager) SetDiscoRig(id NodeID) { m.discoRig = id }

// ShowMainLight attaches the primary light. It is idempotent.
func (m *Manager) ShowMainLight() bool { return m.show(m.mainLight) }

// HideMainLight detaches the primary light. It is idempotent.
func (m *Manager) HideMainLight() bool { return m.hide(m.mainLight) }

// ShowDiscoRig attaches the disco light group. It is idempotent.
func (m *Manager) ShowDiscoRig() bool { return m.show(m.discoRig) }

// HideDiscoRig detaches the disco light group. It is idempotent.
func (m *Manager) HideDiscoRig() bool { return m.hide(m.discoRig) }

// MainLightVisible reports whether the primary light is in the scene.
func (m *Manager) MainLightVisible() bool { return m.graph.InScene(m.mainLight) }

// DiscoRigVisible reports whether the disco group is in the scene.
func (m *Manager) DiscoRigVisible() bool { return m.graph.InScene(m.discoRig) }

func (m *Manager) show(id NodeID) bool {
	if id == 0 || !m.graph.Attach(m.graph.Root(), id) {
		return false
	}
	m.syncHelpers()
	return true
}

func (m *Manager) hide(id NodeID) bool {
	if id == 0 || !m.graph.Detach(id) {
		return false
	}
	m.syncHelpers()
	return true
}

// SetHelpersVisible toggles debug helpers and re-syncs them.
func (m *Manager) SetHelpersVisible(v bool) {
	m.current.DebugHelpersVisible = v
	m.syncHelpers()
}

// SetAxesVisible toggles the axes helper.
func (m *Manager) SetAxesVisible(v bool) {
	m.current.AxesVisible = v
	m.syncAxes()
}

// helperTargets lists every node that should carry a helper right now.
func (m *Manager) helperTargets() map[NodeID][3]float32 {
	want := make(map[NodeID][3]float32)
	if !m.current.DebugHelpersVisible {
		return want
	}
	for id, nid := range m.parts {
		switch id.Kind {
		case parts.Leg:
			want[nid] = helperLegColor
		case parts.ChairBack, parts.ChairBackLegLeft, parts.ChairBackLegRight:
			want[nid] = helperBackColor
		default:
			want[nid] = helperPartColor
		}
	}
	if m.graph.InScene(m.mainLight) {
		want[m.mainLight] = helperLightColor
	}
	if m.graph.InScene(m.discoRig) {
		m.graph.WalkSubtree(m.discoRig, func(n *Node) {
			if n.Light != nil {
				want[n.id] = n.Light.Color
			}
		})
	}
	return want
}

func (m *Manager) syncHelpers() {
	want := m.helperTargets()
	for target, hid := range m.helpers {
		if _, ok := want[target]; !ok || !m.graph.Contains(target) {
			m.graph.Remove(hid)
			delete(m.helpers, target)
		}
	}
	for target, color := range want {
		if _, ok := m.helpers[target]; ok {
			continue
		}
		h := &Node{Name: "helper", Kind: KindHelper, Transform: math.NewTransform(), Visible: true,
			Helper: &Helper{Target: target, Color: color}}
		h.Helper.Bounds = m.targetBounds(target)
		m.helpers[target] = m.graph.Add(m.graph.Root(), h)
	}
}

func (m *Manager) removeHelper(target NodeID) {
	if hid, ok := m.helpers[target]; ok {
		m.graph.Remove(hid)
		delete(m.helpers, target)
	}
}

func (m *Manager) syncAxes() {
	switch {
	case m.current.AxesVisible && m.axes == 0:
		n := &Node{Name: "axes", Kind: KindAxes, Transform: math.NewTransform(), Visible: true,
			Helper: &Helper{AxesSize: axesSize}}
		m.axes = m.graph.Add(m.graph.Root(), n)
	case !m.current.AxesVisible && m.axes != 0:
		m.graph.Remove(m.axes)
		m.axes = 0
	}
}

func (m *Manager) targetBounds(target NodeID) math.AABB {
	b := m.graph.WorldBounds(target)
	if b.IsEmpty() {
		p := m.graph.WorldPosition(target)
		e := math.Vec3{X: lightGizmoSize, Y: lightGizmoSize, Z: lightGizmoSize}
		b = math.AABB{Min: p.Sub(e), Max: p.Add(e)}
	}
	return b
}

// RefreshHelpers recomputes every helper's bounds from its bound node.
func (m *Manager) RefreshHelpers() {
	for target, hid := range m.helpers {
		h, ok := m.graph.Get(hid)
		if !ok {
			delete(m.helpers, target)
			continue
		}
		h.Helper.Bounds = m.targetBounds(target)
	}
}

// HelperTargets returns the nodes currently carrying a helper.
func (m *Manager) HelperTargets() []NodeID {
	out := make([]NodeID, 0, len(m.helpers))
	for target := range m.helpers {
		out = append(out, target)
	}
	slices.Sort(out)
	return out
}

// HelperFor returns the helper node bound to target.
func (m *Manager) HelperFor(target NodeID) (*Node, bool) {
	hid, ok := m.helpers[target]
	if !ok {
		return nil, false
	}
	return m.graph.Get(hid)
}

// AxesVisible reports whether the axes helper is in the scene.
func (m *Manager) AxesVisible() bool { return m.axes != 0 && m.graph.Contains(m.axes) }
