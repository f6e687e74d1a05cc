package geometry

import (
	stdmath "math"

	"github.com/Faultbox/showroom/pkg/math"
)

// Mesh is an indexed triangle list with interleavable attributes.
type Mesh struct {
	Positions []float32 // xyz
	Normals   []float32 // xyz
	UVs       []float32 // uv
	Indices   []uint32
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Positions) / 3
}

// Bounds computes the box enclosing every vertex.
func (m *Mesh) Bounds() math.AABB {
	b := math.EmptyAABB()
	for i := 0; i+2 < len(m.Positions); i += 3 {
		b = b.Extend(math.Vec3{X: m.Positions[i], Y: m.Positions[i+1], Z: m.Positions[i+2]})
	}
	return b
}

// Interleaved packs position, normal and uv into one buffer (8 floats per vertex).
func (m *Mesh) Interleaved() []float32 {
	n := m.VertexCount()
	out := make([]float32, 0, n*8)
	for i := 0; i < n; i++ {
		out = append(out, m.Positions[i*3:i*3+3]...)
		out = append(out, m.Normals[i*3:i*3+3]...)
		out = append(out, m.UVs[i*2:i*2+2]...)
	}
	return out
}

func (m *Mesh) vertex(p, n math.Vec3, u, v float32) uint32 {
	idx := uint32(m.VertexCount())
	m.Positions = append(m.Positions, p.X, p.Y, p.Z)
	m.Normals = append(m.Normals, n.X, n.Y, n.Z)
	m.UVs = append(m.UVs, u, v)
	return idx
}

func (m *Mesh) tri(a, b, c uint32) {
	m.Indices = append(m.Indices, a, b, c)
}

func sincos(a float64) (float32, float32) {
	s, c := stdmath.Sincos(a)
	return float32(s), float32(c)
}

func buildCylinder(s Shape) *Mesh {
	m := &Mesh{}
	seg := max(s.Segments, 3)
	half := s.Height / 2
	slope := float32(0)
	if s.Height != 0 {
		slope = (s.RadiusBottom - s.RadiusTop) / s.Height
	}

	// Side: two rings, top then bottom.
	rows := [2]struct {
		r, y, v float32
	}{{s.RadiusTop, half, 0}, {s.RadiusBottom, -half, 1}}
	var ring [2][]uint32
	for row, rr := range rows {
		for x := 0; x <= seg; x++ {
			u := float32(x) / float32(seg)
			sin, cos := sincos(float64(u) * 2 * stdmath.Pi)
			p := math.Vec3{X: rr.r * sin, Y: rr.y, Z: rr.r * cos}
			n := math.Vec3{X: sin, Y: slope, Z: cos}.Normalize()
			ring[row] = append(ring[row], m.vertex(p, n, u, 1-rr.v))
		}
	}
	for x := 0; x < seg; x++ {
		a, b := ring[0][x], ring[1][x]
		c, d := ring[1][x+1], ring[0][x+1]
		m.tri(a, b, d)
		m.tri(b, c, d)
	}

	addCap := func(r, y, sign float32) {
		if r <= 0 {
			return
		}
		n := math.Vec3{Y: sign}
		centre := m.vertex(math.Vec3{Y: y}, n, 0.5, 0.5)
		first := uint32(m.VertexCount())
		for x := 0; x <= seg; x++ {
			sin, cos := sincos(float64(x) / float64(seg) * 2 * stdmath.Pi)
			m.vertex(math.Vec3{X: r * sin, Y: y, Z: r * cos}, n, cos*0.5+0.5, sin*0.5*sign+0.5)
		}
		for x := uint32(0); x < uint32(seg); x++ {
			if sign > 0 {
				m.tri(first+x, first+x+1, centre)
			} else {
				m.tri(first+x+1, first+x, centre)
			}
		}
	}
	addCap(s.RadiusTop, half, 1)
	addCap(s.RadiusBottom, -half, -1)
	return m
}

func buildTorus(s Shape) *Mesh {
	m := &Mesh{}
	radial := max(s.Segments, 3)
	tubular := max(s.Tubular, 3)

	for j := 0; j <= radial; j++ {
		for i := 0; i <= tubular; i++ {
			u := float64(i) / float64(tubular) * 2 * stdmath.Pi
			v := float64(j) / float64(radial) * 2 * stdmath.Pi
			su, cu := sincos(u)
			sv, cv := sincos(v)
			p := math.Vec3{
				X: (s.Radius + s.Tube*cv) * cu,
				Y: (s.Radius + s.Tube*cv) * su,
				Z: s.Tube * sv,
			}
			centre := math.Vec3{X: s.Radius * cu, Y: s.Radius * su}
			m.vertex(p, p.Sub(centre).Normalize(), float32(i)/float32(tubular), float32(j)/float32(radial))
		}
	}

	stride := uint32(tubular + 1)
	for j := uint32(1); j <= uint32(radial); j++ {
		for i := uint32(1); i <= uint32(tubular); i++ {
			a := stride*j + i - 1
			b := stride*(j-1) + i - 1
			c := stride*(j-1) + i
			d := stride*j + i
			m.tri(a, b, d)
			m.tri(b, c, d)
		}
	}
	return m
}

func buildSphere(s Shape) *Mesh {
	m := &Mesh{}
	ws := max(s.Segments, 3)
	hs := max(s.Rings, 2)

	grid := make([][]uint32, hs+1)
	for iy := 0; iy <= hs; iy++ {
		v := float32(iy) / float32(hs)
		sv, cv := sincos(float64(v) * stdmath.Pi)
		for ix := 0; ix <= ws; ix++ {
			u := float32(ix) / float32(ws)
			su, cu := sincos(float64(u) * 2 * stdmath.Pi)
			n := math.Vec3{X: -cu * sv, Y: cv, Z: su * sv}
			grid[iy] = append(grid[iy], m.vertex(n.Scale(s.Radius), n, u, 1-v))
		}
	}

	for iy := 0; iy < hs; iy++ {
		for ix := 0; ix < ws; ix++ {
			a := grid[iy][ix+1]
			b := grid[iy][ix]
			c := grid[iy+1][ix]
			d := grid[iy+1][ix+1]
			if iy != 0 {
				m.tri(a, b, d)
			}
			if iy != hs-1 {
				m.tri(b, c, d)
			}
		}
	}
	return m
}
