package formats

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
)

// RSM format errors.
var (
	ErrInvalidRSMMagic       = errors.New("invalid RSM magic: expected 'GRSM'")
	ErrUnsupportedRSMVersion = errors.New("unsupported RSM version")
	ErrTruncatedRSMData      = errors.New("truncated RSM data")
	ErrInvalidNodeCount      = errors.New("invalid RSM node count")
)

const (
	rsmMagic   = "GRSM"
	nameLength = 40
	maxNodes   = 10000
	maxItems   = 100000
)

// RSMVersion is the file version.
type RSMVersion struct {
	Major uint8
	Minor uint8
}

func (v RSMVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// AtLeast reports whether v >= major.minor.
func (v RSMVersion) AtLeast(major, minor uint8) bool {
	return v.Major > major || (v.Major == major && v.Minor >= minor)
}

// Supported reports whether the layout of v is understood. Only the 1.x
// family is; 2.x files use a different node layout.
func (v RSMVersion) Supported() bool {
	return v.Major == 1 && v.Minor >= 1 && v.Minor <= 5
}

// RSMShadingType is the model's shading mode.
type RSMShadingType int32

const (
	RSMShadingNone RSMShadingType = iota
	RSMShadingFlat
	RSMShadingSmooth
)

func (s RSMShadingType) String() string {
	switch s {
	case RSMShadingNone:
		return "None"
	case RSMShadingFlat:
		return "Flat"
	case RSMShadingSmooth:
		return "Smooth"
	default:
		return fmt.Sprintf("Unknown(%d)", s)
	}
}

// RSMTexCoord is a texture coordinate with its vertex colour (1.2+).
type RSMTexCoord struct {
	Color [4]uint8
	U, V  float32
}

// RSMFace is a triangle.
type RSMFace struct {
	VertexIDs   [3]uint16
	TexCoordIDs [3]uint16
	TextureID   uint16
	Padding     uint16
	TwoSide     int32
	SmoothGroup int32 // 1.2+
}

// RSMPosKeyframe is a position key (before 1.5).
type RSMPosKeyframe struct {
	Frame    int32
	Position [3]float32
}

// RSMRotKeyframe is a rotation key, quaternion in X, Y, Z, W order.
type RSMRotKeyframe struct {
	Frame      int32
	Quaternion [4]float32
}

// RSMScaleKeyframe is a scale key (1.5+).
type RSMScaleKeyframe struct {
	Frame int32
	Scale [3]float32
}

// RSMNode is one node of the model hierarchy. Offset and Matrix apply to
// the node's own vertices only; Position, rotation and Scale are inherited
// by children.
type RSMNode struct {
	Name       string
	Parent     string
	TextureIDs []int32

	Matrix   [9]float32
	Offset   [3]float32
	Position [3]float32
	RotAngle float32
	RotAxis  [3]float32
	Scale    [3]float32

	Vertices  [][3]float32
	TexCoords []RSMTexCoord
	Faces     []RSMFace

	PosKeys   []RSMPosKeyframe
	RotKeys   []RSMRotKeyframe
	ScaleKeys []RSMScaleKeyframe
}

// RSMVolumeBox is a collision box.
type RSMVolumeBox struct {
	Size     [3]float32
	Position [3]float32
	Rotation [3]float32
	Flag     int32 // 1.3+
}

// RSM is a parsed model file.
type RSM struct {
	Version     RSMVersion
	AnimLength  int32 // milliseconds
	Shading     RSMShadingType
	Alpha       float32
	Textures    []string
	RootNode    string
	Nodes       []RSMNode
	VolumeBoxes []RSMVolumeBox
}

// ParseRSM parses an RSM model.
func ParseRSM(data []byte) (*RSM, error) {
	if len(data) < 6 {
		return nil, ErrTruncatedRSMData
	}
	if string(data[:4]) != rsmMagic {
		return nil, ErrInvalidRSMMagic
	}
	m := &RSM{Version: RSMVersion{Major: data[4], Minor: data[5]}}
	if !m.Version.Supported() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedRSMVersion, m.Version)
	}

	r := &binReader{r: bytes.NewReader(data[6:])}
	r.read(&m.AnimLength)
	r.read(&m.Shading)
	m.Alpha = 1
	if m.Version.AtLeast(1, 4) {
		var a uint8
		r.read(&a)
		m.Alpha = float32(a) / 255
	}
	r.read(make([]byte, 16))

	m.Textures = make([]string, r.count(maxItems))
	for i := range m.Textures {
		m.Textures[i] = r.str(nameLength)
	}
	m.RootNode = r.str(nameLength)
	if r.err != nil {
		return nil, wrapRSM(r.err)
	}

	n := r.int32()
	if r.err == nil && (n < 0 || n > maxNodes) {
		return nil, ErrInvalidNodeCount
	}
	m.Nodes = make([]RSMNode, n)
	for i := range m.Nodes {
		readRSMNode(r, m.Version, &m.Nodes[i])
		if r.err != nil {
			return nil, fmt.Errorf("parsing node %d: %w", i, wrapRSM(r.err))
		}
	}

	// Volume boxes are optional trailing data.
	if r.r.Len() >= 4 {
		boxes := make([]RSMVolumeBox, r.count(1000))
		for i := range boxes {
			b := &boxes[i]
			r.read(&b.Size)
			r.read(&b.Position)
			r.read(&b.Rotation)
			if m.Version.AtLeast(1, 3) {
				r.read(&b.Flag)
			}
		}
		if r.err == nil {
			m.VolumeBoxes = boxes
		}
	}
	return m, nil
}

func wrapRSM(err error) error {
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return ErrTruncatedRSMData
	}
	return fmt.Errorf("%w: %w", ErrTruncatedRSMData, err)
}

func readRSMNode(r *binReader, v RSMVersion, n *RSMNode) {
	n.Name = r.str(nameLength)
	n.Parent = r.str(nameLength)

	n.TextureIDs = make([]int32, r.count(maxItems))
	r.read(n.TextureIDs)
	r.read(&n.Matrix)
	r.read(&n.Offset)
	r.read(&n.Position)
	r.read(&n.RotAngle)
	r.read(&n.RotAxis)
	r.read(&n.Scale)

	n.Vertices = make([][3]float32, r.count(maxItems))
	r.read(n.Vertices)

	n.TexCoords = make([]RSMTexCoord, r.count(maxItems))
	for i := range n.TexCoords {
		tc := &n.TexCoords[i]
		tc.Color = [4]uint8{255, 255, 255, 255}
		if v.AtLeast(1, 2) {
			r.read(&tc.Color)
		}
		r.read(&tc.U)
		r.read(&tc.V)
	}

	n.Faces = make([]RSMFace, r.count(maxItems))
	for i := range n.Faces {
		f := &n.Faces[i]
		r.read(&f.VertexIDs)
		r.read(&f.TexCoordIDs)
		r.read(&f.TextureID)
		r.read(&f.Padding)
		r.read(&f.TwoSide)
		if v.AtLeast(1, 2) {
			r.read(&f.SmoothGroup)
		}
	}

	if !v.AtLeast(1, 5) {
		n.PosKeys = make([]RSMPosKeyframe, r.count(maxItems))
		r.read(n.PosKeys)
	}
	n.RotKeys = make([]RSMRotKeyframe, r.count(maxItems))
	r.read(n.RotKeys)
	if v.AtLeast(1, 5) {
		n.ScaleKeys = make([]RSMScaleKeyframe, r.count(maxItems))
		r.read(n.ScaleKeys)
	}
}

// ParseRSMFile parses an RSM file from disk.
func ParseRSMFile(path string) (*RSM, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading RSM file: %w", err)
	}
	return ParseRSM(data)
}

// MarshalBinary encodes the model in its declared version.
func (m *RSM) MarshalBinary() ([]byte, error) {
	if !m.Version.Supported() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedRSMVersion, m.Version)
	}
	w := &binWriter{}
	w.buf.WriteString(rsmMagic)
	w.write([2]uint8{m.Version.Major, m.Version.Minor})
	w.write(m.AnimLength)
	w.write(m.Shading)
	if m.Version.AtLeast(1, 4) {
		w.write(uint8(m.Alpha * 255))
	}
	w.write([16]byte{})

	w.write(int32(len(m.Textures)))
	for _, t := range m.Textures {
		w.str(t, nameLength)
	}
	w.str(m.RootNode, nameLength)

	w.write(int32(len(m.Nodes)))
	for i := range m.Nodes {
		writeRSMNode(w, m.Version, &m.Nodes[i])
	}

	w.write(int32(len(m.VolumeBoxes)))
	for _, b := range m.VolumeBoxes {
		w.write(b.Size)
		w.write(b.Position)
		w.write(b.Rotation)
		if m.Version.AtLeast(1, 3) {
			w.write(b.Flag)
		}
	}
	return w.buf.Bytes(), nil
}

func writeRSMNode(w *binWriter, v RSMVersion, n *RSMNode) {
	w.str(n.Name, nameLength)
	w.str(n.Parent, nameLength)
	w.write(int32(len(n.TextureIDs)))
	w.write(n.TextureIDs)
	w.write(n.Matrix)
	w.write(n.Offset)
	w.write(n.Position)
	w.write(n.RotAngle)
	w.write(n.RotAxis)
	w.write(n.Scale)

	w.write(int32(len(n.Vertices)))
	w.write(n.Vertices)

	w.write(int32(len(n.TexCoords)))
	for _, tc := range n.TexCoords {
		if v.AtLeast(1, 2) {
			w.write(tc.Color)
		}
		w.write(tc.U)
		w.write(tc.V)
	}

	w.write(int32(len(n.Faces)))
	for _, f := range n.Faces {
		w.write(f.VertexIDs)
		w.write(f.TexCoordIDs)
		w.write(f.TextureID)
		w.write(f.Padding)
		w.write(f.TwoSide)
		if v.AtLeast(1, 2) {
			w.write(f.SmoothGroup)
		}
	}

	if !v.AtLeast(1, 5) {
		w.write(int32(len(n.PosKeys)))
		w.write(n.PosKeys)
	}
	w.write(int32(len(n.RotKeys)))
	w.write(n.RotKeys)
	if v.AtLeast(1, 5) {
		w.write(int32(len(n.ScaleKeys)))
		w.write(n.ScaleKeys)
	}
}

// Node returns the node called name, or nil.
func (m *RSM) Node(name string) *RSMNode {
	for i := range m.Nodes {
		if m.Nodes[i].Name == name {
			return &m.Nodes[i]
		}
	}
	return nil
}

// Root returns the root node, falling back to the first node.
func (m *RSM) Root() *RSMNode {
	if n := m.Node(m.RootNode); n != nil {
		return n
	}
	if len(m.Nodes) > 0 {
		return &m.Nodes[0]
	}
	return nil
}

// Children returns the nodes whose parent is name.
func (m *RSM) Children(name string) []*RSMNode {
	var out []*RSMNode
	for i := range m.Nodes {
		if n := &m.Nodes[i]; n.Parent == name && n.Name != name {
			out = append(out, n)
		}
	}
	return out
}

// Animated reports whether any node has more than one key of a kind.
// A single key is a static pose.
func (m *RSM) Animated() bool {
	if m.AnimLength <= 0 {
		return false
	}
	for i := range m.Nodes {
		n := &m.Nodes[i]
		if len(n.RotKeys) > 1 || len(n.PosKeys) > 1 || len(n.ScaleKeys) > 1 {
			return true
		}
	}
	return false
}
