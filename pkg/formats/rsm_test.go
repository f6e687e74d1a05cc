package formats

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// sampleRSM is a two-node model: a base and an animated arm.
func sampleRSM(minor uint8) *RSM {
	identity := [9]float32{1, 0, 0, 0, 1, 0, 0, 0, 1}
	return &RSM{
		Version:    RSMVersion{1, minor},
		AnimLength: 1000,
		Shading:    RSMShadingSmooth,
		Alpha:      1,
		Textures:   []string{"speaker.bmp", "grille.bmp"},
		RootNode:   "base",
		Nodes: []RSMNode{
			{
				Name:       "base",
				TextureIDs: []int32{0},
				Matrix:     identity,
				Scale:      [3]float32{1, 1, 1},
				Vertices:   [][3]float32{{0, 0, 0}, {10, 0, 0}, {0, 10, 0}},
				TexCoords: []RSMTexCoord{
					{Color: [4]uint8{255, 255, 255, 255}, U: 0, V: 0},
					{Color: [4]uint8{255, 255, 255, 255}, U: 1, V: 0},
					{Color: [4]uint8{255, 255, 255, 255}, U: 0, V: 1},
				},
				Faces: []RSMFace{{VertexIDs: [3]uint16{0, 1, 2}, TexCoordIDs: [3]uint16{0, 1, 2}, TwoSide: 1}},
			},
			{
				Name:       "arm",
				Parent:     "base",
				TextureIDs: []int32{1},
				Matrix:     identity,
				Position:   [3]float32{0, 5, 0},
				Scale:      [3]float32{1, 1, 1},
				RotKeys: []RSMRotKeyframe{
					{Frame: 0, Quaternion: [4]float32{0, 0, 0, 1}},
					{Frame: 500, Quaternion: [4]float32{0, 0.7071068, 0, 0.7071068}},
				},
			},
		},
		VolumeBoxes: []RSMVolumeBox{{Size: [3]float32{10, 10, 10}}},
	}
}

func mustMarshal(t *testing.T, m *RSM) []byte {
	t.Helper()
	data, err := m.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	return data
}

func TestParseRSM_Errors(t *testing.T) {
	valid := mustMarshal(t, sampleRSM(5))

	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{"empty", nil, ErrTruncatedRSMData},
		{"short", []byte("GRS"), ErrTruncatedRSMData},
		{"bad magic", append([]byte("XXXX"), valid[4:]...), ErrInvalidRSMMagic},
		{"version 2", append([]byte("GRSM\x02\x02"), valid[6:]...), ErrUnsupportedRSMVersion},
		{"version 0", append([]byte("GRSM\x00\x01"), valid[6:]...), ErrUnsupportedRSMVersion},
		{"header only", []byte("GRSM\x01\x05"), ErrTruncatedRSMData},
		{"cut in node", valid[:len(valid)/2], ErrTruncatedRSMData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRSM(tt.data)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRSMRoundTrip(t *testing.T) {
	for _, minor := range []uint8{1, 2, 3, 4, 5} {
		want := sampleRSM(minor)
		if minor < 5 {
			// position keys exist before 1.5, scale keys from it
			want.Nodes[1].PosKeys = []RSMPosKeyframe{{Frame: 0, Position: [3]float32{0, 5, 0}}}
		} else {
			want.Nodes[1].ScaleKeys = []RSMScaleKeyframe{{Frame: 0, Scale: [3]float32{1, 1, 1}}}
		}
		if minor < 2 {
			for i := range want.Nodes[0].TexCoords {
				want.Nodes[0].TexCoords[i].Color = [4]uint8{255, 255, 255, 255}
			}
		}

		got, err := ParseRSM(mustMarshal(t, want))
		if err != nil {
			t.Fatalf("1.%d: %v", minor, err)
		}
		if got.Version != want.Version || got.AnimLength != want.AnimLength || got.RootNode != "base" {
			t.Errorf("1.%d: header mismatch: %+v", minor, got)
		}
		if !reflect.DeepEqual(got.Textures, want.Textures) {
			t.Errorf("1.%d: textures = %v", minor, got.Textures)
		}
		if len(got.Nodes) != 2 {
			t.Fatalf("1.%d: %d nodes", minor, len(got.Nodes))
		}
		if !reflect.DeepEqual(got.Nodes[0].Vertices, want.Nodes[0].Vertices) {
			t.Errorf("1.%d: vertices = %v", minor, got.Nodes[0].Vertices)
		}
		if !reflect.DeepEqual(got.Nodes[1].RotKeys, want.Nodes[1].RotKeys) {
			t.Errorf("1.%d: rot keys = %v", minor, got.Nodes[1].RotKeys)
		}
		if len(got.Nodes[1].PosKeys) != len(want.Nodes[1].PosKeys) || len(got.Nodes[1].ScaleKeys) != len(want.Nodes[1].ScaleKeys) {
			t.Errorf("1.%d: key counts differ", minor)
		}
		if len(got.VolumeBoxes) != 1 {
			t.Errorf("1.%d: %d volume boxes", minor, len(got.VolumeBoxes))
		}
	}
}

func TestParseRSM_Alpha(t *testing.T) {
	m := sampleRSM(4)
	m.Alpha = 0.5
	got, err := ParseRSM(mustMarshal(t, m))
	if err != nil {
		t.Fatal(err)
	}
	if got.Alpha < 0.49 || got.Alpha > 0.51 {
		t.Errorf("alpha = %v", got.Alpha)
	}

	got, err = ParseRSM(mustMarshal(t, sampleRSM(3)))
	if err != nil {
		t.Fatal(err)
	}
	if got.Alpha != 1 {
		t.Errorf("pre-1.4 alpha = %v, want 1", got.Alpha)
	}
}

func TestParseRSMFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "speakers.rsm")
	if err := os.WriteFile(path, mustMarshal(t, sampleRSM(5)), 0o644); err != nil {
		t.Fatal(err)
	}
	m, err := ParseRSMFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if m.Node("arm") == nil {
		t.Error("arm node missing")
	}

	if _, err := ParseRSMFile(filepath.Join(t.TempDir(), "missing.rsm")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestRSMVersion(t *testing.T) {
	tests := []struct {
		v            RSMVersion
		major, minor uint8
		atLeast      bool
		supported    bool
	}{
		{RSMVersion{1, 5}, 1, 5, true, true},
		{RSMVersion{1, 5}, 1, 6, false, true},
		{RSMVersion{1, 1}, 1, 2, false, true},
		{RSMVersion{2, 3}, 1, 9, true, false},
		{RSMVersion{1, 0}, 1, 0, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.v.String(), func(t *testing.T) {
			if got := tt.v.AtLeast(tt.major, tt.minor); got != tt.atLeast {
				t.Errorf("AtLeast(%d, %d) = %v", tt.major, tt.minor, got)
			}
			if got := tt.v.Supported(); got != tt.supported {
				t.Errorf("Supported() = %v", got)
			}
		})
	}
}

func TestRSMHierarchy(t *testing.T) {
	m := sampleRSM(5)
	if r := m.Root(); r == nil || r.Name != "base" {
		t.Fatalf("Root() = %v", r)
	}
	kids := m.Children("base")
	if len(kids) != 1 || kids[0].Name != "arm" {
		t.Errorf("Children(base) = %v", kids)
	}
	if !m.Animated() {
		t.Error("two rotation keys should animate")
	}
	m.Nodes[1].RotKeys = m.Nodes[1].RotKeys[:1]
	if m.Animated() {
		t.Error("single key is a static pose")
	}

	m.RootNode = "missing"
	if r := m.Root(); r == nil || r.Name != "base" {
		t.Error("Root should fall back to the first node")
	}
}

func TestRSMShadingType_String(t *testing.T) {
	if RSMShadingFlat.String() != "Flat" || RSMShadingType(9).String() != "Unknown(9)" {
		t.Error("unexpected shading names")
	}
}
