package panel

import (
	"fmt"

	"github.com/Faultbox/showroom/internal/engine/params"
)

// Recorder is an in-memory Surface. It records what was built and lets
// callers drive controls by label.
type Recorder struct {
	Folders []*RecordedFolder
	byLabel map[string]*RecordedControl
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{byLabel: make(map[string]*RecordedControl)}
}

// RecordedFolder is a folder created on a Recorder.
type RecordedFolder struct {
	Name     string
	Color    uint32
	Controls []*RecordedControl
	rec      *Recorder
}

// RecordedControl is a control created on a Recorder.
type RecordedControl struct {
	Label   string
	Kind    string
	Value   any
	Range   params.Range
	Options []string
	Active  bool

	onChange func(any)
}

func (c *RecordedControl) Name() string     { return c.Label }
func (c *RecordedControl) SetActive(v bool) { c.Active = v }

// AddFolder implements Surface.
func (r *Recorder) AddFolder(name string, color uint32) Folder {
	f := &RecordedFolder{Name: name, Color: color, rec: r}
	r.Folders = append(r.Folders, f)
	return f
}

// Control returns the control with label.
func (r *Recorder) Control(label string) (*RecordedControl, bool) {
	c, ok := r.byLabel[label]
	return c, ok
}

// Set changes a control's value as a user would, running its callback.
func (r *Recorder) Set(label string, v any) error {
	c, ok := r.byLabel[label]
	if !ok {
		return fmt.Errorf("no control %q", label)
	}
	c.Value = v
	c.onChange(v)
	return nil
}

// Click presses an action control.
func (r *Recorder) Click(label string) error {
	return r.Set(label, nil)
}

func (f *RecordedFolder) add(c *RecordedControl) Control {
	f.Controls = append(f.Controls, c)
	f.rec.byLabel[c.Label] = c
	return c
}

func (f *RecordedFolder) Float(label string, value float32, r params.Range, step float32, onChange func(float32)) Control {
	return f.add(&RecordedControl{Label: label, Kind: "float", Value: value, Range: r, onChange: func(v any) {
		onChange(r.Clamp(v.(float32)))
	}})
}

func (f *RecordedFolder) Int(label string, value, lo, hi int, onChange func(int)) Control {
	return f.add(&RecordedControl{Label: label, Kind: "int", Value: value, Range: params.Range{Min: float32(lo), Max: float32(hi)}, onChange: func(v any) {
		onChange(max(lo, min(hi, v.(int))))
	}})
}

func (f *RecordedFolder) Bool(label string, value bool, onChange func(bool)) Control {
	return f.add(&RecordedControl{Label: label, Kind: "bool", Value: value, onChange: func(v any) {
		onChange(v.(bool))
	}})
}

func (f *RecordedFolder) Choice(label, value string, options []string, onChange func(string)) Control {
	return f.add(&RecordedControl{Label: label, Kind: "choice", Value: value, Options: options, onChange: func(v any) {
		onChange(v.(string))
	}})
}

func (f *RecordedFolder) Action(label string, onClick func()) Control {
	return f.add(&RecordedControl{Label: label, Kind: "action", onChange: func(any) {
		onClick()
	}})
}
