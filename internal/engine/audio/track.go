package audio

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
	"go.uber.org/zap"

	vmath "github.com/Faultbox/showroom/pkg/math"
)

// Track is one looping or one-shot sound, optionally placed in the scene.
// Play requested before the buffer arrives takes effect once it loads.
//
// The speaker goroutine holds speaker.Lock while it streams and reads loop
// from there, so mu is never held while taking speaker.Lock.
type Track struct {
	name string
	mgr  *Manager
	loop atomic.Bool

	mu          sync.Mutex
	volume      float64
	refDistance float32
	positional  bool
	position    vmath.Vec3

	playing bool
	starts  int

	buf  *beep.Buffer
	ctrl *beep.Ctrl
	vol  *effects.Volume
	taps []*Analyser
}

// Name returns the track name.
func (t *Track) Name() string { return t.name }

// SetLoop sets whether playback restarts at the end.
func (t *Track) SetLoop(v bool) { t.loop.Store(v) }

// SetVolume sets the track volume (0.0 to 1.0).
func (t *Track) SetVolume(v float64) {
	t.mu.Lock()
	t.volume = clamp(v, 0, 1)
	t.mu.Unlock()
	t.applyVolume()
}

// Volume returns the track volume.
func (t *Track) Volume() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.volume
}

// SetRefDistance sets the distance under which a positional track plays at full volume.
func (t *Track) SetRefDistance(d float32) {
	t.mu.Lock()
	t.refDistance = d
	t.mu.Unlock()
	t.applyVolume()
}

// SetPosition places the track in the scene, making it positional.
func (t *Track) SetPosition(p vmath.Vec3) {
	t.mu.Lock()
	t.positional = true
	t.position = p
	t.mu.Unlock()
	t.applyVolume()
}

// Tap routes the track's output through a.
func (t *Track) Tap(a *Analyser) {
	t.mu.Lock()
	t.taps = append(t.taps, a)
	t.mu.Unlock()
}

// EffectiveVolume is the linear gain after master, mute and distance.
func (t *Track) EffectiveVolume() float64 {
	master, listener := t.mgr.gain()
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.effectiveLocked(master, listener)
}

func (t *Track) effectiveLocked(master float64, listener vmath.Vec3) float64 {
	g := master * t.volume
	if t.positional {
		g *= InverseDistanceGain(t.position.Distance(listener), t.refDistance)
	}
	return g
}

func (t *Track) applyVolume() {
	master, listener := t.mgr.gain()
	t.mu.Lock()
	vol := t.vol
	g := t.effectiveLocked(master, listener)
	t.mu.Unlock()
	if vol == nil {
		return
	}
	speaker.Lock()
	vol.Silent = g <= 0
	vol.Volume = volumeToDb(g)
	speaker.Unlock()
}

// Play starts or resumes playback. Calling it while playing does nothing.
func (t *Track) Play() {
	t.mu.Lock()
	if t.playing {
		t.mu.Unlock()
		return
	}
	t.playing = true
	t.mu.Unlock()
	t.start()
}

// Pause halts playback, keeping the position.
func (t *Track) Pause() {
	t.mu.Lock()
	t.playing = false
	ctrl := t.ctrl
	t.mu.Unlock()
	setPaused(ctrl, true)
}

func setPaused(ctrl *beep.Ctrl, v bool) {
	if ctrl == nil {
		return
	}
	speaker.Lock()
	ctrl.Paused = v
	speaker.Unlock()
}

// IsPlaying reports whether playback is requested.
func (t *Track) IsPlaying() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.playing
}

// Starts counts how often the stream was (re)started from the beginning.
func (t *Track) Starts() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.starts
}

// Loaded reports whether the buffer has arrived.
func (t *Track) Loaded() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.buf != nil
}

func (t *Track) start() {
	t.mu.Lock()
	if !t.playing || t.buf == nil {
		t.mu.Unlock()
		return
	}
	if t.ctrl != nil {
		ctrl := t.ctrl
		t.mu.Unlock()
		setPaused(ctrl, false)
		return
	}

	var s beep.Streamer = &loopStreamer{buf: t.buf, track: t, cur: t.buf.Streamer(0, t.buf.Len())}
	for _, a := range t.taps {
		s = a.wrap(s)
	}
	t.ctrl = &beep.Ctrl{Streamer: s}
	t.vol = &effects.Volume{Streamer: t.ctrl, Base: dbBase}
	t.starts++
	vol := t.vol
	t.mu.Unlock()

	t.applyVolume()
	if err := t.mgr.attach(vol); err != nil {
		t.mgr.log.Debug("track not routed", zap.String("track", t.name), zap.Error(err))
	}
}

// SetBuffer installs decoded audio. It must run on the owning goroutine.
func (t *Track) SetBuffer(buf *beep.Buffer) {
	t.mu.Lock()
	t.buf = buf
	t.mu.Unlock()
	t.start()
}

// loopStreamer replays a buffer from the start while its track loops.
type loopStreamer struct {
	buf   *beep.Buffer
	track *Track
	cur   beep.StreamSeeker
}

func (l *loopStreamer) Stream(samples [][2]float64) (int, bool) {
	filled := 0
	for filled < len(samples) {
		n, ok := l.cur.Stream(samples[filled:])
		filled += n
		if ok && n > 0 {
			continue
		}
		if !l.track.loop.Load() || l.buf.Len() == 0 {
			return filled, filled > 0
		}
		if err := l.cur.Seek(0); err != nil {
			return filled, filled > 0
		}
	}
	return filled, true
}

func (l *loopStreamer) Err() error { return l.cur.Err() }

// Decode reads an mp3 or wav file into a buffer resampled to rate.
func Decode(path string, rate beep.SampleRate) (*beep.Buffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}
	return DecodeBytes(data, filepath.Ext(path), rate)
}

// DecodeBytes decodes in-memory mp3 or wav data.
func DecodeBytes(data []byte, ext string, rate beep.SampleRate) (*beep.Buffer, error) {
	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
		err      error
	)
	rc := io.NopCloser(bytes.NewReader(data))
	switch strings.ToLower(ext) {
	case ".mp3":
		streamer, format, err = mp3.Decode(rc)
	case ".wav":
		streamer, format, err = wav.Decode(rc)
	default:
		return nil, fmt.Errorf("audio: unsupported format %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", ext, err)
	}
	defer streamer.Close()

	var src beep.Streamer = streamer
	if format.SampleRate != rate {
		src = beep.Resample(4, format.SampleRate, rate, streamer)
		format.SampleRate = rate
	}
	buf := beep.NewBuffer(format)
	buf.Append(src)
	return buf, nil
}

// LoadAsync decodes path on a worker goroutine and hands the buffer to
// post, which must run it on the owning goroutine. Failures are logged.
func (m *Manager) LoadAsync(t *Track, path string, post func(func()) bool) {
	m.loads.Go(func() error {
		buf, err := Decode(path, m.sampleRate)
		if err != nil {
			post(func() {
				m.log.Warn("audio load failed", zap.String("track", t.name), zap.Error(err))
			})
			return nil
		}
		post(func() {
			t.SetBuffer(buf)
			m.log.Info("audio loaded", zap.String("track", t.name),
				zap.Duration("length", m.sampleRate.D(buf.Len())))
		})
		return nil
	})
}
