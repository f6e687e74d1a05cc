// Package audio plays the scene's music and ambience through beep and
// exposes a loudness reading for light effects.
package audio

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/showroom/internal/logger"
	vmath "github.com/Faultbox/showroom/pkg/math"
)

// DefaultSampleRate is the output sample rate.
const DefaultSampleRate = beep.SampleRate(44100)

// ErrNotInitialized is returned when output is requested before Init.
var ErrNotInitialized = errors.New("audio: not initialized")

// Manager owns the speaker, the output mixer and every track.
type Manager struct {
	mu sync.RWMutex

	initialized bool
	sampleRate  beep.SampleRate
	mixer       *beep.Mixer

	masterVolume float64
	muted        bool
	listener     vmath.Vec3
	tracks       []*Track

	loads errgroup.Group
	log   *zap.Logger
}

// New creates a manager. Output starts after Init.
func New() *Manager {
	return &Manager{
		masterVolume: 1.0,
		sampleRate:   DefaultSampleRate,
		mixer:        &beep.Mixer{},
		log:          logger.Named("audio"),
	}
}

// Init opens the speaker.
func (m *Manager) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}
	if err := speaker.Init(m.sampleRate, m.sampleRate.N(time.Second/30)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(m.mixer)
	m.initialized = true
	return nil
}

// Close waits for pending decodes and silences output.
func (m *Manager) Close() {
	_ = m.loads.Wait()

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.initialized {
		speaker.Clear()
	}
	m.initialized = false
}

// IsInitialized returns whether the speaker is open.
func (m *Manager) IsInitialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initialized
}

// SampleRate returns the output sample rate.
func (m *Manager) SampleRate() beep.SampleRate { return m.sampleRate }

// SetMasterVolume sets the master volume (0.0 to 1.0).
func (m *Manager) SetMasterVolume(vol float64) {
	m.mu.Lock()
	m.masterVolume = clamp(vol, 0, 1)
	m.mu.Unlock()
	m.refresh()
}

// MasterVolume returns the master volume.
func (m *Manager) MasterVolume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.masterVolume
}

// SetMuted silences every track without pausing it.
func (m *Manager) SetMuted(v bool) {
	m.mu.Lock()
	m.muted = v
	m.mu.Unlock()
	m.refresh()
}

// SetListener moves the listener for positional tracks.
func (m *Manager) SetListener(pos vmath.Vec3) {
	m.mu.Lock()
	m.listener = pos
	m.mu.Unlock()
	m.refresh()
}

func (m *Manager) refresh() {
	m.mu.RLock()
	tracks := append([]*Track(nil), m.tracks...)
	m.mu.RUnlock()
	for _, t := range tracks {
		t.applyVolume()
	}
}

func (m *Manager) gain() (float64, vmath.Vec3) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.muted {
		return 0, m.listener
	}
	return m.masterVolume, m.listener
}

// NewTrack registers an empty track. Load a buffer into it with Load or LoadAsync.
func (m *Manager) NewTrack(name string) *Track {
	t := &Track{name: name, mgr: m, volume: 1, refDistance: 1}
	m.mu.Lock()
	m.tracks = append(m.tracks, t)
	m.mu.Unlock()
	return t
}

// attach adds s to the output mixer, if the speaker is open.
func (m *Manager) attach(s beep.Streamer) error {
	if !m.IsInitialized() {
		return ErrNotInitialized
	}
	speaker.Lock()
	m.mixer.Add(s)
	speaker.Unlock()
	return nil
}

// dbBase makes effects.Volume interpret Volume as decibels.
var dbBase = math.Pow(10, 1.0/20)

// volumeToDb converts a 0-1 volume to decibels.
func volumeToDb(vol float64) float64 {
	if vol <= 0 {
		return -100
	}
	return 20 * math.Log10(vol)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// InverseDistanceGain returns the inverse-distance attenuation used by
// positional tracks, with rolloff 1.
func InverseDistanceGain(distance, refDistance float32) float64 {
	if refDistance <= 0 {
		return 1
	}
	d := math.Max(float64(distance), float64(refDistance))
	return float64(refDistance) / d
}
