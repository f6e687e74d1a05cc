package audio

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vmath "github.com/Faultbox/showroom/pkg/math"
)

func TestVolumeConversion(t *testing.T) {
	tests := []struct {
		vol      float64
		expected float64
	}{
		{0, -100},
		{1.0, 0},
		{0.5, -6.02},
		{0.1, -20},
	}

	for _, tt := range tests {
		db := volumeToDb(tt.vol)
		assert.InDelta(t, tt.expected, db, 0.05, "volumeToDb(%v)", tt.vol)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		v, lo, hi, expected float64
	}{
		{0.5, 0, 1, 0.5},
		{-0.5, 0, 1, 0},
		{1.5, 0, 1, 1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, clamp(tt.v, tt.lo, tt.hi))
	}
}

func TestInverseDistanceGain(t *testing.T) {
	tests := []struct {
		name     string
		distance float32
		ref      float32
		expected float64
	}{
		{"inside ref", 100, 600, 1},
		{"at ref", 600, 600, 1},
		{"twice ref", 1200, 600, 0.5},
		{"no ref", 5000, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, InverseDistanceGain(tt.distance, tt.ref), 1e-9)
		})
	}
}

func TestNewManager(t *testing.T) {
	m := New()
	assert.Equal(t, 1.0, m.MasterVolume())
	assert.False(t, m.IsInitialized())
	assert.Equal(t, DefaultSampleRate, m.SampleRate())
}

func TestSetMasterVolume(t *testing.T) {
	m := New()
	m.SetMasterVolume(0.5)
	assert.Equal(t, 0.5, m.MasterVolume())
	m.SetMasterVolume(1.5)
	assert.Equal(t, 1.0, m.MasterVolume())
	m.SetMasterVolume(-0.5)
	assert.Equal(t, 0.0, m.MasterVolume())
}

func silentBuffer(n int) *beep.Buffer {
	buf := beep.NewBuffer(beep.Format{SampleRate: DefaultSampleRate, NumChannels: 2, Precision: 2})
	buf.Append(beep.Silence(n))
	return buf
}

func TestPlayBeforeLoadStartsOnce(t *testing.T) {
	m := New()
	tr := m.NewTrack("music")
	tr.Play()
	assert.True(t, tr.IsPlaying())
	assert.Equal(t, 0, tr.Starts())

	tr.SetBuffer(silentBuffer(100))
	assert.True(t, tr.Loaded())
	assert.Equal(t, 1, tr.Starts())

	tr.Play()
	assert.Equal(t, 1, tr.Starts(), "second Play must not restart")
}

func TestPauseThenPlayResumes(t *testing.T) {
	m := New()
	tr := m.NewTrack("applause")
	tr.SetBuffer(silentBuffer(100))
	assert.Equal(t, 0, tr.Starts())

	tr.Play()
	tr.Pause()
	assert.False(t, tr.IsPlaying())
	tr.Play()
	assert.True(t, tr.IsPlaying())
	assert.Equal(t, 1, tr.Starts())
}

func TestPauseBeforeLoadCancelsPlay(t *testing.T) {
	m := New()
	tr := m.NewTrack("music")
	tr.Play()
	tr.Pause()
	tr.SetBuffer(silentBuffer(100))
	assert.Equal(t, 0, tr.Starts())
}

func TestEffectiveVolume(t *testing.T) {
	m := New()
	tr := m.NewTrack("music")
	tr.SetVolume(0.5)
	tr.SetRefDistance(600)
	tr.SetPosition(vmath.Vec3{X: -800})

	m.SetListener(vmath.Vec3{X: -800, Z: 600})
	assert.InDelta(t, 0.5, tr.EffectiveVolume(), 1e-6)

	m.SetListener(vmath.Vec3{X: 400})
	assert.InDelta(t, 0.25, tr.EffectiveVolume(), 1e-6)

	m.SetMuted(true)
	assert.Equal(t, 0.0, tr.EffectiveVolume())
}

func TestLoopStreamer(t *testing.T) {
	m := New()
	tr := m.NewTrack("loop")
	buf := silentBuffer(10)

	tr.SetLoop(true)
	ls := &loopStreamer{buf: buf, track: tr, cur: buf.Streamer(0, buf.Len())}
	samples := make([][2]float64, 25)
	n, ok := ls.Stream(samples)
	assert.True(t, ok)
	assert.Equal(t, 25, n)

	tr.SetLoop(false)
	ls = &loopStreamer{buf: buf, track: tr, cur: buf.Streamer(0, buf.Len())}
	n, ok = ls.Stream(samples)
	assert.True(t, ok)
	assert.Equal(t, 10, n)
	n, ok = ls.Stream(samples)
	assert.False(t, ok)
	assert.Equal(t, 0, n)
}

func TestListenerMoveWhileStreamingLoopPoint(t *testing.T) {
	m := New()
	tr := m.NewTrack("music")
	tr.SetLoop(true)
	tr.SetPosition(vmath.Vec3{X: -800})
	buf := silentBuffer(10)
	tr.SetBuffer(buf)
	tr.Play()

	// the speaker goroutine holds this lock for a whole Stream call
	speaker.Lock()
	moved := make(chan struct{})
	go func() {
		m.SetListener(vmath.Vec3{X: 400})
		close(moved)
	}()
	time.Sleep(20 * time.Millisecond)

	streamed := make(chan int)
	go func() {
		ls := &loopStreamer{buf: buf, track: tr, cur: buf.Streamer(0, buf.Len())}
		n, _ := ls.Stream(make([][2]float64, 25))
		streamed <- n
	}()

	select {
	case n := <-streamed:
		assert.Equal(t, 25, n)
	case <-time.After(2 * time.Second):
		t.Fatal("stream blocked while a listener update waited on the speaker")
	}
	speaker.Unlock()

	select {
	case <-moved:
	case <-time.After(2 * time.Second):
		t.Fatal("listener update never finished")
	}
	assert.InDelta(t, 1.0/1200, tr.EffectiveVolume(), 1e-9)
}

func TestDecodeBytesUnsupported(t *testing.T) {
	_, err := DecodeBytes([]byte("nope"), ".ogg", DefaultSampleRate)
	require.Error(t, err)
}

func TestLoadAsyncMissingFile(t *testing.T) {
	m := New()
	tr := m.NewTrack("music")
	var posted []func()
	m.LoadAsync(tr, "does/not/exist.mp3", func(fn func()) bool {
		posted = append(posted, fn)
		return true
	})
	m.Close()

	require.Len(t, posted, 1)
	posted[0]()
	assert.False(t, tr.Loaded())
}

func TestAnalyserSilence(t *testing.T) {
	a := NewAnalyser()
	a.push(make([][2]float64, FFTSize))
	assert.Equal(t, 0.0, a.AverageFrequency())
}

func TestAnalyserTone(t *testing.T) {
	a := NewAnalyser()
	samples := make([][2]float64, FFTSize)
	for i := range samples {
		v := 0.8 * math.Sin(2*math.Pi*440*float64(i)/44100)
		samples[i] = [2]float64{v, v}
	}
	a.push(samples)

	first := a.AverageFrequency()
	assert.Greater(t, first, 0.0)
	assert.Less(t, first, 256.0)

	// smoothing converges upward on a steady tone
	second := a.AverageFrequency()
	assert.GreaterOrEqual(t, second, first)
}

func TestAnalyserWrap(t *testing.T) {
	a := NewAnalyser()
	s := a.wrap(beep.Silence(64))
	samples := make([][2]float64, 64)
	n, ok := s.Stream(samples)
	assert.True(t, ok)
	assert.Equal(t, 64, n)
}

func TestAnalyserSpectrumPeak(t *testing.T) {
	a := NewAnalyser()
	// a tone centred on bin 64 of the window
	samples := make([][2]float64, FFTSize)
	for i := range samples {
		v := 0.5 * math.Sin(2*math.Pi*64*float64(i)/FFTSize)
		samples[i] = [2]float64{v, v}
	}
	a.push(samples)
	a.AverageFrequency()

	peak := 0
	for k := range a.smooth {
		if a.smooth[k] > a.smooth[peak] {
			peak = k
		}
	}
	assert.Equal(t, 64, peak)
}

func TestBlackmanWindow(t *testing.T) {
	assert.InDelta(t, 0.0, blackman(0, FFTSize), 1e-9)
	assert.InDelta(t, 1.0, blackman(FFTSize/2, FFTSize), 1e-9)
}
