package audio

import (
	"math"
	"math/cmplx"
	"sync"

	"github.com/gopxl/beep/v2"
	"gonum.org/v1/gonum/dsp/fourier"
)

const (
	// FFTSize is the analysis window in samples.
	FFTSize = 2048

	minDecibels = -100.0
	maxDecibels = -30.0
	smoothing   = 0.8
)

// Analyser records the most recent mono window of whatever streams through
// it and reports its average frequency magnitude on a 0..255 byte scale.
type Analyser struct {
	mu   sync.Mutex
	ring []float64
	pos  int

	// calc guards the transform state below; mu only guards the ring.
	calc   sync.Mutex
	fft    *fourier.FFT
	window []float64
	coeff  []complex128
	smooth []float64
}

// NewAnalyser creates an analyser with an FFTSize window.
func NewAnalyser() *Analyser {
	return &Analyser{
		ring:   make([]float64, FFTSize),
		fft:    fourier.NewFFT(FFTSize),
		window: make([]float64, FFTSize),
		coeff:  make([]complex128, FFTSize/2+1),
		smooth: make([]float64, FFTSize/2),
	}
}

func (a *Analyser) wrap(s beep.Streamer) beep.Streamer {
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		n, ok := s.Stream(samples)
		a.push(samples[:n])
		return n, ok
	})
}

func (a *Analyser) push(samples [][2]float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, s := range samples {
		a.ring[a.pos] = (s[0] + s[1]) / 2
		a.pos = (a.pos + 1) % len(a.ring)
	}
}

// AverageFrequency returns the mean of the byte frequency spectrum, in [0, 256).
func (a *Analyser) AverageFrequency() float64 {
	a.calc.Lock()
	defer a.calc.Unlock()

	a.mu.Lock()
	for i := range a.window {
		a.window[i] = a.ring[(a.pos+i)%FFTSize] * blackman(i, FFTSize)
	}
	a.mu.Unlock()

	a.coeff = a.fft.Coefficients(a.coeff, a.window)

	var sum float64
	for k := range a.smooth {
		mag := cmplx.Abs(a.coeff[k]) / FFTSize
		a.smooth[k] = smoothing*a.smooth[k] + (1-smoothing)*mag
		sum += byteMagnitude(a.smooth[k])
	}
	return sum / float64(len(a.smooth))
}

func blackman(i, n int) float64 {
	x := 2 * math.Pi * float64(i) / float64(n)
	return 0.42 - 0.5*math.Cos(x) + 0.08*math.Cos(2*x)
}

func byteMagnitude(mag float64) float64 {
	if mag <= 0 {
		return 0
	}
	db := 20 * math.Log10(mag)
	v := 255 * (db - minDecibels) / (maxDecibels - minDecibels)
	return math.Floor(clamp(v, 0, 255))
}
