package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
)

const (
	shotDuration = 220 * time.Millisecond
	thumpFreq    = 70.0
)

// gunshot is a noise crack over a low thump, both decaying exponentially.
type gunshot struct {
	rng      *rand.Rand
	rate     beep.SampleRate
	position int
	total    int
	decay    float64 // per-sample multiplier
	phase    float64
	pitch    float64
}

// NewGunshot synthesises one report. Pitch scales the thump frequency so
// different weapons sound apart; seed varies the noise.
func NewGunshot(rate beep.SampleRate, pitch float64, seed int64) beep.Streamer {
	if pitch <= 0 {
		pitch = 1
	}
	total := rate.N(shotDuration)
	return &gunshot{
		rng:   rand.New(rand.NewSource(seed)), // #nosec G404 -- sound texture only
		rate:  rate,
		total: total,
		// Fall to about -60 dB over the sample.
		decay: math.Pow(0.001, 1/float64(total)),
		pitch: pitch,
	}
}

func (g *gunshot) Stream(samples [][2]float64) (n int, ok bool) {
	if g.position >= g.total {
		return 0, false
	}
	amp := math.Pow(g.decay, float64(g.position))
	for i := range samples {
		if g.position >= g.total {
			return i, true
		}
		noise := g.rng.Float64()*2 - 1
		thump := math.Sin(2 * math.Pi * g.phase)
		// The crack dies out faster than the thump.
		val := 0.6*noise*amp*amp + 0.4*thump*amp

		samples[i][0] = val
		samples[i][1] = val

		g.phase += thumpFreq * g.pitch / float64(g.rate)
		g.phase -= math.Floor(g.phase)
		amp *= g.decay
		g.position++
	}
	return len(samples), true
}

func (g *gunshot) Err() error { return nil }
