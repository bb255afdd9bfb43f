// Package audio plays synthesised fire sounds for battle events.
package audio

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"github.com/rs/zerolog"

	"github.com/Garsondee/Trenchline/internal/game"
)

const (
	sampleRate = beep.SampleRate(44100)
	// maxShotsPerStep caps how many reports one Step can queue.
	maxShotsPerStep = 6
)

// Player mixes gunshots into the speaker. A Player that failed to
// initialise, or was never initialised, ignores events.
type Player struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	volume      float64
	initialized bool
	seed        int64
	log         zerolog.Logger
}

// NewPlayer creates a player. Volume is a base-2 exponent as in
// effects.Volume: 0 is unchanged, -1 half amplitude.
func NewPlayer(volume float64, log zerolog.Logger) *Player {
	return &Player{
		mixer:  &beep.Mixer{},
		volume: volume,
		log:    log,
	}
}

// Initialize opens the speaker.
func (p *Player) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(p.mixer)
	p.initialized = true
	p.log.Debug().Float64("volume", p.volume).Msg("audio initialized")
	return nil
}

// Handle plays one report per fired event.
func (p *Player) Handle(events []game.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	shots := 0
	for _, e := range events {
		if e.Kind != game.EventFired || shots >= maxShotsPerStep {
			continue
		}
		shots++
		p.seed++
		s := p.shot(pitchFor(e), p.seed)
		speaker.Lock()
		p.mixer.Add(s)
		speaker.Unlock()
	}
}

func (p *Player) shot(pitch float64, seed int64) beep.Streamer {
	return &effects.Volume{
		Streamer: NewGunshot(sampleRate, pitch, seed),
		Base:     2,
		Volume:   p.volume,
		Silent:   math.IsInf(p.volume, -1),
	}
}

// Close silences the mixer.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	p.initialized = false
}

// pitchFor lowers enemy reports slightly so the two lines sound apart.
func pitchFor(e game.Event) float64 {
	if e.Side == game.SideEnemy {
		return 0.85
	}
	return 1
}
