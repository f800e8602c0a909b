package usecase

import (
	"context"
	"strings"

	"voxlate/internal/domain"
	"voxlate/internal/ports"
)

// PlaybackController speaks translated text at a fixed reduced rate.
// It keeps no state across calls; interruption of an in-progress
// utterance is the synthesizer's contract.
type PlaybackController struct {
	synth  ports.Synthesizer
	events ports.EventSink
	rate   float64
}

func NewPlaybackController(synth ports.Synthesizer, events ports.EventSink, rate float64) *PlaybackController {
	if rate <= 0 {
		rate = 1.0
	}
	return &PlaybackController{synth: synth, events: events, rate: rate}
}

// Speak synthesizes the given text in the target language. Empty text
// is a silent no-op. Synthesis runs off the caller's goroutine; a
// failure surfaces as a single playback notification.
func (p *PlaybackController) Speak(ctx context.Context, text string, languageTag string) {
	if strings.TrimSpace(text) == "" {
		return
	}

	go func() {
		if err := p.synth.Speak(ctx, text, languageTag, p.rate); err != nil {
			p.events.SessionError(domain.ErrorCodePlayback, err.Error())
		}
	}()
}

// Stop interrupts any utterance still playing.
func (p *PlaybackController) Stop() error {
	return p.synth.Stop()
}
