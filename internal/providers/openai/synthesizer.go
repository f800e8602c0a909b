package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"voxlate/internal/audio"
)

// SynthesizerConfig controls speech synthesis.
type SynthesizerConfig struct {
	APIKey string
	Model  string
	Voice  string
}

// Synthesizer implements ports.Synthesizer on OpenAI speech synthesis.
// A new utterance interrupts the one still playing.
type Synthesizer struct {
	client *openai.Client
	player *audio.Player
	model  openai.SpeechModel
	voice  openai.SpeechVoice
	log    *zap.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
}

func NewSynthesizer(cfg SynthesizerConfig, player *audio.Player, log *zap.Logger) *Synthesizer {
	if cfg.Model == "" {
		cfg.Model = string(openai.TTSModel1)
	}
	if cfg.Voice == "" {
		cfg.Voice = string(openai.VoiceAlloy)
	}
	if log == nil {
		log = zap.NewNop()
	}
	s := &Synthesizer{
		player: player,
		model:  openai.SpeechModel(cfg.Model),
		voice:  openai.SpeechVoice(cfg.Voice),
		log:    log,
	}
	if strings.TrimSpace(cfg.APIKey) != "" {
		s.client = openai.NewClient(cfg.APIKey)
	}
	return s
}

func (s *Synthesizer) Speak(ctx context.Context, text string, languageTag string, rate float64) error {
	if s.client == nil {
		return errors.New("OPENAI_API_KEY is not configured")
	}
	if rate <= 0 {
		rate = 1.0
	}

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	utterCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()
	defer cancel()

	clip, err := s.client.CreateSpeech(utterCtx, openai.CreateSpeechRequest{
		Model: s.model,
		Input: text,
		Voice: s.voice,
		Speed: rate,
	})
	if err != nil {
		if errors.Is(utterCtx.Err(), context.Canceled) {
			return nil
		}
		return fmt.Errorf("speech synthesis failed: %w", err)
	}
	defer clip.Close()

	s.log.Debug("speaking utterance",
		zap.String("language", languageTag),
		zap.Float64("rate", rate),
	)

	if err := s.player.Play(utterCtx, clip); err != nil {
		if errors.Is(utterCtx.Err(), context.Canceled) {
			return nil
		}
		return err
	}
	return nil
}

// Stop interrupts the utterance currently playing, if any.
func (s *Synthesizer) Stop() error {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()
	return s.player.Stop()
}
