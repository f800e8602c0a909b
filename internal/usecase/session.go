package usecase

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/text/language"

	"voxlate/internal/domain"
	"voxlate/internal/ports"
)

// SessionConfig controls one interactive translation session.
type SessionConfig struct {
	SourceLang string
	TargetLang string
	SpeechRate float64
	Capture    CaptureConfig
}

// Session is the top-level orchestrator of one interactive
// speech-translation session. It owns the languages and text fields
// and sequences the capture, translation, and playback controllers in
// response to user intents and asynchronous completions. Capture and
// translation are serialized: translation is triggered only after a
// finalized transcript, never concurrently with active capture.
type Session struct {
	capture    *CaptureController
	translator *TranslationCoordinator
	playback   *PlaybackController
	events     ports.EventSink

	ctx    context.Context
	cancel func()

	mu         sync.Mutex
	sourceLang string
	targetLang string
	inputText  string
}

func NewSession(
	mic ports.MicrophoneCapture,
	recognizer ports.RecognitionProvider,
	translator ports.Translator,
	synth ports.Synthesizer,
	events ports.EventSink,
	cfg SessionConfig,
) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		events:     events,
		ctx:        ctx,
		cancel:     cancel,
		sourceLang: cfg.SourceLang,
		targetLang: cfg.TargetLang,
	}
	s.capture = NewCaptureController(mic, recognizer, events, cfg.Capture, s.handleCaptureOutcome)
	s.translator = NewTranslationCoordinator(translator, events)
	s.playback = NewPlaybackController(synth, events, cfg.SpeechRate)
	return s
}

// StartCapture begins listening in the current source language.
func (s *Session) StartCapture(ctx context.Context) error {
	s.mu.Lock()
	sourceLang := s.sourceLang
	s.mu.Unlock()
	return s.capture.Start(ctx, sourceLang)
}

// StopCapture ends listening. A no-op while idle.
func (s *Session) StopCapture(ctx context.Context) error {
	return s.capture.Stop(ctx)
}

// SetInputText replaces the source text with a manual edit. Editing
// never triggers translation by itself.
func (s *Session) SetInputText(text string) {
	s.mu.Lock()
	s.inputText = text
	s.mu.Unlock()
}

// SetLanguages reconfigures the language pair. Source may equal
// target. Changing languages while listening is rejected; a stop/start
// cycle is required so recognition settings are never applied
// mid-stream.
func (s *Session) SetLanguages(sourceLang string, targetLang string) error {
	if s.capture.State() == domain.CaptureStateListening {
		return fmt.Errorf("cannot change languages while listening: %w", domain.ErrInvalidState)
	}

	source, err := normalizeLanguageTag(sourceLang)
	if err != nil {
		return err
	}
	target, err := normalizeLanguageTag(targetLang)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.sourceLang = source
	s.targetLang = target
	s.mu.Unlock()
	return nil
}

// Translate submits the current input text. Empty input is rejected
// before any provider call.
func (s *Session) Translate(ctx context.Context) (domain.TranslationRequest, error) {
	s.mu.Lock()
	text := s.inputText
	source := s.sourceLang
	target := s.targetLang
	s.mu.Unlock()
	return s.translator.Submit(ctx, text, source, target)
}

// Speak voices the last successful translation in the target language.
// A no-op when no translation exists yet.
func (s *Session) Speak(ctx context.Context) {
	text := s.translator.TranslatedText()
	s.mu.Lock()
	target := s.targetLang
	s.mu.Unlock()
	s.playback.Speak(ctx, text, target)
}

// Snapshot returns the current session view for the presentation layer.
func (s *Session) Snapshot() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.Snapshot{
		SourceLang:       s.sourceLang,
		TargetLang:       s.targetLang,
		InputText:        s.inputText,
		TranslatedText:   s.translator.TranslatedText(),
		CaptureState:     s.capture.State(),
		TranslationState: s.translator.State(),
	}
}

// Close releases the session. Devices are never held across session
// boundaries.
func (s *Session) Close() error {
	s.cancel()
	_ = s.capture.Stop(context.Background())
	return s.playback.Stop()
}

// handleCaptureOutcome receives the finalized transcript of a capture
// run. A non-empty transcript becomes the input text even when the run
// ended in a stream error; translation is auto-submitted only for
// clean runs. Capture errors were already surfaced by the controller.
func (s *Session) handleCaptureOutcome(outcome CaptureOutcome) {
	if outcome.Transcript == "" {
		return
	}

	s.mu.Lock()
	s.inputText = outcome.Transcript
	source := s.sourceLang
	target := s.targetLang
	s.mu.Unlock()

	s.events.TranscriptCommitted(outcome.Transcript)
	if outcome.Err != nil {
		return
	}
	_, _ = s.translator.Submit(s.ctx, outcome.Transcript, source, target)
}

func normalizeLanguageTag(raw string) (string, error) {
	tag, err := language.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid language tag %q: %w", raw, err)
	}
	return tag.String(), nil
}
