package ports

import (
	"context"
	"io"

	"voxlate/internal/domain"
)

// AudioConfig describes how the microphone should be captured.
type AudioConfig struct {
	SampleRate  int
	Channels    int
	InputFormat string
	InputDevice string
}

// RecordSession is a live microphone capture.
type RecordSession interface {
	io.ReadCloser
	Stop() error
}

// MicrophoneCapture owns access to the local capture device.
type MicrophoneCapture interface {
	// RequestAccess verifies the device can be opened. It completes (or
	// fails) before any recognition stream is started.
	RequestAccess(ctx context.Context, cfg AudioConfig) error
	Start(ctx context.Context, cfg AudioConfig) (RecordSession, error)
}

// StreamConfig describes provider-agnostic recognition settings.
type StreamConfig struct {
	Language       string
	SampleRate     int
	Channels       int
	Encoding       string
	InterimResults bool
}

// RecognitionStream is an active provider recognition session.
type RecognitionStream interface {
	SendAudio(chunk []byte) error
	CloseSend() error
	Events() <-chan domain.CaptureEvent
	Wait() error
	Close() error
}

// RecognitionProvider starts streaming recognition sessions.
type RecognitionProvider interface {
	StartStream(ctx context.Context, cfg StreamConfig) (RecognitionStream, error)
}

// Translator converts text between languages. Completion order is not
// guaranteed to match call order.
type Translator interface {
	Translate(ctx context.Context, text string, sourceLang string, targetLang string) (string, error)
}

// Synthesizer speaks text aloud. A new Speak interrupts any utterance
// still playing from the same instance.
type Synthesizer interface {
	Speak(ctx context.Context, text string, languageTag string, rate float64) error
	Stop() error
}

// EventSink emits session state and notifications to the presentation layer.
type EventSink interface {
	CaptureStateChanged(state domain.CaptureState, reason domain.SessionStateReason)
	TranslationStateChanged(state domain.TranslationState, reason domain.SessionStateReason)
	PartialTranscript(text string)
	TranscriptCommitted(text string)
	TranslationReady(result domain.TranslationResult)
	SessionError(code domain.ErrorCode, detail string)
}
