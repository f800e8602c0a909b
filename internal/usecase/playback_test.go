package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"voxlate/internal/domain"
)

func TestPlaybackSpeakEmptyTextIsNoOp(t *testing.T) {
	t.Parallel()

	synth := &fakeSynthesizer{}
	events := &fakeEventSink{}
	playback := NewPlaybackController(synth, events, 0.85)

	playback.Speak(context.Background(), "", "es")
	playback.Speak(context.Background(), "   ", "es")
	time.Sleep(10 * time.Millisecond)

	if synth.callCount() != 0 {
		t.Fatalf("expected no synthesis calls")
	}
	if len(events.snapshotErrors()) != 0 {
		t.Fatalf("expected no error events")
	}
}

func TestPlaybackSpeakUsesConfiguredRate(t *testing.T) {
	t.Parallel()

	synth := &fakeSynthesizer{}
	playback := NewPlaybackController(synth, &fakeEventSink{}, 0.7)

	playback.Speak(context.Background(), "hola", "es")
	waitUntil(t, 2*time.Second, func() bool {
		return synth.callCount() == 1
	})

	last := synth.lastCall()
	if last.text != "hola" || last.languageTag != "es" || last.rate != 0.7 {
		t.Fatalf("unexpected synthesis call: %+v", last)
	}
}

func TestPlaybackSpeakFailureSurfacesSingleNotification(t *testing.T) {
	t.Parallel()

	synth := &fakeSynthesizer{err: errors.New("audio device busy")}
	events := &fakeEventSink{}
	playback := NewPlaybackController(synth, events, 1.0)

	playback.Speak(context.Background(), "hola", "es")
	waitUntil(t, 2*time.Second, func() bool {
		return len(events.snapshotErrors()) == 1
	})

	errorsGot := events.snapshotErrors()
	if errorsGot[0].code != domain.ErrorCodePlayback {
		t.Fatalf("unexpected error code: %s", errorsGot[0].code)
	}
}

func TestPlaybackRateFallsBackToUnity(t *testing.T) {
	t.Parallel()

	synth := &fakeSynthesizer{}
	playback := NewPlaybackController(synth, &fakeEventSink{}, 0)

	playback.Speak(context.Background(), "hola", "es")
	waitUntil(t, 2*time.Second, func() bool {
		return synth.callCount() == 1
	})

	if got := synth.lastCall().rate; got != 1.0 {
		t.Fatalf("expected unity rate fallback, got %v", got)
	}
}
