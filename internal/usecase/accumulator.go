package usecase

import (
	"strings"
	"sync"

	"voxlate/internal/domain"
	"voxlate/internal/ports"
)

// transcriptAccumulator buffers incremental recognition output for one
// capture run. Partial hypotheses only refresh the working buffer used
// for live feedback; the committed transcript is built from final
// fragments in arrival order and is never reordered or deduplicated.
type transcriptAccumulator struct {
	mu      sync.Mutex
	working string
	finals  []string
	failure string
}

func newTranscriptAccumulator() *transcriptAccumulator {
	return &transcriptAccumulator{}
}

func (a *transcriptAccumulator) Add(event domain.CaptureEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch event.Kind {
	case domain.CaptureEventPartial:
		if text := strings.TrimSpace(event.Text); text != "" {
			a.working = text
		}
	case domain.CaptureEventFinal:
		if text := strings.TrimSpace(event.Text); text != "" {
			a.finals = append(a.finals, text)
			a.working = ""
		}
	case domain.CaptureEventError:
		a.failure = strings.TrimSpace(event.Reason)
	}
}

// Working returns the current uncommitted hypothesis.
func (a *transcriptAccumulator) Working() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.working
}

// Final returns the committed transcript. Empty is a valid outcome and
// must not trigger downstream translation.
func (a *transcriptAccumulator) Final() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return strings.Join(a.finals, " ")
}

// Failure returns the provider-reported error reason, if any.
func (a *transcriptAccumulator) Failure() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.failure
}

func consumeCaptureEvents(
	stream ports.RecognitionStream,
	accumulator *transcriptAccumulator,
	events ports.EventSink,
	done chan struct{},
) {
	defer close(done)

	for event := range stream.Events() {
		accumulator.Add(event)
		if event.Kind == domain.CaptureEventPartial {
			if text := strings.TrimSpace(event.Text); text != "" {
				events.PartialTranscript(text)
			}
		}
	}
}
