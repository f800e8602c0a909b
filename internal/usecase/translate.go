package usecase

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"voxlate/internal/domain"
	"voxlate/internal/ports"
)

// TranslationCoordinator serializes translation requests. At most one
// request is authoritative at a time: a later submission supersedes an
// earlier in-flight one, whose result is then discarded on completion.
// The in-flight provider call itself is not cancelled; superseding is
// a result-suppression policy, not a hard cancellation.
type TranslationCoordinator struct {
	translator ports.Translator
	events     ports.EventSink

	mu         sync.Mutex
	state      domain.TranslationState
	latestID   string
	translated string
}

func NewTranslationCoordinator(translator ports.Translator, events ports.EventSink) *TranslationCoordinator {
	return &TranslationCoordinator{
		translator: translator,
		events:     events,
		state:      domain.TranslationStateIdle,
	}
}

// Submit validates and dispatches a translation request. Empty or
// whitespace-only text is rejected before any provider call.
func (t *TranslationCoordinator) Submit(ctx context.Context, text string, sourceLang string, targetLang string) (domain.TranslationRequest, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return domain.TranslationRequest{}, domain.ErrEmptyInput
	}

	req := domain.TranslationRequest{
		ID:         uuid.NewString(),
		Text:       trimmed,
		SourceLang: sourceLang,
		TargetLang: targetLang,
	}

	t.mu.Lock()
	t.latestID = req.ID
	t.state = domain.TranslationStateInFlight
	// Emitted under the lock so sink notifications keep submission
	// order even when an earlier completion races a newer submission.
	t.events.TranslationStateChanged(domain.TranslationStateInFlight, domain.SessionReasonTranslationStarted)
	t.mu.Unlock()

	go t.perform(ctx, req)
	return req, nil
}

// State returns the state of the latest submitted request.
func (t *TranslationCoordinator) State() domain.TranslationState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// TranslatedText returns the last successful translation. A failed
// request leaves the previous good value in place.
func (t *TranslationCoordinator) TranslatedText() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.translated
}

func (t *TranslationCoordinator) perform(ctx context.Context, req domain.TranslationRequest) {
	translated, err := t.translator.Translate(ctx, req.Text, req.SourceLang, req.TargetLang)

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.latestID != req.ID {
		// Stale: a later submission owns the visible state.
		return
	}
	if err != nil {
		t.state = domain.TranslationStateFailed
		t.events.SessionError(domain.ErrorCodeTranslation, err.Error())
		t.events.TranslationStateChanged(domain.TranslationStateFailed, domain.SessionReasonTranslationFailed)
		return
	}
	t.state = domain.TranslationStateSucceeded
	t.translated = translated
	t.events.TranslationReady(domain.TranslationResult{RequestID: req.ID, Text: translated})
	t.events.TranslationStateChanged(domain.TranslationStateSucceeded, domain.SessionReasonTranslationSucceeded)
}
