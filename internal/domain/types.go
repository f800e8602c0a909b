package domain

// CaptureState models the microphone capture lifecycle.
type CaptureState string

const (
	CaptureStateIdle      CaptureState = "idle"
	CaptureStateListening CaptureState = "listening"
)

// TranslationState models the lifecycle of the authoritative translation request.
type TranslationState string

const (
	TranslationStateIdle      TranslationState = "idle"
	TranslationStateInFlight  TranslationState = "in_flight"
	TranslationStateSucceeded TranslationState = "succeeded"
	TranslationStateFailed    TranslationState = "failed"
)

// SessionStateReason provides a structured reason for state transitions.
type SessionStateReason string

const (
	SessionReasonReady                SessionStateReason = "session_ready"
	SessionReasonListeningStarted     SessionStateReason = "listening_started"
	SessionReasonTranscriptCommitted  SessionStateReason = "transcript_committed"
	SessionReasonNoSpeech             SessionStateReason = "no_speech"
	SessionReasonCaptureFailed        SessionStateReason = "capture_failed"
	SessionReasonTranslationStarted   SessionStateReason = "translation_started"
	SessionReasonTranslationSucceeded SessionStateReason = "translation_succeeded"
	SessionReasonTranslationFailed    SessionStateReason = "translation_failed"
)

// ErrorCode identifies errors surfaced to the presentation layer.
type ErrorCode string

const (
	ErrorCodeStartup           ErrorCode = "startup"
	ErrorCodeDeviceUnavailable ErrorCode = "device_unavailable"
	ErrorCodePermissionDenied  ErrorCode = "permission_denied"
	ErrorCodeEmptyInput        ErrorCode = "empty_input"
	ErrorCodeInvalidState      ErrorCode = "invalid_state"
	ErrorCodeCaptureStream     ErrorCode = "capture_stream"
	ErrorCodeTranslation       ErrorCode = "translation"
	ErrorCodePlayback          ErrorCode = "playback"
)

// CaptureEventKind discriminates events emitted during a capture run.
type CaptureEventKind string

const (
	CaptureEventPartial CaptureEventKind = "partial"
	CaptureEventFinal   CaptureEventKind = "final"
	CaptureEventError   CaptureEventKind = "error"
	CaptureEventEnded   CaptureEventKind = "ended"
)

// CaptureEvent represents incremental recognition output from a provider.
type CaptureEvent struct {
	Kind   CaptureEventKind `json:"kind"`
	Text   string           `json:"text"`
	Reason string           `json:"reason,omitempty"`
}

// TranslationRequest is submitted atomically and is immutable afterwards.
type TranslationRequest struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	SourceLang string `json:"sourceLang"`
	TargetLang string `json:"targetLang"`
}

// TranslationResult tags a completion with the request it answers.
type TranslationResult struct {
	RequestID string `json:"requestId"`
	Text      string `json:"text"`
}

// Snapshot summarizes the session for the presentation layer.
type Snapshot struct {
	SourceLang       string           `json:"sourceLang"`
	TargetLang       string           `json:"targetLang"`
	InputText        string           `json:"inputText"`
	TranslatedText   string           `json:"translatedText"`
	CaptureState     CaptureState     `json:"captureState"`
	TranslationState TranslationState `json:"translationState"`
}
