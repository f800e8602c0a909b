package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/wailsapp/wails/v2/pkg/runtime"
	"go.uber.org/zap"

	"voxlate/internal/bootstrap"
	"voxlate/internal/config"
	"voxlate/internal/domain"
	"voxlate/internal/usecase"
)

const (
	eventCapture     = "voxlate:capture"
	eventTranslation = "voxlate:translation"
	eventPartial     = "voxlate:partial"
	eventTranscript  = "voxlate:transcript"
	eventResult      = "voxlate:result"
	eventError       = "voxlate:error"
)

// App is the Wails application root.
type App struct {
	ctx context.Context

	session *usecase.Session
	cfg     config.Config
	logger  *zap.Logger
	bootErr error
}

func NewApp() *App {
	return &App{}
}

func (a *App) startup(ctx context.Context) {
	a.ctx = ctx

	logger, err := zap.NewProduction()
	if err != nil {
		logger = zap.NewNop()
	}
	a.logger = logger

	services, err := bootstrap.Build(a, logger)
	if err != nil {
		a.bootErr = err
		a.SessionError(domain.ErrorCodeStartup, err.Error())
		return
	}

	a.cfg = services.Config
	a.session = services.Session
	a.CaptureStateChanged(domain.CaptureStateIdle, domain.SessionReasonReady)
}

func (a *App) shutdown(_ context.Context) {
	if a.session != nil {
		_ = a.session.Close()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// StartCapture begins listening in the source language.
func (a *App) StartCapture() (domain.Snapshot, error) {
	if err := a.requireReady(); err != nil {
		return domain.Snapshot{}, err
	}
	if err := a.session.StartCapture(a.ctx); err != nil {
		a.SessionError(captureErrorCode(err), err.Error())
		return domain.Snapshot{}, err
	}
	return a.session.Snapshot(), nil
}

// StopCapture ends listening. Safe to call while idle.
func (a *App) StopCapture() (domain.Snapshot, error) {
	if err := a.requireReady(); err != nil {
		return domain.Snapshot{}, err
	}
	if err := a.session.StopCapture(a.ctx); err != nil {
		a.SessionError(domain.ErrorCodeCaptureStream, err.Error())
		return domain.Snapshot{}, err
	}
	return a.session.Snapshot(), nil
}

// SetInputText replaces the source text with a manual edit.
func (a *App) SetInputText(text string) error {
	if err := a.requireReady(); err != nil {
		return err
	}
	a.session.SetInputText(text)
	return nil
}

// SetLanguages reconfigures the language pair.
func (a *App) SetLanguages(sourceLang string, targetLang string) error {
	if err := a.requireReady(); err != nil {
		return err
	}
	if err := a.session.SetLanguages(sourceLang, targetLang); err != nil {
		a.SessionError(domain.ErrorCodeInvalidState, err.Error())
		return err
	}
	return nil
}

// Translate submits the current input text for translation.
func (a *App) Translate() (domain.TranslationRequest, error) {
	if err := a.requireReady(); err != nil {
		return domain.TranslationRequest{}, err
	}
	req, err := a.session.Translate(a.ctx)
	if err != nil {
		a.SessionError(domain.ErrorCodeEmptyInput, err.Error())
		return domain.TranslationRequest{}, err
	}
	return req, nil
}

// Speak voices the last successful translation.
func (a *App) Speak() error {
	if err := a.requireReady(); err != nil {
		return err
	}
	a.session.Speak(a.ctx)
	return nil
}

// GetSnapshot returns the current session view.
func (a *App) GetSnapshot() domain.Snapshot {
	if a.session == nil {
		return domain.Snapshot{
			CaptureState:     domain.CaptureStateIdle,
			TranslationState: domain.TranslationStateIdle,
		}
	}
	return a.session.Snapshot()
}

// GetRuntimeInfo returns non-sensitive config for the UI.
func (a *App) GetRuntimeInfo() map[string]string {
	if a.bootErr != nil {
		return map[string]string{"error": a.bootErr.Error()}
	}

	return map[string]string{
		"recognition": "Deepgram " + a.cfg.Deepgram.Model,
		"translation": "OpenAI " + a.cfg.OpenAI.TranslateModel,
		"synthesis":   "OpenAI " + a.cfg.OpenAI.SpeechModel,
		"voice":       a.cfg.OpenAI.SpeechVoice,
		"sourceLang":  a.cfg.Session.SourceLang,
		"targetLang":  a.cfg.Session.TargetLang,
	}
}

func (a *App) requireReady() error {
	if a.bootErr != nil {
		return a.bootErr
	}
	if a.session == nil {
		return fmt.Errorf("application is not initialized")
	}
	return nil
}

// CaptureStateChanged emits capture lifecycle updates to the frontend.
func (a *App) CaptureStateChanged(state domain.CaptureState, reason domain.SessionStateReason) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventCapture, map[string]string{
		"state":   string(state),
		"reason":  string(reason),
		"message": sessionReasonMessage(reason),
	})
}

// TranslationStateChanged emits translation lifecycle updates.
func (a *App) TranslationStateChanged(state domain.TranslationState, reason domain.SessionStateReason) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventTranslation, map[string]string{
		"state":   string(state),
		"reason":  string(reason),
		"message": sessionReasonMessage(reason),
	})
}

// PartialTranscript emits a live recognition hypothesis.
func (a *App) PartialTranscript(text string) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventPartial, map[string]string{"text": text})
}

// TranscriptCommitted emits the finalized transcript of a capture run.
func (a *App) TranscriptCommitted(text string) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventTranscript, map[string]string{"text": text})
}

// TranslationReady emits a completed translation.
func (a *App) TranslationReady(result domain.TranslationResult) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventResult, map[string]string{
		"requestId": result.RequestID,
		"text":      result.Text,
	})
}

// SessionError emits backend errors to the UI.
func (a *App) SessionError(code domain.ErrorCode, detail string) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventError, map[string]string{
		"code":    string(code),
		"message": errorMessage(code, detail),
		"detail":  detail,
	})
}

func sessionReasonMessage(reason domain.SessionStateReason) string {
	switch reason {
	case domain.SessionReasonReady:
		return "Session ready"
	case domain.SessionReasonListeningStarted:
		return "Listening..."
	case domain.SessionReasonTranscriptCommitted:
		return "Transcript captured"
	case domain.SessionReasonNoSpeech:
		return "No speech detected"
	case domain.SessionReasonCaptureFailed:
		return "Speech capture failed"
	case domain.SessionReasonTranslationStarted:
		return "Translating..."
	case domain.SessionReasonTranslationSucceeded:
		return "Translation ready"
	case domain.SessionReasonTranslationFailed:
		return "Translation failed; previous result kept"
	default:
		return ""
	}
}

func errorMessage(code domain.ErrorCode, detail string) string {
	switch code {
	case domain.ErrorCodeStartup:
		return "Startup failed"
	case domain.ErrorCodeDeviceUnavailable:
		return "No capture device available. Check that a microphone and ffmpeg are installed."
	case domain.ErrorCodePermissionDenied:
		return "Microphone access was denied. Grant permission and try again."
	case domain.ErrorCodeEmptyInput:
		return "Nothing to translate. Enter or dictate some text first."
	case domain.ErrorCodeInvalidState:
		return "That action is not available right now. Stop listening first."
	case domain.ErrorCodeCaptureStream:
		return "Speech capture failed. Try starting the microphone again."
	case domain.ErrorCodeTranslation:
		return "Translation failed. The previous translation is kept; retry when ready."
	case domain.ErrorCodePlayback:
		return "Could not speak the translation. Check the audio output."
	default:
		if detail == "" {
			return "Unknown error"
		}
		return detail
	}
}

func captureErrorCode(err error) domain.ErrorCode {
	switch {
	case errors.Is(err, domain.ErrDeviceUnavailable):
		return domain.ErrorCodeDeviceUnavailable
	case errors.Is(err, domain.ErrPermissionDenied):
		return domain.ErrorCodePermissionDenied
	case errors.Is(err, domain.ErrInvalidState):
		return domain.ErrorCodeInvalidState
	default:
		return domain.ErrorCodeCaptureStream
	}
}
