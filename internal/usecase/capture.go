package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"voxlate/internal/domain"
	"voxlate/internal/ports"
)

// CaptureConfig controls capture run behavior.
type CaptureConfig struct {
	Audio          ports.AudioConfig
	Stream         ports.StreamConfig
	ChunkSize      int
	StreamingGrace time.Duration
}

// CaptureOutcome is handed to the completion callback when a capture
// run finishes, whether by explicit stop or natural end-of-stream.
type CaptureOutcome struct {
	Transcript string
	Err        error
}

type captureRun struct {
	cancel func()
	device ports.RecordSession
	stream ports.RecognitionStream

	accumulator *transcriptAccumulator
	eventsDone  chan struct{}
	audioDone   chan struct{}
}

// CaptureController owns the capture device handle and the recognition
// stream for at most one run at a time. The device is acquired lazily
// on Start and released on stop, error, or natural end-of-stream.
type CaptureController struct {
	mic      ports.MicrophoneCapture
	provider ports.RecognitionProvider
	events   ports.EventSink
	cfg      CaptureConfig
	onDone   func(CaptureOutcome)

	mu      sync.Mutex
	current *captureRun
}

func NewCaptureController(
	mic ports.MicrophoneCapture,
	provider ports.RecognitionProvider,
	events ports.EventSink,
	cfg CaptureConfig,
	onDone func(CaptureOutcome),
) *CaptureController {
	if cfg.ChunkSize < 256 {
		cfg.ChunkSize = 4096
	}
	if onDone == nil {
		onDone = func(CaptureOutcome) {}
	}
	return &CaptureController{
		mic:      mic,
		provider: provider,
		events:   events,
		cfg:      cfg,
		onDone:   onDone,
	}
}

// Start begins a capture run for the given source language. The device
// access check completes before any recognition stream is started; on
// a denied check no stream object is ever created and the state stays
// idle. Starting while already listening is a misuse error.
func (c *CaptureController) Start(ctx context.Context, sourceLang string) error {
	c.mu.Lock()
	if c.current != nil {
		c.mu.Unlock()
		return fmt.Errorf("capture already listening: %w", domain.ErrInvalidState)
	}
	c.mu.Unlock()

	if err := c.mic.RequestAccess(ctx, c.cfg.Audio); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	streamCfg := c.cfg.Stream
	streamCfg.Language = sourceLang
	stream, err := c.provider.StartStream(runCtx, streamCfg)
	if err != nil {
		cancel()
		return fmt.Errorf("failed to start recognition stream: %w", err)
	}

	device, err := c.mic.Start(runCtx, c.cfg.Audio)
	if err != nil {
		_ = stream.Close()
		cancel()
		return err
	}

	run := &captureRun{
		cancel:      cancel,
		device:      device,
		stream:      stream,
		accumulator: newTranscriptAccumulator(),
		eventsDone:  make(chan struct{}),
		audioDone:   make(chan struct{}),
	}

	c.mu.Lock()
	if c.current != nil {
		c.mu.Unlock()
		_ = device.Stop()
		_ = stream.Close()
		cancel()
		return fmt.Errorf("capture already listening: %w", domain.ErrInvalidState)
	}
	c.current = run
	c.mu.Unlock()

	go consumeCaptureEvents(run.stream, run.accumulator, c.events, run.eventsDone)
	go pumpAudioChunks(run.device, run.stream, c.cfg.ChunkSize, c.events, run.audioDone)
	go c.watch(run)

	c.events.CaptureStateChanged(domain.CaptureStateListening, domain.SessionReasonListeningStarted)
	return nil
}

// Stop ends the active run. Further event delivery ceases once the
// stream drains; committed transcript already accumulated is kept.
// Calling Stop while idle is a no-op.
func (c *CaptureController) Stop(ctx context.Context) error {
	c.mu.Lock()
	run := c.current
	c.mu.Unlock()
	if run == nil {
		return nil
	}

	if err := run.device.Stop(); err != nil {
		c.events.SessionError(domain.ErrorCodeCaptureStream, "failed to stop capture device cleanly")
	}

	if c.cfg.StreamingGrace > 0 {
		timer := time.NewTimer(c.cfg.StreamingGrace)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
		}
	}

	_ = run.stream.CloseSend()
	return nil
}

// State reports whether a run is active.
func (c *CaptureController) State() domain.CaptureState {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return domain.CaptureStateIdle
	}
	return domain.CaptureStateListening
}

// watch finalizes the run once the provider closes its event stream,
// either naturally or after Stop. The committed transcript is fully
// assembled before the completion callback fires. A stream error is
// surfaced exactly once even when fragments were already committed;
// the committed transcript itself survives the failure.
func (c *CaptureController) watch(run *captureRun) {
	<-run.eventsDone
	_ = run.device.Stop()
	<-run.audioDone

	streamErr := waitForStream(run.stream, 4*time.Second)
	if streamErr == nil {
		if reason := run.accumulator.Failure(); reason != "" {
			streamErr = errors.New(reason)
		}
	}
	transcript := run.accumulator.Final()

	c.mu.Lock()
	if c.current == run {
		c.current = nil
	}
	c.mu.Unlock()
	run.cancel()

	outcome := CaptureOutcome{Transcript: transcript, Err: streamErr}
	reason := domain.SessionReasonTranscriptCommitted
	switch {
	case streamErr != nil:
		reason = domain.SessionReasonCaptureFailed
		c.events.SessionError(domain.ErrorCodeCaptureStream, streamErr.Error())
	case transcript == "":
		reason = domain.SessionReasonNoSpeech
	}

	c.events.CaptureStateChanged(domain.CaptureStateIdle, reason)
	c.onDone(outcome)
}

func pumpAudioChunks(
	device ports.RecordSession,
	stream ports.RecognitionStream,
	chunkSize int,
	events ports.EventSink,
	done chan struct{},
) {
	defer close(done)

	if chunkSize < 256 {
		chunkSize = 4096
	}

	buf := make([]byte, chunkSize)
	for {
		n, err := device.Read(buf)
		if n > 0 {
			if sendErr := stream.SendAudio(buf[:n]); sendErr != nil {
				events.SessionError(domain.ErrorCodeCaptureStream, fmt.Sprintf("failed to stream audio: %v", sendErr))
				return
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				events.SessionError(domain.ErrorCodeCaptureStream, fmt.Sprintf("capture device error: %v", err))
			}
			_ = stream.CloseSend()
			return
		}
	}
}

func waitForStream(stream ports.RecognitionStream, timeout time.Duration) error {
	done := make(chan error, 1)
	go func() {
		done <- stream.Wait()
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(timeout):
		_ = stream.Close()
		return <-done
	}
}
