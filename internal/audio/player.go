package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
)

// Player plays a synthesized audio clip through ffplay. Starting a new
// clip interrupts the one still playing; playback holds the output
// device only for the duration of the clip.
type Player struct {
	command string

	mu     sync.Mutex
	cancel context.CancelFunc
}

func NewPlayer(command string) *Player {
	if command == "" {
		command = "ffplay"
	}
	return &Player{command: command}
}

// Play blocks until the clip finishes, is interrupted by a newer clip,
// or the context is cancelled.
func (p *Player) Play(ctx context.Context, clip io.Reader) error {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
	}
	playCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.mu.Unlock()
	defer cancel()

	args := []string{
		"-nodisp",
		"-autoexit",
		"-loglevel", "error",
		"-i", "-",
	}

	cmd := exec.CommandContext(playCtx, p.command, args...)
	cmd.Stdin = clip
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(playCtx.Err(), context.Canceled) {
			return nil
		}
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			return fmt.Errorf("playback process failed: %w", err)
		}
		return fmt.Errorf("playback process failed: %w: %s", err, detail)
	}
	return nil
}

// Stop interrupts the clip currently playing, if any.
func (p *Player) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	return nil
}
