package main

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"sync"
	"time"

	"github.com/SmileAfterBurn/social-map-care/pkg/audio"
	"github.com/SmileAfterBurn/social-map-care/pkg/core"
	"github.com/SmileAfterBurn/social-map-care/pkg/live"
)

// ffmpegSource captures microphone audio through an ffmpeg subprocess and
// implements live.Source: s16le bytes from ffmpeg's stdout are batched into
// mono float frames at the capture rate.
type ffmpegSource struct {
	mu     sync.Mutex
	cmd    *exec.Cmd
	stdout io.ReadCloser
}

func newFFmpegSource() *ffmpegSource {
	return &ffmpegSource{}
}

func micCaptureArgs(goos string) ([]string, error) {
	switch goos {
	case "darwin":
		return []string{
			"-hide_banner", "-loglevel", "error",
			"-f", "avfoundation", "-i", ":0",
			"-ac", "1", "-ar", fmt.Sprintf("%d", audio.CaptureSampleRate),
			"-f", "s16le", "-",
		}, nil
	case "linux":
		return []string{
			"-hide_banner", "-loglevel", "error",
			"-f", "pulse", "-i", "default",
			"-ac", "1", "-ar", fmt.Sprintf("%d", audio.CaptureSampleRate),
			"-f", "s16le", "-",
		}, nil
	default:
		return nil, fmt.Errorf("microphone capture is not implemented for %s; supported platforms: darwin, linux", goos)
	}
}

func (s *ffmpegSource) Start(ctx context.Context) (<-chan []float32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cmd != nil {
		return nil, core.NewInvalidRequestError("microphone capture is already running")
	}
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return nil, core.NewPermissionError("ffmpeg is required for microphone capture (install ffmpeg and ensure it is in PATH)")
	}
	args, err := micCaptureArgs(runtime.GOOS)
	if err != nil {
		return nil, core.NewPermissionError(err.Error())
	}

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("open ffmpeg stdout: %w", err)
	}
	cmd.Stderr = io.Discard
	if err := cmd.Start(); err != nil {
		return nil, core.NewPermissionError(fmt.Sprintf("start microphone capture: %v", err))
	}
	s.cmd = cmd
	s.stdout = stdout

	frames := make(chan []float32, 8)
	go pumpFrames(stdout, frames)
	return frames, nil
}

// pumpFrames reads raw s16le bytes and emits normalized mono frames. The
// channel closes when ffmpeg's stdout does.
func pumpFrames(r io.Reader, frames chan<- []float32) {
	defer close(frames)
	buf := make([]byte, live.FrameSamples*2)
	for {
		n, err := io.ReadFull(r, buf)
		if n > 1 {
			samples := n / 2
			frame := make([]float32, samples)
			for i := 0; i < samples; i++ {
				sample := int16(uint16(buf[i*2]) | uint16(buf[i*2+1])<<8)
				frame[i] = float32(sample) / 32768.0
			}
			frames <- frame
		}
		if err != nil {
			return
		}
	}
}

func (s *ffmpegSource) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cmd == nil {
		return nil
	}
	if s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
		_ = s.cmd.Wait()
	}
	s.cmd = nil
	s.stdout = nil
	return nil
}

// ffplayPlayer renders PCM through an ffplay subprocess and implements
// live.Player. Clips arrive in timeline order and the stdin pipe plays them
// back to back, so the scheduler's start position only drives bookkeeping;
// stopping a clip restarts ffplay, which drops everything still buffered.
type ffplayPlayer struct {
	mu    sync.Mutex
	cmd   *exec.Cmd
	stdin io.WriteCloser
	epoch time.Time
	gen   int
}

func newFFplayPlayer() (*ffplayPlayer, error) {
	if _, err := exec.LookPath("ffplay"); err != nil {
		return nil, core.NewPermissionError("ffplay is required for audio playback (install ffmpeg/ffplay and ensure it is in PATH)")
	}
	p := &ffplayPlayer{epoch: time.Now()}
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.startLocked(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *ffplayPlayer) startLocked() error {
	// ffplay does not accept ffmpeg-style `-ac`; use `-ch_layout mono`.
	cmd := exec.Command("ffplay",
		"-hide_banner",
		"-nodisp",
		"-loglevel", "error",
		"-f", "s16le",
		"-ch_layout", "mono",
		"-ar", fmt.Sprintf("%d", audio.PlaybackSampleRate),
		"-i", "-",
	)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("open ffplay stdin: %w", err)
	}
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	if err := cmd.Start(); err != nil {
		_ = stdin.Close()
		return fmt.Errorf("start ffplay: %w", err)
	}
	p.cmd = cmd
	p.stdin = stdin
	return nil
}

func (p *ffplayPlayer) Now() float64 {
	return time.Since(p.epoch).Seconds()
}

func (p *ffplayPlayer) Play(buf *audio.Buffer, at float64) (live.Handle, error) {
	pcm := audio.BufferToPCM16(buf)
	if len(pcm) == 0 {
		return noopHandle{}, nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stdin == nil {
		return nil, fmt.Errorf("ffplay is not running")
	}
	if _, err := p.stdin.Write(pcm); err != nil {
		return nil, fmt.Errorf("write playback audio: %w", err)
	}
	return &ffplayHandle{player: p, gen: p.gen}, nil
}

func (p *ffplayPlayer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closeLocked()
}

func (p *ffplayPlayer) closeLocked() error {
	if p.stdin != nil {
		_ = p.stdin.Close()
	}
	if p.cmd != nil && p.cmd.Process != nil {
		_ = p.cmd.Process.Kill()
		_ = p.cmd.Wait()
	}
	p.cmd = nil
	p.stdin = nil
	return nil
}

// ffplayHandle is one written clip. Stopping any clip of the current
// generation restarts ffplay; subsequent stops from the same interruption
// are no-ops because the generation already advanced.
type ffplayHandle struct {
	player *ffplayPlayer
	gen    int
}

func (h *ffplayHandle) Stop() {
	p := h.player
	p.mu.Lock()
	defer p.mu.Unlock()
	if h.gen != p.gen {
		return
	}
	p.gen++
	_ = p.closeLocked()
	if err := p.startLocked(); err != nil {
		// Playback stays down until the next session builds a fresh player.
		p.cmd = nil
		p.stdin = nil
	}
}

type noopHandle struct{}

func (noopHandle) Stop() {}
