package player

import (
	"fmt"
	"os/exec"
	"runtime"
)

// Browser opens media in the system browser. It has no transport controls
// and never reports playback progress.
type Browser struct {
	open   func(url string) error
	events chan Event
}

var _ Embed = (*Browser)(nil)

// NewBrowser returns an embed using the platform's URL opener.
func NewBrowser() *Browser {
	return &Browser{open: OpenURL, events: make(chan Event)}
}

// OpenURL opens url with the platform's default handler.
func OpenURL(url string) error {
	if url == "" {
		return fmt.Errorf("cannot open empty URL")
	}

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux", "freebsd", "openbsd":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	// Start rather than Run so the TUI never blocks on the browser
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	go cmd.Wait()
	return nil
}

func (b *Browser) Ready() bool { return true }

func (b *Browser) Load(m Media) error {
	if !m.Playable() {
		return ErrNotPlayable
	}
	return b.open(m.URL)
}

// Stop is a no-op; an opened tab belongs to the user.
func (b *Browser) Stop() error { return nil }

func (b *Browser) Events() <-chan Event { return b.events }

func (b *Browser) Close() error { return nil }

func (b *Browser) TogglePause() error      { return ErrUnsupported }
func (b *Browser) Seek(float64) error      { return ErrUnsupported }
func (b *Browser) AdjustVolume(int) error  { return ErrUnsupported }
func (b *Browser) ToggleMute() error       { return ErrUnsupported }
func (b *Browser) ToggleFullscreen() error { return ErrUnsupported }
