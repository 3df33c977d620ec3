package player

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"

	"github.com/abelbrown/hogwash/internal/logging"
)

const (
	eventBuffer  = 64
	dialInterval = 100 * time.Millisecond
)

// ErrConnectionClosed is reported when the IPC socket drops.
var ErrConnectionClosed = errors.New("mpv connection closed")

// observed property ids
const (
	propTimePos = iota + 1
	propDuration
	propPause
)

// Mpv controls an idle mpv process through its JSON IPC socket. Commands
// are fire-and-forget; state comes back as events.
type Mpv struct {
	command string
	args    []string
	socket  string

	mu       sync.Mutex
	conn     net.Conn
	proc     *exec.Cmd
	reqID    int
	duration float64

	ready  atomic.Bool
	events chan Event
	done   chan struct{}
	once   sync.Once
}

var _ Embed = (*Mpv)(nil)

// NewMpv prepares a driver. Nothing runs until Start.
func NewMpv(command string, args []string, socket string) *Mpv {
	return &Mpv{
		command: command,
		args:    args,
		socket:  socket,
		events:  make(chan Event, eventBuffer),
		done:    make(chan struct{}),
	}
}

// Start launches mpv in idle mode and connects to its socket. ctx bounds
// the connection wait, not the process lifetime.
func (m *Mpv) Start(ctx context.Context) error {
	_ = os.Remove(m.socket) // stale socket from a crashed run

	args := append([]string{}, m.args...)
	args = append(args, "--idle=yes", "--really-quiet", "--input-ipc-server="+m.socket)

	proc := exec.Command(m.command, args...)
	if err := proc.Start(); err != nil {
		return fmt.Errorf("start %s: %w", m.command, err)
	}
	m.mu.Lock()
	m.proc = proc
	m.mu.Unlock()

	go func() {
		err := proc.Wait()
		logging.Debug("mpv exited", "error", err)
	}()

	return m.connect(ctx)
}

// connect dials the socket until it appears or ctx ends, then observes
// playback properties and reports ready.
func (m *Mpv) connect(ctx context.Context) error {
	var conn net.Conn
	for {
		var err error
		var d net.Dialer
		conn, err = d.DialContext(ctx, "unix", m.socket)
		if err == nil {
			break
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("connect to mpv: %w", err)
		case <-time.After(dialInterval):
		}
	}

	m.mu.Lock()
	m.conn = conn
	m.mu.Unlock()

	go m.readLoop(conn)

	for id, name := range map[int]string{propTimePos: "time-pos", propDuration: "duration", propPause: "pause"} {
		if err := m.send("observe_property", id, name); err != nil {
			return err
		}
	}

	m.ready.Store(true)
	m.emit(Event{Kind: EventReady})
	logging.Info("mpv connected", "socket", m.socket)
	return nil
}

type mpvMessage struct {
	Event     string          `json:"event"`
	Name      string          `json:"name"`
	Data      json.RawMessage `json:"data"`
	Reason    string          `json:"reason"`
	FileError string          `json:"file_error"`
	Error     string          `json:"error"`
	RequestID int             `json:"request_id"`
}

func (m *Mpv) readLoop(conn net.Conn) {
	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for scanner.Scan() {
		var msg mpvMessage
		if err := json.Unmarshal(scanner.Bytes(), &msg); err != nil {
			logging.Debug("mpv: unparseable line", "error", err)
			continue
		}
		if ev, ok := m.translate(msg); ok {
			m.emit(ev)
		}
	}

	m.ready.Store(false)
	select {
	case <-m.done:
	default:
		m.emit(Event{Kind: EventError, Err: ErrConnectionClosed})
	}
}

// translate maps an IPC message to an Event. Command replies and events we
// do not surface return false.
func (m *Mpv) translate(msg mpvMessage) (Event, bool) {
	switch msg.Event {
	case "":
		if msg.Error != "" && msg.Error != "success" {
			logging.Debug("mpv command failed", "request_id", msg.RequestID, "error", msg.Error)
		}
		return Event{}, false
	case "file-loaded":
		return Event{Kind: EventLoaded}, true
	case "end-file":
		switch msg.Reason {
		case "eof":
			return Event{Kind: EventEnded}, true
		case "error":
			return Event{Kind: EventError, Err: fmt.Errorf("playback failed: %s", msg.FileError)}, true
		}
		return Event{}, false
	case "property-change":
		return m.propertyEvent(msg)
	}
	return Event{}, false
}

func (m *Mpv) propertyEvent(msg mpvMessage) (Event, bool) {
	switch msg.Name {
	case "duration":
		var d float64
		if json.Unmarshal(msg.Data, &d) == nil {
			m.mu.Lock()
			m.duration = d
			m.mu.Unlock()
		}
		return Event{}, false
	case "time-pos":
		var pos float64
		if json.Unmarshal(msg.Data, &pos) != nil {
			return Event{}, false
		}
		m.mu.Lock()
		d := m.duration
		m.mu.Unlock()
		return Event{Kind: EventProgress, Position: pos, Duration: d}, true
	case "pause":
		var paused bool
		if json.Unmarshal(msg.Data, &paused) != nil {
			return Event{}, false
		}
		if paused {
			return Event{Kind: EventPaused}, true
		}
		return Event{Kind: EventResumed}, true
	}
	return Event{}, false
}

// emit never blocks the reader; a full buffer drops the event.
func (m *Mpv) emit(ev Event) {
	select {
	case m.events <- ev:
	default:
		logging.Debug("mpv event dropped", "event", ev.String())
	}
}

func (m *Mpv) send(args ...any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.conn == nil {
		return ErrNotReady
	}
	m.reqID++
	line, err := json.Marshal(map[string]any{"command": args, "request_id": m.reqID})
	if err != nil {
		return fmt.Errorf("marshal command: %w", err)
	}
	if _, err := m.conn.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("write command: %w", err)
	}
	return nil
}

func (m *Mpv) Ready() bool { return m.ready.Load() }

func (m *Mpv) Load(media Media) error {
	if !media.Playable() {
		return ErrNotPlayable
	}
	if !m.Ready() {
		return ErrNotReady
	}
	if err := m.send("loadfile", media.URL, "replace"); err != nil {
		return err
	}
	m.mu.Lock()
	m.duration = 0
	m.mu.Unlock()
	if media.Title != "" {
		if err := m.send("set_property", "force-media-title", media.Title); err != nil {
			return err
		}
	}
	return m.send("set_property", "pause", false)
}

func (m *Mpv) Stop() error {
	if !m.Ready() {
		return nil
	}
	return m.send("stop")
}

func (m *Mpv) Events() <-chan Event { return m.events }

func (m *Mpv) TogglePause() error { return m.send("cycle", "pause") }

func (m *Mpv) Seek(seconds float64) error { return m.send("seek", seconds, "relative") }

func (m *Mpv) AdjustVolume(delta int) error { return m.send("add", "volume", delta) }

func (m *Mpv) ToggleMute() error { return m.send("cycle", "mute") }

func (m *Mpv) ToggleFullscreen() error { return m.send("cycle", "fullscreen") }

// Close asks mpv to quit and tears down the socket.
func (m *Mpv) Close() error {
	m.once.Do(func() { close(m.done) })
	_ = m.send("quit")
	m.ready.Store(false)

	m.mu.Lock()
	conn, proc := m.conn, m.proc
	m.conn = nil
	m.mu.Unlock()

	var err error
	if conn != nil {
		err = conn.Close()
	}
	if proc != nil && proc.Process != nil {
		// quit normally lands first; this only catches a wedged process
		time.AfterFunc(2*time.Second, func() { _ = proc.Process.Kill() })
	}
	_ = os.Remove(m.socket)
	return err
}
