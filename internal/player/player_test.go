package player

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/abelbrown/hogwash/internal/model"
)

func TestMediaFor(t *testing.T) {
	tests := []struct {
		name    string
		video   model.Video
		kind    Kind
		wantURL string
	}{
		{
			name:    "youtube vod",
			video:   model.Video{ID: "youtube-1-0", Platform: "youtube", Variant: model.VOD{MediaID: "dQw4w9WgXcQ"}},
			kind:    Native,
			wantURL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		},
		{
			name:    "feed item without media id",
			video:   model.Video{ID: "abc", Platform: "hogclips", Variant: model.VOD{URL: "https://example.com/v.mp4"}},
			kind:    Native,
			wantURL: "https://example.com/v.mp4",
		},
		{
			name:    "live",
			video:   model.Video{ID: "live-1", Platform: "live", Variant: model.Live{MediaID: "kJQP7kiw5Fk"}},
			kind:    Native,
			wantURL: "https://www.youtube.com/watch?v=kJQP7kiw5Fk",
		},
		{
			name:    "recommendation",
			video:   model.Video{ID: "rec-0", Platform: "x", Variant: model.Recommendation{MediaID: "3tmd-ClpJxA"}},
			kind:    Native,
			wantURL: "https://www.youtube.com/watch?v=3tmd-ClpJxA",
		},
		{
			name:    "tiktok oembed",
			video:   model.Video{ID: "7325515324888255790", Platform: "tiktok", Variant: model.Clip{}},
			kind:    Widget,
			wantURL: "https://www.tiktok.com/embed/v2/7325515324888255790",
		},
		{
			name:    "tiktok mock",
			video:   model.Video{ID: "tiktok-mock-1", Platform: "tiktok", Variant: model.Clip{MockVideoID: "8-m4w_2cWwU"}},
			kind:    Native,
			wantURL: "https://www.youtube.com/watch?v=8-m4w_2cWwU",
		},
		{
			name:    "twitch",
			video:   model.Video{ID: "twitch-xqc-0", Platform: "twitch", Variant: model.Stream{UserName: "xqc"}},
			kind:    Widget,
			wantURL: "https://player.twitch.tv/?channel=xqc&parent=localhost",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := MediaFor(tt.video)
			if m.Kind != tt.kind {
				t.Errorf("kind = %s, want %s", m.Kind, tt.kind)
			}
			if m.URL != tt.wantURL {
				t.Errorf("url = %q, want %q", m.URL, tt.wantURL)
			}
		})
	}
}

func TestMediaForPostIsPreview(t *testing.T) {
	v := model.Video{ID: "x-1-0", Platform: "x", Variant: model.Post{Handle: "@hogg"}}
	m := MediaFor(v)
	if m.Kind != Preview || m.Playable() {
		t.Errorf("post media = %+v, want unplayable preview", m)
	}
}

func TestBrowser(t *testing.T) {
	var opened []string
	b := &Browser{open: func(u string) error { opened = append(opened, u); return nil }, events: make(chan Event)}

	if err := b.Load(Media{Kind: Widget, URL: "https://player.twitch.tv/?channel=xqc"}); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(opened) != 1 {
		t.Fatalf("opened = %v", opened)
	}
	if err := b.Load(Media{Kind: Preview, URL: "https://x.com"}); !errors.Is(err, ErrNotPlayable) {
		t.Errorf("preview load err = %v", err)
	}
	if err := b.TogglePause(); !errors.Is(err, ErrUnsupported) {
		t.Errorf("TogglePause err = %v", err)
	}
}

type recordingEmbed struct {
	Browser
	loads  []Media
	pauses int
}

func (r *recordingEmbed) Load(m Media) error { r.loads = append(r.loads, m); return nil }
func (r *recordingEmbed) TogglePause() error { r.pauses++; return nil }

func TestRouter(t *testing.T) {
	native := &recordingEmbed{}
	widget := &recordingEmbed{}
	r := NewRouter(native, widget)

	r.Load(Media{Kind: Widget, URL: "w"})
	r.TogglePause()
	r.Load(Media{Kind: Native, URL: "n"})
	r.TogglePause()

	if len(widget.loads) != 1 || len(native.loads) != 1 {
		t.Errorf("loads: native %d, widget %d", len(native.loads), len(widget.loads))
	}
	if widget.pauses != 1 || native.pauses != 1 {
		t.Errorf("controls should follow the active embed: native %d, widget %d", native.pauses, widget.pauses)
	}
	if err := r.Load(Media{Kind: Preview}); !errors.Is(err, ErrNotPlayable) {
		t.Errorf("preview err = %v", err)
	}
}

// fakeMpv is a socket server speaking just enough of the IPC protocol.
type fakeMpv struct {
	ln       net.Listener
	commands chan []any
	conn     chan net.Conn
}

func newFakeMpv(t *testing.T) (*fakeMpv, string) {
	t.Helper()
	socket := filepath.Join(t.TempDir(), "mpv.sock")
	ln, err := net.Listen("unix", socket)
	if err != nil {
		t.Skipf("unix sockets unavailable: %v", err)
	}
	f := &fakeMpv{ln: ln, commands: make(chan []any, 32), conn: make(chan net.Conn, 1)}
	go func() {
		c, err := ln.Accept()
		if err != nil {
			return
		}
		f.conn <- c
		scanner := bufio.NewScanner(c)
		for scanner.Scan() {
			var req struct {
				Command []any `json:"command"`
			}
			if json.Unmarshal(scanner.Bytes(), &req) == nil {
				f.commands <- req.Command
			}
		}
	}()
	t.Cleanup(func() { ln.Close() })
	return f, socket
}

func (f *fakeMpv) nextCommand(t *testing.T) []any {
	t.Helper()
	select {
	case c := <-f.commands:
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for command")
		return nil
	}
}

func nextEvent(t *testing.T, m *Mpv) Event {
	t.Helper()
	select {
	case ev := <-m.Events():
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestMpvIPC(t *testing.T) {
	fake, socket := newFakeMpv(t)
	m := NewMpv("mpv", nil, socket)

	if err := m.Load(Media{Kind: Native, URL: "u"}); !errors.Is(err, ErrNotReady) {
		t.Fatalf("Load before connect err = %v, want ErrNotReady", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := m.connect(ctx); err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	if ev := nextEvent(t, m); ev.Kind != EventReady {
		t.Fatalf("first event = %s, want ready", ev)
	}

	observed := map[string]bool{}
	for i := 0; i < 3; i++ {
		cmd := fake.nextCommand(t)
		if cmd[0] != "observe_property" {
			t.Fatalf("command = %v", cmd)
		}
		observed[cmd[2].(string)] = true
	}
	for _, p := range []string{"time-pos", "duration", "pause"} {
		if !observed[p] {
			t.Errorf("%s not observed", p)
		}
	}

	if err := m.Load(Media{Kind: Native, URL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ", Title: "Prime Cuts: hog"}); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	load := fake.nextCommand(t)
	if load[0] != "loadfile" || load[1] != "https://www.youtube.com/watch?v=dQw4w9WgXcQ" {
		t.Errorf("loadfile command = %v", load)
	}
	title := fake.nextCommand(t)
	if title[1] != "force-media-title" || title[2] != "Prime Cuts: hog" {
		t.Errorf("title command = %v", title)
	}
	fake.nextCommand(t) // unpause

	m.Seek(-10)
	if seek := fake.nextCommand(t); seek[0] != "seek" || seek[1] != float64(-10) {
		t.Errorf("seek command = %v", seek)
	}

	conn := <-fake.conn
	lines := []string{
		`{"request_id":4,"error":"success"}`,
		`{"event":"property-change","id":2,"name":"duration","data":200.5}`,
		`{"event":"property-change","id":1,"name":"time-pos","data":12.25}`,
		`{"event":"property-change","id":3,"name":"pause","data":true}`,
		`{"event":"end-file","reason":"stop"}`,
		`{"event":"end-file","reason":"eof"}`,
	}
	conn.Write([]byte(strings.Join(lines, "\n") + "\n"))

	if ev := nextEvent(t, m); ev.Kind != EventProgress || ev.Position != 12.25 || ev.Duration != 200.5 {
		t.Errorf("progress event = %+v", ev)
	}
	if ev := nextEvent(t, m); ev.Kind != EventPaused {
		t.Errorf("event = %s, want paused", ev)
	}
	if ev := nextEvent(t, m); ev.Kind != EventEnded {
		t.Errorf("event = %s, want ended (stop is not surfaced)", ev)
	}

	conn.Close()
	if ev := nextEvent(t, m); ev.Kind != EventError || !errors.Is(ev.Err, ErrConnectionClosed) {
		t.Errorf("event = %s, want connection closed", ev)
	}
	if m.Ready() {
		t.Error("driver should not be ready after the socket drops")
	}
}

func TestMpvLoadRejectsPreview(t *testing.T) {
	m := NewMpv("mpv", nil, "/nonexistent")
	if err := m.Load(Media{Kind: Preview, URL: "https://x.com"}); !errors.Is(err, ErrNotPlayable) {
		t.Errorf("err = %v", err)
	}
}
