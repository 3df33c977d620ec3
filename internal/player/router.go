package player

// Router sends native media to one embed and widget embeds to another.
// Controls and events follow the native side, since widgets run outside
// our reach.
type Router struct {
	native Embed
	widget Embed
	active Embed
}

var _ Embed = (*Router)(nil)

// NewRouter returns a router. native may equal widget when no media
// player is installed.
func NewRouter(native, widget Embed) *Router {
	return &Router{native: native, widget: widget, active: native}
}

func (r *Router) Ready() bool { return r.native.Ready() }

func (r *Router) Load(m Media) error {
	switch m.Kind {
	case Native:
		r.active = r.native
	case Widget:
		r.active = r.widget
	default:
		return ErrNotPlayable
	}
	return r.active.Load(m)
}

func (r *Router) Stop() error {
	return r.native.Stop()
}

func (r *Router) Events() <-chan Event { return r.native.Events() }

func (r *Router) Close() error {
	err := r.native.Close()
	if r.widget != r.native {
		if werr := r.widget.Close(); err == nil {
			err = werr
		}
	}
	return err
}

func (r *Router) TogglePause() error           { return r.active.TogglePause() }
func (r *Router) Seek(seconds float64) error   { return r.active.Seek(seconds) }
func (r *Router) AdjustVolume(delta int) error { return r.active.AdjustVolume(delta) }
func (r *Router) ToggleMute() error            { return r.active.ToggleMute() }
func (r *Router) ToggleFullscreen() error      { return r.active.ToggleFullscreen() }
