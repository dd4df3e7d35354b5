// Package overlay renders the capture flash.
package overlay

import "github.com/redlightcam/extension/internal/sim"

// AlphaSource publishes the current flash opacity. Draw only reads it;
// all mutation happens on the update tick.
type AlphaSource interface {
	Active() bool
	FlashAlpha() float32
}

// Presenter draws a viewport-filling white flash at the controller's
// published opacity.
type Presenter struct {
	port   sim.OverlayPort
	source AlphaSource
}

// New creates a presenter reading alpha from source and drawing on port.
func New(port sim.OverlayPort, source AlphaSource) *Presenter {
	return &Presenter{port: port, source: source}
}

// SetVisible toggles the host-side overlay surface.
func (p *Presenter) SetVisible(visible bool) {
	p.port.SetVisible(visible)
}

// Draw renders the flash for one frame. The viewport size is read every
// call since the window can be resized between frames. The draw callback
// may run any number of times between update ticks, so Draw never mutates
// sequence state.
func (p *Presenter) Draw() {
	if !p.source.Active() {
		return
	}
	alpha := p.source.FlashAlpha()
	if alpha <= 0 {
		return
	}
	w, h := p.port.ViewportSize()
	p.port.DrawFilledRect(0, 0, w, h, 1, 1, 1, alpha)
}
