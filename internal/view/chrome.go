// Package view holds the presentation state and copy shared by the web and
// terminal shells.
package view

import "time"

const (
	// MobileBreakpoint is the viewport width, in CSS pixels, below which the
	// page switches to its compact layout.
	MobileBreakpoint = 768

	// OverlayDelay is how long the controls overlay stays up after the view mounts.
	OverlayDelay = 5 * time.Second
)

// Chrome is UI state that lives next to a game but never affects it.
type Chrome struct {
	ShowControls bool `json:"show_controls"`
	// AutoHidden is set once the overlay timer has fired for this view.
	AutoHidden bool `json:"auto_hidden"`
	Width      int  `json:"width"`
}

// NewChrome returns chrome for a freshly mounted view: controls shown, width unknown.
func NewChrome() Chrome {
	return Chrome{ShowControls: true}
}

func (c *Chrome) ToggleControls() { c.ShowControls = !c.ShowControls }

// AutoHide is the overlay timer firing. It hides the controls only the first
// time; later calls leave a reopened overlay alone.
func (c *Chrome) AutoHide() {
	if c.AutoHidden {
		return
	}
	c.AutoHidden = true
	c.ShowControls = false
}

// SetWidth records the viewport width. Non-positive widths mean unknown.
func (c *Chrome) SetWidth(w int) {
	if w < 0 {
		w = 0
	}
	c.Width = w
}

// Mobile reports whether the compact layout applies.
func (c Chrome) Mobile() bool {
	return c.Width > 0 && c.Width < MobileBreakpoint
}
