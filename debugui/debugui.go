// Package debugui renders a Dear ImGui inspector for a running game session:
// players, live effects and system timings.
package debugui

import (
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/blockfall/game"
)

// InputState tracks whether ImGui is consuming mouse or keyboard input.
// Frontends skip game input while it is captured.
type InputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// Inspector owns the debug windows for one session.
type Inspector struct {
	session *game.Session
	input   InputState

	sessionWindow sessionWindow
	effects       effectsWindow
	perf          performanceWindow
}

// New creates an inspector for s. It must only be rendered from the goroutine
// that ticks s.
func New(s *game.Session) *Inspector {
	return &Inspector{
		session: s,
		perf:    performanceWindow{history: NewFrameHistory(120)},
	}
}

// Input returns the capture state from the last Render.
func (in *Inspector) Input() InputState { return in.input }

// Render draws every window. Call it between the backend's BeginFrame and
// EndFrame.
func (in *Inspector) Render(dt time.Duration) {
	io := imgui.CurrentIO()
	in.input.WantCaptureMouse = io.WantCaptureMouse()
	in.input.WantCaptureKeyboard = io.WantCaptureKeyboard()

	in.sessionWindow.Render(in.session)
	in.effects.Render(in.session)
	in.perf.Render(in.session, dt)
}
