// Package ebiten runs the debug inspector on the Ebiten Dear ImGui backend.
package ebiten

import (
	"time"

	ebitenbackend "github.com/AllenDang/cimgui-go/backend/ebiten-backend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/blockfall/debugui"
)

// Overlay draws an inspector on top of an Ebiten game.
type Overlay struct {
	*ebitenbackend.EbitenBackend
	Inspector *debugui.Inspector
}

// NewOverlay creates the ImGui backend for an existing Ebiten window.
func NewOverlay(inspector *debugui.Inspector) *Overlay {
	backend := ebitenbackend.NewEbitenBackend()
	imgui.CurrentIO().SetIniFilename("")
	return &Overlay{EbitenBackend: backend, Inspector: inspector}
}

// Update renders one ImGui frame. Call it from ebiten.Game.Update after the
// session has ticked.
func (o *Overlay) Update(dt time.Duration) {
	o.BeginFrame()
	o.Inspector.Render(dt)
	o.EndFrame()
}

// DrawOn composites the last ImGui frame onto screen.
func (o *Overlay) DrawOn(screen *ebiten.Image) {
	o.Draw(screen)
}
