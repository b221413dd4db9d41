package debugui

import (
	"fmt"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/blockfall/board"
	"github.com/plus3/blockfall/effect"
	"github.com/plus3/blockfall/game"
)

// triggerOrigin is where manually triggered effects are centred.
var triggerOrigin = board.Point{X: board.Width / 2, Y: board.Height / 2}

type effectsWindow struct {
	last effect.Outcome
}

func (w *effectsWindow) Render(s *game.Session) {
	imgui.SetNextWindowPosV(imgui.NewVec2(10, 340), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(300, 300), imgui.CondOnce)
	if !imgui.BeginV("Effects", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	engine := s.Engine()
	now := engine.Now()
	active := engine.Active()
	imgui.Text(fmt.Sprintf("Active: %d  Pending expiries: %d", len(active), engine.Pending()))

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
	if imgui.BeginTableV("ActiveEffects", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Kind")
		imgui.TableSetupColumn("Target")
		imgui.TableSetupColumn("From")
		imgui.TableSetupColumn("Left")
		imgui.TableHeadersRow()

		for _, inst := range active {
			imgui.TableNextRow()
			imgui.TableNextColumn()
			imgui.Text(inst.Kind.String())
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", inst.Target))
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", inst.Activator))
			imgui.TableNextColumn()
			imgui.ProgressBarV(progress(inst, now), imgui.NewVec2(-1, 0), inst.Remaining(now).String())
		}
		imgui.EndTable()
	}

	if imgui.TreeNodeStr("Trigger") {
		for _, kind := range effect.Kinds() {
			if imgui.Button(kind.String()) {
				w.last = engine.Activate(kind, s.Local(), triggerOrigin)
			}
		}
		imgui.Text(fmt.Sprintf("Last: %s", w.last))
		imgui.TreePop()
	}

	imgui.End()
}

func progress(inst effect.Instance, now time.Duration) float32 {
	if inst.Duration <= 0 {
		return 0
	}
	return float32(inst.Remaining(now)) / float32(inst.Duration)
}
