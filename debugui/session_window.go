package debugui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/blockfall/game"
)

type sessionWindow struct{}

func (sessionWindow) Render(s *game.Session) {
	imgui.SetNextWindowPosV(imgui.NewVec2(10, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(300, 320), imgui.CondOnce)
	if !imgui.BeginV("Session", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	imgui.Text(fmt.Sprintf("Mode: %s", s.Mode()))
	imgui.Text(fmt.Sprintf("Difficulty: %s", s.Config().Difficulty))
	imgui.Text(fmt.Sprintf("Seed: %d", s.Config().Seed))
	imgui.Text(fmt.Sprintf("Clock: %s", s.Now()))
	imgui.Text(fmt.Sprintf("Pending commands: %d", s.PendingCommands()))

	if over, loser := s.Over(); over {
		imgui.TextColored(imgui.NewVec4(1.0, 0.3, 0.3, 1.0), fmt.Sprintf("GAME OVER (player %d lost)", loser))
	} else if s.Paused() {
		imgui.TextColored(imgui.NewVec4(1.0, 0.8, 0.0, 1.0), "PAUSED")
		imgui.SameLine()
		if imgui.Button("Resume") {
			s.HandleAction(s.Local(), game.Pause)
		}
	}

	for _, p := range s.Players() {
		imgui.Separator()
		if !imgui.TreeNodeStr(fmt.Sprintf("Player %d", p.ID())) {
			continue
		}
		imgui.Text(fmt.Sprintf("Score: %d  Lines: %d", p.Score(), p.Lines()))
		imgui.Text(fmt.Sprintf("Drop interval: %s", p.FallSpeed()))
		blocks, lines := p.Speed().Counters()
		imgui.Text(fmt.Sprintf("Speed counters: %d blocks, %d lines", blocks, lines))
		imgui.Text(fmt.Sprintf("Clear: %s", p.ClearState()))
		imgui.Text(fmt.Sprintf("Filled cells: %d", p.Board().FilledCount()))

		imgui.Indent()
		if p.Suspended() {
			imgui.BulletText("input suspended")
		}
		if p.VisionBlocked() {
			imgui.BulletText("vision blocked")
		}
		if p.SpeedItemActive() {
			imgui.BulletText("speed item active")
		}
		if p.GameOver() {
			imgui.BulletText("topped out")
		}
		imgui.Unindent()
		imgui.TreePop()
	}

	if m, ok := s.Mirror(); ok {
		imgui.Separator()
		imgui.Text(fmt.Sprintf("Opponent mirror: %d filled cells", m.FilledCount()))
	}

	imgui.End()
}
