package main

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/plus3/blockfall/board"
	"github.com/plus3/blockfall/game"
)

const (
	cellSize       = 24
	margin         = 16
	boardTop       = 32
	sideWidth      = 140
	boardPixelsW   = board.Width * cellSize
	boardPixelsH   = board.Height * cellSize
	boardSlotWidth = margin + boardPixelsW + margin + sideWidth
	screenHeight   = boardTop + boardPixelsH + 40
)

var (
	backgroundColor = color.RGBA{18, 18, 24, 255}
	gridColor       = color.RGBA{50, 50, 62, 255}
	fogColor        = color.RGBA{28, 28, 36, 240}
	itemColor       = color.RGBA{250, 250, 250, 255}

	palette = [board.TypeCount]color.RGBA{
		{0, 220, 230, 255},
		{240, 220, 0, 255},
		{170, 60, 220, 255},
		{60, 210, 80, 255},
		{230, 60, 60, 255},
		{50, 90, 230, 255},
		{240, 150, 30, 255},
	}

	blockNames = [board.TypeCount]string{"I", "O", "T", "S", "Z", "J", "L"}

	itemLetters = map[board.Item]string{
		board.ItemBomb:        "B",
		board.ItemLineClear:   "L",
		board.ItemCleanup:     "C",
		board.ItemSpeedDown:   "-",
		board.ItemSpeedUp:     "+",
		board.ItemVisionBlock: "V",
	}
)

// boardPanel is everything drawn for one board slot.
type boardPanel struct {
	title   string
	cells   board.Grid
	dim     [board.Height][board.Width]bool
	falling []board.Point
	fog     bool
	lines   []string
}

func (a *App) boards() []boardPanel {
	var panels []boardPanel
	for _, p := range a.session.Players() {
		v, ok := a.session.View(p.ID())
		if !ok {
			continue
		}
		panels = append(panels, panelFromView(v, a.store.Best(a.cfg.Difficulty)))
	}
	if g, ok := a.session.MirrorView(); ok {
		panels = append(panels, boardPanel{title: "Opponent", cells: g})
	}
	return panels
}

func panelFromView(v game.View, best int) boardPanel {
	lines := []string{
		fmt.Sprintf("Score %d", v.Score),
		fmt.Sprintf("Lines %d", v.Lines),
		fmt.Sprintf("Best  %d", best),
		fmt.Sprintf("Drop  %s", v.DropInterval),
		fmt.Sprintf("Next  %s", blockName(v.Next)),
		fmt.Sprintf("Hold  %s", blockName(v.Hold)),
	}
	if len(v.Effects) > 0 {
		lines = append(lines, "", "Effects:")
		for _, fx := range v.Effects {
			lines = append(lines, fmt.Sprintf(" %s %.1fs", fx.Kind, fx.Remaining.Seconds()))
		}
	}
	if v.Suspended {
		lines = append(lines, "", "...")
	}
	if v.GameOver {
		lines = append(lines, "", "TOPPED OUT")
	}

	return boardPanel{
		title:   fmt.Sprintf("Player %d", v.Player),
		cells:   v.Cells,
		dim:     v.Dim,
		falling: v.Falling,
		fog:     v.VisionBlocked,
		lines:   lines,
	}
}

func blockName(t int) string {
	if t < 0 || t >= board.TypeCount {
		return "-"
	}
	return blockNames[t]
}

func drawBoard(screen *ebiten.Image, x0 float32, p boardPanel) {
	bx, by := x0+margin, float32(boardTop)
	ebitenutil.DebugPrintAt(screen, p.title, int(bx), 10)
	vector.StrokeRect(screen, bx-1, by-1, boardPixelsW+2, boardPixelsH+2, 1, gridColor, false)

	for y := range board.Height {
		for x := range board.Width {
			drawCell(screen, bx, by, x, y, p.cells[y][x], p.dim[y][x])
		}
	}

	if p.fog {
		vector.DrawFilledRect(screen, bx, by, boardPixelsW, boardPixelsH, fogColor, false)
		for _, pt := range p.falling {
			drawCell(screen, bx, by, pt.X, pt.Y, p.cells[pt.Y][pt.X], false)
		}
	}

	tx := int(bx) + boardPixelsW + 12
	for i, line := range p.lines {
		ebitenutil.DebugPrintAt(screen, line, tx, boardTop+i*16)
	}
}

func drawCell(screen *ebiten.Image, bx, by float32, x, y int, c board.Cell, dim bool) {
	if !c.Filled {
		return
	}
	clr := palette[c.Type]
	if dim {
		clr = color.RGBA{clr.R / 4, clr.G / 4, clr.B / 4, 255}
	}
	px, py := bx+float32(x*cellSize), by+float32(y*cellSize)
	vector.DrawFilledRect(screen, px+1, py+1, cellSize-2, cellSize-2, clr, false)

	if letter, ok := itemLetters[c.Item]; ok {
		vector.StrokeRect(screen, px+4, py+4, cellSize-8, cellSize-8, 2, itemColor, false)
		ebitenutil.DebugPrintAt(screen, letter, int(px)+9, int(py)+4)
	}
}

func drawFooter(screen *ebiten.Image, text string) {
	ebitenutil.DebugPrintAt(screen, text, margin, boardTop+boardPixelsH+14)
}
