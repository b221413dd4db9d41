package main

import (
	"fmt"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/plus3/blockfall/config"
	"github.com/plus3/blockfall/debugui"
	debugui_ebiten "github.com/plus3/blockfall/debugui/ebiten"
	"github.com/plus3/blockfall/effect"
	"github.com/plus3/blockfall/game"
	"github.com/plus3/blockfall/versus"
)

// App implements ebiten.Game around one session.
type App struct {
	cfg     config.Config
	store   *config.Store
	peer    *versus.Peer
	logger  *log.Logger
	debug   bool
	overlay *debugui_ebiten.Overlay

	session  *game.Session
	keymaps  []keymap
	recorded bool
	status   string
}

func NewApp(cfg config.Config, store *config.Store, peer *versus.Peer, logger *log.Logger, debug bool) (*App, error) {
	a := &App{cfg: cfg, store: store, peer: peer, logger: logger, debug: debug}
	if err := a.start(); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *App) start() error {
	sc := a.cfg.Session(a.logger)
	sc.Listener.OnSpeedIncrease = func(p effect.PlayerID, interval time.Duration) {
		a.status = fmt.Sprintf("Player %d speed up: %s", p, interval)
	}
	if a.peer != nil {
		sc.Local = a.peer.Local()
		sc.Listener = a.peer.Listener(sc.Listener)
	}

	s := game.NewSession(sc)
	if a.peer != nil {
		if _, err := a.peer.Bind(s, a.cfg.Network.SnapshotInterval); err != nil {
			s.Close()
			return err
		}
	}

	a.session = s
	a.keymaps = keymapsFor(s.Mode(), s.Local())
	a.recorded = false
	a.status = ""
	if a.debug {
		inspector := debugui.New(s)
		if a.overlay == nil {
			a.overlay = debugui_ebiten.NewOverlay(inspector)
		} else {
			a.overlay.Inspector = inspector
		}
	}
	return nil
}

func (a *App) Update() error {
	dt := time.Second / time.Duration(ebiten.TPS())

	if a.overlay == nil || !a.overlay.Inspector.Input().WantCaptureKeyboard {
		if err := a.handleInput(); err != nil {
			return err
		}
	}
	if a.session.Closed() {
		return ebiten.Termination
	}

	a.session.Tick(dt)
	a.recordScores()

	if a.overlay != nil {
		a.overlay.Update(dt)
	}
	return nil
}

func (a *App) handleInput() error {
	if over, _ := a.session.Over(); over && a.peer == nil && inpututil.IsKeyJustPressed(ebiten.KeyR) {
		a.session.Close()
		return a.start()
	}
	for _, km := range a.keymaps {
		for _, action := range km.pressed() {
			a.session.HandleAction(km.player, action)
		}
	}
	return nil
}

func (a *App) recordScores() {
	over, _ := a.session.Over()
	if !over || a.recorded {
		return
	}
	a.recorded = true
	for _, p := range a.session.Players() {
		if a.store.RecordScore(a.cfg.Difficulty, p.Score()) {
			a.status = fmt.Sprintf("New best for %s: %d", a.cfg.Difficulty, p.Score())
		}
	}
	if err := a.store.Save(); err != nil {
		log.Printf("Failed to save settings: %v", err)
	}
}

func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)
	boards := a.boards()
	for i, b := range boards {
		drawBoard(screen, float32(i*boardSlotWidth), b)
	}
	drawFooter(screen, a.footer())

	if a.overlay != nil {
		a.overlay.DrawOn(screen)
	}
}

func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	w, h := boardSlotWidth*len(a.boards()), screenHeight
	if a.overlay != nil && outsideWidth > 0 {
		a.overlay.Layout(outsideWidth, outsideHeight)
	}
	return w, h
}

func (a *App) footer() string {
	over, loser := a.session.Over()
	switch {
	case over && a.session.Mode() == game.Solo:
		return fmt.Sprintf("GAME OVER  best %d  R restart, Esc quit", a.store.Best(a.cfg.Difficulty))
	case over && a.peer != nil:
		if loser == a.session.Local() {
			return "YOU LOSE  Esc quit"
		}
		return "YOU WIN  Esc quit"
	case over:
		return fmt.Sprintf("PLAYER %d WINS  R restart, Esc quit", loser.Opponent())
	case a.session.Paused():
		return "PAUSED  P resume"
	case a.status != "":
		return a.status
	default:
		return "P pause, Esc quit"
	}
}

// Close tears the session down.
func (a *App) Close() {
	a.session.Close()
}
