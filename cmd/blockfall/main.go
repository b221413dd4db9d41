package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/blockfall/config"
	"github.com/plus3/blockfall/effect"
	"github.com/plus3/blockfall/game"
	"github.com/plus3/blockfall/speed"
	"github.com/plus3/blockfall/versus"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file.")
	writeConfig := flag.String("write-config", "", "Write the default config to this path and exit.")
	modeFlag := flag.String("mode", "", "Game mode: solo, local-versus or net-versus.")
	difficultyFlag := flag.String("difficulty", "", "Difficulty: easy, normal or hard.")
	seed := flag.Uint64("seed", 0, "Block sequence seed; 0 picks one at random.")
	host := flag.Bool("host", false, "Host a networked match on the configured listen address.")
	join := flag.String("join", "", "Join the networked match at this ws:// URL.")
	debug := flag.Bool("debug", false, "Show the ImGui inspector.")
	verbose := flag.Bool("v", false, "Log engine events to stderr.")
	flag.Parse()

	if *writeConfig != "" {
		if err := config.Write(*writeConfig, config.Default()); err != nil {
			log.Fatalf("Failed to write config: %v", err)
		}
		log.Printf("Wrote default config to %s", *writeConfig)
		return
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}

	store, err := config.OpenStore("blockfall", log.Default())
	if err != nil {
		log.Printf("Settings will not persist: %v", err)
	}
	if err := store.Load(); err != nil {
		log.Printf("Failed to load settings: %v", err)
	}
	if *configPath == "" {
		settings := store.Settings()
		cfg.Difficulty = settings.Difficulty
	}

	if *modeFlag != "" {
		m, err := game.ParseMode(*modeFlag)
		if err != nil {
			log.Fatal(err)
		}
		cfg.Mode = m
	}
	if *difficultyFlag != "" {
		d, err := speed.ParseDifficulty(*difficultyFlag)
		if err != nil {
			log.Fatal(err)
		}
		cfg.Difficulty = d
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if *host || *join != "" {
		cfg.Mode = game.NetVersus
	}
	if *join != "" {
		cfg.Network.Peer = *join
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	var logger *log.Logger
	if *verbose {
		logger = log.New(os.Stderr, "", log.LstdFlags|log.Lmicroseconds)
	}

	var peer *versus.Peer
	if cfg.Mode == game.NetVersus {
		peer, err = connect(cfg, *host, logger)
		if err != nil {
			log.Fatalf("Failed to start networked match: %v", err)
		}
		defer peer.Close()
	}

	store.SetDifficulty(cfg.Difficulty)
	store.SetMode(cfg.Mode)

	app, err := NewApp(cfg, store, peer, logger, *debug)
	if err != nil {
		log.Fatal(err)
	}

	ebiten.SetWindowSize(app.Layout(0, 0))
	ebiten.SetWindowTitle("Blockfall")
	if err := ebiten.RunGame(app); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
	app.Close()

	if err := store.Save(); err != nil {
		log.Printf("Failed to save settings: %v", err)
	}
}

func connect(cfg config.Config, host bool, logger *log.Logger) (*versus.Peer, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if !host {
		if cfg.Network.Peer == "" {
			return nil, errors.New("no peer URL: pass -join or set network.peer")
		}
		log.Printf("Joining %s...", cfg.Network.Peer)
		return versus.Dial(ctx, cfg.Network.Peer, logger)
	}

	h := versus.NewHost(logger)
	mux := http.NewServeMux()
	mux.Handle("/ws", h)
	srv := &http.Server{Addr: cfg.Network.Listen, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Listener stopped: %v", err)
			cancel()
		}
	}()

	log.Printf("Hosting match %s on ws://%s/ws, waiting for an opponent...", h.Match(), cfg.Network.Listen)
	peer, err := h.Accept(ctx)
	if err != nil {
		srv.Close()
		return nil, err
	}
	log.Printf("Opponent joined as player %d", effect.Player2)
	return peer, nil
}
