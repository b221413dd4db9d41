package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"time"

	"github.com/plus3/blockfall/game"
	"github.com/plus3/blockfall/speed"
)

func main() {
	duration := flag.Duration("duration", 10*time.Second, "The total duration the soak should run for.")
	sessions := flag.Int("sessions", 64, "Number of concurrent session slots.")
	workers := flag.Int("workers", runtime.NumCPU(), "Maximum slots running at once.")
	modeFlag := flag.String("mode", "solo", "Game mode: solo or local-versus.")
	difficultyFlag := flag.String("difficulty", "normal", "Difficulty: easy, normal or hard.")
	items := flag.Bool("items", true, "Enable item blocks.")
	itemEvery := flag.Int("item-every", 2, "Full rows between item blocks.")
	seed := flag.Uint64("seed", 1, "Base seed for block order and input.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.Parse()

	mode, err := game.ParseMode(*modeFlag)
	if err != nil {
		log.Fatal(err)
	}
	if mode == game.NetVersus {
		log.Fatal("net-versus needs a peer; soak solo or local-versus")
	}
	difficulty, err := speed.ParseDifficulty(*difficultyFlag)
	if err != nil {
		log.Fatal(err)
	}

	opts := Options{
		Sessions:   *sessions,
		Workers:    *workers,
		Mode:       mode,
		Difficulty: difficulty,
		Items:      *items,
		ItemEvery:  *itemEvery,
		Seed:       *seed,
	}
	report := &Report{
		Duration:       *duration,
		Sessions:       opts.Sessions,
		Workers:        opts.Workers,
		Mode:           mode,
		Difficulty:     difficulty.String(),
		Items:          opts.Items,
		GCPauseMetrics: *gcPauseMetrics,
	}

	log.Println("Starting soak...")
	runtime.ReadMemStats(&report.MemStatsStart)

	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	start := time.Now()
	if err := soak(ctx, opts, report); err != nil {
		log.Fatalf("Soak failed: %v", err)
	}
	report.TotalTime = time.Since(start)
	report.TickTime.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)

	log.Println("Soak finished.")

	fmt.Println("\n\n--- Soak Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		log.Fatalf("Failed to generate report: %v", err)
	}
	fmt.Println("--- End of Report ---")

	if report.ViolationCount > 0 {
		os.Exit(1)
	}
}
