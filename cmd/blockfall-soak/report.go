package main

import (
	"fmt"
	"io"
	"math/rand/v2"
	"runtime"
	"slices"
	"sort"
	"text/template"
	"time"

	"github.com/plus3/blockfall/game"
)

const maxSamples = 1 << 15

// Stats accumulates durations, keeping a bounded reservoir for percentiles.
type Stats struct {
	Count int64
	Min   time.Duration
	Max   time.Duration
	Avg   time.Duration
	P50   time.Duration
	P99   time.Duration
	Total time.Duration

	samples []time.Duration
	rng     *rand.Rand
}

func newStats(seed uint64) Stats {
	return Stats{rng: rand.New(rand.NewPCG(seed, 0x5eed))}
}

func (s *Stats) Add(d time.Duration) {
	if s.Count == 0 || d < s.Min {
		s.Min = d
	}
	if d > s.Max {
		s.Max = d
	}
	s.Count++
	s.Total += d

	if len(s.samples) < maxSamples {
		s.samples = append(s.samples, d)
		return
	}
	if s.rng == nil {
		return
	}
	if i := s.rng.Int64N(s.Count); i < maxSamples {
		s.samples[i] = d
	}
}

// Merge folds other into s. Percentiles are recomputed by Finalize.
func (s *Stats) Merge(other Stats) {
	if other.Count == 0 {
		return
	}
	if s.Count == 0 || other.Min < s.Min {
		s.Min = other.Min
	}
	if other.Max > s.Max {
		s.Max = other.Max
	}
	s.Count += other.Count
	s.Total += other.Total
	s.samples = append(s.samples, other.samples...)
}

func (s *Stats) Finalize() {
	if s.Count == 0 {
		return
	}
	s.Avg = s.Total / time.Duration(s.Count)
	if len(s.samples) == 0 {
		return
	}
	slices.Sort(s.samples)
	s.P50 = s.samples[len(s.samples)/2]
	s.P99 = s.samples[len(s.samples)*99/100]
}

type Report struct {
	// Configuration
	Duration   time.Duration
	Sessions   int
	Workers    int
	Mode       game.Mode
	Difficulty string
	Items      bool

	// Results
	TotalTicks int64
	TotalTime  time.Duration
	Games      int
	Lines      int
	BestScore  int
	TickTime   Stats
	Effects    map[string]int
	Systems    []game.SystemStats

	ViolationCount int
	Violations     []string

	GCPauseMetrics bool
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats
}

const maxViolations = 20

func (r *Report) merge(res slotResult) {
	r.TotalTicks += res.ticks
	r.Games += res.games
	r.Lines += res.lines
	r.BestScore = max(r.BestScore, res.bestScore)
	r.TickTime.Merge(res.tickTime)

	if r.Effects == nil {
		r.Effects = make(map[string]int)
	}
	for k, n := range res.effects {
		r.Effects[k] += n
	}

	r.ViolationCount += res.violationCount
	for _, v := range res.violations {
		if len(r.Violations) < maxViolations {
			r.Violations = append(r.Violations, v)
		}
	}
	r.Systems = mergeSystems(r.Systems, res.systems)
}

func mergeSystems(into, from []game.SystemStats) []game.SystemStats {
	for _, sys := range from {
		i := slices.IndexFunc(into, func(s game.SystemStats) bool { return s.Name == sys.Name })
		if i < 0 {
			into = append(into, sys)
			continue
		}
		dst := &into[i]
		if sys.ExecutionCount > 0 && (dst.ExecutionCount == 0 || sys.MinDuration < dst.MinDuration) {
			dst.MinDuration = sys.MinDuration
		}
		dst.MaxDuration = max(dst.MaxDuration, sys.MaxDuration)
		dst.ExecutionCount += sys.ExecutionCount
		dst.TotalDuration += sys.TotalDuration
		if dst.ExecutionCount > 0 {
			dst.AvgDuration = dst.TotalDuration / time.Duration(dst.ExecutionCount)
		}
	}
	return into
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# Blockfall Soak Report

## Configuration
- **Run Duration:** {{.Duration}}
- **Sessions:** {{.Sessions}} ({{.Workers}} workers)
- **Mode:** {{.Mode}}
- **Difficulty:** {{.Difficulty}}
- **Items:** {{.Items}}

## Gameplay
- **Total Ticks:** {{.TotalTicks}}
- **Games Played:** {{.Games}}
- **Lines Cleared:** {{.Lines}}
- **Best Score:** {{.BestScore}}
{{- if .Effects}}
- **Effects Started:**
{{- range $kind := sortedKeys .Effects}}
  - {{$kind}}: {{index $.Effects $kind}}
{{- end}}
{{- end}}

## Invariants
- **Violations:** {{.ViolationCount}}
{{- range .Violations}}
  - {{.}}
{{- end}}

## Performance Results
- **Total Test Time:** {{.TotalTime}}
- **Tick Time:**
  - **Avg:** {{.TickTime.Avg}}
  - **P50:** {{.TickTime.P50}}
  - **P99:** {{.TickTime.P99}}
  - **Min:** {{.TickTime.Min}}
  - **Max:** {{.TickTime.Max}}

| System | Executions | Avg | Min | Max |
|---|---|---|---|---|
{{- range .Systems}}
| {{.Name}} | {{.ExecutionCount}} | {{.AvgDuration}} | {{.MinDuration}} | {{.MaxDuration}} |
{{- end}}

## Memory Usage (Raw Bytes)
- Heap Alloc:     {{.MemStatsStart.HeapAlloc}} (start) -> {{.MemStatsEnd.HeapAlloc}} (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}}
- Total Alloc:    {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}

{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{.MemStatsEnd.PauseTotalNs | ns}}
{{end}}
`

	fm := template.FuncMap{
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns uint64) string {
			return time.Duration(ns).String()
		},
		"sortedKeys": func(m map[string]int) []string {
			keys := make([]string, 0, len(m))
			for k := range m {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			return keys
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return fmt.Errorf("parse report template: %w", err)
	}
	return tmpl.Execute(w, r)
}
