package debugui

import (
	"fmt"
	"sort"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/blockfall/game"
)

// FrameHistory is a fixed-size ring of frame times in milliseconds.
type FrameHistory struct {
	samples []float32
	index   int
	count   int
}

func NewFrameHistory(frames int) *FrameHistory {
	if frames < 1 {
		frames = 1
	}
	return &FrameHistory{samples: make([]float32, frames)}
}

func (h *FrameHistory) Push(dt time.Duration) {
	h.samples[h.index] = float32(dt.Microseconds()) / 1000.0
	h.index = (h.index + 1) % len(h.samples)
	if h.count < len(h.samples) {
		h.count++
	}
}

// Average is the mean of the recorded samples, in milliseconds.
func (h *FrameHistory) Average() float32 {
	if h.count == 0 {
		return 0
	}
	var total float32
	for _, ms := range h.samples[:h.count] {
		total += ms
	}
	return total / float32(h.count)
}

func (h *FrameHistory) Len() int { return h.count }

type performanceWindow struct {
	history *FrameHistory
}

func (w *performanceWindow) Render(s *game.Session, dt time.Duration) {
	w.history.Push(dt)

	imgui.SetNextWindowPosV(imgui.NewVec2(320, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(380, 300), imgui.CondOnce)
	if !imgui.BeginV("Performance", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	avg := w.history.Average()
	fps := float32(0)
	if avg > 0 {
		fps = 1000.0 / avg
	}
	imgui.Text(fmt.Sprintf("Avg Frame Time: %.2f ms (%.0f FPS)", avg, fps))
	imgui.Separator()
	imgui.Text("Frame Time Graph (ms)")
	imgui.PlotLinesFloatPtr("##frametime", &w.history.samples[0], int32(len(w.history.samples)))

	stats := s.Stats()
	imgui.Separator()
	imgui.Text(fmt.Sprintf("Systems: %d  Executions: %d", stats.SystemCount, stats.TotalExecutions))

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsSizingFixedFit
	if imgui.BeginTableV("Systems", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Name")
		imgui.TableSetupColumn("Avg (ms)")
		imgui.TableSetupColumn("Min (ms)")
		imgui.TableSetupColumn("Max (ms)")
		imgui.TableHeadersRow()

		systems := stats.Systems
		if specs := imgui.TableGetSortSpecs(); specs.SpecsCount() > 0 {
			spec := specs.Specs()
			sort.Slice(systems, func(i, j int) bool {
				less := lessBy(int(spec.ColumnIndex()), systems[i], systems[j])
				if spec.SortDirection() == imgui.SortDirectionDescending {
					return !less
				}
				return less
			})
		}

		for _, sys := range systems {
			imgui.TableNextRow()
			imgui.TableNextColumn()
			imgui.Text(sys.Name)
			imgui.TableNextColumn()
			imgui.Text(millis(sys.AvgDuration))
			imgui.TableNextColumn()
			imgui.Text(millis(sys.MinDuration))
			imgui.TableNextColumn()
			imgui.Text(millis(sys.MaxDuration))
		}
		imgui.EndTable()
	}

	imgui.End()
}

func lessBy(column int, a, b game.SystemStats) bool {
	switch column {
	case 1:
		return a.AvgDuration < b.AvgDuration
	case 2:
		return a.MinDuration < b.MinDuration
	case 3:
		return a.MaxDuration < b.MaxDuration
	default:
		return a.Name < b.Name
	}
}

func millis(d time.Duration) string {
	return fmt.Sprintf("%.3f", float64(d.Microseconds())/1000.0)
}
