package sim

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// RenderTrace renders the recorded run trace as an HTML scatter chart, one
// series per body, so an engagement can be inspected visually.
func (w *World) RenderTrace(out io.Writer) error {
	// Symmetric axis ranges keep the geometry square.
	maxAbs := 1.0
	series := make(map[int][]opts.ScatterData)
	names := make(map[int]string)

	for _, s := range w.trace {
		for _, b := range s.Bodies {
			if !b.Alive {
				continue
			}
			series[b.ID] = append(series[b.ID], opts.ScatterData{Value: []interface{}{b.X, b.Y}})
			if ax := abs(b.X); ax > maxAbs {
				maxAbs = ax
			}
			if ay := abs(b.Y); ay > maxAbs {
				maxAbs = ay
			}
			if _, ok := names[b.ID]; !ok {
				role := string(b.Role)
				if role == "" {
					role = "drone"
				}
				names[b.ID] = fmt.Sprintf("%s-%d (team %d)", role, b.ID, b.Team)
			}
		}
	}

	pad := maxAbs * 1.05

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Engagement Trace",
			Theme:     "dark",
			Width:     "900px",
			Height:    "900px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Engagement Trace",
			Subtitle: fmt.Sprintf("run=%s ticks=%d", w.RunID, w.tick),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: -pad, Max: pad, Name: "X (m)"}),
		charts.WithYAxisOpts(opts.YAxis{Min: -pad, Max: pad, Name: "Y (m)"}),
	)

	ids := make([]int, 0, len(series))
	for id := range series {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		scatter.AddSeries(names[id], series[id], charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 3}))
	}

	return scatter.Render(out)
}

// WriteTraceReport renders the trace to an HTML file at path.
func (w *World) WriteTraceReport(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create trace report: %w", err)
	}
	defer f.Close()
	if err := w.RenderTrace(f); err != nil {
		return fmt.Errorf("render trace report: %w", err)
	}
	return nil
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
