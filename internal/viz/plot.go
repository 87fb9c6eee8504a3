// Package viz renders trajectories and run summaries for the terminal.
package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/arglab/internal/analysis"
	"github.com/san-kum/arglab/internal/sim"
)

const (
	plotWidth  = 80
	plotHeight = 10
)

// PlotTrajectory renders ascii panels for the accumulator and the order
// parameter over the full run.
func PlotTrajectory(tr *sim.Trajectory) string {
	var b strings.Builder

	acc := asciigraph.Plot(tr.Accumulator,
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Caption(fmt.Sprintf("accumulator (%d releases)", tr.Releases())),
	)
	b.WriteString(acc)
	b.WriteString("\n\n")

	order := asciigraph.Plot(tr.OrderParameter,
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Caption("order parameter"),
	)
	b.WriteString(order)
	b.WriteString("\n")

	return b.String()
}

// SummaryPanel formats the end-of-run stats block shown under plots.
func SummaryPanel(tr *sim.Trajectory, cycles []analysis.CycleSummary, margin analysis.Margin) string {
	rows := []string{
		statRow("samples", fmt.Sprintf("%d", tr.Len())),
		statRow("releases", fmt.Sprintf("%d", tr.Releases())),
		statRow("final state", fmt.Sprintf("%.4f", margin.CurrentState)),
		statRow("top threshold", fmt.Sprintf("%.4f", margin.TopThreshold)),
		statRow("margin", fmt.Sprintf("%.4f", margin.Value)),
	}
	if !math.IsNaN(margin.Relative) {
		rows = append(rows, statRow("relative margin", fmt.Sprintf("%.2f%%", margin.Relative*100)))
	}
	if len(cycles) > 0 {
		mean := 0.0
		n := 0
		for _, c := range cycles {
			if !math.IsNaN(c.Duration) {
				mean += c.Duration
				n++
			}
		}
		if n > 0 {
			rows = append(rows, statRow("mean cycle", fmt.Sprintf("%.4fs", mean/float64(n))))
		}
	}
	return statsStyle.Render(strings.Join(rows, "\n"))
}

func statRow(label, value string) string {
	return labelStyle.Render(label) + valueStyle.Render(value)
}
