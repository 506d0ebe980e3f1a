package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/streamkick/internal/sweep"
)

// WriteHTML renders an interactive page with one line chart for |dv| and
// one per kick component.
func WriteHTML(w io.Writer, res *sweep.Result) error {
	page := components.NewPage()
	page.SetPageTitle("Stream kicks")

	page.AddCharts(
		profileChart(res, "|dv|", -1),
		profileChart(res, "dv_x", 0),
		profileChart(res, "dv_y", 1),
		profileChart(res, "dv_z", 2),
	)
	if err := page.Render(w); err != nil {
		return fmt.Errorf("render kick chart: %w", err)
	}
	return nil
}

// profileChart charts column col of every profile, or the magnitude when col
// is negative.
func profileChart(res *sweep.Result, name string, col int) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "420px"}),
		charts.WithTitleOpts(opts.Title{Title: name, Subtitle: fmt.Sprintf("estimator=%s stars=%d", res.Params.Estimator, len(res.Phi))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: "phi (rad)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: res.Params.Units, NameLocation: "middle", NameGap: 45}),
	)

	for _, prof := range res.Profiles {
		var ys []float64
		if col < 0 {
			ys = sweep.Magnitudes(prof.Kicks)
		} else {
			ys = make([]float64, len(res.Phi))
			for i := range ys {
				ys[i] = prof.Kicks.At(i, col)
			}
		}
		data := make([]opts.LineData, len(ys))
		for i, y := range ys {
			data[i] = opts.LineData{Value: []interface{}{res.Phi[i], y}}
		}
		line.AddSeries(fmt.Sprintf("b=%g kpc", prof.B), data)
	}
	return line
}
