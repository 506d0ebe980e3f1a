package report

import (
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/streamkick/internal/sweep"
)

// WritePNG plots |dv| against the angle along the stream, one line per
// impact parameter, and writes it to w as a PNG image.
func WritePNG(w io.Writer, res *sweep.Result) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Kick profile (%s)", res.Params.Estimator)
	p.X.Label.Text = "phi (rad)"
	p.Y.Label.Text = fmt.Sprintf("|dv| (%s)", res.Params.Units)

	colors := generateColors(len(res.Profiles))
	for i, prof := range res.Profiles {
		dv := sweep.Magnitudes(prof.Kicks)
		pts := make(plotter.XYs, len(dv))
		for j := range dv {
			pts[j] = plotter.XY{X: res.Phi[j], Y: dv[j]}
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("create line for b=%g: %w", prof.B, err)
		}
		line.Color = colors[i]
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("b=%g kpc", prof.B), line)
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	wt, err := p.WriterTo(10*vg.Inch, 5*vg.Inch, "png")
	if err != nil {
		return fmt.Errorf("create kick plot: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write kick plot: %w", err)
	}
	return nil
}

// generateColors creates a palette of distinct colors for the profile lines
func generateColors(n int) []color.Color {
	if n <= 0 {
		return nil
	}

	colors := make([]color.Color, n)
	for i := 0; i < n; i++ {
		hue := float64(i) / float64(n)
		r, g, b := hslToRGB(hue, 0.7, 0.5)
		colors[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return colors
}

// hslToRGB converts HSL to RGB (0-255 range)
func hslToRGB(h, s, l float64) (r, g, b uint8) {
	if s == 0 {
		return uint8(l * 255), uint8(l * 255), uint8(l * 255)
	}
	q := l + s - l*s
	if l < 0.5 {
		q = l * (1 + s)
	}
	p := 2*l - q
	return uint8(hueToRGB(p, q, h+1.0/3.0) * 255), uint8(hueToRGB(p, q, h) * 255), uint8(hueToRGB(p, q, h-1.0/3.0) * 255)
}

func hueToRGB(p, q, t float64) float64 {
	switch {
	case t < 0:
		t++
	case t > 1:
		t--
	}
	switch {
	case t < 1.0/6.0:
		return p + (q-p)*6*t
	case t < 0.5:
		return q
	case t < 2.0/3.0:
		return p + (q-p)*(2.0/3.0-t)*6
	}
	return p
}
