package report

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"io"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/dvloznov/txnscan/internal/domain"
)

// ErrNothingToPlot is returned by Chart for an empty record set.
var ErrNothingToPlot = errors.New("report: nothing to plot")

var outlierColor = color.RGBA{R: 214, G: 39, B: 40, A: 255}

// Chart writes a PNG with two panels side by side: the total amount per
// type, and the amount distribution per type with outliers marked.
func Chart(w io.Writer, flagged []domain.FlaggedRecord) error {
	if len(flagged) == 0 {
		return ErrNothingToPlot
	}

	types, byType := groupAmounts(flagged)

	totals, err := totalsPlot(types, byType)
	if err != nil {
		return fmt.Errorf("Chart: totals: %w", err)
	}
	spread, err := spreadPlot(types, byType, flagged)
	if err != nil {
		return fmt.Errorf("Chart: spread: %w", err)
	}

	img := vgimg.New(12*vg.Inch, 4*vg.Inch)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows:      1,
		Cols:      2,
		PadX:      vg.Millimeter * 4,
		PadTop:    vg.Millimeter * 2,
		PadBottom: vg.Millimeter * 2,
		PadLeft:   vg.Millimeter * 2,
		PadRight:  vg.Millimeter * 2,
	}
	plots := [][]*plot.Plot{{totals, spread}}
	canvases := plot.Align(plots, tiles, dc)
	for j, p := range plots[0] {
		p.Draw(canvases[0][j])
	}

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(w); err != nil {
		return fmt.Errorf("Chart: encode PNG: %w", err)
	}
	return nil
}

// ChartPNG renders Chart into memory.
func ChartPNG(flagged []domain.FlaggedRecord) ([]byte, error) {
	var buf bytes.Buffer
	if err := Chart(&buf, flagged); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func groupAmounts(flagged []domain.FlaggedRecord) ([]string, map[string]plotter.Values) {
	byType := make(map[string]plotter.Values)
	for _, f := range flagged {
		byType[f.Type] = append(byType[f.Type], f.Amount)
	}
	types := make([]string, 0, len(byType))
	for t := range byType {
		types = append(types, t)
	}
	sort.Strings(types)
	return types, byType
}

func totalsPlot(types []string, byType map[string]plotter.Values) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Total Transaction Amount per Type"
	p.Y.Label.Text = "Amount"

	sums := make(plotter.Values, len(types))
	for i, t := range types {
		for _, v := range byType[t] {
			sums[i] += v
		}
	}

	bars, err := plotter.NewBarChart(sums, vg.Points(30))
	if err != nil {
		return nil, err
	}
	bars.Color = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	p.Add(bars)
	p.NominalX(types...)
	return p, nil
}

func spreadPlot(types []string, byType map[string]plotter.Values, flagged []domain.FlaggedRecord) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Anomaly Visualization"
	p.Y.Label.Text = "Amount"

	index := make(map[string]int, len(types))
	for i, t := range types {
		index[t] = i
		box, err := plotter.NewBoxPlot(vg.Points(20), float64(i), byType[t])
		if err != nil {
			return nil, err
		}
		p.Add(box)
	}

	var outliers plotter.XYs
	for _, f := range flagged {
		if f.Anomaly == domain.Outlier {
			outliers = append(outliers, plotter.XY{X: float64(index[f.Type]), Y: f.Amount})
		}
	}
	if len(outliers) > 0 {
		s, err := plotter.NewScatter(outliers)
		if err != nil {
			return nil, err
		}
		s.GlyphStyle.Color = outlierColor
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		s.GlyphStyle.Radius = vg.Points(4)
		p.Add(s)
		p.Legend.Add("outlier (-1)", s)
		p.Legend.Top = true
	}

	p.NominalX(types...)
	return p, nil
}
