package viewer

import (
	"image"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/Gabriellgpc/self-supervision-exploration/dataset"
)

// maxHistogramLabels caps how many labels the distribution chart shows; beyond that
// the nominal axis becomes unreadable.
const maxHistogramLabels = 25

// labelHistogram renders a bar chart with the number of detections per label, most
// frequent labels first, as an image of the given size in pixels.
func labelHistogram(ds *dataset.Dataset, width, height int) (image.Image, error) {
	counts := ds.CountLabels()
	if len(counts) == 0 {
		return nil, errors.Errorf("dataset %s/%s has no detection labels to plot", ds.Name, ds.Split)
	}
	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		if counts[labels[i]] != counts[labels[j]] {
			return counts[labels[i]] > counts[labels[j]]
		}
		return labels[i] < labels[j]
	})
	if len(labels) > maxHistogramLabels {
		labels = labels[:maxHistogramLabels]
	}
	values := make(plotter.Values, len(labels))
	for i, label := range labels {
		values[i] = float64(counts[label])
	}

	p := plot.New()
	p.Title.Text = "Detections per label"
	p.Y.Label.Text = "count"
	bars, err := plotter.NewBarChart(values, vg.Points(18))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to build label histogram for %s/%s", ds.Name, ds.Split)
	}
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = -1.0 // Radians; keeps long label names from colliding.
	p.X.Tick.Label.XAlign = draw.XLeft
	p.X.Tick.Label.YAlign = draw.YCenter

	// At 72 DPI one point is one pixel, so the canvas comes out exactly width x height.
	c := vgimg.NewWith(
		vgimg.UseWH(vg.Points(float64(width)), vg.Points(float64(height))),
		vgimg.UseDPI(72))
	p.Draw(draw.New(c))
	return c.Image(), nil
}
