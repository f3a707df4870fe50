package viewer

import (
	"fmt"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/dustin/go-humanize"
	"k8s.io/klog/v2"

	"github.com/Gabriellgpc/self-supervision-exploration/dataset"
)

const allLabelsOption = "(all labels)"

// Size the rendered sample is fit into, in pixels. Large enough for detail, small
// enough to keep rendering snappy while scrolling through samples.
const detailMaxWidth, detailMaxHeight = 960, 600

// browser builds and drives the widgets of one viewer window.
type browser struct {
	ds *dataset.Dataset

	// filtered holds the indices into ds.Samples currently shown, after the label
	// filter is applied.
	filtered []int

	sampleList *widget.List
	detail     *canvas.Image
	caption    *widget.Label
	status     *widget.Label
}

func newBrowser(ds *dataset.Dataset) *browser {
	b := &browser{ds: ds}
	b.filtered = make([]int, len(ds.Samples))
	for i := range ds.Samples {
		b.filtered[i] = i
	}

	b.detail = &canvas.Image{FillMode: canvas.ImageFillContain}
	b.detail.SetMinSize(fyne.NewSize(640, 480))
	b.caption = widget.NewLabel("Select a sample on the left.")
	b.caption.Alignment = fyne.TextAlignCenter
	b.status = widget.NewLabel(b.statusText())

	b.sampleList = widget.NewList(
		func() int { return len(b.filtered) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(i widget.ListItemID, item fyne.CanvasObject) {
			s := b.ds.Samples[b.filtered[i]]
			item.(*widget.Label).SetText(fmt.Sprintf("%s (%d objects)", filepath.Base(s.FilePath), len(s.Detections)))
		})
	b.sampleList.OnSelected = func(i widget.ListItemID) { b.showSample(b.filtered[i]) }
	return b
}

// content assembles the window layout: filter on top, sample list on the left, the
// annotated image in the center, and a statistics tab.
func (b *browser) content() fyne.CanvasObject {
	filter := widget.NewSelect(append([]string{allLabelsOption}, b.ds.Labels()...), b.applyFilter)
	filter.SetSelected(allLabelsOption)

	detailPane := container.NewBorder(nil, b.caption, nil, nil, b.detail)
	samplesTab := container.NewBorder(
		container.NewBorder(nil, nil, widget.NewLabel("Filter:"), nil, filter), b.status, nil, nil,
		container.NewHSplit(b.sampleList, detailPane))

	tabs := container.NewAppTabs(
		container.NewTabItem("Samples", samplesTab),
		container.NewTabItem("Statistics", b.statisticsTab()),
	)
	return tabs
}

// applyFilter restricts the sample list to samples holding at least one detection
// with the given label.
func (b *browser) applyFilter(label string) {
	b.filtered = b.filtered[:0]
	for i, s := range b.ds.Samples {
		if label == allLabelsOption {
			b.filtered = append(b.filtered, i)
			continue
		}
		for _, d := range s.Detections {
			if d.Label == label {
				b.filtered = append(b.filtered, i)
				break
			}
		}
	}
	b.sampleList.UnselectAll()
	b.sampleList.Refresh()
	b.status.SetText(b.statusText())
}

func (b *browser) showSample(idx int) {
	s := b.ds.Samples[idx]
	img, err := renderOverlay(s, detailMaxWidth, detailMaxHeight)
	if err != nil {
		// Missing or corrupt image file: keep browsing, just report it.
		klog.Errorf("failed to render sample %d: %+v", s.ID, err)
		b.caption.SetText(fmt.Sprintf("%s: %v", filepath.Base(s.FilePath), err))
		return
	}
	b.detail.Image = img
	b.detail.Refresh()
	b.caption.SetText(fmt.Sprintf("%s — %dx%d, %d objects",
		filepath.Base(s.FilePath), s.Width, s.Height, len(s.Detections)))
}

func (b *browser) statusText() string {
	text := fmt.Sprintf("%d of %d samples, %d objects, %d labels",
		len(b.filtered), b.ds.NumSamples(), b.ds.NumDetections(), len(b.ds.Labels()))
	if size, err := b.ds.SizeOnDisk(); err == nil {
		text += fmt.Sprintf(", %s on disk", humanize.IBytes(uint64(size)))
	}
	return text
}

func (b *browser) statisticsTab() fyne.CanvasObject {
	chart, err := labelHistogram(b.ds, 800, 500)
	if err != nil {
		return widget.NewLabel(fmt.Sprintf("No statistics available: %v", err))
	}
	img := canvas.NewImageFromImage(chart)
	img.FillMode = canvas.ImageFillContain
	img.SetMinSize(fyne.NewSize(640, 400))
	return img
}
