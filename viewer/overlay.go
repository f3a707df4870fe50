package viewer

import (
	"hash/fnv"
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/Gabriellgpc/self-supervision-exploration/dataset"
)

// overlayPalette holds the colors used for bounding boxes; each label is assigned one
// deterministically.
var overlayPalette = []color.NRGBA{
	{R: 0xE6, G: 0x19, B: 0x4B, A: 0xFF}, // red
	{R: 0x3C, G: 0xB4, B: 0x4B, A: 0xFF}, // green
	{R: 0x41, G: 0x63, B: 0xD8, A: 0xFF}, // blue
	{R: 0xF5, G: 0x82, B: 0x31, A: 0xFF}, // orange
	{R: 0x91, G: 0x1E, B: 0xB4, A: 0xFF}, // purple
	{R: 0x42, G: 0xD4, B: 0xF4, A: 0xFF}, // cyan
	{R: 0xF0, G: 0x32, B: 0xE6, A: 0xFF}, // magenta
	{R: 0xBF, G: 0xEF, B: 0x45, A: 0xFF}, // lime
}

// labelColor returns the palette color assigned to a label.
func labelColor(label string) color.NRGBA {
	hasher := fnv.New32a()
	_, _ = hasher.Write([]byte(label))
	return overlayPalette[hasher.Sum32()%uint32(len(overlayPalette))]
}

// renderOverlay decodes the sample's image and draws its bounding boxes on top,
// one color per label. Crowd boxes get a thin border, instance boxes a thick one.
//
// If maxWidth and maxHeight are positive, the result is scaled down to fit in them
// (never scaled up).
func renderOverlay(s *dataset.Sample, maxWidth, maxHeight int) (image.Image, error) {
	img, err := s.Image()
	if err != nil {
		return nil, err
	}
	overlaid := imaging.Clone(img)
	bounds := overlaid.Bounds()
	for _, d := range s.Detections {
		thickness := 3
		if d.IsCrowd {
			thickness = 1
		}
		drawBox(overlaid, int(d.X), int(d.Y), int(d.X+d.W), int(d.Y+d.H), thickness, labelColor(d.Label))
	}
	if maxWidth > 0 && maxHeight > 0 && (bounds.Dx() > maxWidth || bounds.Dy() > maxHeight) {
		return imaging.Fit(overlaid, maxWidth, maxHeight, imaging.Lanczos), nil
	}
	return overlaid, nil
}

// drawBox draws a rectangle border on img, clipped to the image bounds.
func drawBox(img *image.NRGBA, x0, y0, x1, y1, thickness int, c color.NRGBA) {
	bounds := img.Bounds()
	setClipped := func(x, y int) {
		if x >= bounds.Min.X && x < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
			img.SetNRGBA(x, y, c)
		}
	}
	for t := 0; t < thickness; t++ {
		for x := x0; x <= x1; x++ {
			setClipped(x, y0+t)
			setClipped(x, y1-t)
		}
		for y := y0; y <= y1; y++ {
			setClipped(x0+t, y)
			setClipped(x1-t, y)
		}
	}
}
