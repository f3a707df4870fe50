package viewer

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Gabriellgpc/self-supervision-exploration/dataset"
)

// writeTestImage writes a uniformly white PNG and returns a sample pointing at it.
func writeTestImage(t *testing.T, width, height int, detections ...dataset.Detection) *dataset.Sample {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	imgPath := filepath.Join(t.TempDir(), "sample.png")
	f, err := os.Create(imgPath)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return &dataset.Sample{
		ID:         1,
		FilePath:   imgPath,
		Width:      width,
		Height:     height,
		Detections: detections,
	}
}

func TestLabelColorDeterministic(t *testing.T) {
	require.Equal(t, labelColor("cat"), labelColor("cat"))
	// Different labels may collide in the palette, but the common ones in the test
	// fixtures should not.
	require.NotEqual(t, labelColor("cat"), labelColor("dog"))
}

func TestRenderOverlay(t *testing.T) {
	s := writeTestImage(t, 64, 48,
		dataset.Detection{Label: "cat", X: 8, Y: 8, W: 16, H: 12})
	img, err := renderOverlay(s, 0, 0)
	require.NoError(t, err)
	require.Equal(t, 64, img.Bounds().Dx())
	require.Equal(t, 48, img.Bounds().Dy())

	want := labelColor("cat")
	at := func(x, y int) color.NRGBA {
		return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
	}
	// Box corners carry the label color; the box interior stays white.
	require.Equal(t, want, at(8, 8))
	require.Equal(t, want, at(24, 20))
	require.Equal(t, color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}, at(16, 14))
}

func TestRenderOverlayFits(t *testing.T) {
	s := writeTestImage(t, 640, 480,
		dataset.Detection{Label: "dog", X: 100, Y: 100, W: 200, H: 100})
	img, err := renderOverlay(s, 64, 64)
	require.NoError(t, err)
	require.LessOrEqual(t, img.Bounds().Dx(), 64)
	require.LessOrEqual(t, img.Bounds().Dy(), 64)
}

func TestRenderOverlayClipsOutOfBoundsBoxes(t *testing.T) {
	s := writeTestImage(t, 32, 32,
		dataset.Detection{Label: "cat", X: -10, Y: -10, W: 100, H: 100})
	_, err := renderOverlay(s, 0, 0)
	require.NoError(t, err)
}

func TestRenderOverlayMissingFile(t *testing.T) {
	s := &dataset.Sample{ID: 2, FilePath: filepath.Join(t.TempDir(), "gone.png")}
	_, err := renderOverlay(s, 0, 0)
	require.Error(t, err)
}
