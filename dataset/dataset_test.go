package dataset

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestDataset(t *testing.T) *Dataset {
	t.Helper()
	return &Dataset{
		Name:  "test-ds",
		Split: "train",
		Dir:   t.TempDir(),
		Samples: []*Sample{
			{ID: 1, Width: 640, Height: 480, Detections: []Detection{
				{Label: "cat", X: 10, Y: 20, W: 100, H: 50},
				{Label: "dog", X: 200, Y: 100, W: 80, H: 60},
			}},
			{ID: 2, Width: 640, Height: 480, Detections: []Detection{
				{Label: "cat", X: 5, Y: 5, W: 30, H: 30},
			}},
			{ID: 3, Width: 320, Height: 240},
		},
	}
}

func TestCounts(t *testing.T) {
	ds := newTestDataset(t)
	require.Equal(t, 3, ds.NumSamples())
	require.Equal(t, 3, ds.NumDetections())
	require.Equal(t, map[string]int{"cat": 2, "dog": 1}, ds.CountLabels())
	require.Equal(t, []string{"cat", "dog"}, ds.Labels())
}

func TestSampleImage(t *testing.T) {
	dir := t.TempDir()
	imgPath := filepath.Join(dir, "000001.png")
	f, err := os.Create(imgPath)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 16, 8))))
	require.NoError(t, f.Close())

	s := &Sample{ID: 1, FilePath: imgPath, Width: 16, Height: 8}
	img, err := s.Image()
	require.NoError(t, err)
	require.Equal(t, 16, img.Bounds().Dx())
	require.Equal(t, 8, img.Bounds().Dy())

	s.FilePath = filepath.Join(dir, "missing.png")
	_, err = s.Image()
	require.Error(t, err)
}

func TestSizeOnDisk(t *testing.T) {
	ds := newTestDataset(t)
	require.NoError(t, os.WriteFile(filepath.Join(ds.Dir, "blob"), make([]byte, 1024), 0666))
	require.NoError(t, os.MkdirAll(filepath.Join(ds.Dir, "sub"), 0777))
	require.NoError(t, os.WriteFile(filepath.Join(ds.Dir, "sub", "blob2"), make([]byte, 512), 0666))
	size, err := ds.SizeOnDisk()
	require.NoError(t, err)
	require.Equal(t, int64(1536), size)
}
