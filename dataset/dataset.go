// Package dataset defines the in-memory catalog produced by the zoo loaders and
// consumed by the viewer: a named collection of samples, each pointing at an image
// file on disk and carrying its object-detection annotations.
//
// The catalog holds no pixel data; images are decoded on demand with Sample.Image.
package dataset

import (
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"

	_ "image/jpeg"
	_ "image/png"
)

// Detection is one annotated object in a sample. The bounding box is in pixel
// coordinates of the original image, (X, Y) being the top-left corner.
type Detection struct {
	Label      string
	X, Y, W, H float64

	// IsCrowd marks boxes that cover a group of objects rather than a single instance.
	IsCrowd bool
}

// Sample is one record of the catalog: an image file plus its annotations.
type Sample struct {
	// ID is the sample identifier assigned by the dataset source.
	ID int64

	// FilePath to the image on disk, always absolute.
	FilePath string

	// Width and Height of the image in pixels, as reported by the annotations.
	Width, Height int

	Detections []Detection
}

// Image opens and decodes the sample's image file.
func (s *Sample) Image() (image.Image, error) {
	f, err := os.Open(s.FilePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open sample image %q", s.FilePath)
	}
	defer func() { _ = f.Close() }()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode sample image %q", s.FilePath)
	}
	return img, nil
}

// Dataset is the catalog handle returned by zoo.Load: the downloaded split of a zoo
// dataset, already parsed into samples.
type Dataset struct {
	// Name of the zoo dataset, e.g. "coco-2017".
	Name string

	// Split is the partition loaded, e.g. "train".
	Split string

	// Dir is the directory the dataset was downloaded/extracted to.
	Dir string

	Samples []*Sample
}

// NumSamples returns the number of samples in the catalog.
func (ds *Dataset) NumSamples() int { return len(ds.Samples) }

// NumDetections returns the total number of annotated objects across all samples.
func (ds *Dataset) NumDetections() int {
	count := 0
	for _, s := range ds.Samples {
		count += len(s.Detections)
	}
	return count
}

// CountLabels returns the number of detections per label.
func (ds *Dataset) CountLabels() map[string]int {
	counts := make(map[string]int)
	for _, s := range ds.Samples {
		for _, d := range s.Detections {
			counts[d.Label]++
		}
	}
	return counts
}

// Labels returns the distinct detection labels, sorted.
func (ds *Dataset) Labels() []string {
	counts := ds.CountLabels()
	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// SizeOnDisk sums the sizes of all files under the dataset directory.
func (ds *Dataset) SizeOnDisk() (int64, error) {
	var total int64
	err := filepath.WalkDir(ds.Dir, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		total += info.Size()
		return nil
	})
	if err != nil {
		return 0, errors.Wrapf(err, "failed to measure dataset directory %q", ds.Dir)
	}
	return total, nil
}

// String implements fmt.Stringer.
func (ds *Dataset) String() string {
	return fmt.Sprintf("%s/%s: %d samples in %q", ds.Name, ds.Split, len(ds.Samples), ds.Dir)
}
