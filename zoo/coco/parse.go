package coco

import (
	"encoding/json"
	"os"
	"path"
	"sort"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/Gabriellgpc/self-supervision-exploration/dataset"
)

// The subset of the COCO instances JSON this loader cares about. The format is
// documented in https://cocodataset.org/#format-data -- segmentation masks and
// keypoints are ignored.
type (
	cocoInstances struct {
		Images      []cocoImage      `json:"images"`
		Annotations []cocoAnnotation `json:"annotations"`
		Categories  []cocoCategory   `json:"categories"`
	}

	cocoImage struct {
		ID       int64  `json:"id"`
		FileName string `json:"file_name"`
		Width    int    `json:"width"`
		Height   int    `json:"height"`
	}

	cocoAnnotation struct {
		ImageID    int64     `json:"image_id"`
		CategoryID int       `json:"category_id"`
		BBox       []float64 `json:"bbox"` // [x, y, width, height], pixels.
		IsCrowd    int       `json:"iscrowd"`
	}

	cocoCategory struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
)

// ParseInstances reads a COCO instances (or image-info) JSON file and returns the
// samples it describes, sorted by file name. Image paths are resolved under imagesDir.
//
// Annotations referring to unknown images or categories make it fail: either would
// mean a corrupted annotations file.
func ParseInstances(filePath, imagesDir string) ([]*dataset.Sample, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open annotations file %q", filePath)
	}
	defer func() { _ = f.Close() }()

	var instances cocoInstances
	if err := json.NewDecoder(f).Decode(&instances); err != nil {
		return nil, errors.Wrapf(err, "failed to parse annotations file %q", filePath)
	}
	if len(instances.Images) == 0 {
		return nil, errors.Errorf("annotations file %q lists no images", filePath)
	}

	categories := make(map[int]string, len(instances.Categories))
	for _, category := range instances.Categories {
		categories[category.ID] = category.Name
	}

	samplesByID := make(map[int64]*dataset.Sample, len(instances.Images))
	samples := make([]*dataset.Sample, 0, len(instances.Images))
	for _, img := range instances.Images {
		sample := &dataset.Sample{
			ID:       img.ID,
			FilePath: path.Join(imagesDir, img.FileName),
			Width:    img.Width,
			Height:   img.Height,
		}
		samplesByID[img.ID] = sample
		samples = append(samples, sample)
	}

	for _, annotation := range instances.Annotations {
		sample, found := samplesByID[annotation.ImageID]
		if !found {
			return nil, errors.Errorf("annotations file %q refers to unknown image id %d", filePath, annotation.ImageID)
		}
		label, found := categories[annotation.CategoryID]
		if !found {
			return nil, errors.Errorf("annotations file %q refers to unknown category id %d", filePath, annotation.CategoryID)
		}
		if len(annotation.BBox) != 4 {
			klog.Warningf("annotation for image id %d in %q has a %d-element bounding box, skipped",
				annotation.ImageID, filePath, len(annotation.BBox))
			continue
		}
		sample.Detections = append(sample.Detections, dataset.Detection{
			Label:   label,
			X:       annotation.BBox[0],
			Y:       annotation.BBox[1],
			W:       annotation.BBox[2],
			H:       annotation.BBox[3],
			IsCrowd: annotation.IsCrowd != 0,
		})
	}

	sort.Slice(samples, func(i, j int) bool { return samples[i].FilePath < samples[j].FilePath })
	return samples, nil
}
