// Package coco provides the COCO-2017 object-detection dataset for the zoo.
// Information about it in https://cocodataset.org/#download
//
// It downloads the official image zips and annotation archives from
// images.cocodataset.org into the chosen directory, extracts them (previously
// downloaded files are reused) and parses the instances annotations into a catalog of
// samples with bounding boxes.
//
// The package registers itself in the zoo at initialization, so a blank import is
// enough to make "coco-2017" loadable.
package coco

import (
	"os"
	"path"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/Gabriellgpc/self-supervision-exploration/dataset"
	"github.com/Gabriellgpc/self-supervision-exploration/downloader"
	"github.com/Gabriellgpc/self-supervision-exploration/pkg/support/fsutil"
	"github.com/Gabriellgpc/self-supervision-exploration/zoo"
)

// Name under which the dataset is registered in the zoo.
const Name = "coco-2017"

var (
	DownloadBaseURL = "http://images.cocodataset.org/"

	// DownloadSubdir is where the raw archives are kept, under the dataset directory.
	DownloadSubdir = "downloads"

	// AnnotationsSubdir is the directory the annotation archives extract to.
	AnnotationsSubdir = "annotations"
)

// splitFiles describes the archives of one split.
//
// ImagesZip extracts to ImagesDir; AnnotationsZip extracts to AnnotationsSubdir and
// contains AnnotationsFile. The checksums are not published by the COCO project, so
// none are verified.
type splitFiles struct {
	ImagesZip, ImagesDir string

	AnnotationsZip, AnnotationsFile string
}

var splits = map[string]splitFiles{
	"train": {
		ImagesZip: "zips/train2017.zip", ImagesDir: "train2017",
		AnnotationsZip:  "annotations/annotations_trainval2017.zip",
		AnnotationsFile: "instances_train2017.json",
	},
	"validation": {
		ImagesZip: "zips/val2017.zip", ImagesDir: "val2017",
		AnnotationsZip:  "annotations/annotations_trainval2017.zip",
		AnnotationsFile: "instances_val2017.json",
	},
	// The test split has no public instance annotations, only image info.
	"test": {
		ImagesZip: "zips/test2017.zip", ImagesDir: "test2017",
		AnnotationsZip:  "annotations/image_info_test2017.zip",
		AnnotationsFile: "image_info_test2017.json",
	},
}

// zooDataset implements zoo.Dataset.
type zooDataset struct{}

func init() {
	zoo.Register(zooDataset{})
}

func (zooDataset) Name() string { return Name }

func (zooDataset) Description() string {
	return "COCO: common objects in context, 2017 release -- 80 object categories with bounding-box annotations"
}

func (zooDataset) Splits() []string { return []string{"train", "validation", "test"} }

// Download fetches and extracts the split's archives under baseDir and parses the
// annotations. Archives and extracted directories already present are reused.
func (zooDataset) Download(split, baseDir string) (*dataset.Dataset, error) {
	files, found := splits[split]
	if !found {
		return nil, errors.Errorf("coco-2017 has no split %q", split)
	}
	baseDir = fsutil.MustReplaceTildeInDir(baseDir)
	downloadDir := path.Join(baseDir, DownloadSubdir)
	if err := os.MkdirAll(downloadDir, 0777); err != nil && !os.IsExist(err) {
		return nil, errors.Wrapf(err, "Failed to create path for downloading %q", downloadDir)
	}

	imagesDir := path.Join(baseDir, files.ImagesDir)
	err := downloader.DownloadAndUnzipIfMissing(
		DownloadBaseURL+files.ImagesZip, path.Join(downloadDir, path.Base(files.ImagesZip)),
		baseDir, imagesDir, "")
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to download %q images", split)
	}

	annotationsFile := path.Join(baseDir, AnnotationsSubdir, files.AnnotationsFile)
	err = downloader.DownloadAndUnzipIfMissing(
		DownloadBaseURL+files.AnnotationsZip, path.Join(downloadDir, path.Base(files.AnnotationsZip)),
		baseDir, annotationsFile, "")
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to download %q annotations", split)
	}

	samples, err := ParseInstances(annotationsFile, imagesDir)
	if err != nil {
		return nil, err
	}
	klog.V(1).Infof("coco-2017/%s: parsed %d samples from %q", split, len(samples), annotationsFile)
	return &dataset.Dataset{
		Name:    Name,
		Split:   split,
		Dir:     baseDir,
		Samples: samples,
	}, nil
}
