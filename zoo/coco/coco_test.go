package coco

import (
	"archive/zip"
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Gabriellgpc/self-supervision-exploration/zoo"
)

const instancesFixture = `{
	"images": [
		{"id": 1, "file_name": "000000000001.jpg", "width": 640, "height": 480},
		{"id": 2, "file_name": "000000000002.jpg", "width": 320, "height": 240}
	],
	"annotations": [
		{"image_id": 1, "category_id": 18, "bbox": [10.5, 20.0, 100.0, 50.0], "iscrowd": 0},
		{"image_id": 1, "category_id": 17, "bbox": [200.0, 100.0, 80.0, 60.0], "iscrowd": 1},
		{"image_id": 2, "category_id": 17, "bbox": [5.0, 5.0, 30.0, 30.0], "iscrowd": 0}
	],
	"categories": [
		{"id": 17, "name": "cat", "supercategory": "animal"},
		{"id": 18, "name": "dog", "supercategory": "animal"}
	]
}`

func writeFixture(t *testing.T, contents string) string {
	t.Helper()
	filePath := filepath.Join(t.TempDir(), "instances_train2017.json")
	require.NoError(t, os.WriteFile(filePath, []byte(contents), 0666))
	return filePath
}

func TestRegistered(t *testing.T) {
	zd, found := zoo.Get(Name)
	require.True(t, found)
	require.Equal(t, Name, zd.Name())
	require.Equal(t, []string{"train", "validation", "test"}, zd.Splits())
}

func TestSplitsTable(t *testing.T) {
	for split, files := range splits {
		require.NotEmptyf(t, files.ImagesZip, "split %q", split)
		require.NotEmptyf(t, files.ImagesDir, "split %q", split)
		require.NotEmptyf(t, files.AnnotationsZip, "split %q", split)
		require.NotEmptyf(t, files.AnnotationsFile, "split %q", split)
	}
}

func TestParseInstances(t *testing.T) {
	filePath := writeFixture(t, instancesFixture)
	samples, err := ParseInstances(filePath, "/data/train2017")
	require.NoError(t, err)
	require.Len(t, samples, 2)

	// Samples are sorted by file name.
	first := samples[0]
	require.Equal(t, int64(1), first.ID)
	require.Equal(t, "/data/train2017/000000000001.jpg", first.FilePath)
	require.Equal(t, 640, first.Width)
	require.Equal(t, 480, first.Height)
	require.Len(t, first.Detections, 2)
	require.Equal(t, "dog", first.Detections[0].Label)
	require.Equal(t, 10.5, first.Detections[0].X)
	require.False(t, first.Detections[0].IsCrowd)
	require.Equal(t, "cat", first.Detections[1].Label)
	require.True(t, first.Detections[1].IsCrowd)

	second := samples[1]
	require.Len(t, second.Detections, 1)
	require.Equal(t, "cat", second.Detections[0].Label)
}

func TestParseInstancesImageInfoOnly(t *testing.T) {
	// The test split ships image info without annotations.
	filePath := writeFixture(t, `{"images": [{"id": 7, "file_name": "000000000007.jpg", "width": 640, "height": 427}]}`)
	samples, err := ParseInstances(filePath, "/data/test2017")
	require.NoError(t, err)
	require.Len(t, samples, 1)
	require.Empty(t, samples[0].Detections)
}

func TestParseInstancesCorrupted(t *testing.T) {
	_, err := ParseInstances(writeFixture(t, `{"images": []}`), "/data/train2017")
	require.Error(t, err)

	_, err = ParseInstances(writeFixture(t, `not json at all`), "/data/train2017")
	require.Error(t, err)

	// Annotation pointing at a missing image.
	_, err = ParseInstances(writeFixture(t, `{
		"images": [{"id": 1, "file_name": "a.jpg", "width": 10, "height": 10}],
		"annotations": [{"image_id": 99, "category_id": 17, "bbox": [0, 0, 1, 1]}],
		"categories": [{"id": 17, "name": "cat"}]
	}`), "/data/train2017")
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown image id 99")

	// Annotation pointing at a missing category.
	_, err = ParseInstances(writeFixture(t, `{
		"images": [{"id": 1, "file_name": "a.jpg", "width": 10, "height": 10}],
		"annotations": [{"image_id": 1, "category_id": 99, "bbox": [0, 0, 1, 1]}],
		"categories": [{"id": 17, "name": "cat"}]
	}`), "/data/train2017")
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown category id 99")
}

// buildZip returns a zip archive holding the given name->contents entries.
func buildZip(t *testing.T, entries map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, contents := range entries {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(contents))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

// TestDownload runs the full Download against a local server with miniature archives.
// It shells out to unzip, so it is disabled for short tests.
func TestDownload(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that shells out to unzip in short mode")
	}

	archives := map[string][]byte{
		"/zips/val2017.zip": buildZip(t, map[string]string{
			"val2017/000000000001.jpg": "not really a jpeg",
		}),
		"/annotations/annotations_trainval2017.zip": buildZip(t, map[string]string{
			"annotations/instances_val2017.json": `{
				"images": [{"id": 1, "file_name": "000000000001.jpg", "width": 640, "height": 480}],
				"annotations": [{"image_id": 1, "category_id": 17, "bbox": [1, 2, 3, 4], "iscrowd": 0}],
				"categories": [{"id": 17, "name": "cat"}]
			}`,
		}),
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		archive, found := archives[r.URL.Path]
		if !found {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(archive)
	}))
	defer server.Close()

	oldBaseURL := DownloadBaseURL
	DownloadBaseURL = server.URL + "/"
	defer func() { DownloadBaseURL = oldBaseURL }()

	baseDir := t.TempDir()
	ds, err := zooDataset{}.Download("validation", baseDir)
	require.NoError(t, err)
	require.Equal(t, Name, ds.Name)
	require.Equal(t, "validation", ds.Split)
	require.Equal(t, baseDir, ds.Dir)
	require.Len(t, ds.Samples, 1)
	require.Equal(t, filepath.Join(baseDir, "val2017", "000000000001.jpg"), ds.Samples[0].FilePath)
	require.Len(t, ds.Samples[0].Detections, 1)

	// The download directory must not be empty after a successful load.
	entries, err := os.ReadDir(filepath.Join(baseDir, DownloadSubdir))
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	// Loading again reuses everything on disk.
	server.Close()
	ds2, err := zooDataset{}.Download("validation", baseDir)
	require.NoError(t, err)
	require.Equal(t, ds.NumSamples(), ds2.NumSamples())
}
