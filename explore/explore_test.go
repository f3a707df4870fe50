package explore

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/Gabriellgpc/self-supervision-exploration/dataset"
	"github.com/Gabriellgpc/self-supervision-exploration/viewer"
)

type fakeSteps struct {
	calls    []string
	loaded   *dataset.Dataset
	launched *dataset.Dataset
	loadErr  error
}

func (f *fakeSteps) load(name, split, baseDir string) (*dataset.Dataset, error) {
	f.calls = append(f.calls, "load")
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	f.loaded = &dataset.Dataset{Name: name, Split: split, Dir: baseDir,
		Samples: []*dataset.Sample{{ID: 1}}}
	return f.loaded, nil
}

func (f *fakeSteps) launch(ds *dataset.Dataset) (*viewer.Session, error) {
	f.calls = append(f.calls, "launch")
	f.launched = ds
	return &viewer.Session{ID: "fake-session", Dataset: ds}, nil
}

func TestRunOrdering(t *testing.T) {
	f := &fakeSteps{}
	session, err := Run(Config{Dataset: "coco-2017", Split: "train", DataDir: "/data"},
		WithLoadFunc(f.load), WithLaunchFunc(f.launch))
	require.NoError(t, err)
	require.Equal(t, []string{"load", "launch"}, f.calls)
	// The launched catalog is the exact reference acquisition produced.
	require.Same(t, f.loaded, f.launched)
	require.Same(t, f.loaded, session.Dataset)
	require.Equal(t, "coco-2017", f.loaded.Name)
	require.Equal(t, "train", f.loaded.Split)
	require.Equal(t, "/data", f.loaded.Dir)
}

func TestRunAcquisitionFailure(t *testing.T) {
	f := &fakeSteps{loadErr: errors.New(`unknown split "bogus-split"`)}
	_, err := Run(Config{Dataset: "coco-2017", Split: "bogus-split", DataDir: "/data"},
		WithLoadFunc(f.load), WithLaunchFunc(f.launch))
	require.Error(t, err)
	// Launch must never run when acquisition fails.
	require.Equal(t, []string{"load"}, f.calls)
	require.Nil(t, f.launched)
}

func TestRunOnLoaded(t *testing.T) {
	f := &fakeSteps{}
	var fromCallback *dataset.Dataset
	order := make([]string, 0, 3)
	_, err := Run(Config{Dataset: "coco-2017", Split: "train", DataDir: "/data"},
		WithLoadFunc(f.load),
		WithLaunchFunc(func(ds *dataset.Dataset) (*viewer.Session, error) {
			order = append(order, "launch")
			return f.launch(ds)
		}),
		OnLoaded(func(ds *dataset.Dataset) {
			order = append(order, "onLoaded")
			fromCallback = ds
		}))
	require.NoError(t, err)
	require.Equal(t, []string{"onLoaded", "launch"}, order)
	require.Same(t, f.loaded, fromCallback)
}

func TestRunBadConfig(t *testing.T) {
	f := &fakeSteps{}
	_, err := Run(Config{Dataset: "coco-2017"},
		WithLoadFunc(f.load), WithLaunchFunc(f.launch))
	require.Error(t, err)
	require.Empty(t, f.calls)
}
