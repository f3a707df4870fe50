// Package explore performs the project's one action: download a dataset split from
// the zoo, then launch the viewer over the resulting catalog.
//
// Acquisition always completes before the viewer is launched, a failed acquisition
// aborts the run, and the catalog is handed to the viewer exactly as the zoo loader
// returned it.
package explore

import (
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/Gabriellgpc/self-supervision-exploration/dataset"
	"github.com/Gabriellgpc/self-supervision-exploration/viewer"
	"github.com/Gabriellgpc/self-supervision-exploration/zoo"
)

// Config selects what to explore.
type Config struct {
	// Dataset is the zoo name of the dataset, e.g. "coco-2017".
	Dataset string

	// Split of the dataset to load, e.g. "train".
	Split string

	// DataDir is where the dataset files are downloaded to, e.g. "/data".
	DataDir string
}

type options struct {
	load     func(name, split, baseDir string) (*dataset.Dataset, error)
	launch   func(ds *dataset.Dataset) (*viewer.Session, error)
	onLoaded func(ds *dataset.Dataset)
}

// Option customizes Run.
type Option func(*options)

// WithLoadFunc replaces zoo.Load as the acquisition step.
func WithLoadFunc(load func(name, split, baseDir string) (*dataset.Dataset, error)) Option {
	return func(o *options) { o.load = load }
}

// WithLaunchFunc replaces viewer.Launch as the session-launch step.
func WithLaunchFunc(launch func(ds *dataset.Dataset) (*viewer.Session, error)) Option {
	return func(o *options) { o.launch = launch }
}

// OnLoaded registers a callback invoked with the catalog after a successful
// acquisition, before the viewer is launched. The command line uses it to print the
// dataset summary.
func OnLoaded(callback func(ds *dataset.Dataset)) Option {
	return func(o *options) { o.onLoaded = callback }
}

// Run downloads (or reuses from disk) the configured dataset split and launches a
// viewer session over it. If acquisition fails, the viewer is never launched.
//
// The returned session is live: the caller decides whether to block on Session.Wait.
func Run(cfg Config, opts ...Option) (*viewer.Session, error) {
	o := &options{load: zoo.Load, launch: viewer.Launch}
	for _, opt := range opts {
		opt(o)
	}
	if cfg.Dataset == "" || cfg.Split == "" || cfg.DataDir == "" {
		return nil, errors.Errorf("explore.Run needs a dataset, a split and a data directory, got %+v", cfg)
	}

	ds, err := o.load(cfg.Dataset, cfg.Split, cfg.DataDir)
	if err != nil {
		return nil, err
	}
	klog.V(1).Infof("acquired %s", ds)
	if o.onLoaded != nil {
		o.onLoaded(ds)
	}
	return o.launch(ds)
}
