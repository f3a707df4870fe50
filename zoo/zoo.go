// Package zoo is the registry of downloadable datasets known to this project.
//
// Each dataset registers itself during package initialization, so pulling one in is a
// blank import away:
//
//	import _ "github.com/Gabriellgpc/self-supervision-exploration/zoo/coco"
//
// After that, zoo.Load("coco-2017", "train", "/data") downloads (if needed) and
// parses the split, returning the in-memory catalog.
package zoo

import (
	"sort"

	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
	"golang.org/x/exp/maps"

	"github.com/Gabriellgpc/self-supervision-exploration/dataset"
)

// Dataset is implemented by every entry of the zoo.
//
// Download is responsible for fetching and extracting the split's files under baseDir
// (reusing anything already on disk) and parsing them into a catalog.
type Dataset interface {
	// Name is the identifier used to look the dataset up, e.g. "coco-2017".
	Name() string

	// Description is a longer description of the dataset that can be used to pretty-print.
	Description() string

	// Splits returns the valid split names, e.g. {"train", "validation", "test"}.
	Splits() []string

	// Download the given split into baseDir and parse it into a catalog.
	Download(split, baseDir string) (*dataset.Dataset, error)
}

var registered = make(map[string]Dataset)

// Register a dataset under its Name().
//
// To be safe, call Register during initialization of a package. Registering the same
// name twice panics.
func Register(zd Dataset) {
	name := zd.Name()
	if _, found := registered[name]; found {
		exceptions.Panicf("zoo dataset %q registered twice", name)
	}
	registered[name] = zd
}

// List returns the names of all registered datasets, sorted.
func List() []string {
	names := maps.Keys(registered)
	sort.Strings(names)
	return names
}

// Get returns the registered dataset with the given name.
func Get(name string) (Dataset, bool) {
	zd, found := registered[name]
	return zd, found
}

// Load resolves name to a registered zoo dataset, downloads/extracts the given split
// under baseDir (files already present are reused) and returns the parsed catalog.
//
// It panics if no dataset was registered at all, which means the program is missing a
// blank import such as `_ ".../zoo/coco"`.
func Load(name, split, baseDir string) (*dataset.Dataset, error) {
	if len(registered) == 0 {
		exceptions.Panicf(`no zoo datasets registered -- maybe import the default one with import _ "github.com/Gabriellgpc/self-supervision-exploration/zoo/coco"?`)
	}
	zd, found := registered[name]
	if !found {
		return nil, errors.Errorf("unknown zoo dataset %q, registered datasets are %v", name, List())
	}
	validSplit := false
	for _, s := range zd.Splits() {
		if s == split {
			validSplit = true
			break
		}
	}
	if !validSplit {
		return nil, errors.Errorf("unknown split %q for zoo dataset %q, valid splits are %v", split, name, zd.Splits())
	}
	ds, err := zd.Download(split, baseDir)
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to load zoo dataset %q split %q", name, split)
	}
	return ds, nil
}
