// zoo_explorer downloads a dataset from the zoo and opens the viewer on it.
//
// Without flags it reproduces the original exploration script: it fetches the train
// split of COCO-2017 into /data and launches the browsing window over it, blocking
// until the window is closed.
//
//	$ zoo_explorer
//	$ zoo_explorer --dataset=coco-2017 --split=validation --data=~/work/coco
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/janpfeifer/must"
	"k8s.io/klog/v2"

	"github.com/Gabriellgpc/self-supervision-exploration/explore"
	"github.com/Gabriellgpc/self-supervision-exploration/viewer"
	"github.com/Gabriellgpc/self-supervision-exploration/zoo"

	_ "github.com/Gabriellgpc/self-supervision-exploration/zoo/coco"
)

var (
	flagDataset = flag.String("dataset", "coco-2017", "Name of the zoo dataset to download and explore.")
	flagSplit   = flag.String("split", "train", "Split of the dataset to load.")
	flagDataDir = flag.String("data", "/data", "Directory to store the downloaded dataset files.")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	if flag.NArg() > 0 {
		klog.Errorf("Unexpected arguments %v. See 'zoo_explorer -help'.", flag.Args())
		os.Exit(1)
	}
	viewer.RunMain(mainContinue)
}

func mainContinue() {
	if _, found := zoo.Get(*flagDataset); !found {
		klog.Errorf("Unknown dataset %q. Registered zoo datasets: %s.",
			*flagDataset, strings.Join(zoo.List(), ", "))
		os.Exit(1)
	}
	session := must.M1(explore.Run(
		explore.Config{
			Dataset: *flagDataset,
			Split:   *flagSplit,
			DataDir: *flagDataDir,
		},
		explore.OnLoaded(printSummary)))
	fmt.Println("Close the viewer window to exit.")
	session.Wait()
}
