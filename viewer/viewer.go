// Package viewer implements the graphical browsing application launched over a
// downloaded dataset catalog: a window with the list of samples, the selected image
// with its bounding boxes drawn on top, a per-label filter and a label-distribution
// chart.
//
// Fyne requires the process' main goroutine, so a program using the viewer wraps its
// main function:
//
//	func main() {
//		flag.Parse()
//		viewer.RunMain(mainContinue)
//	}
//
//	func mainContinue() {
//		ds := must.M1(zoo.Load(...))
//		session := must.M1(viewer.Launch(ds))
//		session.Wait()
//	}
package viewer

import (
	"os"
	"os/signal"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/gomlx/exceptions"
	"k8s.io/klog/v2"
)

var (
	// App holds the current Fyne App singleton, created by RunMain when a graphical
	// display is available.
	//
	// It is here for someone who may want to customize the app; otherwise use RunMain
	// and Launch.
	App fyne.App

	numWindowsOpened   int
	muNumWindowsOpened sync.Mutex
	condNumWindowsOpen = sync.NewCond(&muNumWindowsOpened)
)

// exceptionFunnel collects the first exception reported by any of RunMain's
// goroutines; later ones are dropped.
type exceptionFunnel struct {
	mu        sync.Mutex
	exception any
}

func (f *exceptionFunnel) set(e any) {
	if e == nil {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.exception == nil {
		f.exception = e
	}
}

func (f *exceptionFunnel) get() any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.exception
}

// RunMain is a wrapper that will execute your main function on a separate goroutine,
// while reserving the current (presumably the main goroutine) to run the Fyne loop.
//
// It should be called once at the beginning of your main function. If there is no
// graphical display, the main function is simply run in place -- Launch will then
// fail, and the program can report it.
func RunMain(main func()) {
	var funnel exceptionFunnel
	if !HasWindows() {
		funnel.set(exceptions.Try(main))
	} else {
		done := make(chan struct{})
		var doneOnce sync.Once
		trigger := func() { doneOnce.Do(func() { close(done) }) }

		// Closed once App is set, so the interrupt goroutine never quits a nil App.
		appReady := make(chan struct{})
		onInterrupt := make(chan os.Signal, 1)
		go func() {
			<-onInterrupt
			<-appReady
			funnel.set("Interrupt (control+C) signal received.")
			trigger()
			App.Quit()
		}()

		go func() {
			// Override the behavior installed by Fyne.
			signal.Reset(os.Interrupt)
			signal.Notify(onInterrupt, os.Interrupt)
			<-appReady
			funnel.set(exceptions.Try(main))
			trigger()
			if funnel.get() == nil {
				// Normal end, wait for all windows to close.
				WaitForWindows()
				App.Quit()
			} else {
				// An exception was thrown, force immediate quit.
				App.Quit()
			}
		}()
		App = app.New()
		close(appReady)
		App.Run()

		// Once App.Run returns, all windows are definitely closed. Reset the counter so
		// any pending WaitForWindows callers are released.
		condNumWindowsOpen.L.Lock()
		numWindowsOpened = 0
		condNumWindowsOpen.Broadcast()
		condNumWindowsOpen.L.Unlock()

		// Wait for the main goroutine to finish and any exceptions to be reported.
		<-done
	}

	if exception := funnel.get(); exception != nil {
		klog.Fatalf("Panic:\n%+v", exception)
	}
}

// WaitForWindows waits for all viewer windows to be closed by the user.
//
// Usually RunMain will automatically call this function at the end of the program,
// but it's available if the program wants an extra sync point.
func WaitForWindows() {
	condNumWindowsOpen.L.Lock()
	defer condNumWindowsOpen.L.Unlock()
	for numWindowsOpened > 0 {
		condNumWindowsOpen.Wait()
	}
}

// HasWindows checks if the environment has a graphical display available by verifying
// the DISPLAY environment variable.
func HasWindows() bool {
	return os.Getenv("DISPLAY") != ""
}

func windowOpened() {
	muNumWindowsOpened.Lock()
	defer muNumWindowsOpened.Unlock()
	numWindowsOpened++
}

func windowClosed() {
	condNumWindowsOpen.L.Lock()
	numWindowsOpened--
	if numWindowsOpened <= 0 {
		condNumWindowsOpen.Broadcast()
	}
	condNumWindowsOpen.L.Unlock()
}
