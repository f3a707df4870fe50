package viewer

import (
	"fmt"
	"sync"

	"fyne.io/fyne/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/Gabriellgpc/self-supervision-exploration/dataset"
)

// Session is a running viewer window bound to a catalog.
type Session struct {
	// ID uniquely identifies the session.
	ID string

	// Dataset is the catalog being browsed, the exact reference passed to Launch.
	Dataset *dataset.Dataset

	win       fyne.Window
	closed    chan struct{}
	closeOnce sync.Once
}

// Launch opens a viewer window over the given catalog and returns its Session.
//
// It must be called from within RunMain, on an environment with a graphical display;
// otherwise it returns an error. An empty catalog is also an error: there would be
// nothing to browse.
func Launch(ds *dataset.Dataset) (*Session, error) {
	if ds == nil || ds.NumSamples() == 0 {
		return nil, errors.Errorf("cannot launch the viewer over an empty catalog")
	}
	if App == nil {
		if !HasWindows() {
			return nil, errors.Errorf("cannot launch the viewer: no graphical display available (DISPLAY is not set)")
		}
		return nil, errors.Errorf("cannot launch the viewer: viewer.Launch must be called from within viewer.RunMain")
	}

	s := &Session{
		ID:      uuid.NewString(),
		Dataset: ds,
		closed:  make(chan struct{}),
	}
	w := App.NewWindow(fmt.Sprintf("%s/%s (%d samples)", ds.Name, ds.Split, ds.NumSamples()))
	w.SetContent(newBrowser(ds).content())
	w.Resize(fyne.NewSize(1100, 760))
	w.SetOnClosed(s.markClosed)
	windowOpened()
	w.Show()
	s.win = w
	klog.Infof("viewer session %s launched over %s", s.ID, ds)
	return s, nil
}

// Wait blocks until the session's window is closed, by the user or by Close.
func (s *Session) Wait() {
	<-s.closed
}

// Close closes the session's window.
func (s *Session) Close() {
	s.markClosed()
	s.win.Close()
}

func (s *Session) markClosed() {
	s.closeOnce.Do(func() {
		close(s.closed)
		windowClosed()
		klog.V(1).Infof("viewer session %s closed", s.ID)
	})
}
