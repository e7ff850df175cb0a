// Package viewer holds the interaction state of the contrast viewer: image
// uploads, navigation, the expanded view, the toolbar and the magnifier.
//
// A Viewer turns user intents into calls on the animation controller and the
// image collection. It does no I/O; decoding happens elsewhere and its
// result is handed back through FinishUpload.
package viewer

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/san-kum/contrastanim/internal/animation"
	"github.com/san-kum/contrastanim/internal/gallery"
	"github.com/san-kum/contrastanim/internal/upload"
)

const noImagesNotice = "Please select at least one image file."

// Point is a probe position in displayed-image pixels.
type Point struct{ X, Y int }

type Key int

const (
	KeyOther Key = iota
	KeyLeft
	KeyRight
	KeyEscape
)

type Viewer struct {
	anim    *animation.Controller
	gallery *gallery.Collection

	expanded  bool
	toolbar   bool
	magnifier bool
	probe     Point

	batch   uint64
	loading bool
	notices []string

	log *slog.Logger
}

func New(anim *animation.Controller, images *gallery.Collection, logger *slog.Logger) *Viewer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Viewer{
		anim:    anim,
		gallery: images,
		toolbar: true,
		log:     logger,
	}
}

func (v *Viewer) Animation() *animation.Controller { return v.anim }
func (v *Viewer) Gallery() *gallery.Collection     { return v.gallery }

func (v *Viewer) Expanded() bool  { return v.expanded }
func (v *Viewer) Toolbar() bool   { return v.toolbar }
func (v *Viewer) Magnifier() bool { return v.magnifier }
func (v *Viewer) Probe() Point    { return v.probe }
func (v *Viewer) Loading() bool   { return v.loading }

// Notify queues a one-shot message for the user.
func (v *Viewer) Notify(format string, args ...any) {
	v.notices = append(v.notices, fmt.Sprintf(format, args...))
}

// Notice pops the oldest pending message.
func (v *Viewer) Notice() (string, bool) {
	if len(v.notices) == 0 {
		return "", false
	}
	n := v.notices[0]
	v.notices = v.notices[1:]
	return n, true
}

// BeginUpload filters a selection down to image files and opens a new
// batch. When nothing is left a notice is queued and ok is false; no state
// changes in that case. Any batch still decoding is superseded.
func (v *Viewer) BeginUpload(files []upload.File) (images []upload.File, batch uint64, ok bool) {
	images, err := upload.Filter(files)
	if err != nil {
		v.Notify(noImagesNotice)
		v.log.Info("viewer: upload rejected", "files", len(files))
		return nil, 0, false
	}
	v.batch++
	v.loading = true
	v.log.Debug("viewer: upload started", "batch", v.batch, "images", len(images))
	return images, v.batch, true
}

// FinishUpload applies the outcome of a decode batch. Results from a
// superseded batch are dropped. On success the collection is replaced in one
// step, the selection returns to the first image and the animation is reset.
// On failure the previous collection and animation are left alone.
func (v *Viewer) FinishUpload(batch uint64, images []gallery.Image, err error) bool {
	if batch != v.batch {
		v.log.Debug("viewer: stale upload dropped", "batch", batch, "current", v.batch)
		return false
	}
	v.loading = false

	if err != nil {
		var de *upload.DecodeError
		if errors.As(err, &de) {
			v.Notify("Could not load %s; keeping the current images.", de.Name)
		} else {
			v.Notify("Upload failed: %v", err)
		}
		v.log.Warn("viewer: upload failed", "batch", batch, "error", err)
		return false
	}

	v.gallery.Replace(images)
	v.anim.Reset()
	v.Notify("%s", v.LoadedLabel())
	v.log.Info("viewer: images loaded", "batch", batch, "count", len(images))
	return true
}

// Clear empties the collection, resets the animation and the magnifier.
func (v *Viewer) Clear() {
	v.batch++
	v.loading = false
	v.gallery.Clear()
	v.anim.Reset()
	v.magnifier = false
	v.probe = Point{}
	v.expanded = false
	v.log.Debug("viewer: cleared")
}

func (v *Viewer) Next() int     { return v.gallery.Next() }
func (v *Viewer) Previous() int { return v.gallery.Previous() }
func (v *Viewer) Select(i int) bool {
	return v.gallery.Select(i)
}

// ToggleExpanded enters the expanded view when an image is selected and
// leaves it otherwise.
func (v *Viewer) ToggleExpanded() bool {
	if !v.expanded && v.gallery.Empty() {
		return false
	}
	v.expanded = !v.expanded
	return v.expanded
}

func (v *Viewer) ToggleToolbar() bool {
	v.toolbar = !v.toolbar
	return v.toolbar
}

func (v *Viewer) ToggleMagnifier() bool {
	v.magnifier = !v.magnifier
	return v.magnifier
}

// MoveProbe records the pointer position relative to the displayed image of
// size w x h. Positions outside the image are ignored.
func (v *Viewer) MoveProbe(x, y, w, h int) bool {
	if !v.magnifier {
		return false
	}
	if x < 0 || y < 0 || x > w || y > h {
		return false
	}
	v.probe = Point{X: x, Y: y}
	return true
}

// LeaveProbe resets the probe when the pointer leaves the image.
func (v *Viewer) LeaveProbe() {
	v.probe = Point{}
}

// ProbeVisible reports whether the lens should be drawn.
func (v *Viewer) ProbeVisible() bool {
	return v.magnifier && v.probe.X > 0 && v.probe.Y > 0
}

// HandleKey processes the expanded-view keyboard surface. It returns false
// when the key was not consumed, including every key outside the expanded
// view.
func (v *Viewer) HandleKey(k Key) bool {
	if !v.expanded {
		return false
	}
	switch k {
	case KeyLeft:
		if v.gallery.Len() > 1 {
			v.Previous()
		}
		return true
	case KeyRight:
		if v.gallery.Len() > 1 {
			v.Next()
		}
		return true
	case KeyEscape:
		v.expanded = false
		return true
	}
	return false
}

// Position is the "i of n" label, empty when nothing is loaded.
func (v *Viewer) Position() string {
	if v.gallery.Empty() {
		return ""
	}
	return fmt.Sprintf("%d of %d", v.gallery.Selected()+1, v.gallery.Len())
}

func (v *Viewer) LoadedLabel() string {
	n := v.gallery.Len()
	if n == 1 {
		return "1 image loaded"
	}
	return fmt.Sprintf("%d images loaded", n)
}

// Teardown releases the animation's frame request. Call it on exit.
func (v *Viewer) Teardown() {
	v.anim.Teardown()
	v.log.Debug("viewer: teardown")
}
