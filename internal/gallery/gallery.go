// Package gallery holds the ordered set of loaded images and the current
// selection.
package gallery

import "image"

// Image is a decoded, display-ready image. URI is a data URI of the
// original bytes.
type Image struct {
	Name   string
	MIME   string
	URI    string
	Pixels image.Image
}

func (img Image) Bounds() image.Rectangle {
	if img.Pixels == nil {
		return image.Rectangle{}
	}
	return img.Pixels.Bounds()
}

// Collection is replaced wholesale, never merged. Selected is always a
// valid index when the collection is non-empty, and 0 otherwise.
type Collection struct {
	images   []Image
	selected int
}

func New() *Collection {
	return &Collection{}
}

func (c *Collection) Len() int      { return len(c.images) }
func (c *Collection) Empty() bool   { return len(c.images) == 0 }
func (c *Collection) Selected() int { return c.selected }

// Images returns a copy of the collection in order.
func (c *Collection) Images() []Image {
	out := make([]Image, len(c.images))
	copy(out, c.images)
	return out
}

// Current returns the selected image.
func (c *Collection) Current() (Image, bool) {
	if len(c.images) == 0 {
		return Image{}, false
	}
	return c.images[c.selected], true
}

func (c *Collection) At(i int) (Image, bool) {
	if i < 0 || i >= len(c.images) {
		return Image{}, false
	}
	return c.images[i], true
}

// Replace swaps in a new set of images in one step and selects the first.
func (c *Collection) Replace(images []Image) {
	next := make([]Image, len(images))
	copy(next, images)
	c.images = next
	c.selected = 0
}

func (c *Collection) Clear() {
	c.images = nil
	c.selected = 0
}

// Next advances the selection, wrapping at the end.
func (c *Collection) Next() int {
	if n := len(c.images); n > 0 {
		c.selected = (c.selected + 1) % n
	}
	return c.selected
}

// Previous moves the selection back, wrapping at the start.
func (c *Collection) Previous() int {
	if n := len(c.images); n > 0 {
		c.selected = (c.selected - 1 + n) % n
	}
	return c.selected
}

// Select sets the selection. Out-of-range indices are ignored.
func (c *Collection) Select(i int) bool {
	if i < 0 || i >= len(c.images) {
		return false
	}
	c.selected = i
	return true
}
