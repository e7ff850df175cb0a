package upload

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"net/http"
	"runtime"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/contrastanim/internal/gallery"
)

type Decoder struct {
	workers int
	log     *slog.Logger
}

// NewDecoder returns a decoder running at most workers decodes at once.
// workers <= 0 uses GOMAXPROCS.
func NewDecoder(workers int, logger *slog.Logger) *Decoder {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Decoder{workers: workers, log: logger}
}

// Decode decodes every file and returns the images in input order. If any
// file fails, the others are cancelled and a *DecodeError is returned with
// no images.
func (d *Decoder) Decode(ctx context.Context, files []File) ([]gallery.Image, error) {
	images := make([]gallery.Image, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(d.workers)

	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			img, err := decodeOne(f)
			if err != nil {
				return &DecodeError{Name: f.Name, Wrapped: err}
			}
			images[i] = img
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		d.log.Warn("upload: batch abandoned", "files", len(files), "error", err)
		return nil, err
	}

	d.log.Info("upload: batch decoded", "files", len(files))
	return images, nil
}

func decodeOne(f File) (gallery.Image, error) {
	if len(f.Data) == 0 {
		return gallery.Image{}, ErrEmptyFile
	}

	pixels, _, err := image.Decode(bytes.NewReader(f.Data))
	if err != nil {
		return gallery.Image{}, err
	}

	mt := sniff(f)
	return gallery.Image{
		Name:   f.Name,
		MIME:   mt,
		URI:    DataURI(mt, f.Data),
		Pixels: pixels,
	}, nil
}

// sniff prefers the detected type and falls back to the declared one when
// detection does not recognise an image format.
func sniff(f File) string {
	mt := http.DetectContentType(f.Data)
	if strings.HasPrefix(mt, "image/") {
		return mt
	}
	return f.ContentType
}

func DataURI(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
