// Package upload turns user-selected files into display-ready images.
//
// Files pass an image/* content-type filter first, then the whole batch is
// decoded in parallel. A batch is all-or-nothing: if any file fails to
// decode, no images are returned and the caller keeps its previous
// collection.
package upload

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// File is one selected file with its declared content type.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

func (f File) IsImage() bool {
	return strings.HasPrefix(f.ContentType, "image/")
}

// FromPaths reads paths into Files. The declared type comes from the file
// extension, falling back to content sniffing.
func FromPaths(paths []string) ([]File, error) {
	files := make([]File, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("upload: read %s: %w", p, err)
		}
		files = append(files, File{
			Name:        filepath.Base(p),
			ContentType: declaredType(p, data),
			Data:        data,
		})
	}
	return files, nil
}

func declaredType(path string, data []byte) string {
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); t != "" {
		return t
	}
	return http.DetectContentType(data)
}

// Filter keeps image files. It returns ErrNoImages when none remain.
func Filter(files []File) ([]File, error) {
	out := make([]File, 0, len(files))
	for _, f := range files {
		if f.IsImage() {
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return nil, ErrNoImages
	}
	return out, nil
}
