// Package media stores uploaded images and hands back the URL that gets
// persisted. The rest of the system only ever sees URLs.
package media

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

type Uploader interface {
	// Upload stores the image and returns its public URL.
	Upload(ctx context.Context, r io.Reader, filename string) (string, error)
}

// LocalDisk stores uploads under Dir and returns /uploads/... paths served
// statically by the app. Used when no Cloudinary credentials are configured.
type LocalDisk struct {
	Dir string
}

func (l LocalDisk) Upload(_ context.Context, r io.Reader, filename string) (string, error) {
	if err := os.MkdirAll(l.Dir, 0o755); err != nil {
		return "", err
	}
	name := uuid.NewString() + filepath.Ext(filename)
	dst := filepath.Join(l.Dir, name)
	f, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("write upload: %w", err)
	}
	return "/uploads/" + name, nil
}
