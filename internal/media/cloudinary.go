package media

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

// Cloudinary uploads images to a Cloudinary account and returns the secure
// delivery URL.
type Cloudinary struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// NewCloudinary builds an uploader from a cloudinary:// URL.
func NewCloudinary(cloudinaryURL string) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, err
	}
	return &Cloudinary{cld: cld, folder: "tradewind"}, nil
}

func (c *Cloudinary) Upload(ctx context.Context, r io.Reader, filename string) (string, error) {
	publicID := strings.TrimSuffix(uuid.NewString()+"-"+filepath.Base(filename), filepath.Ext(filename))
	resp, err := c.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		PublicID: publicID,
		Folder:   c.folder,
	})
	if err != nil {
		return "", err
	}
	if resp.SecureURL == "" {
		return "", errors.New("cloudinary returned no URL")
	}
	return resp.SecureURL, nil
}
