package main

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// avatarUploader stores a review's avatar under a key derived from the
// review id. The fixed key makes the upload idempotent: re-uploading for
// the same review overwrites rather than accumulating files.
type avatarUploader interface {
	Upload(ctx context.Context, file io.Reader, reviewID int64) (string, error)
}

type cloudinaryAvatars struct {
	cld *cloudinary.Cloudinary
}

func (a *cloudinaryAvatars) Upload(ctx context.Context, file io.Reader, reviewID int64) (string, error) {
	publicID := fmt.Sprintf("review_%d", reviewID)

	resp, err := a.cld.Upload.Upload(
		ctx,
		file,
		uploader.UploadParams{
			Folder:    "avatars",
			PublicID:  publicID,
			Overwrite: api.Bool(true),
		},
	)
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	return resp.SecureURL, nil
}
