package upload

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/medibook/booking-api/pkg/circuitbreaker"
)

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

type cloudinaryUploader struct {
	client *cloudinary.Cloudinary
	folder string
	cb     *circuitbreaker.CircuitBreaker
}

func NewCloudinaryUploader(cfg CloudinaryConfig) (Uploader, error) {
	client, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to init cloudinary client: %w", err)
	}

	cb := circuitbreaker.NewCircuitBreaker(circuitbreaker.Settings{
		Name:        "cloudinary",
		MaxRequests: 5,
		Interval:    30 * time.Second,
		Timeout:     15 * time.Second,
	})

	return &cloudinaryUploader{client: client, folder: cfg.Folder, cb: cb}, nil
}

func (u *cloudinaryUploader) Upload(ctx context.Context, file io.Reader, filename string) (string, error) {
	var url string
	err := u.cb.Execute(func() error {
		resp, err := u.client.Upload.Upload(ctx, file, uploader.UploadParams{
			Folder:   u.folder,
			PublicID: filename,
		})
		if err != nil {
			return err
		}
		url = resp.SecureURL
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	return url, nil
}
