package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

// ImageUpload is one file received from a client. ProductID is zero while the
// product is still being created.
type ImageUpload struct {
	Filename  string
	Data      []byte
	ProductID uint
}

type StoredImage struct {
	URL      string
	PublicID string
}

// ImageStore hosts binary images and returns a durable URL for each.
type ImageStore interface {
	Upload(ctx context.Context, upload ImageUpload) (StoredImage, error)
	Delete(ctx context.Context, publicID string) error
}

type CloudinaryStore struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryStore(cld *cloudinary.Cloudinary, folder string) *CloudinaryStore {
	return &CloudinaryStore{cld: cld, folder: folder}
}

func (s *CloudinaryStore) Upload(ctx context.Context, upload ImageUpload) (StoredImage, error) {
	publicID := strings.TrimSuffix(filepath.Base(upload.Filename), filepath.Ext(upload.Filename))
	publicID = fmt.Sprintf("%s-%s", publicID, uuid.NewString()[:8])

	res, err := s.cld.Upload.Upload(ctx, bytes.NewReader(upload.Data), uploader.UploadParams{
		Folder:       s.folderFor(upload),
		PublicID:     publicID,
		ResourceType: "image",
	})
	if err != nil {
		return StoredImage{}, fmt.Errorf("cloudinary upload failed: %w", err)
	}
	if res.Error.Message != "" {
		return StoredImage{}, fmt.Errorf("cloudinary upload rejected: %s", res.Error.Message)
	}

	return StoredImage{URL: res.SecureURL, PublicID: res.PublicID}, nil
}

// folderFor files product images under <folder>/<product id>.
func (s *CloudinaryStore) folderFor(upload ImageUpload) string {
	if upload.ProductID == 0 {
		return s.folder
	}
	return path.Join(s.folder, strconv.FormatUint(uint64(upload.ProductID), 10))
}

func (s *CloudinaryStore) Delete(ctx context.Context, publicID string) error {
	if publicID == "" {
		return nil
	}
	res, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("cloudinary destroy failed: %w", err)
	}
	if res.Error.Message != "" {
		return fmt.Errorf("cloudinary destroy rejected: %s", res.Error.Message)
	}
	return nil
}

// UnconfiguredStore is used when no image host is configured; every upload
// reports the storage as unavailable.
type UnconfiguredStore struct{}

func (UnconfiguredStore) Upload(ctx context.Context, upload ImageUpload) (StoredImage, error) {
	return StoredImage{}, errors.New("no image storage configured")
}

func (UnconfiguredStore) Delete(ctx context.Context, publicID string) error {
	return nil
}

const uploadAttempts = 2

// storeImages uploads every file or none: on failure the files already stored
// are removed and ErrStorageUnavailable is returned. Each file is retried once.
func storeImages(ctx context.Context, store ImageStore, productID uint, uploads []ImageUpload) ([]StoredImage, error) {
	stored := make([]StoredImage, 0, len(uploads))
	for _, upload := range uploads {
		upload.ProductID = productID
		var (
			img StoredImage
			err error
		)
		for attempt := 1; attempt <= uploadAttempts; attempt++ {
			img, err = store.Upload(ctx, upload)
			if err == nil || ctx.Err() != nil {
				break
			}
			log.Printf("storeImages: upload of %q failed (attempt %d/%d): %v", upload.Filename, attempt, uploadAttempts, err)
		}
		if err != nil {
			discardImages(ctx, store, stored)
			return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
		}
		stored = append(stored, img)
	}
	return stored, nil
}

func discardImages(ctx context.Context, store ImageStore, stored []StoredImage) {
	for _, img := range stored {
		if err := store.Delete(context.WithoutCancel(ctx), img.PublicID); err != nil {
			log.Printf("discardImages: failed to remove %s: %v", img.PublicID, err)
		}
	}
}

func validateUploads(uploads []ImageUpload) error {
	if len(uploads) == 0 {
		return fieldError("images", "No images provided.")
	}
	for _, u := range uploads {
		if len(u.Data) == 0 {
			return fieldError("images", fmt.Sprintf("%s is empty.", u.Filename))
		}
		if !strings.HasPrefix(http.DetectContentType(u.Data), "image/") {
			return fieldError("images", fmt.Sprintf("%s is not a valid image.", u.Filename))
		}
	}
	return nil
}
