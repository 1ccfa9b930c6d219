package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"feiraja/internal/config"
)

// MaxImageSize — лимит загружаемой картинки товара.
const MaxImageSize = 5 << 20

// ImageUpload — файл из multipart-формы.
type ImageUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ImageStore сохраняет картинку и возвращает ссылку для поля product.image.
type ImageStore interface {
	Save(ctx context.Context, img ImageUpload) (string, error)
}

// DataURLStore кладёт картинку прямо в базу как data URL.
type DataURLStore struct{}

func (DataURLStore) Save(_ context.Context, img ImageUpload) (string, error) {
	ct := img.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	return fmt.Sprintf("data:%s;base64,%s", ct, base64.StdEncoding.EncodeToString(img.Data)), nil
}

type CloudinaryStore struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryStore(cfg config.CloudinaryConfig) (*CloudinaryStore, error) {
	if !cfg.Configured() {
		return nil, errors.New("cloudinary not configured")
	}
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary init: %w", err)
	}
	return &CloudinaryStore{cld: cld, folder: cfg.Folder}, nil
}

func (s *CloudinaryStore) Save(ctx context.Context, img ImageUpload) (string, error) {
	resp, err := s.cld.Upload.Upload(ctx, bytes.NewReader(img.Data), uploader.UploadParams{Folder: s.folder})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	if resp.Error.Message != "" {
		return "", fmt.Errorf("cloudinary upload: %s", resp.Error.Message)
	}
	return resp.SecureURL, nil
}
