package service

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/rohithvarma444/amEx-sub001/internal/errs"
	"github.com/rohithvarma444/amEx-sub001/internal/server"
)

// allowedImageExts are the image types accepted for post photos.
var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// UploadService stores post images on local disk under the configured upload
// directory, served back through the static file route.
type UploadService struct {
	server *server.Server
}

// NewUploadService constructs an UploadService and ensures the upload
// directory exists.
func NewUploadService(s *server.Server) (*UploadService, error) {
	if err := os.MkdirAll(s.Config.Storage.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &UploadService{server: s}, nil
}

// SaveImage validates and stores one uploaded image, returning its public
// URL. Filenames are random UUIDs so uploads can never collide or traverse
// paths.
func (s *UploadService) SaveImage(file *multipart.FileHeader) (string, error) {
	maxBytes := s.server.Config.Storage.MaxUploadMB * 1024 * 1024
	if file.Size > maxBytes {
		return "", errs.NewBadRequestError(
			fmt.Sprintf("Image exceeds the %dMB limit", s.server.Config.Storage.MaxUploadMB),
			true, nil, nil, nil)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExts[ext] {
		return "", errs.NewBadRequestError("Only JPG, PNG, and WebP images are allowed", true, nil, nil, nil)
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	name := uuid.New().String() + ext
	path := filepath.Join(s.server.Config.Storage.UploadDir, name)

	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		return "", err
	}

	return s.publicURL(name), nil
}

func (s *UploadService) publicURL(name string) string {
	base := strings.TrimSuffix(s.server.Config.Storage.PublicBaseURL, "/")
	return base + "/uploads/" + name
}
