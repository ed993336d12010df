package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/rohithvarma444/amEx-sub001/internal/errs"
	"github.com/rohithvarma444/amEx-sub001/internal/server"
	"github.com/rohithvarma444/amEx-sub001/internal/service"
)

// UploadHandler serves the image upload endpoint.
type UploadHandler struct {
	Handler
	services *service.Services
}

// NewUploadHandler constructs an UploadHandler.
func NewUploadHandler(s *server.Server, services *service.Services) *UploadHandler {
	return &UploadHandler{
		Handler:  NewHandler(s),
		services: services,
	}
}

// UploadImageResponse carries the stored image's public URL, which the
// client then references in post payloads.
type UploadImageResponse struct {
	URL string `json:"url"`
}

// UploadImage accepts one multipart image under the "image" field.
func (h *UploadHandler) UploadImage(c echo.Context, req *EmptyRequest) (*UploadImageResponse, error) {
	file, err := c.FormFile("image")
	if err != nil {
		return nil, errs.NewBadRequestError("An image file is required under the \"image\" field", true, nil, nil, nil)
	}

	url, err := h.services.Upload.SaveImage(file)
	if err != nil {
		return nil, err
	}

	return &UploadImageResponse{URL: url}, nil
}
