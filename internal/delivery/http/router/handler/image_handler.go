package handler

import (
	"net/http"
	"path"
	"strings"

	"cafeadmin/internal/domain/service"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ImageHandler streams stored images back out of the blob store.
type ImageHandler struct {
	blobs service.BlobStore
}

func NewImageHandler(blobs service.BlobStore) *ImageHandler {
	return &ImageHandler{blobs: blobs}
}

// Serve handles GET /images/*
func (h *ImageHandler) Serve(c echo.Context) error {
	p := strings.TrimPrefix(path.Clean("/"+c.Param("*")), "/")
	if p == "" {
		return echo.ErrNotFound
	}

	r, contentType, err := h.blobs.Open(c.Request().Context(), p)
	if err != nil {
		if errors.Is(err, service.ErrBlobNotFound) {
			return echo.ErrNotFound
		}

		return errors.WithStack(err)
	}
	defer r.Close()

	return c.Stream(http.StatusOK, contentType, r)
}

// HealthCheck handles GET /health
func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
