// Package http wires the asset manager to its gin transport: routing,
// multipart decoding, the response envelope and error-status mapping.
package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"album/internal/asset"
	"album/internal/logging"
)

// AlbumHandler adapts asset.Manager operations to HTTP.
type AlbumHandler struct {
	manager *asset.Manager
	logger  logging.Logger
}

// NewAlbumHandler creates a handler around the given manager.
func NewAlbumHandler(manager *asset.Manager, logger logging.Logger) *AlbumHandler {
	return &AlbumHandler{manager: manager, logger: logging.OrNop(logger)}
}

// HandleHealth reports service liveness.
func (h *AlbumHandler) HandleHealth(c *gin.Context) {
	respondOK(c, "success", "Album service is running")
}

// HandleUpload accepts a multipart form with a "file" part and an optional
// "description" field.
func (h *AlbumHandler) HandleUpload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.writeError(c, asset.ErrEmptyFile)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("Open multipart file: %v", err)
		h.writeError(c, err)
		return
	}
	defer func() { _ = file.Close() }()

	upload := asset.Upload{
		Filename:    fileHeader.Filename,
		MediaType:   fileHeader.Header.Get("Content-Type"),
		SizeBytes:   fileHeader.Size,
		Description: c.PostForm("description"),
	}

	view, err := h.manager.Upload(c.Request.Context(), upload, file)
	if err != nil {
		h.writeError(c, err)
		return
	}
	respondOK(c, "upload succeeded", view)
}

// HandleList serves one page of the non-deleted asset listing.
func (h *AlbumHandler) HandleList(c *gin.Context) {
	page, err := h.manager.List(c.Request.Context(), intQuery(c, "page"), intQuery(c, "size"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	respondOK(c, "success", page)
}

// HandleDelete soft-deletes one asset by id.
func (h *AlbumHandler) HandleDelete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid image id")
		return
	}
	if err := h.manager.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	respondOK(c, "delete succeeded", nil)
}

// writeError maps domain errors to status codes. Client mistakes surface
// their own message; everything else is logged in full and reported with an
// opaque message.
func (h *AlbumHandler) writeError(c *gin.Context, err error) {
	switch {
	case asset.IsClientError(err):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, asset.ErrNotFound):
		respondError(c, http.StatusNotFound, asset.ErrNotFound.Error())
	default:
		h.logger.Error("Request failed: %v", err)
		respondError(c, http.StatusInternalServerError, "internal error, please retry later")
	}
}

// intQuery parses a query parameter, returning 0 for absent or malformed
// values so the manager applies its own defaults.
func intQuery(c *gin.Context, name string) int {
	value, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return 0
	}
	return value
}
