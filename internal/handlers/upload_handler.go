package handlers

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"time"

	"udaan_backend/internal/apperrors"
	"udaan_backend/internal/middleware"
	"udaan_backend/internal/services"
	"udaan_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type UploadHandler struct {
	*BaseHandler
	uploadService services.UploadService
}

func NewUploadHandler(base *BaseHandler, uploadService services.UploadService) *UploadHandler {
	return &UploadHandler{
		BaseHandler:   base,
		uploadService: uploadService,
	}
}

func (h *UploadHandler) RegisterRoutes(rg *gin.RouterGroup) {
	uploads := rg.Group("/uploads")
	uploads.Use(middleware.AuthMiddleware())
	{
		uploads.POST("", h.UploadFiles)
	}

	files := rg.Group("/files")
	files.Use(middleware.AuthMiddleware())
	{
		files.GET("/:id/download", h.DownloadFile)
		files.GET("/:id/url", h.GetFileURL)
	}
}

// UploadFiles godoc
// @Summary Upload media files for an event
// @Description Multipart upload under the form field "files"; RAW by the event's cameraman, FINAL by its editor
// @Tags uploads
// @Accept mpfd
// @Produce json
// @Param eventId query string true "Event id"
// @Param fileType query string true "RAW or FINAL"
// @Param files formData file true "Media files"
// @Success 201 {object} dto.UploadResponse
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 403 {object} apperrors.ErrorResponse
// @Router /uploads [post]
func (h *UploadHandler) UploadFiles(c *gin.Context) {
	var query dto.UploadQuery
	if !h.BindAndValidateQuery(c, &query) {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Failed to parse multipart form: "+err.Error()))
		return
	}

	fileHeaders := form.File["files"]
	if len(fileHeaders) == 0 {
		apperrors.HandleError(c, apperrors.NewBadRequestError("No files provided (use form field name 'files')"))
		return
	}

	inputs := make([]services.UploadInput, 0, len(fileHeaders))
	opened := make([]multipart.File, 0, len(fileHeaders))
	defer func() {
		for _, f := range opened {
			f.Close()
		}
	}()

	for _, header := range fileHeaders {
		file, err := header.Open()
		if err != nil {
			apperrors.HandleError(c, apperrors.NewBadRequestError("Failed to read uploaded file: "+header.Filename))
			return
		}
		opened = append(opened, file)

		inputs = append(inputs, services.UploadInput{
			Name:     header.Filename,
			Size:     header.Size,
			MimeType: header.Header.Get("Content-Type"),
			Reader:   file,
		})
	}

	files, err := h.uploadService.UploadFiles(
		c.Request.Context(),
		middleware.GetUserRole(c),
		middleware.GetUserID(c),
		query.EventID,
		query.FileType,
		inputs,
	)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.UploadResponse{Files: files})
}

// DownloadFile godoc
// @Summary Download a stored media file
// @Tags uploads
// @Produce octet-stream
// @Param id path string true "File id"
// @Success 200 {file} binary
// @Failure 403 {object} apperrors.ErrorResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /files/{id}/download [get]
func (h *UploadHandler) DownloadFile(c *gin.Context) {
	id, ok := h.RequireParam(c, "id")
	if !ok {
		return
	}

	reader, file, err := h.uploadService.Download(c.Request.Context(), middleware.GetUserRole(c), middleware.GetUserID(c), id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	defer reader.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	c.DataFromReader(http.StatusOK, file.Size, file.MimeType, reader, nil)
}

// GetFileURL godoc
// @Summary Get a temporary signed URL for a stored media file
// @Tags uploads
// @Produce json
// @Param id path string true "File id"
// @Param expiry query string false "URL lifetime, e.g. 15m (default 1h)"
// @Success 200 {object} dto.FileURLResponse
// @Failure 403 {object} apperrors.ErrorResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /files/{id}/url [get]
func (h *UploadHandler) GetFileURL(c *gin.Context) {
	id, ok := h.RequireParam(c, "id")
	if !ok {
		return
	}

	expiry, err := time.ParseDuration(c.DefaultQuery("expiry", "1h"))
	if err != nil || expiry <= 0 || expiry > 24*time.Hour {
		expiry = time.Hour
	}

	resp, err := h.uploadService.GetDownloadURL(c.Request.Context(), middleware.GetUserRole(c), middleware.GetUserID(c), id, expiry)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
