package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/imperiopizzas/imperio-backend/internal/errors"
	"github.com/imperiopizzas/imperio-backend/internal/middleware"
	"github.com/imperiopizzas/imperio-backend/internal/storage"
)

const defaultUploadFolder = "products"

type UploadController struct {
	storage *storage.S3Storage
}

// NewUploadController accepts a nil storage when object storage is not
// configured; every request then answers 503.
func NewUploadController(storage *storage.S3Storage) *UploadController {
	return &UploadController{
		storage: storage,
	}
}

type GeneratePresignedURLRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
	Folder      string `json:"folder"`
}

// GeneratePresignedURL hands out a direct upload URL for product images
// POST /api/admin/uploads/image
func (ctrl *UploadController) GeneratePresignedURL(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	if ctrl.storage == nil {
		apperrors.RespondWithError(c, http.StatusServiceUnavailable, apperrors.UploadUnavailable, "Image uploads are not configured")
		return
	}

	var req GeneratePresignedURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid presigned URL request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.InvalidBody(c, err)
		return
	}

	if err := storage.ValidateContentType(req.ContentType, storage.ImageContentTypes); err != nil {
		log.Warn("Invalid content type", map[string]interface{}{
			"content_type": req.ContentType,
		})
		apperrors.BadRequest(c, apperrors.UploadInvalidType, "Only JPEG, PNG and WEBP images are allowed")
		return
	}

	folder := req.Folder
	if folder == "" {
		folder = defaultUploadFolder
	}

	response, err := ctrl.storage.GeneratePresignedURL(c.Request.Context(), req.Filename, req.ContentType, folder)
	if err != nil {
		log.Error("Failed to generate presigned URL", err, map[string]interface{}{
			"filename":     req.Filename,
			"content_type": req.ContentType,
			"folder":       folder,
		})
		apperrors.InternalError(c, "Failed to generate presigned URL", err)
		return
	}

	log.Info("Presigned URL generated", map[string]interface{}{
		"key": response.Key,
	})
	c.JSON(http.StatusOK, response)
}
