package controller

import (
	"net/http"
	"strconv"

	"github.com/RenCostamagna/comidita-backend/internal/app/model"
	apperrors "github.com/RenCostamagna/comidita-backend/internal/errors"
	"github.com/RenCostamagna/comidita-backend/internal/middleware"
	"github.com/RenCostamagna/comidita-backend/internal/storage"
	"github.com/RenCostamagna/comidita-backend/pkg/logger"
	"github.com/gin-gonic/gin"
)

type UploadController struct {
	storage *storage.S3Storage
}

func NewUploadController(storage *storage.S3Storage) *UploadController {
	return &UploadController{
		storage: storage,
	}
}

type GeneratePresignedURLRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
	Folder      string `json:"folder"` // Optional: defaults to "uploads"
}

// UploadReviewPhoto uploads a review photo straight to S3
// POST /api/v1/upload/review-photo (multipart)
func (ctrl *UploadController) UploadReviewPhoto(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Tenés que iniciar sesión")
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "Falta el archivo de la foto")
		return
	}

	if err := ctrl.storage.ValidateFileSize(fileHeader.Size, storage.MaxPhotoSize); err != nil {
		log.Warn("Review photo rejected: too large", map[string]interface{}{
			"user_id": userID,
			"size":    fileHeader.Size,
		})
		apperrors.BadRequest(c, apperrors.UploadFileTooLarge, "La foto no puede superar los 5MB")
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if err := ctrl.storage.ValidateContentType(contentType, storage.AllowedPhotoTypes); err != nil {
		log.Warn("Review photo rejected: invalid type", map[string]interface{}{
			"user_id":      userID,
			"content_type": contentType,
		})
		apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "Solo aceptamos fotos JPEG, PNG o WEBP")
		return
	}

	// review_id e index son opcionales antes de publicar la reseña
	reviewID := parseUintQuery(c, "review_id")
	index := 0
	if raw := c.Query("index"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 && v < model.MaxReviewPhotos {
			index = v
		}
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Error("Failed to open uploaded file", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "No pudimos procesar la foto")
		return
	}
	defer file.Close()

	key := storage.ReviewPhotoKey(userID, reviewID, index, fileHeader.Filename)
	url, err := ctrl.storage.UploadReviewPhoto(c.Request.Context(), key, contentType, file)
	if err != nil {
		log.Error("Failed to upload review photo", err, map[string]interface{}{
			"user_id": userID,
			"key":     key,
		})
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UploadFailed, "No pudimos subir la foto")
		return
	}

	log.Info("Review photo uploaded", map[string]interface{}{
		"user_id": userID,
		"key":     key,
	})

	c.JSON(http.StatusCreated, gin.H{
		"photo_url": url,
		"key":       key,
	})
}

// GeneratePresignedURL generates a presigned URL for uploading files to S3
// POST /api/v1/upload/presigned-url
func (ctrl *UploadController) GeneratePresignedURL(c *gin.Context) {
	var req GeneratePresignedURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid presigned URL request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Los datos enviados no son válidos")
		return
	}

	if err := ctrl.storage.ValidateContentType(req.ContentType, storage.AllowedPhotoTypes); err != nil {
		logger.Warn("Invalid content type", map[string]interface{}{
			"content_type": req.ContentType,
		})
		apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "Solo aceptamos fotos JPEG, PNG o WEBP")
		return
	}

	folder := req.Folder
	if folder == "" {
		folder = "uploads"
	}

	response, err := ctrl.storage.GeneratePresignedURLWithFolder(req.Filename, req.ContentType, folder)
	if err != nil {
		logger.Error("Failed to generate presigned URL", err, map[string]interface{}{
			"filename":     req.Filename,
			"content_type": req.ContentType,
			"folder":       folder,
		})
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UploadFailed, "No pudimos generar la URL de subida")
		return
	}

	logger.Info("Presigned URL generated successfully", map[string]interface{}{
		"filename": req.Filename,
		"folder":   folder,
		"key":      response.Key,
	})

	c.JSON(http.StatusOK, gin.H{
		"upload_url": response.UploadURL,
		"file_url":   response.FileURL,
		"key":        response.Key,
	})
}

func parseUintQuery(c *gin.Context, name string) uint {
	if raw := c.Query(name); raw != "" {
		if v, err := strconv.ParseUint(raw, 10, 32); err == nil {
			return uint(v)
		}
	}
	return 0
}
