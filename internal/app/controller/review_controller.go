package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/RenCostamagna/comidita-backend/internal/app/model"
	"github.com/RenCostamagna/comidita-backend/internal/app/service"
	apperrors "github.com/RenCostamagna/comidita-backend/internal/errors"
	"github.com/RenCostamagna/comidita-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type ReviewController struct {
	reviewService service.ReviewService
	aiService     service.AIService
}

func NewReviewController(reviewService service.ReviewService, aiService service.AIService) *ReviewController {
	return &ReviewController{
		reviewService: reviewService,
		aiService:     aiService,
	}
}

type CreateReviewRequest struct {
	// Uno de los dos: un lugar ya persistido o el candidato externo
	PlaceID *uint                 `json:"place_id"`
	Place   *model.PlaceCandidate `json:"place"`

	DishName *string `json:"dish_name"`
	Comment  string  `json:"comment"`

	FoodTaste        int `json:"food_taste" binding:"required,min=1,max=10"`
	Presentation     int `json:"presentation" binding:"required,min=1,max=10"`
	PortionSize      int `json:"portion_size" binding:"required,min=1,max=10"`
	DrinksVariety    int `json:"drinks_variety" binding:"required,min=1,max=10"`
	VeggieOptions    int `json:"veggie_options" binding:"required,min=1,max=10"`
	MusicAcoustics   int `json:"music_acoustics" binding:"required,min=1,max=10"`
	Ambiance         int `json:"ambiance" binding:"required,min=1,max=10"`
	FurnitureComfort int `json:"furniture_comfort" binding:"required,min=1,max=10"`
	Service          int `json:"service" binding:"required,min=1,max=10"`

	PriceRange model.PriceRange `json:"price_range" binding:"required"`
	Category   model.Category   `json:"category" binding:"required"`
	PhotoURLs  []string         `json:"photo_urls"`
}

// CreateReview publishes a review
// POST /api/v1/reviews
func (ctrl *ReviewController) CreateReview(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Tenés que iniciar sesión")
		return
	}

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid review request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Los datos de la reseña no son válidos")
		return
	}

	if req.PlaceID == nil && req.Place == nil {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "Indicá el lugar de la reseña")
		return
	}

	result, err := ctrl.reviewService.CreateReview(userID, service.CreateReviewInput{
		PlaceID:          req.PlaceID,
		Candidate:        req.Place,
		DishName:         req.DishName,
		Comment:          req.Comment,
		FoodTaste:        req.FoodTaste,
		Presentation:     req.Presentation,
		PortionSize:      req.PortionSize,
		DrinksVariety:    req.DrinksVariety,
		VeggieOptions:    req.VeggieOptions,
		MusicAcoustics:   req.MusicAcoustics,
		Ambiance:         req.Ambiance,
		FurnitureComfort: req.FurnitureComfort,
		Service:          req.Service,
		PriceRange:       req.PriceRange,
		Category:         req.Category,
		PhotoURLs:        req.PhotoURLs,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDuplicateReview):
			log.Warn("Review rejected: duplicate", map[string]interface{}{
				"user_id": userID,
			})
			apperrors.Conflict(c, apperrors.ReviewAlreadyExists, "Ya publicaste una reseña de este lugar")
		case errors.Is(err, service.ErrInvalidRating):
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "Los puntajes tienen que estar entre 1 y 10")
		case errors.Is(err, service.ErrInvalidPriceRange):
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "La franja de precio no es válida")
		case errors.Is(err, service.ErrInvalidCategory):
			apperrors.BadRequest(c, apperrors.PlaceInvalidCategory, "La categoría no existe")
		case errors.Is(err, service.ErrTooManyPhotos):
			apperrors.BadRequest(c, apperrors.ValidationTooManyPhotos, fmt.Sprintf("Podés subir hasta %d fotos", model.MaxReviewPhotos))
		case errors.Is(err, service.ErrIncompletePlaceData):
			apperrors.BadRequest(c, apperrors.PlaceIncompleteData, "Faltan datos del lugar")
		case errors.Is(err, service.ErrPlaceNotFound):
			apperrors.NotFound(c, apperrors.PlaceNotFound, "No encontramos el lugar")
		default:
			log.Error("Failed to create review", err, map[string]interface{}{
				"user_id": userID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create review")
		}
		return
	}

	log.Info("Review created", map[string]interface{}{
		"review_id": result.Review.ID,
		"user_id":   userID,
		"is_first":  result.IsFirstReview,
		"points":    result.Points.Total,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Review published successfully",
		"result":  result,
	})
}

// GetReview returns a single review
// GET /api/v1/reviews/:id
func (ctrl *ReviewController) GetReview(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "El ID no es válido")
		return
	}

	review, err := ctrl.reviewService.GetReviewByID(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrReviewNotFound) {
			apperrors.NotFound(c, apperrors.ReviewNotFound, "No encontramos la reseña")
			return
		}
		log.Error("Failed to get review", err, map[string]interface{}{
			"review_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get review")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"review": review,
	})
}

// ListPlaceReviews lists reviews for a place
// GET /api/v1/places/:id/reviews
func (ctrl *ReviewController) ListPlaceReviews(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	placeID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "El ID no es válido")
		return
	}

	limit, offset := parsePagination(c, 20)

	reviews, total, err := ctrl.reviewService.ListPlaceReviews(uint(placeID), limit, offset)
	if err != nil {
		log.Error("Failed to list place reviews", err, map[string]interface{}{
			"place_id": placeID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list reviews")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}

// ListMyReviews lists the current user's reviews
// GET /api/v1/users/me/reviews
func (ctrl *ReviewController) ListMyReviews(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Tenés que iniciar sesión")
		return
	}

	limit, offset := parsePagination(c, 20)

	reviews, total, err := ctrl.reviewService.ListUserReviews(userID, limit, offset)
	if err != nil {
		log.Error("Failed to list user reviews", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list reviews")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}

// DeleteReview deletes one of the current user's reviews
// DELETE /api/v1/reviews/:id
func (ctrl *ReviewController) DeleteReview(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Tenés que iniciar sesión")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "El ID no es válido")
		return
	}

	if err := ctrl.reviewService.DeleteReview(userID, uint(id)); err != nil {
		switch {
		case errors.Is(err, service.ErrReviewNotFound):
			apperrors.NotFound(c, apperrors.ReviewNotFound, "No encontramos la reseña")
		case errors.Is(err, service.ErrNotReviewOwner):
			apperrors.Forbidden(c, "Solo podés borrar tus propias reseñas")
		default:
			log.Error("Failed to delete review", err, map[string]interface{}{
				"review_id": id,
				"user_id":   userID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete review")
		}
		return
	}

	log.Info("Review deleted", map[string]interface{}{
		"review_id": id,
		"user_id":   userID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Review deleted successfully",
	})
}

// ExportMyReviews downloads the current user's reviews as XLSX
// GET /api/v1/users/me/reviews/export
func (ctrl *ReviewController) ExportMyReviews(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Tenés que iniciar sesión")
		return
	}

	file, err := ctrl.reviewService.ExportUserReviews(userID)
	if err != nil {
		log.Error("Failed to export user reviews", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "No pudimos generar el archivo")
		return
	}

	filename := fmt.Sprintf("resenas_%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := file.Write(c.Writer); err != nil {
		log.Error("Failed to write XLSX response", err, map[string]interface{}{
			"user_id": userID,
		})
	}
}

// EnhanceComment improves the wording of a review comment with AI
// POST /api/v1/reviews/enhance
func (ctrl *ReviewController) EnhanceComment(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req service.EnhanceCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Falta el comentario a mejorar")
		return
	}

	enhanced, err := ctrl.aiService.EnhanceComment(&req)
	if err != nil {
		// Mejorar el texto es opcional: si la IA falla devolvemos el original
		log.Warn("Comment enhancement failed, returning original", map[string]interface{}{
			"error": err.Error(),
		})
		c.JSON(http.StatusOK, gin.H{
			"comment":  req.Comment,
			"enhanced": false,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"comment":  enhanced,
		"enhanced": true,
	})
}
