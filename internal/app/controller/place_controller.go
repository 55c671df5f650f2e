package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/RenCostamagna/comidita-backend/internal/app/model"
	"github.com/RenCostamagna/comidita-backend/internal/app/service"
	apperrors "github.com/RenCostamagna/comidita-backend/internal/errors"
	"github.com/RenCostamagna/comidita-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type PlaceController struct {
	placeService service.PlaceService
}

func NewPlaceController(placeService service.PlaceService) *PlaceController {
	return &PlaceController{
		placeService: placeService,
	}
}

// SearchPlaces searches Google Places within the coverage area
// GET /api/v1/places/search?q=...
func (ctrl *PlaceController) SearchPlaces(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	query := c.Query("q")
	if query == "" {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "Falta el texto de búsqueda")
		return
	}

	results, err := ctrl.placeService.Search(c.Request.Context(), query)
	if err != nil {
		log.Error("Place search failed", err, map[string]interface{}{
			"query": query,
		})
		apperrors.RespondWithError(c, http.StatusServiceUnavailable, apperrors.PlaceSearchFailed, "La búsqueda de lugares no está disponible en este momento")
		return
	}

	log.Info("Place search completed", map[string]interface{}{
		"query":   query,
		"results": len(results),
	})

	c.JSON(http.StatusOK, gin.H{
		"results": results,
		"total":   len(results),
	})
}

// ListPlaces lists reviewed places ranked by activity
// GET /api/v1/places?category=&limit=&offset=
func (ctrl *PlaceController) ListPlaces(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var category *model.Category
	if raw := c.Query("category"); raw != "" {
		cat := model.Category(raw)
		if !model.IsValidCategory(cat) {
			apperrors.BadRequest(c, apperrors.PlaceInvalidCategory, "La categoría no existe")
			return
		}
		category = &cat
	}

	limit, offset := parsePagination(c, 20)

	places, total, err := ctrl.placeService.ListPlaces(category, limit, offset)
	if err != nil {
		log.Error("Failed to list places", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list places")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"places": places,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// GetPlace returns a single place by ID
// GET /api/v1/places/:id
func (ctrl *PlaceController) GetPlace(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "El ID no es válido")
		return
	}

	place, err := ctrl.placeService.GetPlaceByID(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrPlaceNotFound) {
			apperrors.NotFound(c, apperrors.PlaceNotFound, "No encontramos el lugar")
			return
		}
		log.Error("Failed to get place", err, map[string]interface{}{
			"place_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get place")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"place": place,
	})
}

// ResolvePlace resolves or creates a canonical place from an external candidate
// POST /api/v1/places/resolve
func (ctrl *PlaceController) ResolvePlace(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var candidate model.PlaceCandidate
	if err := c.ShouldBindJSON(&candidate); err != nil {
		log.Warn("Invalid place candidate", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.PlaceIncompleteData, "Faltan datos del lugar")
		return
	}

	place, err := ctrl.placeService.ResolveOrCreate(candidate)
	if err != nil {
		if errors.Is(err, service.ErrIncompletePlaceData) {
			apperrors.BadRequest(c, apperrors.PlaceIncompleteData, "Faltan datos del lugar")
			return
		}
		log.Error("Failed to resolve place", err, map[string]interface{}{
			"google_place_id": candidate.GooglePlaceID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "resolve place")
		return
	}

	log.Info("Place resolved", map[string]interface{}{
		"place_id":        place.ID,
		"google_place_id": place.GooglePlaceID,
	})

	c.JSON(http.StatusOK, gin.H{
		"place": place,
	})
}

// GetCategories returns the category catalog
// GET /api/v1/places/categories
func (ctrl *PlaceController) GetCategories(c *gin.Context) {
	categories := make([]gin.H, 0, len(model.AllCategories()))
	for _, category := range model.AllCategories() {
		categories = append(categories, gin.H{
			"id":    category,
			"label": category.Label(),
			"color": category.Color(),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
	})
}

// parsePagination lee limit y offset con un default razonable
func parsePagination(c *gin.Context, defaultLimit int) (int, int) {
	limit := defaultLimit
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= 100 {
			limit = v
		}
	}

	offset := 0
	if raw := c.Query("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			offset = v
		}
	}

	return limit, offset
}
