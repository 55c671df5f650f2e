package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/RenCostamagna/comidita-backend/internal/app/model"
	"github.com/RenCostamagna/comidita-backend/internal/app/repository"
	"github.com/RenCostamagna/comidita-backend/pkg/logger"
	"github.com/RenCostamagna/comidita-backend/pkg/places"
	"github.com/RenCostamagna/comidita-backend/pkg/redis"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrPlaceNotFound       = errors.New("place not found")
	ErrIncompletePlaceData = errors.New("place candidate is missing required data")
	ErrPlaceSearchFailed   = errors.New("place search failed")
)

const (
	searchCacheTTL    = 5 * time.Minute
	searchCachePrefix = "places:search:"

	// tmpPlacePrefix prefijo de IDs provisorios para lugares que todavía
	// no existen en Google Places
	tmpPlacePrefix = "tmp_"
)

// PlaceService resuelve y lista lugares
type PlaceService interface {
	// ResolveOrCreate devuelve el lugar persistido para el candidato.
	// Si ya existe uno con el mismo google_place_id lo reutiliza, sin
	// importar cuántas veces se llame.
	ResolveOrCreate(candidate model.PlaceCandidate) (*model.Place, error)
	GetPlaceByID(id uint) (*model.Place, error)
	ListPlaces(category *model.Category, limit, offset int) ([]model.Place, int64, error)
	Search(ctx context.Context, query string) ([]places.SearchResult, error)
	RefreshStaleDetails(ctx context.Context, olderThan time.Time, limit int) (int, error)
	RecalculateAggregates() (int, error)
}

type placeService struct {
	placeRepo    repository.PlaceRepository
	placesClient *places.Client
}

func NewPlaceService(placeRepo repository.PlaceRepository, placesClient *places.Client) PlaceService {
	return &placeService{
		placeRepo:    placeRepo,
		placesClient: placesClient,
	}
}

// TemporaryPlaceID genera un ID provisorio único para un lugar que el
// usuario cargó a mano. Nunca choca con un place_id real de Google.
func TemporaryPlaceID() string {
	return tmpPlacePrefix + uuid.New().String()
}

// IsTemporaryPlaceID indica si el ID es provisorio
func IsTemporaryPlaceID(googlePlaceID string) bool {
	return strings.HasPrefix(googlePlaceID, tmpPlacePrefix)
}

func (s *placeService) ResolveOrCreate(candidate model.PlaceCandidate) (*model.Place, error) {
	if candidate.GooglePlaceID == "" || candidate.Name == "" {
		logger.Warn("Place candidate rejected: incomplete data", map[string]interface{}{
			"google_place_id": candidate.GooglePlaceID,
			"name":            candidate.Name,
		})
		return nil, ErrIncompletePlaceData
	}

	// Camino feliz: el lugar ya existe
	existing, err := s.placeRepo.FindByGooglePlaceID(candidate.GooglePlaceID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	place := &model.Place{
		GooglePlaceID: candidate.GooglePlaceID,
		Name:          candidate.Name,
		Address:       candidate.Address,
		Latitude:      candidate.Latitude,
		Longitude:     candidate.Longitude,
		Phone:         candidate.Phone,
		Website:       candidate.Website,
	}

	if err := s.placeRepo.Create(place); err != nil {
		// Otro request pudo habernos ganado la creación. El índice único
		// sobre google_place_id garantiza que hay un solo lugar: releemos.
		raced, findErr := s.placeRepo.FindByGooglePlaceID(candidate.GooglePlaceID)
		if findErr == nil {
			logger.Debug("Place creation raced, reusing existing place", map[string]interface{}{
				"google_place_id": candidate.GooglePlaceID,
				"place_id":        raced.ID,
			})
			return raced, nil
		}
		return nil, err
	}

	logger.Info("Place created", map[string]interface{}{
		"place_id":        place.ID,
		"google_place_id": place.GooglePlaceID,
		"name":            place.Name,
	})
	return place, nil
}

func (s *placeService) GetPlaceByID(id uint) (*model.Place, error) {
	place, err := s.placeRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlaceNotFound
		}
		return nil, err
	}
	return place, nil
}

func (s *placeService) ListPlaces(category *model.Category, limit, offset int) ([]model.Place, int64, error) {
	return s.placeRepo.List(category, limit, offset)
}

// Search busca lugares en Google Places, con cache en Redis
func (s *placeService) Search(ctx context.Context, query string) ([]places.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []places.SearchResult{}, nil
	}

	cacheKey := searchCachePrefix + strings.ToLower(query)

	var cached []places.SearchResult
	hit, err := redis.GetJSON(ctx, cacheKey, &cached)
	if err != nil {
		logger.Warn("Place search cache lookup failed", map[string]interface{}{
			"query": query,
			"error": err.Error(),
		})
	}
	if hit {
		logger.Debug("Place search cache hit", map[string]interface{}{
			"query":   query,
			"results": len(cached),
		})
		return cached, nil
	}

	results, err := s.placesClient.TextSearch(ctx, query)
	if err != nil {
		logger.Error("Place search failed", err, map[string]interface{}{
			"query": query,
		})
		return nil, fmt.Errorf("%w: %v", ErrPlaceSearchFailed, err)
	}

	if err := redis.CacheJSON(ctx, cacheKey, results, searchCacheTTL); err != nil {
		logger.Warn("Failed to cache place search results", map[string]interface{}{
			"query": query,
			"error": err.Error(),
		})
	}

	return results, nil
}

// RefreshStaleDetails actualiza teléfono y sitio web de lugares viejos
// desde Google Places. Lo usa el scheduler nocturno.
func (s *placeService) RefreshStaleDetails(ctx context.Context, olderThan time.Time, limit int) (int, error) {
	stale, err := s.placeRepo.FindStale(olderThan, limit)
	if err != nil {
		return 0, err
	}

	refreshed := 0
	for _, place := range stale {
		// Los lugares provisorios no existen en Google
		if IsTemporaryPlaceID(place.GooglePlaceID) {
			continue
		}

		details, err := s.placesClient.GetDetails(ctx, place.GooglePlaceID)
		if err != nil {
			logger.Warn("Failed to refresh place details", map[string]interface{}{
				"place_id":        place.ID,
				"google_place_id": place.GooglePlaceID,
				"error":           err.Error(),
			})
			continue
		}

		place.Name = details.Name
		place.Address = details.Address
		place.Phone = details.Phone
		place.Website = details.Website
		if err := s.placeRepo.Update(&place); err != nil {
			logger.Error("Failed to persist refreshed place", err, map[string]interface{}{
				"place_id": place.ID,
			})
			continue
		}
		refreshed++
	}

	return refreshed, nil
}

// RecalculateAggregates recalcula rating y total de reseñas de todos los
// lugares desde las reseñas publicadas. Lo usa el scheduler nocturno para
// corregir agregados que hayan quedado desviados.
func (s *placeService) RecalculateAggregates() (int, error) {
	all, _, err := s.placeRepo.List(nil, 0, 0)
	if err != nil {
		return 0, err
	}

	recalculated := 0
	for _, place := range all {
		if err := s.placeRepo.RecalculateAggregates(place.ID); err != nil {
			logger.Error("Failed to recalculate place aggregates", err, map[string]interface{}{
				"place_id": place.ID,
			})
			continue
		}
		recalculated++
	}

	return recalculated, nil
}
