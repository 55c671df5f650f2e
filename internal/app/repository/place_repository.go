package repository

import (
	"time"

	"github.com/RenCostamagna/comidita-backend/internal/app/model"
	"github.com/RenCostamagna/comidita-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PlaceRepository repositorio de lugares
type PlaceRepository interface {
	Create(place *model.Place) error
	FindByID(id uint) (*model.Place, error)
	FindByGooglePlaceID(googlePlaceID string) (*model.Place, error)
	List(category *model.Category, limit, offset int) ([]model.Place, int64, error)
	Update(place *model.Place) error
	BulkCreate(places []model.Place, batchSize int) error
	RecalculateAggregates(placeID uint) error
	FindStale(olderThan time.Time, limit int) ([]model.Place, error)
}

type placeRepository struct {
	db *gorm.DB
}

func NewPlaceRepository(db *gorm.DB) PlaceRepository {
	return &placeRepository{db: db}
}

func (r *placeRepository) Create(place *model.Place) error {
	logger.Debug("Creating place in database", map[string]interface{}{
		"google_place_id": place.GooglePlaceID,
		"name":            place.Name,
	})

	if err := r.db.Create(place).Error; err != nil {
		logger.Error("Failed to create place in database", err, map[string]interface{}{
			"google_place_id": place.GooglePlaceID,
		})
		return err
	}
	return nil
}

func (r *placeRepository) FindByID(id uint) (*model.Place, error) {
	var place model.Place
	if err := r.db.First(&place, id).Error; err != nil {
		return nil, err
	}
	return &place, nil
}

func (r *placeRepository) FindByGooglePlaceID(googlePlaceID string) (*model.Place, error) {
	var place model.Place
	if err := r.db.Where("google_place_id = ?", googlePlaceID).First(&place).Error; err != nil {
		return nil, err
	}
	return &place, nil
}

// List devuelve lugares ordenados por cantidad de reseñas y rating
func (r *placeRepository) List(category *model.Category, limit, offset int) ([]model.Place, int64, error) {
	var places []model.Place
	var total int64

	query := r.db.Model(&model.Place{})

	if category != nil {
		query = query.Where("category = ?", *category)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("total_reviews DESC, rating DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&places).Error; err != nil {
		return nil, 0, err
	}

	return places, total, nil
}

func (r *placeRepository) Update(place *model.Place) error {
	return r.db.Save(place).Error
}

// BulkCreate inserta lugares en lotes, ignorando los que ya existen
// por google_place_id. Lo usa el importador de cmd/seed.
func (r *placeRepository) BulkCreate(places []model.Place, batchSize int) error {
	if len(places) == 0 {
		return nil
	}
	return r.db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "google_place_id"}},
			DoNothing: true,
		}).
		CreateInBatches(places, batchSize).Error
}

// RecalculateAggregates recalcula rating y total de reseñas desde las reseñas publicadas
func (r *placeRepository) RecalculateAggregates(placeID uint) error {
	var stats struct {
		Total  int64
		Rating float64
	}

	err := r.db.Model(&model.DetailedReview{}).
		Where("place_id = ?", placeID).
		Select("COUNT(*) as total, COALESCE(AVG((food_taste + presentation + portion_size + drinks_variety + veggie_options + music_acoustics + ambiance + furniture_comfort + service) / 9.0), 0) as rating").
		Scan(&stats).Error
	if err != nil {
		logger.Error("Failed to compute place aggregates", err, map[string]interface{}{
			"place_id": placeID,
		})
		return err
	}

	return r.db.Model(&model.Place{}).
		Where("id = ?", placeID).
		Updates(map[string]interface{}{
			"total_reviews": stats.Total,
			"rating":        stats.Rating,
		}).Error
}

// FindStale devuelve lugares cuyo detalle no se refresca hace tiempo
func (r *placeRepository) FindStale(olderThan time.Time, limit int) ([]model.Place, error) {
	var places []model.Place
	err := r.db.Where("updated_at < ?", olderThan).
		Order("updated_at ASC").
		Limit(limit).
		Find(&places).Error
	if err != nil {
		return nil, err
	}
	return places, nil
}
