package repository

import (
	"github.com/RenCostamagna/comidita-backend/internal/app/model"
	"github.com/RenCostamagna/comidita-backend/pkg/logger"
	"gorm.io/gorm"
)

// ReviewRepository repositorio de reseñas detalladas
type ReviewRepository interface {
	// Create inserta la reseña en una transacción. Decide si es la primera
	// reseña del lugar después del insert, pide los puntos con award y deja
	// actualizados los agregados del lugar y el usuario.
	Create(review *model.DetailedReview, award func(isFirst bool) int) (bool, error)
	FindByID(id uint) (*model.DetailedReview, error)
	FindByUserAndPlace(userID, placeID uint) (*model.DetailedReview, error)
	ListByUser(userID uint, limit, offset int) ([]model.DetailedReview, int64, error)
	ListByPlace(placeID uint, limit, offset int) ([]model.DetailedReview, int64, error)
	CountByUserAndCategory(userID uint, category model.Category) (int64, error)
	Delete(review *model.DetailedReview) error
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

const placeRatingExpr = "COALESCE(AVG((food_taste + presentation + portion_size + drinks_variety + veggie_options + music_acoustics + ambiance + furniture_comfort + service) / 9.0), 0)"

func (r *reviewRepository) Create(review *model.DetailedReview, award func(isFirst bool) int) (bool, error) {
	var isFirst bool

	err := r.db.Transaction(func(tx *gorm.DB) error {
		// El índice único (user_id, place_id) corta acá los duplicados,
		// incluso entre requests concurrentes
		if err := tx.Create(review).Error; err != nil {
			return err
		}

		// Primera reseña del lugar: se decide dentro de la transacción,
		// después del insert, para cerrar la carrera entre dos primeras
		var count int64
		if err := tx.Model(&model.DetailedReview{}).
			Where("place_id = ?", review.PlaceID).
			Count(&count).Error; err != nil {
			return err
		}
		isFirst = count == 1

		points := award(isFirst)
		review.PointsAwarded = points
		if err := tx.Model(&model.DetailedReview{}).
			Where("id = ?", review.ID).
			Update("points_awarded", points).Error; err != nil {
			return err
		}

		// Agregados del lugar
		var stats struct {
			Total  int64
			Rating float64
		}
		if err := tx.Model(&model.DetailedReview{}).
			Where("place_id = ?", review.PlaceID).
			Select("COUNT(*) as total, " + placeRatingExpr + " as rating").
			Scan(&stats).Error; err != nil {
			return err
		}

		if err := tx.Model(&model.Place{}).
			Where("id = ?", review.PlaceID).
			Updates(map[string]interface{}{
				"total_reviews": stats.Total,
				"rating":        stats.Rating,
			}).Error; err != nil {
			return err
		}

		if isFirst {
			// La primera reseña fija la categoría solo si nadie la curó
			// antes (el importador de lugares ya puede haberla cargado)
			if err := tx.Model(&model.Place{}).
				Where("id = ? AND (category = '' OR category IS NULL)", review.PlaceID).
				Update("category", review.Category).Error; err != nil {
				return err
			}
		}

		// Puntos y contador del autor
		if err := tx.Model(&model.User{}).
			Where("id = ?", review.UserID).
			Updates(map[string]interface{}{
				"points":       gorm.Expr("points + ?", points),
				"review_count": gorm.Expr("review_count + 1"),
			}).Error; err != nil {
			return err
		}

		return nil
	})

	if err != nil {
		logger.Error("Failed to create review in database", err, map[string]interface{}{
			"user_id":  review.UserID,
			"place_id": review.PlaceID,
		})
		return false, err
	}

	logger.Debug("Review created in database", map[string]interface{}{
		"review_id": review.ID,
		"user_id":   review.UserID,
		"place_id":  review.PlaceID,
		"is_first":  isFirst,
		"points":    review.PointsAwarded,
	})
	return isFirst, nil
}

func (r *reviewRepository) FindByID(id uint) (*model.DetailedReview, error) {
	var review model.DetailedReview
	if err := r.db.Preload("Place").First(&review, id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) FindByUserAndPlace(userID, placeID uint) (*model.DetailedReview, error) {
	var review model.DetailedReview
	err := r.db.Where("user_id = ? AND place_id = ?", userID, placeID).First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) ListByUser(userID uint, limit, offset int) ([]model.DetailedReview, int64, error) {
	var reviews []model.DetailedReview
	var total int64

	query := r.db.Model(&model.DetailedReview{}).Where("user_id = ?", userID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Preload("Place").Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&reviews).Error; err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

func (r *reviewRepository) ListByPlace(placeID uint, limit, offset int) ([]model.DetailedReview, int64, error) {
	var reviews []model.DetailedReview
	var total int64

	query := r.db.Model(&model.DetailedReview{}).Where("place_id = ?", placeID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&reviews).Error; err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

func (r *reviewRepository) CountByUserAndCategory(userID uint, category model.Category) (int64, error) {
	var count int64
	err := r.db.Model(&model.DetailedReview{}).
		Where("user_id = ? AND category = ?", userID, category).
		Count(&count).Error
	return count, err
}

// Delete borra la reseña y revierte puntos y agregados.
// Borrado físico: una fila borrada con soft delete seguiría ocupando el
// índice único (user_id, place_id) y el usuario no podría volver a reseñar.
func (r *reviewRepository) Delete(review *model.DetailedReview) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Delete(&model.DetailedReview{}, review.ID).Error; err != nil {
			return err
		}

		var stats struct {
			Total  int64
			Rating float64
		}
		if err := tx.Model(&model.DetailedReview{}).
			Where("place_id = ?", review.PlaceID).
			Select("COUNT(*) as total, " + placeRatingExpr + " as rating").
			Scan(&stats).Error; err != nil {
			return err
		}

		if err := tx.Model(&model.Place{}).
			Where("id = ?", review.PlaceID).
			Updates(map[string]interface{}{
				"total_reviews": stats.Total,
				"rating":        stats.Rating,
			}).Error; err != nil {
			return err
		}

		return tx.Model(&model.User{}).
			Where("id = ?", review.UserID).
			Updates(map[string]interface{}{
				"points":       gorm.Expr("points - ?", review.PointsAwarded),
				"review_count": gorm.Expr("review_count - 1"),
			}).Error
	})
}
