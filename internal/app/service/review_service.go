package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/RenCostamagna/comidita-backend/internal/app/model"
	"github.com/RenCostamagna/comidita-backend/internal/app/repository"
	"github.com/RenCostamagna/comidita-backend/pkg/logger"
	"github.com/lib/pq"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

var (
	ErrDuplicateReview       = errors.New("user already reviewed this place")
	ErrInvalidRating         = errors.New("ratings must be between 1 and 10")
	ErrInvalidPriceRange     = errors.New("invalid price range")
	ErrInvalidCategory       = errors.New("invalid category")
	ErrTooManyPhotos         = errors.New("too many photos")
	ErrReviewNotFound        = errors.New("review not found")
	ErrNotReviewOwner        = errors.New("review belongs to another user")
	ErrPlaceResolutionFailed = errors.New("could not resolve place for review")
)

// CreateReviewInput datos de una reseña nueva. Place referencia un lugar
// ya persistido o trae el candidato externo para resolverlo.
type CreateReviewInput struct {
	PlaceID   *uint
	Candidate *model.PlaceCandidate

	DishName *string
	Comment  string

	FoodTaste        int
	Presentation     int
	PortionSize      int
	DrinksVariety    int
	VeggieOptions    int
	MusicAcoustics   int
	Ambiance         int
	FurnitureComfort int
	Service          int

	PriceRange model.PriceRange
	Category   model.Category
	PhotoURLs  []string
}

// ReviewResult resultado de publicar una reseña
type ReviewResult struct {
	Review          *model.DetailedReview `json:"review"`
	Points          PointsBreakdown       `json:"points"`
	IsFirstReview   bool                  `json:"is_first_review"`
	NewAchievements []model.Achievement   `json:"new_achievements"`
	NewLevel        int                   `json:"new_level"`
	LeveledUp       bool                  `json:"leveled_up"`
}

// ReviewService publica y administra reseñas
type ReviewService interface {
	CreateReview(userID uint, input CreateReviewInput) (*ReviewResult, error)
	GetReviewByID(id uint) (*model.DetailedReview, error)
	ListUserReviews(userID uint, limit, offset int) ([]model.DetailedReview, int64, error)
	ListPlaceReviews(placeID uint, limit, offset int) ([]model.DetailedReview, int64, error)
	DeleteReview(userID, reviewID uint) error
	ExportUserReviews(userID uint) (*excelize.File, error)
}

type reviewService struct {
	reviewRepo         repository.ReviewRepository
	userRepo           repository.UserRepository
	placeService       PlaceService
	achievementService AchievementService
	notifService       NotificationService
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	userRepo repository.UserRepository,
	placeService PlaceService,
	achievementService AchievementService,
	notifService NotificationService,
) ReviewService {
	return &reviewService{
		reviewRepo:         reviewRepo,
		userRepo:           userRepo,
		placeService:       placeService,
		achievementService: achievementService,
		notifService:       notifService,
	}
}

func (s *reviewService) CreateReview(userID uint, input CreateReviewInput) (*ReviewResult, error) {
	if err := validateReviewInput(input); err != nil {
		logger.Warn("Review rejected: invalid input", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		return nil, err
	}

	// Resolver el lugar antes de tocar la reseña
	place, err := s.resolvePlace(input)
	if err != nil {
		return nil, err
	}

	// Chequeo previo de duplicados; la carrera entre dos submissions la
	// cierra igual el índice único en el insert
	if _, err := s.reviewRepo.FindByUserAndPlace(userID, place.ID); err == nil {
		logger.Warn("Review rejected: duplicate", map[string]interface{}{
			"user_id":  userID,
			"place_id": place.ID,
		})
		return nil, ErrDuplicateReview
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	review := &model.DetailedReview{
		UserID:           userID,
		PlaceID:          place.ID,
		DishName:         input.DishName,
		Comment:          input.Comment,
		FoodTaste:        input.FoodTaste,
		Presentation:     input.Presentation,
		PortionSize:      input.PortionSize,
		DrinksVariety:    input.DrinksVariety,
		VeggieOptions:    input.VeggieOptions,
		MusicAcoustics:   input.MusicAcoustics,
		Ambiance:         input.Ambiance,
		FurnitureComfort: input.FurnitureComfort,
		Service:          input.Service,
		PriceRange:       input.PriceRange,
		Category:         input.Category,
		PhotoURLs:        pq.StringArray(input.PhotoURLs),
	}

	// Los puntos se calculan recién cuando la transacción sabe si la
	// reseña es la primera del lugar
	var breakdown PointsBreakdown
	hasPhotos := len(input.PhotoURLs) > 0
	commentLen := len([]rune(input.Comment))

	isFirst, err := s.reviewRepo.Create(review, func(isFirst bool) int {
		breakdown = ComputePoints(isFirst, hasPhotos, commentLen)
		return breakdown.Total
	})
	if err != nil {
		if isDuplicateKeyError(err) {
			logger.Warn("Review rejected: duplicate", map[string]interface{}{
				"user_id":  userID,
				"place_id": place.ID,
			})
			return nil, ErrDuplicateReview
		}
		return nil, err
	}

	// El insert no precarga la asociación y la notificación nombra al lugar
	review.Place = place

	result := &ReviewResult{
		Review:          review,
		Points:          breakdown,
		IsFirstReview:   isFirst,
		NewAchievements: []model.Achievement{},
	}

	// Nivel del usuario después de los puntos nuevos
	user, err := s.userRepo.FindByID(userID)
	if err == nil {
		newLevel := LevelForPoints(user.Points)
		result.NewLevel = newLevel
		if newLevel > user.Level {
			result.LeveledUp = true
			if err := s.userRepo.UpdateLevel(userID, newLevel); err != nil {
				logger.Error("Failed to persist new user level", err, map[string]interface{}{
					"user_id": userID,
					"level":   newLevel,
				})
			} else {
				s.notifService.NotifyLevelUp(userID, newLevel)
			}
		}
	} else {
		logger.Error("Failed to load user after review", err, map[string]interface{}{
			"user_id": userID,
		})
	}

	// La evaluación de logros nunca voltea una reseña ya publicada
	newAchievements, err := s.achievementService.Evaluate(userID, input.Category)
	if err != nil {
		logger.Error("Achievement evaluation failed after review", err, map[string]interface{}{
			"user_id":   userID,
			"review_id": review.ID,
			"category":  string(input.Category),
		})
	} else {
		result.NewAchievements = newAchievements
	}

	s.notifService.NotifyReviewPublished(userID, review, breakdown.Total)

	logger.Info("Review published", map[string]interface{}{
		"review_id": review.ID,
		"user_id":   userID,
		"place_id":  place.ID,
		"is_first":  isFirst,
		"points":    breakdown.Total,
		"unlocked":  len(result.NewAchievements),
	})

	return result, nil
}

func (s *reviewService) resolvePlace(input CreateReviewInput) (*model.Place, error) {
	if input.PlaceID != nil {
		place, err := s.placeService.GetPlaceByID(*input.PlaceID)
		if err != nil {
			if errors.Is(err, ErrPlaceNotFound) {
				return nil, ErrPlaceNotFound
			}
			return nil, fmt.Errorf("%w: %v", ErrPlaceResolutionFailed, err)
		}
		return place, nil
	}

	if input.Candidate == nil {
		return nil, ErrPlaceResolutionFailed
	}

	place, err := s.placeService.ResolveOrCreate(*input.Candidate)
	if err != nil {
		if errors.Is(err, ErrIncompletePlaceData) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrPlaceResolutionFailed, err)
	}
	return place, nil
}

func validateReviewInput(input CreateReviewInput) error {
	ratings := []int{
		input.FoodTaste,
		input.Presentation,
		input.PortionSize,
		input.DrinksVariety,
		input.VeggieOptions,
		input.MusicAcoustics,
		input.Ambiance,
		input.FurnitureComfort,
		input.Service,
	}
	for _, r := range ratings {
		if r < 1 || r > 10 {
			return ErrInvalidRating
		}
	}

	if !model.IsValidPriceRange(input.PriceRange) {
		return ErrInvalidPriceRange
	}
	if !model.IsValidCategory(input.Category) {
		return ErrInvalidCategory
	}
	if len(input.PhotoURLs) > model.MaxReviewPhotos {
		return ErrTooManyPhotos
	}
	return nil
}

// isDuplicateKeyError detecta la violación del índice único
// (user_id, place_id) tanto en Postgres como en SQLite
func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

func (s *reviewService) GetReviewByID(id uint) (*model.DetailedReview, error) {
	review, err := s.reviewRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return review, nil
}

func (s *reviewService) ListUserReviews(userID uint, limit, offset int) ([]model.DetailedReview, int64, error) {
	return s.reviewRepo.ListByUser(userID, limit, offset)
}

func (s *reviewService) ListPlaceReviews(placeID uint, limit, offset int) ([]model.DetailedReview, int64, error) {
	return s.reviewRepo.ListByPlace(placeID, limit, offset)
}

func (s *reviewService) DeleteReview(userID, reviewID uint) error {
	review, err := s.reviewRepo.FindByID(reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return err
	}

	if review.UserID != userID {
		logger.Warn("Review deletion rejected: not the owner", map[string]interface{}{
			"review_id": reviewID,
			"user_id":   userID,
			"owner_id":  review.UserID,
		})
		return ErrNotReviewOwner
	}

	if err := s.reviewRepo.Delete(review); err != nil {
		logger.Error("Failed to delete review", err, map[string]interface{}{
			"review_id": reviewID,
		})
		return err
	}

	logger.Info("Review deleted", map[string]interface{}{
		"review_id": reviewID,
		"user_id":   userID,
	})
	return nil
}

// ExportUserReviews arma un XLSX con todas las reseñas del usuario
func (s *reviewService) ExportUserReviews(userID uint) (*excelize.File, error) {
	reviews, _, err := s.reviewRepo.ListByUser(userID, 0, 0)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := "Reseñas"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{
		"Fecha", "Lugar", "Categoría", "Plato", "Comentario",
		"Comida", "Presentación", "Porción", "Bebidas", "Opciones veggie",
		"Música", "Ambiente", "Comodidad", "Servicio",
		"Promedio", "Rango de precio", "Puntos",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, review := range reviews {
		placeName := ""
		if review.Place != nil {
			placeName = review.Place.Name
		}
		dishName := ""
		if review.DishName != nil {
			dishName = *review.DishName
		}

		values := []interface{}{
			review.CreatedAt.Format("2006-01-02"),
			placeName,
			review.Category.Label(),
			dishName,
			review.Comment,
			review.FoodTaste,
			review.Presentation,
			review.PortionSize,
			review.DrinksVariety,
			review.VeggieOptions,
			review.MusicAcoustics,
			review.Ambiance,
			review.FurnitureComfort,
			review.Service,
			review.AverageRating(),
			string(review.PriceRange),
			review.PointsAwarded,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	return f, nil
}
