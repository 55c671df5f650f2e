package service

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/RenCostamagna/comidita-backend/internal/app/model"
	"github.com/RenCostamagna/comidita-backend/internal/app/repository"
	"github.com/RenCostamagna/comidita-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrAchievementNotFound = errors.New("achievement not found")

// incompleteAchievementsLimit cuántos logros pendientes se sugieren
const incompleteAchievementsLimit = 6

// AchievementService evalúa y consulta logros
type AchievementService interface {
	// Evaluate revisa la escalera de la categoría contra las reseñas del
	// usuario y otorga lo que corresponda. Devuelve solo los logros
	// desbloqueados en esta pasada, ordenados por nivel ascendente.
	// Llamarlo de nuevo con el mismo estado no otorga nada.
	Evaluate(userID uint, category model.Category) ([]model.Achievement, error)
	GetProgress(userID uint) ([]model.AchievementProgress, error)
	GetIncompleteAchievements(userID uint) ([]model.AchievementProgress, error)
	GetUserAchievements(userID uint) ([]model.UserAchievement, error)
}

type achievementService struct {
	achievementRepo repository.AchievementRepository
	reviewRepo      repository.ReviewRepository
	userRepo        repository.UserRepository
	notifService    NotificationService
}

func NewAchievementService(
	achievementRepo repository.AchievementRepository,
	reviewRepo repository.ReviewRepository,
	userRepo repository.UserRepository,
	notifService NotificationService,
) AchievementService {
	return &achievementService{
		achievementRepo: achievementRepo,
		reviewRepo:      reviewRepo,
		userRepo:        userRepo,
		notifService:    notifService,
	}
}

func (s *achievementService) Evaluate(userID uint, category model.Category) ([]model.Achievement, error) {
	count, err := s.reviewRepo.CountByUserAndCategory(userID, category)
	if err != nil {
		return nil, err
	}

	// La escalera viene ordenada por nivel ascendente
	ladder, err := s.achievementRepo.GetByCategory(category)
	if err != nil {
		return nil, err
	}

	newlyUnlocked := make([]model.Achievement, 0)
	for _, achievement := range ladder {
		if int64(achievement.RequiredReviews) > count {
			break
		}

		inserted, err := s.achievementRepo.Grant(&model.UserAchievement{
			UserID:        userID,
			AchievementID: achievement.ID,
			UnlockedAt:    time.Now(),
		})
		if err != nil {
			return newlyUnlocked, err
		}
		if !inserted {
			// Ya lo tenía de antes
			continue
		}

		// Puntos de recompensa del logro
		if achievement.PointsReward > 0 {
			if err := s.userRepo.AddPoints(userID, achievement.PointsReward); err != nil {
				logger.Error("Failed to award achievement points", err, map[string]interface{}{
					"user_id":        userID,
					"achievement_id": achievement.ID,
				})
			} else {
				s.notifService.NotifyPointsEarned(userID, achievement.PointsReward, fmt.Sprintf("el logro \"%s\"", achievement.Name))
			}
		}

		s.notifService.NotifyAchievementUnlocked(userID, &achievement)
		newlyUnlocked = append(newlyUnlocked, achievement)

		logger.Info("Achievement unlocked", map[string]interface{}{
			"user_id":        userID,
			"achievement_id": achievement.ID,
			"category":       string(category),
			"level":          achievement.Level,
		})
	}

	return newlyUnlocked, nil
}

// GetProgress arma el progreso del usuario sobre todos los logros
func (s *achievementService) GetProgress(userID uint) ([]model.AchievementProgress, error) {
	achievements, err := s.achievementRepo.GetAll()
	if err != nil {
		return nil, err
	}

	unlocked, err := s.achievementRepo.GetUnlockedIDs(userID)
	if err != nil {
		return nil, err
	}

	// Un COUNT por categoría alcanza para toda la escalera
	counts := make(map[model.Category]int64)
	for _, category := range model.AllCategories() {
		count, err := s.reviewRepo.CountByUserAndCategory(userID, category)
		if err != nil {
			return nil, err
		}
		counts[category] = count
	}

	progress := make([]model.AchievementProgress, 0, len(achievements))
	for _, achievement := range achievements {
		progress = append(progress, buildProgress(achievement, counts[achievement.Category], unlocked[achievement.ID]))
	}

	return progress, nil
}

// GetIncompleteAchievements devuelve los próximos logros a desbloquear,
// como máximo uno por categoría. Primero los que ya tienen avance
// (mayor porcentaje antes), después los que están en cero, por nivel.
func (s *achievementService) GetIncompleteAchievements(userID uint) ([]model.AchievementProgress, error) {
	all, err := s.GetProgress(userID)
	if err != nil {
		return nil, err
	}

	// El siguiente nivel pendiente de cada categoría
	next := make(map[model.Category]model.AchievementProgress)
	for _, p := range all {
		if p.IsUnlocked {
			continue
		}
		current, ok := next[p.Achievement.Category]
		if !ok || p.Achievement.Level < current.Achievement.Level {
			next[p.Achievement.Category] = p
		}
	}

	incomplete := make([]model.AchievementProgress, 0, len(next))
	for _, p := range next {
		incomplete = append(incomplete, p)
	}

	sort.Slice(incomplete, func(i, j int) bool {
		a, b := incomplete[i], incomplete[j]
		aStarted := a.CurrentProgress > 0
		bStarted := b.CurrentProgress > 0
		if aStarted != bStarted {
			return aStarted
		}
		if aStarted {
			if a.ProgressPercentage != b.ProgressPercentage {
				return a.ProgressPercentage > b.ProgressPercentage
			}
		} else if a.Achievement.Level != b.Achievement.Level {
			return a.Achievement.Level < b.Achievement.Level
		}
		return a.Achievement.Category < b.Achievement.Category
	})

	if len(incomplete) > incompleteAchievementsLimit {
		incomplete = incomplete[:incompleteAchievementsLimit]
	}
	return incomplete, nil
}

func (s *achievementService) GetUserAchievements(userID uint) ([]model.UserAchievement, error) {
	unlocked, err := s.achievementRepo.GetUserAchievements(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []model.UserAchievement{}, nil
		}
		return nil, err
	}
	return unlocked, nil
}

func buildProgress(achievement model.Achievement, reviewCount int64, isUnlocked bool) model.AchievementProgress {
	current := int(reviewCount)
	if current > achievement.RequiredReviews {
		current = achievement.RequiredReviews
	}

	percentage := 0.0
	if achievement.RequiredReviews > 0 {
		percentage = float64(current) / float64(achievement.RequiredReviews) * 100
	}
	if isUnlocked {
		current = achievement.RequiredReviews
		percentage = 100
	}

	return model.AchievementProgress{
		Achievement:        achievement,
		CurrentProgress:    current,
		ProgressPercentage: percentage,
		IsUnlocked:         isUnlocked,
	}
}
