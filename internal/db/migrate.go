package db

import (
	"fmt"

	"github.com/RenCostamagna/comidita-backend/internal/app/model"
	"github.com/RenCostamagna/comidita-backend/pkg/logger"
)

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.User{},
		&model.Place{},
		&model.DetailedReview{},
		&model.Achievement{},
		&model.UserAchievement{},
		&model.Notification{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if err := seedInitialData(); err != nil {
		logger.Error("Failed to seed initial data during migration", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// Seed adds initial data to the database (optional)
func Seed() error {
	return seedInitialData()
}

func seedInitialData() error {
	logger.Info("Seeding initial data...")

	// La escalera de logros tiene que existir antes de la primera reseña
	if err := seedAchievements(); err != nil {
		logger.Error("Failed to seed achievements", err)
		return err
	}

	logger.Info("Initial data seeded successfully")
	return nil
}

// achievementLevels define la escalera por categoría: reseñas requeridas
// y puntos de recompensa por nivel.
var achievementLevels = []struct {
	Level           int
	RequiredReviews int
	PointsReward    int
	Title           string
}{
	{1, 1, 50, "Primer bocado"},
	{2, 3, 100, "Habitué"},
	{3, 7, 200, "Conocedor"},
	{4, 15, 400, "Experto"},
	{5, 30, 800, "Leyenda"},
}

// seedAchievements crea los logros por categoría si todavía no existen
func seedAchievements() error {
	var count int64
	if err := DB.Model(&model.Achievement{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logger.Info("Achievements already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	logger.Info("Seeding achievement ladder...")

	totalInserted := 0
	for _, category := range model.AllCategories() {
		label := category.Label()
		for _, lvl := range achievementLevels {
			achievement := model.Achievement{
				Category:        category,
				Level:           lvl.Level,
				Name:            fmt.Sprintf("%s de %s", lvl.Title, label),
				Description:     fmt.Sprintf("Publicá %d reseñas en la categoría %s", lvl.RequiredReviews, label),
				RequiredReviews: lvl.RequiredReviews,
				PointsReward:    lvl.PointsReward,
			}
			if achievement.RequiredReviews == 1 {
				achievement.Description = fmt.Sprintf("Publicá tu primera reseña en la categoría %s", label)
			}

			if err := DB.Create(&achievement).Error; err != nil {
				logger.Error("Failed to create achievement", err, map[string]interface{}{
					"category": string(category),
					"level":    lvl.Level,
				})
				return err
			}
			totalInserted++
		}
	}

	logger.Info("Achievements seeded successfully", map[string]interface{}{
		"total_achievements": totalInserted,
		"categories":         len(model.AllCategories()),
		"levels":             len(achievementLevels),
	})

	return nil
}
