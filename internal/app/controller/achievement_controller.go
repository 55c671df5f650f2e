package controller

import (
	"net/http"

	"github.com/RenCostamagna/comidita-backend/internal/app/service"
	apperrors "github.com/RenCostamagna/comidita-backend/internal/errors"
	"github.com/RenCostamagna/comidita-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type AchievementController struct {
	achievementService service.AchievementService
}

func NewAchievementController(achievementService service.AchievementService) *AchievementController {
	return &AchievementController{
		achievementService: achievementService,
	}
}

// GetProgress returns the user's progress over the whole achievement ladder
// GET /api/v1/achievements/progress
func (ctrl *AchievementController) GetProgress(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Tenés que iniciar sesión")
		return
	}

	progress, err := ctrl.achievementService.GetProgress(userID)
	if err != nil {
		log.Error("Failed to get achievement progress", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get achievement progress")
		return
	}

	unlocked := 0
	for _, p := range progress {
		if p.IsUnlocked {
			unlocked++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"progress": progress,
		"total":    len(progress),
		"unlocked": unlocked,
	})
}

// GetIncomplete returns the next achievements to chase
// GET /api/v1/achievements/incomplete
func (ctrl *AchievementController) GetIncomplete(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Tenés que iniciar sesión")
		return
	}

	incomplete, err := ctrl.achievementService.GetIncompleteAchievements(userID)
	if err != nil {
		log.Error("Failed to get incomplete achievements", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get incomplete achievements")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"achievements": incomplete,
	})
}

// GetMyAchievements returns the user's unlocked achievements
// GET /api/v1/achievements/me
func (ctrl *AchievementController) GetMyAchievements(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Tenés que iniciar sesión")
		return
	}

	unlocked, err := ctrl.achievementService.GetUserAchievements(userID)
	if err != nil {
		log.Error("Failed to get user achievements", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get achievements")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"achievements": unlocked,
		"total":        len(unlocked),
	})
}
