package scheduler

import (
	"context"
	"time"

	"github.com/RenCostamagna/comidita-backend/internal/app/service"
	"github.com/RenCostamagna/comidita-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

const (
	// Los datos de Google Places se consideran viejos después de 30 días
	staleAfter = 30 * 24 * time.Hour

	// Cantidad máxima de lugares a refrescar por corrida, para no
	// quemar cuota de la API
	refreshBatchSize = 50
)

// PlaceRefreshScheduler actualiza periódicamente los datos de lugares
// desde Google Places
type PlaceRefreshScheduler struct {
	cron         *cron.Cron
	placeService service.PlaceService
}

// NewPlaceRefreshScheduler crea el scheduler de refresco de lugares
func NewPlaceRefreshScheduler(placeService service.PlaceService) *PlaceRefreshScheduler {
	return &PlaceRefreshScheduler{
		cron:         cron.New(),
		placeService: placeService,
	}
}

// Start arranca el scheduler
func (s *PlaceRefreshScheduler) Start() error {
	// Todas las noches a las 4:00, cuando casi no hay tráfico
	// cron: "0 4 * * *" = todos los días a las 4:00
	_, err := s.cron.AddFunc("0 4 * * *", func() {
		logger.Info("Starting scheduled place refresh", nil)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		olderThan := time.Now().Add(-staleAfter)
		refreshed, err := s.placeService.RefreshStaleDetails(ctx, olderThan, refreshBatchSize)
		if err != nil {
			// Los agregados se recalculan igual aunque Google no responda
			logger.Error("Failed to refresh stale places from scheduler", err)
		}

		recalculated, err := s.placeService.RecalculateAggregates()
		if err != nil {
			logger.Error("Failed to recalculate place aggregates from scheduler", err)
			return
		}

		logger.Info("Successfully completed scheduled place maintenance", map[string]interface{}{
			"refreshed":    refreshed,
			"recalculated": recalculated,
		})
	})

	if err != nil {
		logger.Error("Failed to add cron job for place refresh", err)
		return err
	}

	s.cron.Start()
	logger.Info("Place refresh scheduler started successfully (daily at 4:00 AM)", nil)

	return nil
}

// Stop para el scheduler
func (s *PlaceRefreshScheduler) Stop() {
	logger.Info("Stopping place refresh scheduler...", nil)
	s.cron.Stop()
	logger.Info("Place refresh scheduler stopped", nil)
}
