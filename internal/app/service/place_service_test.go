package service

import (
	"testing"

	"github.com/RenCostamagna/comidita-backend/internal/app/model"
	"github.com/RenCostamagna/comidita-backend/internal/app/repository"
	"github.com/RenCostamagna/comidita-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupPlaceServiceTest(t *testing.T) (PlaceService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	placeRepo := repository.NewPlaceRepository(testDB)
	placeService := NewPlaceService(placeRepo, nil)

	return placeService, testDB
}

func TestPlaceService_ResolveOrCreate_CreatesPlace(t *testing.T) {
	placeService, testDB := setupPlaceServiceTest(t)

	candidate := model.PlaceCandidate{
		GooglePlaceID: "ChIJ-resolve-1",
		Name:          "El Bodegón de Martín",
		Address:       "9 de Julio 250, Mendoza",
		Latitude:      -32.89,
		Longitude:     -68.84,
	}

	place, err := placeService.ResolveOrCreate(candidate)
	require.NoError(t, err)
	require.NotNil(t, place)
	assert.NotZero(t, place.ID)
	assert.Equal(t, candidate.GooglePlaceID, place.GooglePlaceID)
	assert.Equal(t, candidate.Name, place.Name)

	var count int64
	testDB.Model(&model.Place{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestPlaceService_ResolveOrCreate_Idempotent(t *testing.T) {
	placeService, testDB := setupPlaceServiceTest(t)

	candidate := model.PlaceCandidate{
		GooglePlaceID: "ChIJ-resolve-2",
		Name:          "Café del Parque",
		Address:       "Emilio Civit 300, Mendoza",
	}

	first, err := placeService.ResolveOrCreate(candidate)
	require.NoError(t, err)

	// Resolver el mismo candidato devuelve siempre la misma fila
	second, err := placeService.ResolveOrCreate(candidate)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	testDB.Model(&model.Place{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestPlaceService_ResolveOrCreate_IncompleteData(t *testing.T) {
	placeService, _ := setupPlaceServiceTest(t)

	tests := []struct {
		name      string
		candidate model.PlaceCandidate
	}{
		{
			name:      "Missing google place id",
			candidate: model.PlaceCandidate{Name: "Sin ID"},
		},
		{
			name:      "Missing name",
			candidate: model.PlaceCandidate{GooglePlaceID: "ChIJ-incomplete"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := placeService.ResolveOrCreate(tt.candidate)
			assert.ErrorIs(t, err, ErrIncompletePlaceData)
		})
	}
}

func TestPlaceService_GetPlaceByID_NotFound(t *testing.T) {
	placeService, _ := setupPlaceServiceTest(t)

	_, err := placeService.GetPlaceByID(9999)
	assert.ErrorIs(t, err, ErrPlaceNotFound)
}

func TestPlaceService_ListPlaces_FilterByCategory(t *testing.T) {
	placeService, testDB := setupPlaceServiceTest(t)

	testDB.Create(&model.Place{
		GooglePlaceID: "ChIJ-list-1",
		Name:          "Parrilla Uno",
		Address:       "Calle 1",
		Category:      model.CategoryParrilla,
		TotalReviews:  5,
	})
	testDB.Create(&model.Place{
		GooglePlaceID: "ChIJ-list-2",
		Name:          "Parrilla Dos",
		Address:       "Calle 2",
		Category:      model.CategoryParrilla,
		TotalReviews:  9,
	})
	testDB.Create(&model.Place{
		GooglePlaceID: "ChIJ-list-3",
		Name:          "Heladería",
		Address:       "Calle 3",
		Category:      model.CategoryHeladeria,
	})

	category := model.CategoryParrilla
	places, total, err := placeService.ListPlaces(&category, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, places, 2)

	// Más reseñados primero
	assert.Equal(t, "Parrilla Dos", places[0].Name)
}

func TestPlaceService_RecalculateAggregates(t *testing.T) {
	placeService, testDB := setupPlaceServiceTest(t)

	place := &model.Place{
		GooglePlaceID: "ChIJ-recalc-1",
		Name:          "Bodegón Desviado",
		Address:       "Mitre 700, Mendoza",
	}
	require.NoError(t, testDB.Create(place).Error)

	for i := 0; i < 2; i++ {
		review := model.DetailedReview{
			UserID:           uint(i + 1),
			PlaceID:          place.ID,
			Comment:          "Muy bueno",
			FoodTaste:        8,
			Presentation:     8,
			PortionSize:      8,
			DrinksVariety:    8,
			VeggieOptions:    8,
			MusicAcoustics:   8,
			Ambiance:         8,
			FurnitureComfort: 8,
			Service:          8,
			PriceRange:       model.Price15to30k,
			Category:         model.CategoryParrilla,
		}
		require.NoError(t, testDB.Create(&review).Error)
	}

	// Agregados desviados a mano
	require.NoError(t, testDB.Model(&model.Place{}).
		Where("id = ?", place.ID).
		Updates(map[string]interface{}{"rating": 1.0, "total_reviews": 99}).Error)

	recalculated, err := placeService.RecalculateAggregates()
	require.NoError(t, err)
	assert.Equal(t, 1, recalculated)

	var updated model.Place
	require.NoError(t, testDB.First(&updated, place.ID).Error)
	assert.Equal(t, 2, updated.TotalReviews)
	assert.InDelta(t, 8.0, updated.Rating, 0.01)
}

func TestTemporaryPlaceID(t *testing.T) {
	id := TemporaryPlaceID()

	assert.True(t, IsTemporaryPlaceID(id))
	assert.NotEqual(t, id, TemporaryPlaceID())

	assert.False(t, IsTemporaryPlaceID("ChIJrTLr-GyuEmsRBfy61i59si0"))
	assert.False(t, IsTemporaryPlaceID(""))
}
