package service

import (
	"strings"
	"testing"

	"github.com/RenCostamagna/comidita-backend/internal/app/model"
	"github.com/RenCostamagna/comidita-backend/internal/app/repository"
	"github.com/RenCostamagna/comidita-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupReviewServiceTest(t *testing.T) (ReviewService, *model.User, *model.Place, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	reviewRepo := repository.NewReviewRepository(testDB)
	userRepo := repository.NewUserRepository(testDB)
	placeRepo := repository.NewPlaceRepository(testDB)
	achievementRepo := repository.NewAchievementRepository(testDB)
	notifRepo := repository.NewNotificationRepository(testDB)

	notifService := NewNotificationService(notifRepo, nil)
	placeService := NewPlaceService(placeRepo, nil)
	achievementService := NewAchievementService(achievementRepo, reviewRepo, userRepo, notifService)
	reviewService := NewReviewService(reviewRepo, userRepo, placeService, achievementService, notifService)

	user := &model.User{
		Email:        "test@example.com",
		PasswordHash: "hash",
		Name:         "Test User",
		Role:         model.RoleUser,
		Level:        1,
	}
	testDB.Create(user)

	place := &model.Place{
		GooglePlaceID: "ChIJtest-place-1",
		Name:          "La Parrilla de Prueba",
		Address:       "San Martín 123, Mendoza",
	}
	testDB.Create(place)

	return reviewService, user, place, testDB
}

func validReviewInput(placeID uint) CreateReviewInput {
	return CreateReviewInput{
		PlaceID:          &placeID,
		Comment:          "Muy buena la comida",
		FoodTaste:        9,
		Presentation:     8,
		PortionSize:      8,
		DrinksVariety:    7,
		VeggieOptions:    6,
		MusicAcoustics:   7,
		Ambiance:         8,
		FurnitureComfort: 7,
		Service:          9,
		PriceRange:       model.Price15to30k,
		Category:         model.CategoryParrilla,
	}
}

func TestReviewService_CreateReview_FirstReview(t *testing.T) {
	reviewService, user, place, testDB := setupReviewServiceTest(t)

	result, err := reviewService.CreateReview(user.ID, validReviewInput(place.ID))
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.True(t, result.IsFirstReview)
	assert.Equal(t, PointsBase+PointsFirstReview, result.Points.Total)
	assert.Equal(t, result.Points.Total, result.Review.PointsAwarded)

	// Los puntos y el contador del usuario se mueven con la reseña
	var updated model.User
	require.NoError(t, testDB.First(&updated, user.ID).Error)
	assert.Equal(t, result.Points.Total, updated.Points)
	assert.Equal(t, 1, updated.ReviewCount)

	// La primera reseña fija la categoría y los agregados del lugar
	var updatedPlace model.Place
	require.NoError(t, testDB.First(&updatedPlace, place.ID).Error)
	assert.Equal(t, model.CategoryParrilla, updatedPlace.Category)
	assert.Equal(t, 1, updatedPlace.TotalReviews)
	assert.InDelta(t, 7.67, updatedPlace.Rating, 0.01)
}

func TestReviewService_CreateReview_SecondReviewerGetsNoBonus(t *testing.T) {
	reviewService, user, place, testDB := setupReviewServiceTest(t)

	other := &model.User{
		Email:        "other@example.com",
		PasswordHash: "hash",
		Name:         "Other User",
		Role:         model.RoleUser,
		Level:        1,
	}
	testDB.Create(other)

	first, err := reviewService.CreateReview(user.ID, validReviewInput(place.ID))
	require.NoError(t, err)
	require.True(t, first.IsFirstReview)

	second, err := reviewService.CreateReview(other.ID, validReviewInput(place.ID))
	require.NoError(t, err)
	assert.False(t, second.IsFirstReview)
	assert.Equal(t, PointsBase, second.Points.Total)

	var updatedPlace model.Place
	require.NoError(t, testDB.First(&updatedPlace, place.ID).Error)
	assert.Equal(t, 2, updatedPlace.TotalReviews)
}

func TestReviewService_CreateReview_SeededCategoryPreserved(t *testing.T) {
	reviewService, user, _, testDB := setupReviewServiceTest(t)

	// Lugar importado con categoría curada, todavía sin reseñas
	seeded := &model.Place{
		GooglePlaceID: "ChIJtest-seeded-1",
		Name:          "Parrilla Importada",
		Address:       "Belgrano 900, Mendoza",
		Category:      model.CategoryParrilla,
	}
	testDB.Create(seeded)

	input := validReviewInput(seeded.ID)
	input.Category = model.CategoryPizzeria

	result, err := reviewService.CreateReview(user.ID, input)
	require.NoError(t, err)
	require.True(t, result.IsFirstReview)

	// La primera reseña no pisa la categoría curada
	var updated model.Place
	require.NoError(t, testDB.First(&updated, seeded.ID).Error)
	assert.Equal(t, model.CategoryParrilla, updated.Category)
}

func TestReviewService_CreateReview_Duplicate(t *testing.T) {
	reviewService, user, place, _ := setupReviewServiceTest(t)

	_, err := reviewService.CreateReview(user.ID, validReviewInput(place.ID))
	require.NoError(t, err)

	_, err = reviewService.CreateReview(user.ID, validReviewInput(place.ID))
	assert.ErrorIs(t, err, ErrDuplicateReview)
}

func TestReviewService_CreateReview_PhotoAndCommentBonuses(t *testing.T) {
	reviewService, user, place, _ := setupReviewServiceTest(t)

	input := validReviewInput(place.ID)
	input.PhotoURLs = []string{"https://cdn.example.com/foto1.jpg"}
	input.Comment = strings.Repeat("x", LongCommentMinLength)

	result, err := reviewService.CreateReview(user.ID, input)
	require.NoError(t, err)

	assert.Equal(t, PointsPhotoBonus, result.Points.PhotoBonus)
	assert.Equal(t, PointsLongComment, result.Points.LongComment)
	assert.Equal(t, PointsBase+PointsFirstReview+PointsPhotoBonus+PointsLongComment, result.Points.Total)
}

func TestReviewService_CreateReview_InvalidInput(t *testing.T) {
	reviewService, user, place, _ := setupReviewServiceTest(t)

	tests := []struct {
		name    string
		mutate  func(*CreateReviewInput)
		wantErr error
	}{
		{
			name:    "Rating below range",
			mutate:  func(in *CreateReviewInput) { in.FoodTaste = 0 },
			wantErr: ErrInvalidRating,
		},
		{
			name:    "Rating above range",
			mutate:  func(in *CreateReviewInput) { in.Service = 11 },
			wantErr: ErrInvalidRating,
		},
		{
			name:    "Unknown price range",
			mutate:  func(in *CreateReviewInput) { in.PriceRange = "gratis" },
			wantErr: ErrInvalidPriceRange,
		},
		{
			name:    "Unknown category",
			mutate:  func(in *CreateReviewInput) { in.Category = "comida_rapida" },
			wantErr: ErrInvalidCategory,
		},
		{
			name: "Too many photos",
			mutate: func(in *CreateReviewInput) {
				in.PhotoURLs = make([]string, model.MaxReviewPhotos+1)
			},
			wantErr: ErrTooManyPhotos,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validReviewInput(place.ID)
			tt.mutate(&input)

			_, err := reviewService.CreateReview(user.ID, input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestReviewService_CreateReview_WithCandidate(t *testing.T) {
	reviewService, user, _, testDB := setupReviewServiceTest(t)

	input := validReviewInput(0)
	input.PlaceID = nil
	input.Candidate = &model.PlaceCandidate{
		GooglePlaceID: "ChIJcandidate-1",
		Name:          "Bodegón Nuevo",
		Address:       "Las Heras 456, Mendoza",
	}

	result, err := reviewService.CreateReview(user.ID, input)
	require.NoError(t, err)
	assert.True(t, result.IsFirstReview)

	// El candidato quedó persistido como lugar
	var place model.Place
	require.NoError(t, testDB.Where("google_place_id = ?", "ChIJcandidate-1").First(&place).Error)
	assert.Equal(t, place.ID, result.Review.PlaceID)
}

func TestReviewService_CreateReview_PlaceNotFound(t *testing.T) {
	reviewService, user, _, _ := setupReviewServiceTest(t)

	_, err := reviewService.CreateReview(user.ID, validReviewInput(9999))
	assert.ErrorIs(t, err, ErrPlaceNotFound)
}

func TestReviewService_CreateReview_UnlocksAchievement(t *testing.T) {
	reviewService, user, place, testDB := setupReviewServiceTest(t)

	achievement := &model.Achievement{
		Category:        model.CategoryParrilla,
		Level:           1,
		Name:            "Primer bocado de Parrilla",
		RequiredReviews: 1,
		PointsReward:    50,
	}
	require.NoError(t, testDB.Create(achievement).Error)

	result, err := reviewService.CreateReview(user.ID, validReviewInput(place.ID))
	require.NoError(t, err)

	require.Len(t, result.NewAchievements, 1)
	assert.Equal(t, achievement.ID, result.NewAchievements[0].ID)

	// Puntos de la reseña más la recompensa del logro
	var updated model.User
	require.NoError(t, testDB.First(&updated, user.ID).Error)
	assert.Equal(t, result.Points.Total+achievement.PointsReward, updated.Points)
}

func TestReviewService_CreateReview_LevelUp(t *testing.T) {
	reviewService, user, place, testDB := setupReviewServiceTest(t)

	// A un paso del nivel 2
	require.NoError(t, testDB.Model(&model.User{}).Where("id = ?", user.ID).Update("points", 499).Error)

	result, err := reviewService.CreateReview(user.ID, validReviewInput(place.ID))
	require.NoError(t, err)

	assert.True(t, result.LeveledUp)
	assert.GreaterOrEqual(t, result.NewLevel, 2)

	var updated model.User
	require.NoError(t, testDB.First(&updated, user.ID).Error)
	assert.Equal(t, result.NewLevel, updated.Level)
}

func TestReviewService_CreateReview_NotificationNamesPlace(t *testing.T) {
	reviewService, user, place, testDB := setupReviewServiceTest(t)

	_, err := reviewService.CreateReview(user.ID, validReviewInput(place.ID))
	require.NoError(t, err)

	var notifications []model.Notification
	require.NoError(t, testDB.
		Where("user_id = ? AND type = ?", user.ID, model.NotificationTypeReviewPublished).
		Find(&notifications).Error)
	require.Len(t, notifications, 1)

	assert.Contains(t, notifications[0].Content, place.Name)
	require.NotNil(t, notifications[0].RelatedPlaceID)
	assert.Equal(t, place.ID, *notifications[0].RelatedPlaceID)
}

func TestReviewService_GetReviewByID_NotFound(t *testing.T) {
	reviewService, _, _, _ := setupReviewServiceTest(t)

	_, err := reviewService.GetReviewByID(9999)
	assert.ErrorIs(t, err, ErrReviewNotFound)
}

func TestReviewService_DeleteReview(t *testing.T) {
	reviewService, user, place, testDB := setupReviewServiceTest(t)

	result, err := reviewService.CreateReview(user.ID, validReviewInput(place.ID))
	require.NoError(t, err)

	err = reviewService.DeleteReview(user.ID, result.Review.ID)
	assert.NoError(t, err)

	// Los puntos y los agregados se revierten
	var updated model.User
	require.NoError(t, testDB.First(&updated, user.ID).Error)
	assert.Equal(t, 0, updated.Points)
	assert.Equal(t, 0, updated.ReviewCount)

	var updatedPlace model.Place
	require.NoError(t, testDB.First(&updatedPlace, place.ID).Error)
	assert.Equal(t, 0, updatedPlace.TotalReviews)
	assert.InDelta(t, 0.0, updatedPlace.Rating, 0.001)
}

func TestReviewService_DeleteReview_NotOwner(t *testing.T) {
	reviewService, user, place, _ := setupReviewServiceTest(t)

	result, err := reviewService.CreateReview(user.ID, validReviewInput(place.ID))
	require.NoError(t, err)

	err = reviewService.DeleteReview(user.ID+1, result.Review.ID)
	assert.ErrorIs(t, err, ErrNotReviewOwner)
}

func TestReviewService_ListUserReviews(t *testing.T) {
	reviewService, user, place, testDB := setupReviewServiceTest(t)

	otherPlace := &model.Place{
		GooglePlaceID: "ChIJtest-place-2",
		Name:          "Pizzería del Centro",
		Address:       "Arístides 789, Mendoza",
	}
	testDB.Create(otherPlace)

	_, err := reviewService.CreateReview(user.ID, validReviewInput(place.ID))
	require.NoError(t, err)

	secondInput := validReviewInput(otherPlace.ID)
	secondInput.Category = model.CategoryPizzeria
	_, err = reviewService.CreateReview(user.ID, secondInput)
	require.NoError(t, err)

	reviews, total, err := reviewService.ListUserReviews(user.ID, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, reviews, 2)

	// Ordenadas de la más nueva a la más vieja, con el lugar precargado
	require.NotNil(t, reviews[0].Place)
	assert.Equal(t, otherPlace.ID, reviews[0].PlaceID)
}

func TestReviewService_ExportUserReviews(t *testing.T) {
	reviewService, user, place, _ := setupReviewServiceTest(t)

	input := validReviewInput(place.ID)
	dish := "Bife de chorizo"
	input.DishName = &dish
	_, err := reviewService.CreateReview(user.ID, input)
	require.NoError(t, err)

	file, err := reviewService.ExportUserReviews(user.ID)
	require.NoError(t, err)
	require.NotNil(t, file)

	rows, err := file.GetRows("Reseñas")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Fecha", rows[0][0])
	assert.Equal(t, place.Name, rows[1][1])
}
