package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/RenCostamagna/comidita-backend/internal/app/model"
	"github.com/RenCostamagna/comidita-backend/internal/app/repository"
	"github.com/RenCostamagna/comidita-backend/internal/app/service"
	"github.com/RenCostamagna/comidita-backend/internal/db"
	"github.com/RenCostamagna/comidita-backend/internal/middleware"
	"github.com/RenCostamagna/comidita-backend/pkg/util"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type reviewControllerFixture struct {
	router *gin.Engine
	db     *gorm.DB
	user   *model.User
	token  string
	place  *model.Place
}

func setupReviewControllerTest(t *testing.T) *reviewControllerFixture {
	gin.SetMode(gin.TestMode)

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

	notifService := service.NewNotificationService(notifRepo, nil)
	placeService := service.NewPlaceService(placeRepo, nil)
	achievementService := service.NewAchievementService(achievementRepo, reviewRepo, userRepo, notifService)
	reviewService := service.NewReviewService(reviewRepo, userRepo, placeService, achievementService, notifService)

	ctrl := NewReviewController(reviewService, nil)
	authMiddleware := middleware.NewAuthMiddleware("test-secret")

	router := gin.New()
	router.POST("/reviews", authMiddleware.Authenticate(), ctrl.CreateReview)
	router.GET("/reviews/:id", ctrl.GetReview)
	router.DELETE("/reviews/:id", authMiddleware.Authenticate(), ctrl.DeleteReview)
	router.GET("/places/:id/reviews", ctrl.ListPlaceReviews)
	router.GET("/users/me/reviews", authMiddleware.Authenticate(), ctrl.ListMyReviews)

	user := &model.User{
		Email:        "test@example.com",
		PasswordHash: "hash",
		Name:         "Test User",
		Role:         model.RoleUser,
		Level:        1,
	}
	testDB.Create(user)

	tokens, err := util.GenerateTokenPair(user.ID, user.Email, string(user.Role), "test-secret", 15*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)

	place := &model.Place{
		GooglePlaceID: "ChIJ-ctrl-place-1",
		Name:          "La Parrilla de Prueba",
		Address:       "San Martín 123, Mendoza",
	}
	testDB.Create(place)

	return &reviewControllerFixture{
		router: router,
		db:     testDB,
		user:   user,
		token:  tokens.AccessToken,
		place:  place,
	}
}

func validCreateReviewRequest(placeID uint) CreateReviewRequest {
	return CreateReviewRequest{
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

func (f *reviewControllerFixture) postReview(t *testing.T, reqBody CreateReviewRequest) *httptest.ResponseRecorder {
	t.Helper()

	body, _ := json.Marshal(reqBody)
	req := httptest.NewRequest("POST", "/reviews", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+f.token)
	w := httptest.NewRecorder()

	f.router.ServeHTTP(w, req)
	return w
}

func TestReviewController_CreateReview_Success(t *testing.T) {
	f := setupReviewControllerTest(t)

	w := f.postReview(t, validCreateReviewRequest(f.place.ID))

	assert.Equal(t, http.StatusCreated, w.Code)

	var response struct {
		Result struct {
			IsFirstReview bool `json:"is_first_review"`
			Points        struct {
				Total int `json:"total"`
			} `json:"points"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(t, response.Result.IsFirstReview)
	assert.Equal(t, 600, response.Result.Points.Total)
}

func TestReviewController_CreateReview_Duplicate(t *testing.T) {
	f := setupReviewControllerTest(t)

	w := f.postReview(t, validCreateReviewRequest(f.place.ID))
	require.Equal(t, http.StatusCreated, w.Code)

	w = f.postReview(t, validCreateReviewRequest(f.place.ID))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "REVIEW_ALREADY_EXISTS")
}

func TestReviewController_CreateReview_MissingPlace(t *testing.T) {
	f := setupReviewControllerTest(t)

	reqBody := validCreateReviewRequest(f.place.ID)
	reqBody.PlaceID = nil
	reqBody.Place = nil

	w := f.postReview(t, reqBody)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReviewController_CreateReview_InvalidRating(t *testing.T) {
	f := setupReviewControllerTest(t)

	reqBody := validCreateReviewRequest(f.place.ID)
	reqBody.FoodTaste = 11

	w := f.postReview(t, reqBody)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReviewController_CreateReview_UnknownCategory(t *testing.T) {
	f := setupReviewControllerTest(t)

	reqBody := validCreateReviewRequest(f.place.ID)
	reqBody.Category = "comida_rapida"

	w := f.postReview(t, reqBody)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "PLACE_INVALID_CATEGORY")
}

func TestReviewController_CreateReview_Unauthenticated(t *testing.T) {
	f := setupReviewControllerTest(t)

	body, _ := json.Marshal(validCreateReviewRequest(f.place.ID))
	req := httptest.NewRequest("POST", "/reviews", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestReviewController_GetReview(t *testing.T) {
	f := setupReviewControllerTest(t)

	w := f.postReview(t, validCreateReviewRequest(f.place.ID))
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Result struct {
			Review struct {
				ID uint `json:"id"`
			} `json:"review"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	req := httptest.NewRequest("GET", fmt.Sprintf("/reviews/%d", created.Result.Review.ID), nil)
	w = httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), f.place.Name)
}

func TestReviewController_GetReview_NotFound(t *testing.T) {
	f := setupReviewControllerTest(t)

	req := httptest.NewRequest("GET", "/reviews/9999", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "REVIEW_NOT_FOUND")
}

func TestReviewController_ListPlaceReviews(t *testing.T) {
	f := setupReviewControllerTest(t)

	w := f.postReview(t, validCreateReviewRequest(f.place.ID))
	require.Equal(t, http.StatusCreated, w.Code)

	req := httptest.NewRequest("GET", fmt.Sprintf("/places/%d/reviews", f.place.ID), nil)
	w = httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Total int64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, int64(1), response.Total)
}

func TestReviewController_DeleteReview_NotOwner(t *testing.T) {
	f := setupReviewControllerTest(t)

	w := f.postReview(t, validCreateReviewRequest(f.place.ID))
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Result struct {
			Review struct {
				ID uint `json:"id"`
			} `json:"review"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	// Otro usuario no puede borrarla
	otherTokens, err := util.GenerateTokenPair(f.user.ID+100, "otro@example.com", "user", "test-secret", 15*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest("DELETE", fmt.Sprintf("/reviews/%d", created.Result.Review.ID), nil)
	req.Header.Set("Authorization", "Bearer "+otherTokens.AccessToken)
	w = httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
