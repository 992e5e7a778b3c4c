package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/arch-spatula/jmc/internal/app/repository"
	"github.com/arch-spatula/jmc/internal/app/service"
	"github.com/arch-spatula/jmc/internal/db"
	apperrors "github.com/arch-spatula/jmc/internal/errors"
	"github.com/arch-spatula/jmc/internal/sheet"
	"github.com/arch-spatula/jmc/internal/workbook"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRestaurantControllerTest(t *testing.T) (*gin.Engine, service.RestaurantService) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	restaurantService := service.NewRestaurantService(repository.NewRestaurantRepository(testDB), nil)
	ctrl := NewRestaurantController(restaurantService)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("/api/restaurants")
	api.GET("", ctrl.GetAll)
	api.POST("", ctrl.Create)
	api.POST("/save", ctrl.Save)
	api.GET("/recommend", ctrl.Recommend)
	api.GET("/export", ctrl.Export)
	api.PUT("/:name", ctrl.Update)
	api.DELETE("/:name", ctrl.Delete)

	return router, restaurantService
}

func testRecord(name string) sheet.Record {
	return sheet.Record{
		Name:       name,
		Rating:     4.5,
		Categories: []string{"한식"},
		KakaoURL:   "https://place.map.kakao.com/" + name,
		Menus:      []sheet.Menu{},
	}
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) apperrors.ErrorResponse {
	t.Helper()
	var resp apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestRestaurantController_GetAll_Empty(t *testing.T) {
	router, _ := setupRestaurantControllerTest(t)

	w := doJSON(t, router, http.MethodGet, "/api/restaurants", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"restaurants":[],"count":0}`, w.Body.String())
}

func TestRestaurantController_CreateAndList(t *testing.T) {
	router, _ := setupRestaurantControllerTest(t)

	w := doJSON(t, router, http.MethodPost, "/api/restaurants", testRecord("라멘집"))
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/restaurants", testRecord("라멘집"))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, apperrors.RestaurantNameExists, decodeError(t, w).Error)

	w = doJSON(t, router, http.MethodGet, "/api/restaurants", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Restaurants []sheet.Record `json:"restaurants"`
		Count       int            `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 1, response.Count)
	assert.Equal(t, testRecord("라멘집"), response.Restaurants[0])
}

func TestRestaurantController_Create_Invalid(t *testing.T) {
	router, _ := setupRestaurantControllerTest(t)

	invalid := testRecord("식당")
	invalid.Rating = 3.3
	w := doJSON(t, router, http.MethodPost, "/api/restaurants", invalid)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, apperrors.ValidationInvalidInput, resp.Error)
	assert.Equal(t, "rating은 0.5 단위여야 합니다: 식당", resp.Message)

	req := httptest.NewRequest(http.MethodPost, "/api/restaurants", bytes.NewBufferString("{"))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRestaurantController_UpdateAndDelete(t *testing.T) {
	router, svc := setupRestaurantControllerTest(t)
	require.NoError(t, svc.Create(context.Background(), testRecord("식당")))

	updated := testRecord("식당")
	updated.Visited = true
	w := doJSON(t, router, http.MethodPut, "/api/restaurants/"+url.PathEscape("식당"), updated)
	assert.Equal(t, http.StatusOK, w.Code)

	rec, err := svc.GetByName(context.Background(), "식당")
	require.NoError(t, err)
	assert.True(t, rec.Visited)

	w = doJSON(t, router, http.MethodPut, "/api/restaurants/"+url.PathEscape("없는식당"), updated)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/api/restaurants/"+url.PathEscape("식당"), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/api/restaurants/"+url.PathEscape("식당"), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apperrors.RestaurantNotFound, decodeError(t, w).Error)
}

func TestRestaurantController_Save(t *testing.T) {
	router, svc := setupRestaurantControllerTest(t)
	require.NoError(t, svc.Create(context.Background(), testRecord("가")))

	w := doJSON(t, router, http.MethodPost, "/api/restaurants/save", sheet.Payload{
		New:    []sheet.Record{testRecord("나")},
		Update: []sheet.Record{},
		Delete: []string{"가"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	records, err := svc.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "나", records[0].Name)
}

func TestRestaurantController_Save_ValidationMessage(t *testing.T) {
	router, _ := setupRestaurantControllerTest(t)

	w := doJSON(t, router, http.MethodPost, "/api/restaurants/save", map[string]interface{}{
		"new":    []sheet.Record{testRecord("")},
		"update": []sheet.Record{},
		"delete": []string{},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, apperrors.RestaurantBatchInvalid, resp.Error)
	assert.Equal(t, "new[0]: name은 필수입니다", resp.Message)
}

func TestRestaurantController_Recommend(t *testing.T) {
	router, svc := setupRestaurantControllerTest(t)

	w := doJSON(t, router, http.MethodGet, "/api/restaurants/recommend", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "null", w.Body.String())

	require.NoError(t, svc.Create(context.Background(), testRecord("유일한식당")))

	w = doJSON(t, router, http.MethodGet, "/api/restaurants/recommend", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var rec sheet.Record
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))
	assert.Equal(t, "유일한식당", rec.Name)
}

func TestRestaurantController_Export(t *testing.T) {
	router, svc := setupRestaurantControllerTest(t)
	require.NoError(t, svc.Create(context.Background(), testRecord("식당")))

	w := doJSON(t, router, http.MethodGet, "/api/restaurants/export", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, workbook.ContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")

	records, err := workbook.Decode(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, []sheet.Record{testRecord("식당")}, records)
}
