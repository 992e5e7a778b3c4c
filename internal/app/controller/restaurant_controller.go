package controller

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/arch-spatula/jmc/internal/app/service"
	apperrors "github.com/arch-spatula/jmc/internal/errors"
	"github.com/arch-spatula/jmc/internal/middleware"
	"github.com/arch-spatula/jmc/internal/sheet"
	"github.com/arch-spatula/jmc/internal/workbook"
	"github.com/gin-gonic/gin"
)

type RestaurantController struct {
	restaurantService service.RestaurantService
}

func NewRestaurantController(restaurantService service.RestaurantService) *RestaurantController {
	return &RestaurantController{
		restaurantService: restaurantService,
	}
}

// GetAll returns every restaurant in stored order
// GET /api/restaurants
func (ctrl *RestaurantController) GetAll(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	records, err := ctrl.restaurantService.GetAll(c.Request.Context())
	if err != nil {
		log.Error("Failed to fetch restaurants", err)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"restaurants": records,
		"count":       len(records),
	})
}

// Create adds one restaurant
// POST /api/restaurants
func (ctrl *RestaurantController) Create(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var rec sheet.Record
	if err := c.ShouldBindJSON(&rec); err != nil {
		log.Warn("Invalid restaurant create request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "잘못된 요청입니다")
		return
	}

	if err := ctrl.restaurantService.Create(c.Request.Context(), rec); err != nil {
		respondServiceError(c, err, "create")
		return
	}

	c.JSON(http.StatusCreated, rec)
}

// Update replaces the restaurant stored under :name
// PUT /api/restaurants/:name
func (ctrl *RestaurantController) Update(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	name := c.Param("name")

	var rec sheet.Record
	if err := c.ShouldBindJSON(&rec); err != nil {
		log.Warn("Invalid restaurant update request", map[string]interface{}{
			"name":  name,
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "잘못된 요청입니다")
		return
	}

	if err := ctrl.restaurantService.Update(c.Request.Context(), name, rec); err != nil {
		respondServiceError(c, err, "update")
		return
	}

	c.JSON(http.StatusOK, rec)
}

// Delete removes the restaurant stored under :name
// DELETE /api/restaurants/:name
func (ctrl *RestaurantController) Delete(c *gin.Context) {
	if err := ctrl.restaurantService.Delete(c.Request.Context(), c.Param("name")); err != nil {
		respondServiceError(c, err, "delete")
		return
	}

	c.Status(http.StatusNoContent)
}

// Save applies a batch of creates, updates and deletes
// POST /api/restaurants/save
func (ctrl *RestaurantController) Save(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var payload sheet.Payload
	if err := c.ShouldBindJSON(&payload); err != nil {
		log.Warn("Invalid batch save request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "잘못된 요청입니다")
		return
	}

	log.Info("Batch save requested", map[string]interface{}{
		"new":    len(payload.New),
		"update": len(payload.Update),
		"delete": len(payload.Delete),
	})

	if err := ctrl.restaurantService.SaveBatch(c.Request.Context(), payload); err != nil {
		respondServiceError(c, err, "save")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "저장되었습니다",
	})
}

// Recommend returns a random restaurant or null
// GET /api/restaurants/recommend
func (ctrl *RestaurantController) Recommend(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	rec, err := ctrl.restaurantService.Recommend(c.Request.Context())
	if err != nil {
		log.Error("Failed to recommend restaurant", err)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "recommend")
		return
	}

	c.JSON(http.StatusOK, rec)
}

// Export downloads every restaurant as xlsx
// GET /api/restaurants/export
func (ctrl *RestaurantController) Export(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	raw, err := ctrl.restaurantService.ExportXLSX(c.Request.Context())
	if err != nil {
		log.Error("Failed to export restaurants", err)
		apperrors.InternalError(c, "엑셀 파일을 만들지 못했습니다")
		return
	}

	filename := fmt.Sprintf("restaurants_%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, workbook.ContentType, raw)
}

// respondServiceError maps service errors to HTTP responses.
// Validation messages are returned as-is so the editor can show them.
func respondServiceError(c *gin.Context, err error, context string) {
	log := middleware.GetLoggerFromContext(c)

	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		code := apperrors.ValidationInvalidInput
		if errors.Is(err, service.ErrInvalidBatch) {
			code = apperrors.RestaurantBatchInvalid
		}
		log.Warn("Restaurant validation failed", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, code, err.Error())
	case errors.Is(err, service.ErrRestaurantNotFound):
		apperrors.NotFound(c, apperrors.RestaurantNotFound, service.ErrRestaurantNotFound.Error())
	case errors.Is(err, service.ErrRestaurantExists):
		apperrors.Conflict(c, apperrors.RestaurantNameExists, service.ErrRestaurantExists.Error())
	default:
		log.Error("Restaurant operation failed", err, map[string]interface{}{
			"operation": context,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, context)
	}
}
