package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/polycampus/backend/internal/app/models"
	"github.com/polycampus/backend/internal/app/models/dto"
	"github.com/polycampus/backend/internal/app/schema"
	"github.com/polycampus/backend/internal/middleware"
)

// ContentManager is the coordinator contract the controller binds to. One
// controller instance serves one content kind.
type ContentManager interface {
	Kind() schema.Kind
	List(ctx context.Context) ([]models.Entity, error)
	Create(ctx context.Context, raw map[string]any) (models.Entity, error)
	Update(ctx context.Context, id uuid.UUID, raw map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ContentController handles list and mutation requests for one content kind.
type ContentController struct {
	manager ContentManager
}

// NewContentController creates a controller bound to one coordinator.
func NewContentController(manager ContentManager) *ContentController {
	return &ContentController{manager: manager}
}

// List returns all records of the kind in their publication order.
func (c *ContentController) List(ctx *gin.Context) {
	entities, err := c.manager.List(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      entities,
		Timestamp: time.Now(),
	})
}

// Create validates the posted fields and inserts a new record.
func (c *ContentController) Create(ctx *gin.Context) {
	var raw map[string]any
	if err := ctx.ShouldBindJSON(&raw); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request body")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	entity, err := c.manager.Create(ctx.Request.Context(), raw)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      entity,
		Timestamp: time.Now(),
	})
}

// Update replaces all declared fields of the record identified by the path id.
func (c *ContentController) Update(ctx *gin.Context) {
	id, ok := parseRecordID(ctx)
	if !ok {
		return
	}

	var raw map[string]any
	if err := ctx.ShouldBindJSON(&raw); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request body")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if err := c.manager.Update(ctx.Request.Context(), id, raw); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Record updated"},
		Timestamp: time.Now(),
	})
}

// Delete removes the record identified by the path id. Deleting an id that is
// already gone still reports success.
func (c *ContentController) Delete(ctx *gin.Context) {
	id, ok := parseRecordID(ctx)
	if !ok {
		return
	}

	if err := c.manager.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Record deleted"},
		Timestamp: time.Now(),
	})
}

func parseRecordID(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid record ID")
		errorDetail = errorDetail.WithDetails("Record ID must be a valid UUID")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return uuid.UUID{}, false
	}
	return id, true
}
