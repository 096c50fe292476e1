package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"annuaire_artisans/internal/api/dto"
	"annuaire_artisans/internal/middleware"
	"annuaire_artisans/internal/service"
)

// ==================== ReviewController ====================

// ReviewController exposes review creation and the aggregated listing.
type ReviewController struct {
	reviewSvc *service.ReviewService
}

// NewReviewController creates the review controller.
func NewReviewController(reviewSvc *service.ReviewService) *ReviewController {
	return &ReviewController{reviewSvc: reviewSvc}
}

// Create stores a review
// @Summary Create a review
// @Tags Review
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "artisan id"
// @Param request body dto.CreateReviewRequest true "review"
// @Success 200 {object} dto.ReviewInfo
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /artisans/{id}/reviews [post]
func (c *ReviewController) Create(ctx *gin.Context) {
	artisanID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "invalid artisan id"})
		return
	}

	var req dto.CreateReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "invalid request body: " + err.Error()})
		return
	}

	submitter := service.SubmitterContext{
		UserID:       middleware.GetUserID(ctx),
		IsPrivileged: middleware.IsPrivileged(ctx),
	}

	review, err := c.reviewSvc.Create(ctx.Request.Context(), artisanID, &req, submitter)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAnonymousReview):
			ctx.JSON(http.StatusUnauthorized, gin.H{"code": 401, "message": err.Error()})
		case errors.Is(err, service.ErrArtisanNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"code": 404, "message": err.Error()})
		default:
			respondPipelineError(ctx, err)
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"code": 0, "data": review})
}

// ListForArtisan returns reviews plus their aggregate
// @Summary List reviews of an artisan
// @Tags Review
// @Produce json
// @Param id path int true "artisan id"
// @Success 200 {object} dto.ReviewListResponse
// @Router /artisans/{id}/reviews [get]
func (c *ReviewController) ListForArtisan(ctx *gin.Context) {
	artisanID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "invalid artisan id"})
		return
	}

	resp, err := c.reviewSvc.ListWithStats(ctx.Request.Context(), artisanID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"code": 0, "data": resp})
}
