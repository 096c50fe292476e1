package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"annuaire_artisans/internal/api/dto"
	"annuaire_artisans/internal/middleware"
	"annuaire_artisans/internal/model"
	"annuaire_artisans/internal/repository"
	"annuaire_artisans/internal/service"
)

// ==================== ArtisanController ====================

// ArtisanController exposes the submission pipeline and directory reads.
type ArtisanController struct {
	artisanSvc *service.ArtisanService
	importSvc  *service.ImportService
}

// NewArtisanController creates the artisan controller.
func NewArtisanController(artisanSvc *service.ArtisanService, importSvc *service.ImportService) *ArtisanController {
	return &ArtisanController{artisanSvc: artisanSvc, importSvc: importSvc}
}

// Submit creates a directory entry
// @Summary Submit an artisan
// @Tags Artisan
// @Accept json
// @Produce json
// @Param request body dto.SubmitArtisanRequest true "submission"
// @Success 200 {object} dto.SubmitArtisanResponse
// @Failure 400 {object} map[string]interface{}
// @Router /artisans [post]
func (c *ArtisanController) Submit(ctx *gin.Context) {
	var req dto.SubmitArtisanRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "invalid request body: " + err.Error()})
		return
	}

	submitter := service.SubmitterContext{
		UserID:       middleware.GetUserID(ctx),
		IsPrivileged: middleware.IsPrivileged(ctx),
	}

	result, err := c.artisanSvc.Submit(ctx.Request.Context(), &req, submitter)
	if err != nil {
		respondPipelineError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code": 0,
		"data": dto.SubmitArtisanResponse{
			Artisan:      service.ToArtisanInfo(result.Artisan),
			PhoneResults: service.ToAttachResultViews(result.PhoneResults),
			LinkResults:  service.ToAttachResultViews(result.LinkResults),
		},
	})
}

// Import runs the batch pipeline over an uploaded CSV file
// @Summary Import artisans from CSV
// @Tags Artisan
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "CSV file"
// @Success 200 {object} dto.BatchImportReport
// @Failure 400 {object} map[string]interface{}
// @Router /artisans/import [post]
func (c *ArtisanController) Import(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "missing file: " + err.Error()})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "cannot open file: " + err.Error()})
		return
	}
	defer file.Close()

	rows, err := service.ParseCSV(file)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": err.Error()})
		return
	}

	submitter := service.SubmitterContext{
		UserID:       middleware.GetUserID(ctx),
		IsPrivileged: middleware.IsPrivileged(ctx),
	}

	// The report is always complete, even when every row failed.
	report := c.importSvc.ImportBatch(ctx.Request.Context(), rows, submitter)
	ctx.JSON(http.StatusOK, gin.H{"code": 0, "data": report})
}

// List returns a filtered page of entries
// @Summary List artisans
// @Tags Artisan
// @Produce json
// @Param status query string false "status"
// @Param profession query string false "profession slug"
// @Param zone query string false "zone slug"
// @Param keyword query string false "name keyword"
// @Param page query int false "page"
// @Param page_size query int false "page size"
// @Success 200 {object} dto.ArtisanListResponse
// @Router /artisans [get]
func (c *ArtisanController) List(ctx *gin.Context) {
	var req dto.ArtisanListRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "invalid query: " + err.Error()})
		return
	}

	resp, err := c.artisanSvc.List(ctx.Request.Context(), &req)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"code": 0, "data": resp})
}

// GetBySlug returns one entry
// @Summary Get artisan by slug
// @Tags Artisan
// @Produce json
// @Param slug path string true "artisan slug"
// @Success 200 {object} dto.ArtisanInfo
// @Failure 404 {object} map[string]interface{}
// @Router /artisans/slug/{slug} [get]
func (c *ArtisanController) GetBySlug(ctx *gin.Context) {
	artisan, err := c.artisanSvc.GetBySlug(ctx.Request.Context(), ctx.Param("slug"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"code": 404, "message": "artisan not found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"code": 0, "data": service.ToArtisanInfo(artisan)})
}

// UpdateStatus moderation hook
// @Summary Update artisan status
// @Tags Artisan
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "artisan id"
// @Param request body dto.UpdateStatusRequest true "new status"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /artisans/{id}/status [put]
func (c *ArtisanController) UpdateStatus(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "invalid artisan id"})
		return
	}

	var req dto.UpdateStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "invalid request body: " + err.Error()})
		return
	}

	err = c.artisanSvc.UpdateStatus(ctx.Request.Context(), id, model.ArtisanStatus(req.Status))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"code": 404, "message": "artisan not found"})
			return
		}
		respondPipelineError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"code": 0, "message": "status updated"})
}

// Delete removes an entry and its owned sub-records
// @Summary Delete artisan
// @Tags Artisan
// @Produce json
// @Security BearerAuth
// @Param id path int true "artisan id"
// @Success 200 {object} map[string]interface{}
// @Router /artisans/{id} [delete]
func (c *ArtisanController) Delete(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "invalid artisan id"})
		return
	}
	if err := c.artisanSvc.Delete(ctx.Request.Context(), id); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"code": 0, "message": "deleted"})
}

// respondPipelineError maps pipeline errors onto HTTP statuses. Validation
// responses carry the full violation list so callers fix everything at once.
func respondPipelineError(ctx *gin.Context, err error) {
	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "validation failed",
			"errors":  vErr.Violations,
		})
	case errors.Is(err, service.ErrSlugExhausted):
		ctx.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "identifier allocation exhausted"})
	default:
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"code": 503, "message": err.Error()})
	}
}
