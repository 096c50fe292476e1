package controller

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"annuaire_artisans/internal/api/dto"
	"annuaire_artisans/internal/service"
)

// ==================== PhotoController ====================

// 10 MB is plenty for a profile or work photo.
const maxPhotoSize = 10 << 20

// PhotoController exposes the storage collaborator's upload entry point.
// The pipeline itself only ever stores the returned {id, url} reference.
type PhotoController struct {
	storage service.StorageProvider
}

// NewPhotoController creates the photo controller.
func NewPhotoController(storage service.StorageProvider) *PhotoController {
	return &PhotoController{storage: storage}
}

// Upload stores a photo binary
// @Summary Upload a photo
// @Tags Photo
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "photo"
// @Success 200 {object} dto.PhotoUploadResponse
// @Failure 400 {object} map[string]interface{}
// @Router /photos [post]
func (c *PhotoController) Upload(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "missing file: " + err.Error()})
		return
	}
	if fileHeader.Size > maxPhotoSize {
		ctx.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "file too large"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "cannot open file: " + err.Error()})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxPhotoSize))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "cannot read file: " + err.Error()})
		return
	}

	ref, err := c.storage.Upload(ctx.Request.Context(), data, fileHeader.Filename, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"code": 0, "data": dto.PhotoUploadResponse{ID: ref.ID, URL: ref.URL}})
}
