package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"annuaire_artisans/internal/model"
	"annuaire_artisans/internal/service"
)

// ==================== TaxonomyController ====================

// TaxonomyController exposes taxonomy listings for form autocomplete.
type TaxonomyController struct {
	taxonomySvc *service.TaxonomyService
}

// NewTaxonomyController creates the taxonomy controller.
func NewTaxonomyController(taxonomySvc *service.TaxonomyService) *TaxonomyController {
	return &TaxonomyController{taxonomySvc: taxonomySvc}
}

// List returns all terms of a kind
// @Summary List taxonomy terms
// @Tags Taxonomy
// @Produce json
// @Param kind path string true "profession or zone"
// @Success 200 {array} model.TaxonomyTerm
// @Failure 400 {object} map[string]interface{}
// @Router /taxonomy/{kind} [get]
func (c *TaxonomyController) List(ctx *gin.Context) {
	kind := model.TaxonomyKind(ctx.Param("kind"))

	terms, err := c.taxonomySvc.List(ctx.Request.Context(), kind)
	if err != nil {
		if errors.Is(err, service.ErrUnknownKind) {
			ctx.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"code": 0, "data": terms})
}
