package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Templates(c *gin.Context) {
	c.JSON(http.StatusOK, h.Catalog.Templates())
}

func (h *Handler) SizeChart(c *gin.Context) {
	c.JSON(http.StatusOK, h.Catalog.Sizes())
}

func (h *Handler) ColorPalettes(c *gin.Context) {
	c.JSON(http.StatusOK, h.Catalog.ColorPalettes())
}

// CalculatePrice never fails on unknown templates or sizes; it prices them with fallbacks.
func (h *Handler) CalculatePrice(c *gin.Context) {
	var body struct {
		TemplateID        string `json:"template_id" form:"template_id"`
		Size              string `json:"size" form:"size"`
		HasCustomElements bool   `json:"has_custom_elements" form:"has_custom_elements"`
	}
	if err := c.ShouldBind(&body); err != nil {
		badRequest(c, "Invalid request")
		return
	}
	c.JSON(http.StatusOK, h.Pricing.Calculate(body.TemplateID, body.Size, body.HasCustomElements))
}
