package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"fashion-studio/design"
)

func (h *Handler) PreviewDesign(c *gin.Context) {
	var req design.PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request")
		return
	}
	res, err := h.Studio.Preview(c.Request.Context(), currentUser(c).ID, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) SaveDesign(c *gin.Context) {
	var req design.SaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request")
		return
	}
	d, err := h.Studio.Save(c.Request.Context(), currentUser(c).ID, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handler) MyDesigns(c *gin.Context) {
	designs, err := h.Studio.ListForUser(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, designs)
}

func (h *Handler) DesignsQuota(c *gin.Context) {
	st, err := h.Quota.Status(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *Handler) ToggleFavorite(c *gin.Context) {
	fav, err := h.Studio.ToggleFavorite(c.Request.Context(), c.Param("id"), currentUser(c).ID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"is_favorite": fav})
}

func (h *Handler) DeleteDesign(c *gin.Context) {
	if err := h.Studio.Delete(c.Request.Context(), c.Param("id"), currentUser(c).ID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Design deleted"})
}

func (h *Handler) PublicShowcase(c *gin.Context) {
	designs, err := h.Showcase.Public(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, designs)
}

func (h *Handler) EnhancePrompt(c *gin.Context) {
	var body struct {
		Prompt       string `json:"prompt"`
		ClothingType string `json:"clothing_type"`
		Color        string `json:"color"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || strings.TrimSpace(body.Prompt) == "" {
		badRequest(c, "prompt is required")
		return
	}
	if body.ClothingType == "" {
		body.ClothingType = "shirt"
	}
	c.JSON(http.StatusOK, gin.H{
		"original_prompt": body.Prompt,
		"enhanced_prompt": h.Enhancer.Enhance(c.Request.Context(), body.Prompt, body.ClothingType, body.Color),
	})
}
