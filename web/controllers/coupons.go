package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) AvailableCoupons(c *gin.Context) {
	coupons, err := h.Coupons.Available(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, coupons)
}

// ValidateCoupon accepts the code as JSON body or as the "code" query parameter.
func (h *Handler) ValidateCoupon(c *gin.Context) {
	var body struct {
		Code string `json:"code"`
	}
	_ = c.ShouldBindJSON(&body)
	if body.Code == "" {
		body.Code = c.Query("code")
	}
	if body.Code == "" {
		badRequest(c, "code is required")
		return
	}

	res, err := h.Coupons.Validator.Validate(c.Request.Context(), body.Code)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
