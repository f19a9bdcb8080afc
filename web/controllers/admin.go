package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fashion-studio/coupon"
	"fashion-studio/design"
	"fashion-studio/models"
	"fashion-studio/order"
	"fashion-studio/quota"
)

func (h *Handler) AdminStats(c *gin.Context) {
	st, err := order.DashboardStats(c.Request.Context(), h.Store)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *Handler) AdminOrders(c *gin.Context) {
	orders, err := h.Orders.ListAll(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) AdminUpdateOrderStatus(c *gin.Context) {
	var body struct {
		Status string `json:"status" form:"status"`
	}
	if err := c.ShouldBind(&body); err != nil {
		badRequest(c, "Invalid request")
		return
	}
	o, err := h.Orders.UpdateStatus(c.Request.Context(), c.Param("id"), body.Status)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

type adminUser struct {
	models.User
	Quota quota.Status `json:"quota"`
}

func (h *Handler) AdminUsers(c *gin.Context) {
	users, err := h.Store.ListUsers(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	out := make([]adminUser, 0, len(users))
	for _, u := range users {
		out = append(out, adminUser{User: u, Quota: quota.StatusOf(u)})
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) AdminSetDesignsLimit(c *gin.Context) {
	var body struct {
		DesignsLimit *int `json:"designs_limit"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.DesignsLimit == nil {
		badRequest(c, "designs_limit is required")
		return
	}
	st, err := h.Quota.SetLimit(c.Request.Context(), c.Param("id"), *body.DesignsLimit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *Handler) AdminAddDesignsLimit(c *gin.Context) {
	var body struct {
		Amount int `json:"amount"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "amount is required")
		return
	}
	st, err := h.Quota.AddToLimit(c.Request.Context(), c.Param("id"), body.Amount)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *Handler) AdminResetDesignsUsed(c *gin.Context) {
	st, err := h.Quota.Reset(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *Handler) AdminDesigns(c *gin.Context) {
	designs, err := h.Studio.ListAll(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, designs)
}

func (h *Handler) AdminDeleteDesign(c *gin.Context) {
	if err := h.Studio.AdminDelete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Design deleted"})
}

func (h *Handler) AdminCoupons(c *gin.Context) {
	coupons, err := h.Coupons.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, coupons)
}

func (h *Handler) AdminCreateCoupon(c *gin.Context) {
	var in coupon.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Invalid request")
		return
	}
	cp, err := h.Coupons.Create(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, cp)
}

func (h *Handler) AdminUpdateCoupon(c *gin.Context) {
	var in coupon.UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Invalid request")
		return
	}
	cp, err := h.Coupons.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cp)
}

func (h *Handler) AdminDeleteCoupon(c *gin.Context) {
	if err := h.Coupons.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Coupon deleted"})
}

func (h *Handler) AdminShowcase(c *gin.Context) {
	designs, err := h.Showcase.All(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, designs)
}

func (h *Handler) AdminCreateShowcase(c *gin.Context) {
	var in design.ShowcaseInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Invalid request")
		return
	}
	d, err := h.Showcase.Create(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

func (h *Handler) AdminUpdateShowcase(c *gin.Context) {
	var in design.ShowcaseInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Invalid request")
		return
	}
	d, err := h.Showcase.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handler) AdminDeleteShowcase(c *gin.Context) {
	if err := h.Showcase.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Showcase design deleted"})
}

func (h *Handler) AdminToggleFeatured(c *gin.Context) {
	featured, err := h.Showcase.ToggleFeatured(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"is_featured": featured})
}
