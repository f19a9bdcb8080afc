package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fashion-studio/order"
)

func (h *Handler) CreateOrder(c *gin.Context) {
	var req order.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request")
		return
	}
	res, err := h.Orders.Create(c.Request.Context(), currentUser(c).ID, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) MyOrders(c *gin.Context) {
	orders, err := h.Orders.ListForUser(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// OrderQRCode serves the order tracking code as a PNG.
func (h *Handler) OrderQRCode(c *gin.Context) {
	o, err := h.Orders.Get(c.Request.Context(), c.Param("id"), currentUser(c).ID)
	if err != nil {
		fail(c, err)
		return
	}
	png, err := order.TrackingQR(o.OrderNumber)
	if err != nil {
		fail(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
