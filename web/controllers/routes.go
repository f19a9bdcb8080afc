package controllers

import (
	"github.com/gin-gonic/gin"

	"fashion-studio/web/middleware"
)

// Mount registers every route under r. limit, when non-nil, guards the
// endpoints that are expensive or abusable.
func (h *Handler) Mount(r gin.IRouter, limit gin.HandlerFunc) {
	guard := []gin.HandlerFunc{}
	if limit != nil {
		guard = append(guard, limit)
	}
	auth := middleware.RequireAuth(h.Store, h.Secret)

	r.GET("/health", h.Health)

	api := r.Group("/api")
	api.GET("/templates", h.Templates)
	api.GET("/size-chart", h.SizeChart)
	api.GET("/color-palettes", h.ColorPalettes)
	api.POST("/calculate-price", h.CalculatePrice)
	api.GET("/designs/showcase", h.PublicShowcase)
	api.POST("/auth/register", append(guard, h.Register)...)
	api.POST("/auth/login", append(guard, h.Login)...)

	user := api.Group("", auth)
	user.GET("/auth/me", h.Me)
	user.PUT("/user/measurements", h.UpdateMeasurements)
	user.GET("/user/designs", h.MyDesigns)
	user.GET("/user/designs-quota", h.DesignsQuota)
	user.POST("/prompt/enhance", append(guard, h.EnhancePrompt)...)

	user.POST("/designs/preview", append(guard, h.PreviewDesign)...)
	user.POST("/designs/save", h.SaveDesign)
	user.PUT("/designs/:id/favorite", h.ToggleFavorite)
	user.DELETE("/designs/:id", h.DeleteDesign)

	user.POST("/orders/create", append(guard, h.CreateOrder)...)
	user.GET("/orders", h.MyOrders)
	user.GET("/orders/:id/qrcode", h.OrderQRCode)

	user.GET("/coupons", h.AvailableCoupons)
	user.POST("/coupons/validate", append(guard, h.ValidateCoupon)...)

	user.GET("/notifications", h.Notifications)
	user.GET("/notifications/unread-count", h.UnreadCount)
	user.PUT("/notifications/:id/read", h.MarkNotificationRead)
	user.PUT("/notifications/mark-all-read", h.MarkAllNotificationsRead)
	user.DELETE("/notifications/:id", h.DeleteNotification)

	admin := api.Group("/admin", auth, middleware.AdminAuth)
	admin.GET("/stats", h.AdminStats)
	admin.GET("/orders", h.AdminOrders)
	admin.PUT("/orders/:id/status", h.AdminUpdateOrderStatus)
	admin.GET("/users", h.AdminUsers)
	admin.PUT("/users/:id/designs-limit", h.AdminSetDesignsLimit)
	admin.POST("/users/:id/designs-limit/add", h.AdminAddDesignsLimit)
	admin.POST("/users/:id/designs-used/reset", h.AdminResetDesignsUsed)
	admin.GET("/designs", h.AdminDesigns)
	admin.DELETE("/designs/:id", h.AdminDeleteDesign)
	admin.GET("/coupons", h.AdminCoupons)
	admin.POST("/coupons", h.AdminCreateCoupon)
	admin.PUT("/coupons/:id", h.AdminUpdateCoupon)
	admin.DELETE("/coupons/:id", h.AdminDeleteCoupon)
	admin.GET("/showcase-designs", h.AdminShowcase)
	admin.POST("/showcase-designs", h.AdminCreateShowcase)
	admin.PUT("/showcase-designs/:id", h.AdminUpdateShowcase)
	admin.DELETE("/showcase-designs/:id", h.AdminDeleteShowcase)
	admin.PUT("/showcase-designs/:id/toggle-featured", h.AdminToggleFeatured)
}
