package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fashion-studio/apperr"
	"fashion-studio/catalog"
	"fashion-studio/coupon"
	"fashion-studio/design"
	"fashion-studio/log"
	"fashion-studio/models"
	"fashion-studio/notify"
	"fashion-studio/order"
	"fashion-studio/pricing"
	"fashion-studio/quota"
	"fashion-studio/store"
	"fashion-studio/web/middleware"
)

type PromptEnhancer interface {
	Enhance(ctx context.Context, prompt, clothingType, color string) string
}

// Handler holds everything the HTTP layer needs.
type Handler struct {
	Store     store.Store
	Catalog   *catalog.Catalog
	Pricing   *pricing.Calculator
	Coupons   *coupon.Service
	Quota     *quota.Tracker
	Studio    *design.Studio
	Showcase  *design.Showcase
	Orders    *order.Assembler
	Notifier  *notify.Notifier
	Enhancer  PromptEnhancer
	Secret    string
	TokenTTL  time.Duration
	StartedAt time.Time
}

// fail writes err as {"error": message} with the status its kind maps to.
func fail(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.L().Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	c.JSON(status, gin.H{"error": apperr.Message(err)})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

func currentUser(c *gin.Context) models.User {
	u, _ := middleware.CurrentUser(c)
	return u
}
