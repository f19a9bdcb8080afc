package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Notifications(c *gin.Context) {
	list, err := h.Notifier.List(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) UnreadCount(c *gin.Context) {
	n, err := h.Notifier.UnreadCount(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}

func (h *Handler) MarkNotificationRead(c *gin.Context) {
	if err := h.Notifier.MarkRead(c.Request.Context(), c.Param("id"), currentUser(c).ID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification updated"})
}

func (h *Handler) MarkAllNotificationsRead(c *gin.Context) {
	n, err := h.Notifier.MarkAllRead(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": n})
}

func (h *Handler) DeleteNotification(c *gin.Context) {
	if err := h.Notifier.Delete(c.Request.Context(), c.Param("id"), currentUser(c).ID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification deleted"})
}
