package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"fashion-studio/apperr"
	"fashion-studio/models"
	"fashion-studio/quota"
	"fashion-studio/web/middleware"
)

const bcryptCost = 10

type tokenResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        models.User `json:"user"`
}

func (h *Handler) respondToken(c *gin.Context, status int, u models.User) {
	token, err := middleware.IssueToken(u.ID, h.Secret, h.TokenTTL)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(status, tokenResponse{AccessToken: token, TokenType: "bearer", User: u})
}

func (h *Handler) Register(c *gin.Context) {
	var body struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if c.ShouldBindJSON(&body) != nil {
		badRequest(c, "Failed to read body")
		return
	}
	body.Username = strings.TrimSpace(body.Username)
	body.Email = strings.ToLower(strings.TrimSpace(body.Email))
	if body.Username == "" || body.Email == "" || body.Password == "" {
		badRequest(c, "username, email and password are required")
		return
	}

	ctx := c.Request.Context()
	if _, err := h.Store.GetUserByUsername(ctx, body.Username); err == nil {
		badRequest(c, "Username already taken")
		return
	} else if !apperr.Is(err, apperr.KindNotFound) {
		fail(c, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcryptCost)
	if err != nil {
		badRequest(c, "Failed to hash password.")
		return
	}

	now := time.Now().UTC()
	user := models.User{
		ID:           uuid.New().String(),
		Username:     body.Username,
		Email:        body.Email,
		Password:     string(hash),
		DesignsLimit: models.DefaultDesignsLimit,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := h.Store.CreateUser(ctx, &user); err != nil {
		if apperr.Is(err, apperr.KindConflict) {
			badRequest(c, "Email already registered")
			return
		}
		fail(c, err)
		return
	}

	h.respondToken(c, http.StatusOK, user)
}

func (h *Handler) Login(c *gin.Context) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if c.ShouldBindJSON(&body) != nil {
		badRequest(c, "Failed to read body")
		return
	}

	user, err := h.Store.GetUserByUsername(c.Request.Context(), strings.TrimSpace(body.Username))
	if err != nil && !apperr.Is(err, apperr.KindNotFound) {
		fail(c, err)
		return
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(body.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}

	h.respondToken(c, http.StatusOK, *user)
}

func (h *Handler) Me(c *gin.Context) {
	u := currentUser(c)
	c.JSON(http.StatusOK, gin.H{
		"user":  u,
		"quota": quota.StatusOf(u),
	})
}

func (h *Handler) UpdateMeasurements(c *gin.Context) {
	var m models.Measurements
	if err := c.ShouldBindJSON(&m); err != nil {
		badRequest(c, "Invalid measurements")
		return
	}
	if m.Chest < 0 || m.Waist < 0 || m.Hips < 0 || m.Height < 0 || m.Weight < 0 {
		badRequest(c, "Measurements must not be negative")
		return
	}

	u := currentUser(c)
	if err := h.Store.UpdateMeasurements(c.Request.Context(), u.ID, m); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":        "Measurements saved",
		"suggested_size": h.Catalog.SuggestSize(m.Chest),
		"measurements":   m,
	})
}
