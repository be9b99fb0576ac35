package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/adjamedev/transport-marketplace/internal/auth"
	"github.com/adjamedev/transport-marketplace/internal/db"
	"github.com/adjamedev/transport-marketplace/internal/models"
)

// AuthHandler serves the legacy user signup flow. It predates company
// accounts and only issues a token; nothing else in the API consumes it.
type AuthHandler struct {
	users db.UserCollection
	auth  *auth.Service
}

func NewAuthHandler(users db.UserCollection, authService *auth.Service) *AuthHandler {
	return &AuthHandler{users: users, auth: authService}
}

// Signup handles POST /api/auth/signup.
func (h *AuthHandler) Signup(c *gin.Context) {
	var body struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Tous les champs sont requis"})
		return
	}

	body.Name = strings.TrimSpace(body.Name)
	body.Email = strings.TrimSpace(body.Email)
	if body.Name == "" || body.Email == "" || body.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Tous les champs sont requis"})
		return
	}

	_, err := h.users.FindUserByEmail(c.Request.Context(), body.Email)
	if err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email déjà utilisé"})
		return
	}
	if err != db.ErrNotFound {
		logrus.WithError(err).Error("user lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur interne serveur"})
		return
	}

	hashed, err := h.auth.HashPassword(body.Password)
	if err != nil {
		logrus.WithError(err).Error("password hashing failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur interne serveur"})
		return
	}

	user := models.User{
		Name:     body.Name,
		Email:    body.Email,
		Password: hashed,
		Role:     models.DefaultUserRole,
	}
	id, err := h.users.InsertUser(c.Request.Context(), user)
	if err != nil {
		if db.IsDuplicateKey(err) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Email déjà utilisé"})
			return
		}
		logrus.WithError(err).Error("user insert failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur interne serveur"})
		return
	}
	user.ID = id

	token, err := h.auth.GenerateUserToken(&user)
	if err != nil {
		logrus.WithError(err).Error("token generation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur interne serveur"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"token": token})
}
