package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/adjamedev/transport-marketplace/internal/auth"
	"github.com/adjamedev/transport-marketplace/internal/db"
	"github.com/adjamedev/transport-marketplace/internal/models"
)

// CompanyHandler serves company registration, login and public profiles.
type CompanyHandler struct {
	companies db.CompanyCollection
	auth      *auth.Service
	uploadDir string
}

func NewCompanyHandler(companies db.CompanyCollection, authService *auth.Service, uploadDir string) *CompanyHandler {
	return &CompanyHandler{companies: companies, auth: authService, uploadDir: uploadDir}
}

// Register handles POST /api/companies/register. The body is multipart form
// data so the logo can ride along with the account fields.
func (h *CompanyHandler) Register(c *gin.Context) {
	companyName := strings.TrimSpace(c.PostForm("companyName"))
	city := strings.TrimSpace(c.PostForm("city"))
	phone := strings.TrimSpace(c.PostForm("phone"))
	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")
	ceoName := strings.TrimSpace(c.PostForm("ceoName"))

	if companyName == "" || city == "" || phone == "" || email == "" || password == "" || ceoName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Tous les champs sont requis"})
		return
	}

	exists, err := h.companies.ExistsEmailOrPhone(c.Request.Context(), email, phone)
	if err != nil {
		logrus.WithError(err).Error("company uniqueness check failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur interne serveur"})
		return
	}
	if exists {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Une compagnie avec cet email ou téléphone existe déjà"})
		return
	}

	hashed, err := h.auth.HashPassword(password)
	if err != nil {
		logrus.WithError(err).Error("password hashing failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur interne serveur"})
		return
	}

	company := models.Company{
		CompanyName:      companyName,
		CompanyType:      defaultString(c.PostForm("companyType"), models.DefaultCompanyType),
		Country:          defaultString(c.PostForm("country"), models.DefaultCountry),
		City:             city,
		Address:          strings.TrimSpace(c.PostForm("address")),
		Phone:            phone,
		Email:            email,
		Password:         hashed,
		CeoName:          ceoName,
		TransportLicense: strings.TrimSpace(c.PostForm("transportLicense")),
	}
	if year, err := strconv.Atoi(c.PostForm("yearFounded")); err == nil {
		company.YearFounded = year
	}

	if logoPath, ok := h.saveLogo(c); ok {
		company.Logo = logoPath
	}

	id, err := h.companies.Insert(c.Request.Context(), company)
	if err != nil {
		if db.IsDuplicateKey(err) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Téléphone ou Email déjà utilisé"})
			return
		}
		logrus.WithError(err).Error("company insert failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur interne serveur"})
		return
	}
	company.ID = id

	token, err := h.auth.GenerateCompanyToken(&company)
	if err != nil {
		logrus.WithError(err).Error("token generation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur interne serveur"})
		return
	}

	logrus.WithFields(logrus.Fields{"companyId": id.Hex(), "email": company.Email}).Info("company registered")
	c.JSON(http.StatusCreated, gin.H{
		"message": "Compagnie créée avec succès",
		"token":   token,
		"company": company.Summary(),
	})
}

// Login handles POST /api/companies/login.
func (h *CompanyHandler) Login(c *gin.Context) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Tous les champs sont requis"})
		return
	}
	if strings.TrimSpace(body.Email) == "" || body.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Tous les champs sont requis"})
		return
	}

	company, err := h.companies.FindByEmail(c.Request.Context(), body.Email)
	if err == db.ErrNotFound {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Email ou mot de passe incorrect"})
		return
	}
	if err != nil {
		logrus.WithError(err).Error("company lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur interne serveur"})
		return
	}

	if !h.auth.CheckPassword(body.Password, company.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Email ou mot de passe incorrect"})
		return
	}

	token, err := h.auth.GenerateCompanyToken(company)
	if err != nil {
		logrus.WithError(err).Error("token generation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur interne serveur"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Connexion réussie",
		"token":   token,
		"company": company.Summary(),
	})
}

// Profile handles GET /api/companies/profile/:id.
func (h *CompanyHandler) Profile(c *gin.Context) {
	company, err := h.companies.FindByID(c.Request.Context(), c.Param("id"))
	if err == db.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"message": "Compagnie non trouvée"})
		return
	}
	if err != nil {
		logrus.WithError(err).Error("company lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur interne serveur"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"company": company.Profile()})
}

// saveLogo stores an optional multipart logo under the upload directory and
// returns its public path. A missing file is not an error; a failed save is
// logged and the registration continues without a logo.
func (h *CompanyHandler) saveLogo(c *gin.Context) (string, bool) {
	file, err := c.FormFile("logo")
	if err != nil {
		return "", false
	}
	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		logrus.WithError(err).Warn("upload directory unavailable, skipping logo")
		return "", false
	}
	filename := fmt.Sprintf("%d%s", time.Now().UnixNano(), filepath.Ext(file.Filename))
	if err := c.SaveUploadedFile(file, filepath.Join(h.uploadDir, filename)); err != nil {
		logrus.WithError(err).Warn("logo save failed, continuing without it")
		return "", false
	}
	return "/uploads/" + filename, true
}

func defaultString(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}
