package router

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/adjamedev/transport-marketplace/internal/auth"
	"github.com/adjamedev/transport-marketplace/internal/handlers"
	"github.com/adjamedev/transport-marketplace/internal/middleware"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Companies      *handlers.CompanyHandler
	Routes         *handlers.RouteHandler
	EnhancedRoutes *handlers.EnhancedRouteHandler
	Vehicles       *handlers.VehicleHandler
	Schedules      *handlers.ScheduleHandler
	Auth           *handlers.AuthHandler
	SEO            *handlers.SEOHandler
}

// Options carries the non-handler wiring of the router.
type Options struct {
	AuthService *auth.Service
	UploadDir   string
	ClientDist  string
}

// New assembles the gin engine: middleware, API routes, uploaded assets and
// the single-page client fallback.
func New(h Handlers, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	r.Use(cors.New(corsConfig))

	r.Static("/uploads", opts.UploadDir)

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "API opérationnelle"})
	})

	requireCompany := middleware.RequireCompany(opts.AuthService)

	api := r.Group("/api")
	{
		companies := api.Group("/companies")
		{
			companies.POST("/register", h.Companies.Register)
			companies.POST("/login", h.Companies.Login)
			companies.GET("/profile/:id", h.Companies.Profile)
		}

		routes := api.Group("/routes")
		{
			routes.GET("", h.Routes.List)
			routes.GET("/company/:companyId", h.Routes.ListByCompany)
			routes.POST("", requireCompany, h.Routes.Create)
			routes.PUT("/:id", requireCompany, h.Routes.Update)
			routes.DELETE("/:id", requireCompany, h.Routes.Delete)
		}

		enhanced := api.Group("/enhanced-routes")
		{
			enhanced.GET("/comparison/:departure/:arrival", h.EnhancedRoutes.Comparison)
			enhanced.POST("", requireCompany, h.EnhancedRoutes.Create)
		}

		vehicles := api.Group("/vehicles")
		{
			vehicles.GET("", h.Vehicles.List)
			vehicles.POST("", requireCompany, h.Vehicles.Create)
		}

		schedules := api.Group("/schedules")
		{
			schedules.GET("", h.Schedules.List)
			schedules.POST("", requireCompany, h.Schedules.Create)
		}

		api.POST("/auth/signup", h.Auth.Signup)

		api.POST("/seo/generate-seo", h.SEO.Generate)
	}

	r.NoRoute(spaFallback(opts.ClientDist))

	return r
}

// spaFallback serves the built client for any non-API GET, handing unknown
// paths to index.html so client-side routing works on refresh.
func spaFallback(clientDist string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet || strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, gin.H{"message": "Ressource non trouvée"})
			return
		}

		requested := filepath.Join(clientDist, filepath.Clean("/"+c.Request.URL.Path))
		if info, err := os.Stat(requested); err == nil && !info.IsDir() {
			c.File(requested)
			return
		}

		index := filepath.Join(clientDist, "index.html")
		if _, err := os.Stat(index); err == nil {
			c.File(index)
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"message": "Ressource non trouvée"})
	}
}
