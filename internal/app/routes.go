package app

import (
	"medreport/internal/auth"
	"medreport/internal/cache"
	"medreport/internal/config"
	"medreport/internal/handlers"
	"medreport/internal/repo"
	"medreport/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"
)

// Setup registers all routes on the given engine.
func Setup(r *gin.Engine, cfg config.Config, db *pgxpool.Pool, rdb *redis.Client) {
	r.GET("/", rootHandler(cfg))
	r.GET("/health", healthHandler(cfg))
	r.GET("/version", versionHandler(cfg))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(302, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
		ginSwagger.PersistAuthorization(true),
	))

	api := r.Group("/api")

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL.Duration())
	google := auth.NewIDTokenVerifier(cfg.Auth.GoogleClientID)
	userRepo := repo.NewPGUserRepo(db)
	authSvc := service.NewAuthService(userRepo, tokens, google, cfg.Auth.BcryptCost)
	registerAuthRoutes(api, handlers.NewAuthHandler(authSvc))

	protected := api.Group("", auth.RequireToken(tokens))
	registerUserRoutes(protected, handlers.NewUserHandler(authSvc))

	var dashCache *cache.DashboardCache
	if rdb != nil {
		dashCache = cache.NewDashboardCache(rdb, cfg.Redis.DefaultTTL.Duration())
	}
	dashSvc := service.NewDashboardService(dashCache)
	registerDashboardRoutes(protected, handlers.NewDashboardHandler(dashSvc))
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service": "Medical Report Explainer API",
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
			"docs":    "/swagger/index.html",
			"spec":    "/swagger-doc.json",
			"health":  "/health",
			"api":     "/api",
		})
	}
}

func healthHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true, "env": cfg.App.Env})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.Data(200, "application/json; charset=utf-8", []byte(doc))
	}
}

func registerAuthRoutes(api *gin.RouterGroup, h *handlers.AuthHandler) {
	api.POST("/auth/signup", h.Signup)
	api.POST("/auth/login", h.Login)
	api.POST("/auth/google", h.GoogleLogin)
}

func registerUserRoutes(api *gin.RouterGroup, h *handlers.UserHandler) {
	api.GET("/user/profile", h.GetProfile)
	api.PUT("/user/profile", h.UpdateProfile)
	api.PUT("/user/password", h.ChangePassword)
	api.PUT("/user/connect-google", h.ConnectGoogle)
}

func registerDashboardRoutes(api *gin.RouterGroup, h *handlers.DashboardHandler) {
	api.GET("/dashboard/data", h.Get)
}
