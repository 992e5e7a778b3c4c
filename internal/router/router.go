package router

import (
	"net/http"

	"github.com/arch-spatula/jmc/config"
	"github.com/arch-spatula/jmc/internal/app/controller"
	"github.com/arch-spatula/jmc/internal/middleware"
	"github.com/gin-gonic/gin"
)

type Router struct {
	restaurantController *controller.RestaurantController
	authController       *controller.AuthController
	editorController     *controller.EditorController
	authMiddleware       *middleware.AuthMiddleware
	config               *config.Config
}

func NewRouter(
	restaurantController *controller.RestaurantController,
	authController *controller.AuthController,
	editorController *controller.EditorController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		restaurantController: restaurantController,
		authController:       authController,
		editorController:     editorController,
		authMiddleware:       authMiddleware,
		config:               cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "JMC API is running",
		})
	})

	// 빌드된 편집기 화면
	if dir := r.config.Server.StaticDir; dir != "" {
		router.Static("/app", dir)
		router.GET("/", func(c *gin.Context) {
			c.Redirect(http.StatusFound, "/app/")
		})
	}

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.GET("/status", r.authController.Status)
			auth.POST("/login", r.authController.Login)
		}

		restaurants := api.Group("/restaurants")
		{
			restaurants.GET("", r.restaurantController.GetAll)
			restaurants.GET("/recommend", r.restaurantController.Recommend)
			restaurants.GET("/export", r.restaurantController.Export)

			editable := restaurants.Group("")
			editable.Use(r.authMiddleware.RequireEditor())
			{
				editable.POST("", r.restaurantController.Create)
				editable.POST("/save", r.restaurantController.Save)
				editable.PUT("/:name", r.restaurantController.Update)
				editable.DELETE("/:name", r.restaurantController.Delete)
			}
		}
	}

	router.GET("/ws/editor", r.authMiddleware.RequireEditor(), r.editorController.Connect)

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Authorization, Accept, Origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
