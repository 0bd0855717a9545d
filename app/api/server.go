package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/neo-comb/app/metrics"
)

// NewServer creates a new HTTP server with all routes configured
func NewServer(handler *Handler) *gin.Engine {
	// Set Gin mode (can be controlled via GIN_MODE environment variable)
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// Middleware
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/health", "/metrics"},
		Formatter: func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
				param.ClientIP,
				param.TimeStamp.Format(time.RFC3339),
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.Latency,
				param.Request.UserAgent(),
				param.ErrorMessage,
			)
		},
	}))

	r.Use(gin.Recovery())
	r.Use(metrics.Middleware())

	// CORS middleware for the browser front end
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, X-Session-Token")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	setupRoutes(r, handler)

	return r
}

// NewHTTPServer wraps the router in an http.Server. Shutdown closes every
// dashboard first so open event streams end and their connections go idle.
func NewHTTPServer(addr string, handler *Handler) *http.Server {
	srv := &http.Server{
		Addr:        addr,
		Handler:     NewServer(handler),
		ReadTimeout: 30 * time.Second,
		// No WriteTimeout: event streams stay open.
		IdleTimeout: 120 * time.Second,
	}
	srv.RegisterOnShutdown(handler.registry.Close)
	return srv
}

// setupRoutes configures all the application routes
func setupRoutes(r *gin.Engine, handler *Handler) {
	r.GET("/health", handler.GetHealth)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	authGroup := r.Group("/api/auth")
	{
		authGroup.POST("/signin", handler.SignIn)
		authGroup.POST("/signup", handler.SignUp)
		authGroup.GET("/session", handler.Session)
		authGroup.POST("/signout", handler.requireSession(), handler.SignOut)
	}

	api := r.Group("/api")
	api.Use(handler.requireSession())
	{
		api.GET("/neos", handler.ListNEOs)
		api.GET("/neos.rss", handler.GetNEOsRSS)
		api.GET("/neos/:id", handler.GetNEO)

		api.PUT("/filters", handler.SetFilters)
		api.DELETE("/filters", handler.ClearFilters)
		api.GET("/presets", handler.ListPresets)
		api.POST("/presets/:name/apply", handler.ApplyPreset)

		api.POST("/feed/refresh", handler.RefreshFeed)
		api.POST("/feed/more", handler.LoadMore)
		api.POST("/feed/load", handler.LoadRange)

		api.GET("/selection", handler.GetSelection)
		api.POST("/selection/:id", handler.ToggleSelection)
		api.DELETE("/selection", handler.ClearSelection)
		api.GET("/compare", handler.Compare)

		api.DELETE("/error", handler.DismissError)
		api.GET("/events", handler.Events)
	}
	slog.Debug("API routes registered")

	// Root endpoint with basic information
	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service":     "NEO Comb",
			"version":     handler.version,
			"description": "Near-Earth Object dashboard backed by NASA NeoWs",
			"endpoints": map[string]string{
				"signin":    "/api/auth/signin (POST)",
				"signup":    "/api/auth/signup (POST)",
				"session":   "/api/auth/session",
				"listing":   "/api/neos (requires session token)",
				"detail":    "/api/neos/<id> (requires session token)",
				"rss":       "/api/neos.rss (requires session token)",
				"compare":   "/api/compare (requires session token)",
				"selection": "/api/selection (requires session token)",
				"events":    "/api/events (requires session token)",
				"health":    "/health",
				"metrics":   "/metrics",
			},
			"auth": map[string]interface{}{
				"header": "X-Session-Token or Authorization: Bearer <token>",
			},
		})
	})

	// Favicon handler (return 204 to avoid 404s)
	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(204)
	})

	r.NoRoute(handler.NotFound)
}
