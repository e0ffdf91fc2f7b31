package api

import (
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	handlers "recipe_chatbot/internal/api"
)

// RegisterRoutes sets up middleware and the API endpoints.
func RegisterRoutes(router *gin.Engine, h *handlers.APIHandler, allowedOrigins []string) {
	router.Use(handlers.RequestID())
	router.Use(cors.New(corsConfig(allowedOrigins)))

	router.POST("/chat", h.Chat)

	// --- Simple Health Check ---
	router.GET("/health", h.Health)
}

func corsConfig(allowedOrigins []string) cors.Config {
	cfg := cors.DefaultConfig()
	if len(allowedOrigins) == 0 || slices.Contains(allowedOrigins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = allowedOrigins
	}
	cfg.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	cfg.AllowHeaders = append(cfg.AllowHeaders, handlers.RequestIDHeader)
	cfg.ExposeHeaders = []string{handlers.RequestIDHeader}
	cfg.MaxAge = 12 * time.Hour
	return cfg
}
