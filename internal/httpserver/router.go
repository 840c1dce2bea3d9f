package httpserver

import (
	"io"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
)

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, deps Deps) (*gin.Engine, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if deps.Sessions == nil {
		return nil, errors.New("cart sessions required")
	}

	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	if len(deps.AllowedOrigins) > 0 {
		corsMiddleware, err := buildCORS(deps.AllowedOrigins)
		if err != nil {
			return nil, err
		}
		router.Use(corsMiddleware)
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(deps.Storage))

	h := &cartHandlers{sessions: deps.Sessions, logger: logger, secureCookie: deps.SecureCookie}
	router.POST("/sessions", h.createSession)

	carts := router.Group("/cart", sessionMiddleware(deps.Sessions, deps.SecureCookie))
	carts.GET("", h.getCart)
	carts.DELETE("", h.clear)
	carts.GET("/count", h.count)
	carts.DELETE("/session", h.forgetSession)
	carts.POST("/items", h.addItem)
	carts.PUT("/items/:index", h.setQuantity)
	carts.DELETE("/items/:index", h.removeItem)
	carts.POST("/items/:index/increase", h.increase)
	carts.POST("/items/:index/decrease", h.decrease)

	return router, nil
}

func buildCORS(origins []string) (gin.HandlerFunc, error) {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", sessionHeader},
		ExposeHeaders:    []string{sessionHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 1 && origins[0] == "*" {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	} else {
		cfg.AllowOrigins = origins
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "cors config")
	}
	return cors.New(cfg), nil
}
