package server

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/feedlite/feedlite/internal/handlers"
	"github.com/feedlite/feedlite/internal/middleware"
	"github.com/feedlite/feedlite/internal/store"
)

type Server struct {
	handler *handlers.Handler
	health  func() map[string]string
}

// New configures an HTTP server over the given feed store. health reports
// the backend's status; pass nil for backends with nothing to report.
func New(st store.Store, health func() map[string]string) *http.Server {
	if health == nil {
		health = func() map[string]string {
			return map[string]string{"status": "up"}
		}
	}

	s := &Server{
		handler: handlers.NewHandler(st),
		health:  health,
	}

	router := s.RegisterRoutes()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080" // local dev fallback
	}

	server := &http.Server{
		Addr:         "0.0.0.0:" + port,
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Printf("🚀 Server starting on port %s\n", port)

	return server
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	r := gin.Default()

	// CORS configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.health())
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		api.POST("/register", s.handler.Auth.Register)
		api.POST("/login", s.handler.Auth.Login)

		// Public reads; a valid token identifies the viewer for
		// reaction annotation
		reads := api.Group("")
		reads.Use(middleware.OptionalAuthMiddleware())
		{
			reads.GET("/posts", s.handler.Post.GetPosts)
			reads.GET("/posts/:id/comments", s.handler.Comment.GetComments)
		}

		// Protected routes (authentication required)
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.GET("/me", s.handler.Auth.GetMe)

			protected.POST("/posts", s.handler.Post.CreatePost)
			protected.PUT("/posts/:id", s.handler.Post.UpdatePost)
			protected.DELETE("/posts/:id", s.handler.Post.DeletePost)
			protected.POST("/posts/:id/reactions", s.handler.Post.ReactToPost)

			protected.POST("/posts/:id/comments", s.handler.Comment.CreateComment)
		}
	}

	return r
}
