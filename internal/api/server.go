package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"flicklist/internal/account"
	"flicklist/internal/auth"
	"flicklist/internal/avatar"
	"flicklist/internal/repository"
)

// Server wraps the REST API server
type Server struct {
	handler *Handler
	router  *gin.Engine
}

// NewServer creates a new API server
func NewServer(db *gorm.DB, tokens *auth.TokenService, avatars *avatar.Manager) *Server {
	users := repository.NewUserRepository(db)
	watchlist := repository.NewWatchlistRepository(db)
	deleter := account.NewDeleter(db, avatars)
	handler := NewHandler(users, watchlist, avatars, deleter, tokens)

	// gin.New() instead of gin.Default(): request logging goes through
	// the request-id middleware instead of gin's own logger.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	api := router.Group("/api/v1")
	{
		// Public auth endpoints (no authentication required)
		api.POST("/auth/signup", handler.Signup)
		api.POST("/auth/login", handler.Login)
		api.POST("/auth/guest", handler.Guest)

		// Protected endpoints (require authentication)
		protected := api.Group("")
		protected.Use(AuthMiddleware(tokens))
		{
			protected.GET("/auth/me", handler.GetCurrentUser)

			// Profile
			protected.PATCH("/users/me", handler.UpdateProfile)
			protected.POST("/users/me/avatar", handler.UploadAvatar)
			protected.DELETE("/users/me/avatar", handler.ClearAvatar)
			protected.DELETE("/users/me", handler.DeleteAccount)

			// Watchlist
			protected.GET("/watchlist", handler.ListWatchlist)
			protected.POST("/watchlist", handler.AddToWatchlist)
			protected.DELETE("/watchlist/:movieId", handler.RemoveFromWatchlist)
		}
	}

	// Avatar files under their public prefix - must be last
	ServeAvatarFiles(router, avatars)

	return &Server{
		handler: handler,
		router:  router,
	}
}

// GetRouter returns the router
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
