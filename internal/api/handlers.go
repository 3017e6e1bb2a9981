package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"flicklist/internal/account"
	"flicklist/internal/auth"
	"flicklist/internal/avatar"
	"flicklist/internal/repository"
)

// Handler contains API handlers
type Handler struct {
	users     *repository.UserRepository
	watchlist *repository.WatchlistRepository
	avatars   *avatar.Manager
	deleter   *account.Deleter
	tokens    *auth.TokenService
}

// NewHandler creates a new API handler
func NewHandler(
	users *repository.UserRepository,
	watchlist *repository.WatchlistRepository,
	avatars *avatar.Manager,
	deleter *account.Deleter,
	tokens *auth.TokenService,
) *Handler {
	return &Handler{
		users:     users,
		watchlist: watchlist,
		avatars:   avatars,
		deleter:   deleter,
		tokens:    tokens,
	}
}

// handleError maps repository and auth errors onto HTTP responses.
// Validation and conflict failures carry enough detail to correct the
// input; everything unexpected is generic to the client and detailed
// only in server logs.
func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
	case errors.Is(err, repository.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "username already exists"})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, auth.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	default:
		logrus.WithError(err).Error("unhandled storage error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
