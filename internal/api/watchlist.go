package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AddWatchlistRequest represents saving one movie
type AddWatchlistRequest struct {
	MovieID string `json:"movieId" binding:"required"`
	Title   string `json:"title"`
	Poster  string `json:"poster"`
}

// AddToWatchlist saves a movie for the authenticated user. Saving the
// same movie twice reports alreadySaved instead of duplicating.
func (h *Handler) AddToWatchlist(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req AddWatchlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "movieId is required"})
		return
	}

	entry, alreadySaved, err := h.watchlist.Add(c.Request.Context(), userID, req.MovieID, req.Title, req.Poster)
	if err != nil {
		handleError(c, err)
		return
	}

	status := http.StatusCreated
	if alreadySaved {
		status = http.StatusOK
	}
	c.JSON(status, gin.H{"entry": entry, "alreadySaved": alreadySaved})
}

// ListWatchlist returns the authenticated user's saved movies,
// most recently saved first
func (h *Handler) ListWatchlist(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	entries, err := h.watchlist.ListForUser(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": entries})
}

// RemoveFromWatchlist deletes one saved movie
func (h *Handler) RemoveFromWatchlist(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	deleted, err := h.watchlist.Remove(c.Request.Context(), userID, c.Param("movieId"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}
