package api

import (
	"github.com/gin-gonic/gin"

	"flicklist/internal/avatar"
)

// ServeAvatarFiles exposes stored avatar images under the public
// /avatars prefix. The mapping is path-based only; the database column
// stays the authoritative reference.
func ServeAvatarFiles(router *gin.Engine, avatars *avatar.Manager) {
	router.Static("/avatars", avatars.Dir())
}
