package avatar

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"flicklist/internal/models"
	"flicklist/internal/repository"
)

// allowedExtensions is the set of file extensions an upload may keep.
// Anything else is coerced to .png so client input never decides what
// lands on disk.
var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

// Manager owns the avatar directory and the binding between stored
// files and the users.avatar_url column. The column is authoritative:
// it is always updated before an old file is removed, so a crash leaves
// at worst an orphaned file, never a dangling reference.
type Manager struct {
	basePath string
	users    *repository.UserRepository
}

// NewManager creates the avatar directory if needed.
func NewManager(basePath string, users *repository.UserRepository) (*Manager, error) {
	if err := os.MkdirAll(filepath.Join(basePath, "avatars"), 0755); err != nil {
		return nil, fmt.Errorf("failed to create avatar directory: %w", err)
	}
	return &Manager{basePath: basePath, users: users}, nil
}

// Dir returns the directory avatar files are written to, for static
// serving under the public prefix.
func (m *Manager) Dir() string {
	return filepath.Join(m.basePath, "avatars")
}

// Store writes an uploaded avatar to disk and returns its relative
// path. It does not touch the user row; callers sequence that.
func (m *Manager) Store(userID uint, data []byte, ext string) (string, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	if !allowedExtensions[ext] {
		ext = ".png"
	}

	name := fmt.Sprintf("%d_%d%s", userID, time.Now().UnixNano(), ext)
	if err := os.WriteFile(filepath.Join(m.basePath, "avatars", name), data, 0644); err != nil {
		return "", fmt.Errorf("failed to write avatar file: %w", err)
	}
	return "avatars/" + name, nil
}

// Replace stores a new avatar, repoints the user row at it, then
// removes the previous file best-effort.
func (m *Manager) Replace(ctx context.Context, userID uint, data []byte, ext string) (*models.User, error) {
	current, err := m.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	old := current.AvatarURL

	relPath, err := m.Store(userID, data, ext)
	if err != nil {
		return nil, err
	}

	user, err := m.users.SetAvatarURL(ctx, userID, &relPath)
	if err != nil {
		return nil, err
	}

	if old != nil {
		m.Remove(*old)
	}
	return user, nil
}

// Clear nulls the avatar column, then removes the old file best-effort.
func (m *Manager) Clear(ctx context.Context, userID uint) (*models.User, error) {
	current, err := m.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	old := current.AvatarURL

	user, err := m.users.SetAvatarURL(ctx, userID, nil)
	if err != nil {
		return nil, err
	}

	if old != nil {
		m.Remove(*old)
	}
	return user, nil
}

// Remove unlinks a stored avatar by its relative path. Failures are
// logged and discarded: the database row is already correct, and an
// orphaned file is an acceptable cost.
func (m *Manager) Remove(relPath string) {
	if relPath == "" {
		return
	}
	fullPath := filepath.Join(m.basePath, filepath.FromSlash(relPath))
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		logrus.WithError(err).WithField("path", relPath).
			Warn("could not remove avatar file")
	}
}
