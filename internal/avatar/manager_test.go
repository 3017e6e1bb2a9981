package avatar

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"flicklist/internal/models"
	"flicklist/internal/repository"
)

func setupManager(t *testing.T) (*Manager, *repository.UserRepository, string) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Discard,
	})
	require.NoError(t, err)
	require.NoError(t, models.Migrate(db))

	users := repository.NewUserRepository(db)
	storageDir := t.TempDir()
	manager, err := NewManager(storageDir, users)
	require.NoError(t, err)
	return manager, users, storageDir
}

func createUser(t *testing.T, users *repository.UserRepository) *models.User {
	t.Helper()
	user, err := users.CreateOrGetUncredentialed(context.Background(), "alice")
	require.NoError(t, err)
	return user
}

func TestStoreWritesFileAndReturnsRelativePath(t *testing.T) {
	manager, users, storageDir := setupManager(t)
	user := createUser(t, users)

	relPath, err := manager.Store(user.ID, []byte("fake image"), ".jpg")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(relPath, "avatars/"))
	require.True(t, strings.HasSuffix(relPath, ".jpg"))

	data, err := os.ReadFile(filepath.Join(storageDir, filepath.FromSlash(relPath)))
	require.NoError(t, err)
	require.Equal(t, "fake image", string(data))

	// Store alone never touches the user row.
	found, err := users.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.Nil(t, found.AvatarURL)
}

func TestStoreCoercesDisallowedExtensions(t *testing.T) {
	manager, users, _ := setupManager(t)
	user := createUser(t, users)

	for _, ext := range []string{".exe", ".svg", "", "php", "../../etc/passwd"} {
		relPath, err := manager.Store(user.ID, []byte("x"), ext)
		require.NoError(t, err)
		require.True(t, strings.HasSuffix(relPath, ".png"), "ext %q should coerce to .png", ext)
	}

	for _, ext := range []string{".png", "jpg", ".JPEG", ".gif", ".webp"} {
		relPath, err := manager.Store(user.ID, []byte("x"), ext)
		require.NoError(t, err)
		require.False(t, strings.HasSuffix(relPath, ".png.png"))
		require.NotContains(t, relPath, "..")
	}
}

func TestReplaceUpdatesRowThenRemovesOldFile(t *testing.T) {
	manager, users, storageDir := setupManager(t)
	user := createUser(t, users)
	ctx := context.Background()

	first, err := manager.Replace(ctx, user.ID, []byte("first"), ".png")
	require.NoError(t, err)
	require.NotNil(t, first.AvatarURL)
	firstPath := filepath.Join(storageDir, filepath.FromSlash(*first.AvatarURL))
	_, err = os.Stat(firstPath)
	require.NoError(t, err)

	second, err := manager.Replace(ctx, user.ID, []byte("second"), ".png")
	require.NoError(t, err)
	require.NotNil(t, second.AvatarURL)
	require.NotEqual(t, *first.AvatarURL, *second.AvatarURL)

	// Old file reclaimed, new one present, row points at the new one.
	_, err = os.Stat(firstPath)
	require.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(storageDir, filepath.FromSlash(*second.AvatarURL)))
	require.NoError(t, err)

	found, err := users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, *second.AvatarURL, *found.AvatarURL)
}

func TestClearNullsRowThenRemovesFile(t *testing.T) {
	manager, users, storageDir := setupManager(t)
	user := createUser(t, users)
	ctx := context.Background()

	stored, err := manager.Replace(ctx, user.ID, []byte("image"), ".png")
	require.NoError(t, err)
	storedPath := filepath.Join(storageDir, filepath.FromSlash(*stored.AvatarURL))

	cleared, err := manager.Clear(ctx, user.ID)
	require.NoError(t, err)
	require.Nil(t, cleared.AvatarURL)

	_, err = os.Stat(storedPath)
	require.True(t, os.IsNotExist(err))
}

func TestClearWithoutAvatarIsANoop(t *testing.T) {
	manager, users, _ := setupManager(t)
	user := createUser(t, users)

	cleared, err := manager.Clear(context.Background(), user.ID)
	require.NoError(t, err)
	require.Nil(t, cleared.AvatarURL)
}

func TestRemoveToleratesMissingFile(t *testing.T) {
	manager, _, _ := setupManager(t)

	// Must not panic or surface anything.
	manager.Remove("avatars/never_existed.png")
	manager.Remove("")
}
